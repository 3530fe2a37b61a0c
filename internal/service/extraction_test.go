package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/dishlingo/internal/domain"
)

const twoDishes = "```json\n" + `[
  {"original_name": "Tonkotsu Ramen", "simple_description": "Pork bone broth noodle soup. Rich and creamy. Ingredients: pork, noodles, egg",
   "nutrition": {"calories": "High", "sugar": "Low", "unhealthy_fat": "High"}},
  {"original_name": "Gyoza", "simple_description": "Pan fried dumplings. Crispy bottom. Ingredients: pork, cabbage, wheat",
   "nutrition": {"calories": "medium", "sugar": "LOW", "unhealthy_fat": "Moderate"}}
]` + "\n```"

func TestDishExtractor_Extract(t *testing.T) {
	gw := newFakeGateway().on(OpExtract, twoDishes)
	extractor := NewDishExtractor(gw)

	dishes, err := extractor.Extract(context.Background(), images(1)[0], 3)
	require.NoError(t, err)
	require.Len(t, dishes, 2)

	assert.Equal(t, "Tonkotsu Ramen", dishes[0].OriginalName)
	assert.Equal(t, domain.Nutrition{Calories: domain.LevelHigh, Sugar: domain.LevelLow, UnhealthyFat: domain.LevelHigh}, dishes[0].Nutrition)
	assert.Equal(t, domain.Nutrition{Calories: domain.LevelMedium, Sugar: domain.LevelLow, UnhealthyFat: domain.LevelMedium}, dishes[1].Nutrition)

	for _, d := range dishes {
		assert.Equal(t, 3, d.Page)
		assert.Equal(t, d.OriginalName, d.Pronunciation)
		assert.Empty(t, d.Allergens)
	}

	calls := gw.callsFor(OpExtract)
	require.Len(t, calls, 1)
	assert.Equal(t, images(1)[0], calls[0].image)
}

func TestDishExtractor_DropsIncompleteElements(t *testing.T) {
	raw := `[
		{"original_name": "", "simple_description": "x", "nutrition": {"calories": "Low", "sugar": "Low", "unhealthy_fat": "Low"}},
		{"original_name": "Miso Soup", "simple_description": "", "nutrition": {"calories": "Low", "sugar": "Low", "unhealthy_fat": "Low"}},
		{"original_name": "Edamame", "simple_description": "Steamed soybeans."},
		"Karaage",
		42,
		{"original_name": "  Takoyaki ", "simple_description": "Octopus balls.", "nutrition": {"calories": "huge", "sugar": "Low", "unhealthy_fat": "High"}},
		{"original_name": "Onigiri", "simple_description": "Rice ball.", "nutrition": {"calories": 3, "sugar": null}}
	]`
	extractor := NewDishExtractor(newFakeGateway().on(OpExtract, raw))

	dishes, err := extractor.Extract(context.Background(), images(1)[0], 1)
	require.NoError(t, err)
	require.Len(t, dishes, 2)

	assert.Equal(t, "Takoyaki", dishes[0].OriginalName)
	// unknown level falls back to the placeholder default for that field
	assert.Equal(t, domain.LevelMedium, dishes[0].Nutrition.Calories)
	assert.Equal(t, domain.LevelHigh, dishes[0].Nutrition.UnhealthyFat)

	// numeric, null and missing levels keep the dish with defaults
	assert.Equal(t, "Onigiri", dishes[1].OriginalName)
	assert.Equal(t, domain.PlaceholderDish(1).Nutrition, dishes[1].Nutrition)
}

func TestDishExtractor_MalformedOutputYieldsPlaceholder(t *testing.T) {
	for _, raw := range []string{
		"I'm sorry, I can't read this image.",
		`{"original_name": "Gyoza"}`,
		"null",
		"```json\n```",
	} {
		t.Run(raw, func(t *testing.T) {
			extractor := NewDishExtractor(newFakeGateway().on(OpExtract, raw))

			dishes, err := extractor.Extract(context.Background(), images(1)[0], 2)
			require.NoError(t, err)
			require.Len(t, dishes, 1)
			assert.Equal(t, domain.PlaceholderDish(2), dishes[0])
			assert.Equal(t, domain.PlaceholderName, dishes[0].OriginalName)
		})
	}
}

func TestDishExtractor_EmptyArray(t *testing.T) {
	extractor := NewDishExtractor(newFakeGateway().on(OpExtract, "[]"))

	dishes, err := extractor.Extract(context.Background(), images(1)[0], 1)
	require.NoError(t, err)
	assert.Empty(t, dishes)
}

func TestDishExtractor_ExtractAllKeepsOrder(t *testing.T) {
	gw := newFakeGateway().
		on(OpExtract, `[{"original_name": "A", "simple_description": "a", "nutrition": {"calories": "Low", "sugar": "Low", "unhealthy_fat": "Low"}}]`).
		fail(OpExtract, &GatewayError{Op: OpExtract, StatusCode: 503, Err: errTransport}).
		on(OpExtract, `[{"original_name": "C", "simple_description": "c", "nutrition": {"calories": "Low", "sugar": "Low", "unhealthy_fat": "Low"}}]`)

	outcomes := NewDishExtractor(gw).ExtractAll(context.Background(), images(3))
	require.Len(t, outcomes, 3)

	assert.Equal(t, 1, outcomes[0].Page)
	assert.False(t, outcomes[0].Skipped())
	assert.Equal(t, "A", outcomes[0].Dishes[0].OriginalName)

	assert.Equal(t, 2, outcomes[1].Page)
	assert.True(t, outcomes[1].Skipped())
	assert.Empty(t, outcomes[1].Dishes)

	assert.Equal(t, 3, outcomes[2].Page)
	assert.Equal(t, 3, outcomes[2].Dishes[0].Page)

	calls := gw.callsFor(OpExtract)
	require.Len(t, calls, 3)
	for i, c := range calls {
		assert.Equal(t, images(3)[i], c.image)
	}
}

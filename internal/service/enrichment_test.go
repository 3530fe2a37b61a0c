package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/dishlingo/internal/domain"
)

func TestEnricher_Pronunciations(t *testing.T) {
	gw := newFakeGateway().on(OpPronunciation, "```json\n{\"Pho\": \"fuh\", \"Bun Cha\": \"\"}\n```")
	enricher := NewEnricher(gw)

	got := enricher.Pronunciations(context.Background(), []string{"Pho", "Bun Cha", "Banh Mi", "Pho"})
	assert.Equal(t, map[string]string{
		"Pho":     "fuh",
		"Bun Cha": "Bun Cha",
		"Banh Mi": "Banh Mi",
	}, got)

	calls := gw.callsFor(OpPronunciation)
	require.Len(t, calls, 1)
	assert.Empty(t, calls[0].image)
	assert.Equal(t, 1, strings.Count(calls[0].prompt.User, "Pho"))
}

func TestEnricher_PronunciationsFailure(t *testing.T) {
	for name, gw := range map[string]*fakeGateway{
		"transport": newFakeGateway().fail(OpPronunciation, errTransport),
		"malformed": newFakeGateway().on(OpPronunciation, "Here you go: Pho is fuh"),
	} {
		t.Run(name, func(t *testing.T) {
			got := NewEnricher(gw).Pronunciations(context.Background(), []string{"Pho", "Banh Mi"})
			assert.Equal(t, map[string]string{"Pho": "Pho", "Banh Mi": "Banh Mi"}, got)
		})
	}
}

func TestEnricher_Allergens(t *testing.T) {
	gw := newFakeGateway().on(OpAllergens, `{"Pad Thai": "peanuts, egg, fish", "Unknown": "gluten"}`)

	got := NewEnricher(gw).Allergens(context.Background(), []domain.AllergenQuery{
		{Name: "Pad Thai", Description: "Stir fried noodles."},
		{Name: "Green Curry", Description: "Coconut curry."},
	})
	assert.Equal(t, map[string]string{"Pad Thai": "peanuts, egg, fish", "Green Curry": ""}, got)
}

func TestEnricher_AllergensFailure(t *testing.T) {
	gw := newFakeGateway().fail(OpAllergens, errTransport)

	got := NewEnricher(gw).Allergens(context.Background(), []domain.AllergenQuery{{Name: "Pad Thai"}})
	assert.Equal(t, map[string]string{"Pad Thai": ""}, got)
}

func TestEnricher_EmptyInputMakesNoCall(t *testing.T) {
	gw := newFakeGateway()
	enricher := NewEnricher(gw)

	assert.Empty(t, enricher.Pronunciations(context.Background(), nil))
	assert.Empty(t, enricher.Allergens(context.Background(), []domain.AllergenQuery{}))
	assert.Empty(t, gw.calls)
}

func TestEnricher_Enrich(t *testing.T) {
	gw := newFakeGateway().
		on(OpPronunciation, `{"Tonkotsu Ramen": "ton-kot-soo rah-men"}`).
		on(OpAllergens, `{"Tonkotsu Ramen": "wheat, egg, soy"}`)

	nutrition := domain.Nutrition{Calories: domain.LevelHigh, Sugar: domain.LevelLow, UnhealthyFat: domain.LevelHigh}
	dishes := []domain.Dish{
		domain.NewDish("Tonkotsu Ramen", "Pork broth noodles.", nutrition, 1),
		domain.NewDish("Gyoza", "Dumplings.", nutrition, 1),
		domain.NewDish("Tonkotsu Ramen", "Pork broth noodles, large.", nutrition, 2),
	}

	enriched := NewEnricher(gw).Enrich(context.Background(), dishes)
	require.Len(t, enriched, 3)

	assert.Equal(t, "ton-kot-soo rah-men", enriched[0].Pronunciation)
	assert.Equal(t, "wheat, egg, soy", enriched[0].Allergens)
	assert.Equal(t, enriched[0].Pronunciation, enriched[2].Pronunciation)
	assert.Equal(t, enriched[0].Allergens, enriched[2].Allergens)
	assert.Equal(t, 1, enriched[0].Page)
	assert.Equal(t, 2, enriched[2].Page)

	assert.Equal(t, "Gyoza", enriched[1].Pronunciation)
	assert.Empty(t, enriched[1].Allergens)

	// input untouched
	assert.Equal(t, "Tonkotsu Ramen", dishes[0].Pronunciation)

	assert.Equal(t, 1, gw.count(OpPronunciation))
	assert.Equal(t, 1, gw.count(OpAllergens))
}

func TestEnricher_EnrichBranchesFailIndependently(t *testing.T) {
	gw := newFakeGateway().
		fail(OpPronunciation, errTransport).
		on(OpAllergens, `{"Gyoza": "wheat, soy"}`)

	enriched := NewEnricher(gw).Enrich(context.Background(), []domain.Dish{
		domain.NewDish("Gyoza", "Dumplings.", domain.PlaceholderDish(1).Nutrition, 1),
	})
	require.Len(t, enriched, 1)
	assert.Equal(t, "Gyoza", enriched[0].Pronunciation)
	assert.Equal(t, "wheat, soy", enriched[0].Allergens)
}

// barrierGateway holds every call until want calls are in flight, so a
// caller that issues them one after another never gets an answer.
type barrierGateway struct {
	arrived sync.WaitGroup
	done    chan struct{}
	answers map[Operation]string
}

func newBarrierGateway(want int, answers map[Operation]string) *barrierGateway {
	g := &barrierGateway{done: make(chan struct{}), answers: answers}
	g.arrived.Add(want)
	go func() {
		g.arrived.Wait()
		close(g.done)
	}()
	return g
}

func (g *barrierGateway) Complete(_ context.Context, prompt Prompt, _ domain.ImageInput) (string, error) {
	g.arrived.Done()
	select {
	case <-g.done:
		return g.answers[prompt.Op], nil
	case <-time.After(2 * time.Second):
		return "", errors.New("peer call never arrived")
	}
}

func TestEnricher_EnrichRunsLookupsConcurrently(t *testing.T) {
	gw := newBarrierGateway(2, map[Operation]string{
		OpPronunciation: `{"Gyoza": "GYOH-zah"}`,
		OpAllergens:     `{"Gyoza": "gluten, soy"}`,
	})

	enriched := NewEnricher(gw).Enrich(context.Background(), []domain.Dish{
		domain.NewDish("Gyoza", "Dumplings.", domain.PlaceholderDish(1).Nutrition, 1),
	})
	require.Len(t, enriched, 1)

	// both branches only get real answers when their calls overlap
	assert.Equal(t, "GYOH-zah", enriched[0].Pronunciation)
	assert.Equal(t, "gluten, soy", enriched[0].Allergens)
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/prompts"
)

// DishExtractor turns one menu photo into dish records.
type DishExtractor struct {
	gateway       InferenceGateway
	onMalformed   FailurePolicy
	onCallFailure FailurePolicy
}

// NewDishExtractor creates an extractor that degrades malformed output to a
// placeholder and reports call failures to the caller for skipping.
func NewDishExtractor(gateway InferenceGateway) *DishExtractor {
	return &DishExtractor{
		gateway:       gateway,
		onMalformed:   PolicyPlaceholder,
		onCallFailure: PolicySkipItem,
	}
}

// PageOutcome is the result of extracting one image: either dishes or the
// error that made the page contribute nothing.
type PageOutcome struct {
	Page   int
	Dishes []domain.Dish
	Err    error
}

// Skipped reports whether the page was dropped.
func (o PageOutcome) Skipped() bool {
	return o.Err != nil
}

// rawDish mirrors one element of the model's JSON array.
type rawDish struct {
	OriginalName      string        `json:"original_name"`
	SimpleDescription string        `json:"simple_description"`
	Nutrition         *rawNutrition `json:"nutrition"`
}

// Levels stay raw so a number or null in one field cannot reject the dish.
type rawNutrition struct {
	Calories     json.RawMessage `json:"calories"`
	Sugar        json.RawMessage `json:"sugar"`
	UnhealthyFat json.RawMessage `json:"unhealthy_fat"`
}

// Extract runs the extraction prompt for one image.
// Parameters:
//   - ctx: request context.
//   - image: the menu photo.
//   - page: 1-based position of the image in its batch.
//
// Returns:
//   - []domain.Dish: surviving dishes tagged with page, or one placeholder when
//     the output could not be parsed.
//   - error: the gateway error when the call itself failed.
func (e *DishExtractor) Extract(ctx context.Context, image domain.ImageInput, page int) ([]domain.Dish, error) {
	raw, err := e.gateway.Complete(ctx, Prompt{
		Op:     OpExtract,
		System: prompts.ExtractionSystemPrompt,
		User:   prompts.ExtractionUserPrompt,
	}, image)
	if err != nil {
		return nil, err
	}

	parsed := parseDishList(raw)
	if !parsed.Parsed() {
		e.onMalformed.apply(ctx, OpExtract, parsed.Err)
		return []domain.Dish{domain.PlaceholderDish(page)}, nil
	}

	dishes := make([]domain.Dish, 0, len(parsed.Value))
	for _, item := range parsed.Value {
		if dish, ok := toDish(item, page); ok {
			dishes = append(dishes, dish)
		}
	}

	logger.With(logger.Fields{"received": len(parsed.Value)}).
		WithCount(len(dishes)).
		Debug(ctx, "Dish list parsed")

	return dishes, nil
}

// ExtractAll folds over images in order, one call at a time, so page numbers
// and record order follow the input.
func (e *DishExtractor) ExtractAll(ctx context.Context, images []domain.ImageInput) []PageOutcome {
	outcomes := make([]PageOutcome, 0, len(images))
	for i, img := range images {
		page := i + 1
		pageCtx := logger.SetPage(ctx, page)

		dishes, err := e.Extract(pageCtx, img, page)
		if err != nil {
			e.onCallFailure.apply(pageCtx, OpExtract, err)
		}
		outcomes = append(outcomes, PageOutcome{Page: page, Dishes: dishes, Err: err})
	}
	return outcomes
}

// parseDishList requires a JSON array at the top level. Elements are kept
// raw so one bad element cannot spoil the rest.
func parseDishList(raw string) ParseResult[[]json.RawMessage] {
	result := ParseJSON[[]json.RawMessage](raw)
	if result.Parsed() && result.Value == nil {
		result.Err = errNotAList
	}
	return result
}

var errNotAList = errors.New("malformed model output: expected a JSON array, got null")

// toDish validates one array element. Elements without a name, description
// or nutrition object are rejected.
func toDish(item json.RawMessage, page int) (domain.Dish, bool) {
	var rd rawDish
	if err := json.Unmarshal(item, &rd); err != nil {
		return domain.Dish{}, false
	}

	name := strings.TrimSpace(rd.OriginalName)
	description := strings.TrimSpace(rd.SimpleDescription)
	if name == "" || description == "" || rd.Nutrition == nil {
		return domain.Dish{}, false
	}

	return domain.NewDish(name, description, normalizeNutrition(*rd.Nutrition), page), true
}

// normalizeNutrition maps levels case-insensitively onto High/Medium/Low.
// Unknown or non-string values take the placeholder defaults for that field.
func normalizeNutrition(n rawNutrition) domain.Nutrition {
	defaults := domain.PlaceholderDish(0).Nutrition
	return domain.Nutrition{
		Calories:     normalizeLevel(n.Calories, defaults.Calories),
		Sugar:        normalizeLevel(n.Sugar, defaults.Sugar),
		UnhealthyFat: normalizeLevel(n.UnhealthyFat, defaults.UnhealthyFat),
	}
}

func normalizeLevel(raw json.RawMessage, fallback domain.Level) domain.Level {
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "high":
		return domain.LevelHigh
	case "medium", "moderate":
		return domain.LevelMedium
	case "low":
		return domain.LevelLow
	}
	return fallback
}

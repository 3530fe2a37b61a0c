package service

import (
	"context"
	"time"

	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/prompts"
	"golang.org/x/sync/errgroup"
)

// Enricher adds pronunciations and allergen lists to extracted dishes.
type Enricher struct {
	gateway   InferenceGateway
	onFailure FailurePolicy
}

// NewEnricher creates an enricher whose lookups fall back to empty maps.
func NewEnricher(gateway InferenceGateway) *Enricher {
	return &Enricher{
		gateway:   gateway,
		onFailure: PolicyEmptyMap,
	}
}

// Pronunciations returns a pronunciation for every name. Names the model
// left out, or all names when the call fails, map to themselves.
func (e *Enricher) Pronunciations(ctx context.Context, names []string) map[string]string {
	names = uniqueStrings(names)
	result := make(map[string]string, len(names))
	if len(names) == 0 {
		return result
	}

	found := e.lookup(ctx, Prompt{
		Op:     OpPronunciation,
		System: prompts.PronunciationSystemPrompt,
		User:   prompts.PronunciationUserPrompt(names),
	})

	for _, name := range names {
		if p := found[name]; p != "" {
			result[name] = p
		} else {
			result[name] = name
		}
	}
	return result
}

// Allergens returns an allergen list for every item name. Names the model
// left out, or all names when the call fails, map to "".
func (e *Enricher) Allergens(ctx context.Context, items []domain.AllergenQuery) map[string]string {
	items = uniqueQueries(items)
	result := make(map[string]string, len(items))
	if len(items) == 0 {
		return result
	}

	found := e.lookup(ctx, Prompt{
		Op:     OpAllergens,
		System: prompts.AllergenSystemPrompt,
		User:   prompts.AllergenUserPrompt(items),
	})

	for _, item := range items {
		result[item.Name] = found[item.Name]
	}
	return result
}

// lookup issues one text-only call and reads the answer as a name -> text
// map. Any failure yields an empty map.
func (e *Enricher) lookup(ctx context.Context, prompt Prompt) map[string]string {
	raw, err := e.gateway.Complete(ctx, prompt, "")
	if err != nil {
		e.onFailure.apply(ctx, prompt.Op, err)
		return map[string]string{}
	}

	parsed := ParseStringMap(raw)
	if !parsed.Parsed() {
		e.onFailure.apply(ctx, prompt.Op, parsed.Err)
		return map[string]string{}
	}
	return parsed.Value
}

// Enrich runs both lookups concurrently and waits for both before merging.
// The returned slice is a copy with the same length and order as dishes.
func (e *Enricher) Enrich(ctx context.Context, dishes []domain.Dish) []domain.Dish {
	start := time.Now()

	names := make([]string, 0, len(dishes))
	items := make([]domain.AllergenQuery, 0, len(dishes))
	for _, d := range dishes {
		names = append(names, d.OriginalName)
		items = append(items, domain.AllergenQuery{Name: d.OriginalName, Description: d.SimpleDescription})
	}

	var pronunciations, allergens map[string]string

	// Branches absorb their own failures and always return nil, so neither
	// can cut the other short.
	var g errgroup.Group
	g.Go(func() error {
		pronunciations = e.Pronunciations(ctx, names)
		return nil
	})
	g.Go(func() error {
		allergens = e.Allergens(ctx, items)
		return nil
	})
	_ = g.Wait()

	enriched := make([]domain.Dish, len(dishes))
	for i, d := range dishes {
		d.Pronunciation = pronunciations[d.OriginalName]
		if d.Pronunciation == "" {
			d.Pronunciation = d.OriginalName
		}
		d.Allergens = allergens[d.OriginalName]
		enriched[i] = d
	}

	logger.With(logger.Fields{"names": len(pronunciations)}).
		WithCount(len(enriched)).
		WithDuration(time.Since(start).Milliseconds()).
		Info(ctx, "Enrichment completed")

	return enriched
}

// uniqueStrings drops duplicates, keeping first occurrences in order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// uniqueQueries keeps the first description seen for each name.
func uniqueQueries(items []domain.AllergenQuery) []domain.AllergenQuery {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.AllergenQuery, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Name]; ok {
			continue
		}
		seen[item.Name] = struct{}{}
		out = append(out, item)
	}
	return out
}

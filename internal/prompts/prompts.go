package prompts

import (
	"encoding/json"

	"github.com/timmy/dishlingo/internal/domain"
)

// ============================================================================
// Menu check (Image Validation)
// ============================================================================

// MenuCheckSystemPrompt constrains the classifier to a one-word answer.
const MenuCheckSystemPrompt = `You are an image classifier for a restaurant menu translation app.
Answer with exactly one word: "yes" or "no". Do not add punctuation or explanation.`

// MenuCheckUserPrompt asks whether the attached photo is a menu.
const MenuCheckUserPrompt = `Is this image a restaurant menu, a menu board, or a page listing dishes or drinks with or without prices? Answer yes or no.`

// ============================================================================
// Dish extraction
// ============================================================================

// ExtractionSystemPrompt defines the JSON schema the model must return for a
// single menu photo.
const ExtractionSystemPrompt = `You read restaurant menus for travelers and explain every dish in plain English.

Return ONLY a JSON array. No markdown, no commentary. Each element must be:
{
  "original_name": "dish name exactly as printed; translate to English only if the menu is not in a Latin script",
  "simple_description": "<Dish type>. <Two short sentences explaining what it is and how it is prepared.> Ingredients: <top 3-5 ingredients, comma separated>",
  "nutrition": {
    "calories": "High|Medium|Low",
    "sugar": "High|Medium|Low",
    "unhealthy_fat": "High|Medium|Low"
  }
}

Rules:
- Include every dish and drink you can read. Skip section headers, prices and restaurant info.
- Keep simple_description in the three-part format above.
- Nutrition levels must be exactly one of High, Medium, Low.
- If the image has no readable dishes, return [].`

// ExtractionUserPrompt accompanies the menu photo.
const ExtractionUserPrompt = `Extract all dishes from this menu photo as the JSON array described.`

// ============================================================================
// Enrichment
// ============================================================================

// PronunciationSystemPrompt asks for a name -> pronunciation JSON object.
const PronunciationSystemPrompt = `You help English speakers pronounce foreign dish names.
For each name, write a simple phonetic spelling using plain English letters and hyphens between syllables,
with the stressed syllable in CAPITALS (for example "Bouillabaisse" -> "boo-yah-BESS").
Return ONLY a JSON object mapping each input name, character for character, to its pronunciation. No markdown.`

// AllergenSystemPrompt asks for a name -> allergen list JSON object.
const AllergenSystemPrompt = `You are a food safety assistant. For each dish, list the likely common allergens
(gluten, dairy, eggs, fish, shellfish, tree nuts, peanuts, soy, sesame, mustard, celery, sulfites)
as a short comma-separated string, lowercase. Use an empty string if none are likely.
Return ONLY a JSON object mapping each input dish name, character for character, to its allergen string. No markdown.`

// PronunciationUserPrompt renders the dish names as a JSON list.
func PronunciationUserPrompt(names []string) string {
	payload, _ := json.Marshal(names)
	return "Dish names:\n" + string(payload)
}

// AllergenUserPrompt renders (name, description) pairs as a JSON list.
func AllergenUserPrompt(items []domain.AllergenQuery) string {
	payload, _ := json.Marshal(items)
	return "Dishes:\n" + string(payload)
}

package domain

// Level is a coarse nutrition estimate.
// Values include LevelHigh, LevelMedium, and LevelLow.
type Level string

const (
	LevelHigh   Level = "High"
	LevelMedium Level = "Medium"
	LevelLow    Level = "Low"
)

// IsValid reports whether l is one of the known levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelHigh, LevelMedium, LevelLow:
		return true
	}
	return false
}

// Nutrition holds the three leveled estimates attached to every dish.
type Nutrition struct {
	Calories     Level `json:"calories"`
	Sugar        Level `json:"sugar"`
	UnhealthyFat Level `json:"unhealthy_fat"`
}

// PlaceholderName is the original_name of the record produced when a page's
// inference output cannot be parsed.
const PlaceholderName = "Menu Item"

// PlaceholderDescription is the simple_description of the placeholder record.
const PlaceholderDescription = "Menu item. Details for this page could not be read automatically. " +
	"Please ask your server about this dish. Ingredients: not available"

// Dish is a single menu item extracted from a page.
// Page is assigned once during extraction and is never changed afterwards.
type Dish struct {
	OriginalName      string    `json:"original_name"`
	SimpleDescription string    `json:"simple_description"`
	Nutrition         Nutrition `json:"nutrition"`
	Page              int       `json:"page"`
	Pronunciation     string    `json:"pronunciation"`
	Allergens         string    `json:"allergens"`
}

// NewDish builds a dish tagged with its page and carrying the default
// pronunciation (the name itself) and empty allergens.
func NewDish(name, description string, nutrition Nutrition, page int) Dish {
	return Dish{
		OriginalName:      name,
		SimpleDescription: description,
		Nutrition:         nutrition,
		Page:              page,
		Pronunciation:     name,
		Allergens:         "",
	}
}

// PlaceholderDish returns the single record that stands in for a page whose
// dish list could not be parsed.
func PlaceholderDish(page int) Dish {
	return NewDish(PlaceholderName, PlaceholderDescription, Nutrition{
		Calories:     LevelMedium,
		Sugar:        LevelLow,
		UnhealthyFat: LevelMedium,
	}, page)
}

// AllergenQuery pairs a dish name with its description for allergen lookups.
type AllergenQuery struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

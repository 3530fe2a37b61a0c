package domain

import (
	"encoding/json"
	"testing"
)

func TestNewDishDefaults(t *testing.T) {
	d := NewDish("Bibimbap", "Mixed rice bowl.", Nutrition{LevelMedium, LevelLow, LevelLow}, 4)

	if d.Pronunciation != "Bibimbap" {
		t.Errorf("pronunciation should default to the name, got %q", d.Pronunciation)
	}
	if d.Allergens != "" {
		t.Errorf("allergens should default to empty, got %q", d.Allergens)
	}
	if d.Page != 4 {
		t.Errorf("page = %d, want 4", d.Page)
	}
}

func TestPlaceholderDish(t *testing.T) {
	d := PlaceholderDish(2)

	if d.OriginalName != PlaceholderName || d.SimpleDescription == "" {
		t.Errorf("unexpected placeholder: %+v", d)
	}
	want := Nutrition{Calories: LevelMedium, Sugar: LevelLow, UnhealthyFat: LevelMedium}
	if d.Nutrition != want {
		t.Errorf("nutrition = %+v, want %+v", d.Nutrition, want)
	}
	if d.Page != 2 {
		t.Errorf("page = %d, want 2", d.Page)
	}
}

func TestDishJSONFieldNames(t *testing.T) {
	raw, err := json.Marshal(PlaceholderDish(1))
	if err != nil {
		t.Fatal(err)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"original_name", "simple_description", "nutrition", "page", "pronunciation", "allergens"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("missing field %q in %s", key, raw)
		}
	}
}

func TestLevelIsValid(t *testing.T) {
	for _, l := range []Level{LevelHigh, LevelMedium, LevelLow} {
		if !l.IsValid() {
			t.Errorf("%q should be valid", l)
		}
	}
	if Level("high").IsValid() {
		t.Error("levels are case sensitive once normalized")
	}
}

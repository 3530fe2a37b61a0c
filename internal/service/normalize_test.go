package service

import (
	"errors"
	"testing"
)

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `[{"a":1}]`, `[{"a":1}]`},
		{"json fence", "```json\n[1,2]\n```", "[1,2]"},
		{"upper tag", "```JSON\n{\"x\":\"y\"}\n```", `{"x":"y"}`},
		{"bare fence", "```\n{}\n```", "{}"},
		{"surrounding space", "  \n```json\n[]\n```  \n", "[]"},
		{"missing closing fence", "```json\n[1]", "[1]"},
		{"single line with tag", "```json [1]```", "[1]"},
		{"single line without tag", "```[1]```", "[1]"},
		{"single line object", "```JSON {\"a\": \"b c\"}```", `{"a": "b c"}`},
		{"single word", "Yes", "Yes"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.in); got != tt.want {
				t.Errorf("StripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	ok := ParseJSON[[]int]("```json\n[1, 2, 3]\n```")
	if !ok.Parsed() {
		t.Fatalf("expected parsed result, got error: %v", ok.Err)
	}
	if len(ok.Value) != 3 || ok.Value[2] != 3 {
		t.Errorf("unexpected value: %v", ok.Value)
	}

	bad := ParseJSON[[]int]("Sorry, I cannot read this menu.")
	if bad.Parsed() {
		t.Fatal("expected unparsable result")
	}
	if bad.Raw != "Sorry, I cannot read this menu." {
		t.Errorf("raw text not kept: %q", bad.Raw)
	}

	empty := ParseJSON[[]int]("```json\n```")
	if !errors.Is(empty.Err, ErrEmptyOutput) {
		t.Errorf("expected ErrEmptyOutput, got %v", empty.Err)
	}

	// an object is not a sequence
	obj := ParseJSON[[]int](`{"dishes": []}`)
	if obj.Parsed() {
		t.Error("expected object to fail when a list is required")
	}
}

func TestParseStringMap(t *testing.T) {
	res := ParseStringMap("```json\n{\"Pho\": \" fuh \", \"Pad Thai\": [\"peanuts\", \"egg\"], \"n\": 3}\n```")
	if !res.Parsed() {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Value["Pho"] != "fuh" {
		t.Errorf("Pho = %q, want %q", res.Value["Pho"], "fuh")
	}
	if res.Value["Pad Thai"] != "peanuts, egg" {
		t.Errorf("Pad Thai = %q", res.Value["Pad Thai"])
	}
	if _, ok := res.Value["n"]; ok {
		t.Error("non-string values should be dropped")
	}

	for _, raw := range []string{"null", "[]", "not json", ""} {
		if ParseStringMap(raw).Parsed() {
			t.Errorf("ParseStringMap(%q) should be unparsable", raw)
		}
	}
}

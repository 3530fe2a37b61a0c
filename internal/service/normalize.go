package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const codeFence = "```"

// ErrEmptyOutput is the parse error for blank model output.
var ErrEmptyOutput = errors.New("empty model output")

// ParseResult is model output read as JSON: either Parsed, holding Value, or
// unparsable, holding the raw text and the reason in Err.
type ParseResult[T any] struct {
	Value T
	Raw   string
	Err   error
}

// Parsed reports whether Value holds a decoded result.
func (r ParseResult[T]) Parsed() bool {
	return r.Err == nil
}

// StripCodeFence removes a leading ```lang line and a trailing ``` marker
// around model output. Text without fences is returned trimmed.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, codeFence) {
		text = strings.TrimPrefix(text, codeFence)
		// drop the info string ("json", "JSON", ...) up to the first newline
		if idx := strings.IndexByte(text, '\n'); idx != -1 && isFenceTag(text[:idx]) {
			text = text[idx+1:]
		} else if isFenceTag(text) {
			text = ""
		} else if tag, rest, ok := strings.Cut(text, " "); ok && isLanguageTag(tag) {
			// single line fence: ```json [1]```
			text = rest
		}
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, codeFence)

	return strings.TrimSpace(text)
}

func isFenceTag(s string) bool {
	s = strings.TrimSpace(s)
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return false
		}
	}
	return true
}

func isLanguageTag(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// ParseJSON strips code fences from raw and decodes the remainder into T.
func ParseJSON[T any](raw string) ParseResult[T] {
	result := ParseResult[T]{Raw: raw}

	body := StripCodeFence(raw)
	if body == "" {
		result.Err = ErrEmptyOutput
		return result
	}

	if err := json.Unmarshal([]byte(body), &result.Value); err != nil {
		result.Err = fmt.Errorf("malformed model output: %w", err)
	}
	return result
}

// ParseStringMap reads model output as a JSON object of name -> text.
// String values are kept as is; arrays of strings are joined with ", ";
// any other value type is dropped.
func ParseStringMap(raw string) ParseResult[map[string]string] {
	objects := ParseJSON[map[string]json.RawMessage](raw)
	result := ParseResult[map[string]string]{Raw: raw, Err: objects.Err}
	if !objects.Parsed() {
		return result
	}
	if objects.Value == nil {
		// literal null
		result.Err = fmt.Errorf("malformed model output: expected object, got null")
		return result
	}

	result.Value = make(map[string]string, len(objects.Value))
	for key, value := range objects.Value {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			result.Value[key] = strings.TrimSpace(s)
			continue
		}
		var list []string
		if err := json.Unmarshal(value, &list); err == nil {
			result.Value[key] = strings.Join(list, ", ")
		}
	}
	return result
}

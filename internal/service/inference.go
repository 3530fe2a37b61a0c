package service

import (
	"context"
	"fmt"

	"github.com/timmy/dishlingo/internal/domain"
)

// Operation names one kind of inference call. It labels logs and metrics.
type Operation string

const (
	OpMenuCheck     Operation = "menu_check"
	OpExtract       Operation = "extract"
	OpPronunciation Operation = "pronunciation"
	OpAllergens     Operation = "allergens"
)

// Prompt is one request to the vision inference backend.
type Prompt struct {
	Op     Operation
	System string
	User   string
	// MaxTokens overrides the gateway default when positive.
	MaxTokens int
}

// InferenceGateway performs a single call to the vision inference backend.
// The returned text is untrusted and must be normalized before use.
type InferenceGateway interface {
	// Complete sends the prompt, with the image attached when it is non-empty,
	// and returns the raw model text.
	Complete(ctx context.Context, prompt Prompt, image domain.ImageInput) (string, error)
}

// GatewayError is a transport or service failure of an inference call.
// StatusCode is zero when no HTTP response was received.
type GatewayError struct {
	Op         Operation
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s inference call failed (HTTP %d): %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s inference call failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

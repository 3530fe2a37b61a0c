package service

import (
	"context"
	"strings"

	"github.com/timmy/dishlingo/internal/domain"
	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/prompts"
)

// MenuValidator decides whether a batch contains at least one menu photo.
type MenuValidator struct {
	gateway   InferenceGateway
	onFailure FailurePolicy
}

// NewMenuValidator creates a validator that fails open.
func NewMenuValidator(gateway InferenceGateway) *MenuValidator {
	return &MenuValidator{
		gateway:   gateway,
		onFailure: PolicyAssumeTrue,
	}
}

// Validate asks the classifier about each image in order and returns true on
// the first "yes". A failed call returns true immediately.
// Only one image needs to look like a menu for the batch to be accepted.
func (v *MenuValidator) Validate(ctx context.Context, images []domain.ImageInput) bool {
	for i, img := range images {
		pageCtx := logger.SetPage(ctx, i+1)

		answer, err := v.gateway.Complete(pageCtx, Prompt{
			Op:        OpMenuCheck,
			System:    prompts.MenuCheckSystemPrompt,
			User:      prompts.MenuCheckUserPrompt,
			MaxTokens: 5,
		}, img)
		if err != nil {
			v.onFailure.apply(pageCtx, OpMenuCheck, err)
			return true
		}

		if isAffirmative(answer) {
			logger.CtxDebug(pageCtx, "Image classified as menu")
			return true
		}
		logger.CtxDebug(pageCtx, "Image not classified as menu: %q", answer)
	}
	return false
}

// isAffirmative reads a one-word classifier answer.
func isAffirmative(answer string) bool {
	word := strings.ToLower(StripCodeFence(answer))
	word = strings.TrimLeft(word, " \t\n\"'*`")
	return strings.HasPrefix(word, "yes")
}

package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an analysis failure for the caller.
type ErrorKind string

const (
	KindBatchSize         ErrorKind = "batch_size"
	KindNotMenuImages     ErrorKind = "not_menu_images"
	KindNoDishesExtracted ErrorKind = "no_dishes_extracted"
	KindInternal          ErrorKind = "internal"
)

// AnalysisError is returned by the pipeline when a request ends in one of
// the user-visible failure classes. StatusCode and Code are what the HTTP
// layer sends; Message is safe to show to the user.
type AnalysisError struct {
	Kind       ErrorKind
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *AnalysisError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// Is matches any AnalysisError of the same Kind, so errors.Is(err, ErrBatchSize)
// holds for a batch size error carrying its own message.
func (e *AnalysisError) Is(target error) bool {
	var t *AnalysisError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrBatchSize = &AnalysisError{
		Kind:       KindBatchSize,
		StatusCode: http.StatusBadRequest,
		Code:       "INVALID_BATCH_SIZE",
		Message:    "between 1 and 5 images are required",
	}
	ErrNotMenuImages = &AnalysisError{
		Kind:       KindNotMenuImages,
		StatusCode: http.StatusBadRequest,
		Code:       "NOT_MENU_IMAGES",
		Message:    "the uploaded images do not appear to be menus",
	}
	ErrNoDishesExtracted = &AnalysisError{
		Kind:       KindNoDishesExtracted,
		StatusCode: http.StatusUnprocessableEntity,
		Code:       "NO_DISHES_EXTRACTED",
		Message:    "no dishes extracted",
	}
)

// batchSizeError reports an out-of-range image count.
func batchSizeError(got, minImages, maxImages int) *AnalysisError {
	return &AnalysisError{
		Kind:       KindBatchSize,
		StatusCode: http.StatusBadRequest,
		Code:       ErrBatchSize.Code,
		Message:    fmt.Sprintf("between %d and %d images are required, got %d", minImages, maxImages, got),
	}
}

// Classify maps any error to an AnalysisError. Errors that are not already
// classified become Internal with the underlying message attached.
func Classify(err error) *AnalysisError {
	if err == nil {
		return nil
	}
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae
	}
	return &AnalysisError{
		Kind:       KindInternal,
		StatusCode: http.StatusInternalServerError,
		Code:       "INTERNAL_ERROR",
		Message:    err.Error(),
		Err:        err,
	}
}

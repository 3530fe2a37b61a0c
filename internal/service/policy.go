package service

import (
	"context"

	"github.com/timmy/dishlingo/internal/logger"
	"github.com/timmy/dishlingo/internal/metrics"
)

// FailurePolicy names how a stage absorbs a failed or unusable inference
// call instead of failing the batch.
type FailurePolicy string

const (
	// PolicyAssumeTrue treats a failed menu check as a positive answer.
	PolicyAssumeTrue FailurePolicy = "assume_true"
	// PolicyEmptyMap leaves an enrichment map empty so every key falls back.
	PolicyEmptyMap FailurePolicy = "empty_map"
	// PolicyPlaceholder replaces an unparsable dish list with one placeholder dish.
	PolicyPlaceholder FailurePolicy = "placeholder"
	// PolicySkipItem drops the image from the batch.
	PolicySkipItem FailurePolicy = "skip_item"
)

// apply records that err was absorbed under p.
func (p FailurePolicy) apply(ctx context.Context, op Operation, err error) {
	metrics.AbsorbedFailures.WithLabelValues(string(p), string(op)).Inc()
	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldPolicy: string(p),
		"operation":        string(op),
	}).WithError(err).Warn("Inference failure absorbed")
}

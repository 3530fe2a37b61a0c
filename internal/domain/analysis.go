package domain

import "time"

// AnalysisStage is the state of a single menu analysis.
// Values include StageValidating, StageExtracting, StageEnriching, and StageDone.
type AnalysisStage string

const (
	StageValidating AnalysisStage = "validating"
	StageExtracting AnalysisStage = "extracting"
	StageEnriching  AnalysisStage = "enriching"
	StageDone       AnalysisStage = "done"
)

// SkippedPage records an image that contributed no dishes because its
// extraction call failed.
type SkippedPage struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

// AnalysisResult is the outcome of one analysis run.
type AnalysisResult struct {
	ID          string        `json:"id"`
	Dishes      []Dish        `json:"dishes"`
	Skipped     []SkippedPage `json:"skipped,omitempty"`
	Enriched    bool          `json:"enriched"`
	Stage       AnalysisStage `json:"stage"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
}

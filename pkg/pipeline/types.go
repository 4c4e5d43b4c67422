// Package pipeline orchestrates the meeting workflow: transcription,
// classification, summarization, publishing, and archival of the source
// recording. Each stage records what it produced before the next can fail.
package pipeline

import (
	"github.com/otherjamesbrown/meetflow/pkg/classify"
)

// State tracks how far a run has progressed.
type State string

const (
	StatePending     State = "pending"
	StateTranscribed State = "transcribed"
	StateSummarized  State = "summarized"
	StatePublished   State = "published"
	StateArchived    State = "archived"
	StateFailed      State = "failed"
)

// Result accumulates everything a run produced. It is never discarded on
// partial failure; later stages only add to it.
type Result struct {
	RunID     string
	AudioFile string

	State State
	// FailedStage names the stage that moved the run to StateFailed.
	FailedStage string

	Transcript string
	Summary    string

	Category   classify.Category
	Confidence float64

	TranscriptFile string
	SummaryFile    string
	NotionPage     string
	TaskURLs       []string
	ArchivedFile   string

	// Errors holds one entry per failed stage, in stage order.
	Errors []string
}

// OK reports whether the run completed without stage errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) fail(stage, msg string) {
	r.State = StateFailed
	if r.FailedStage == "" {
		r.FailedStage = stage
	}
	r.Errors = append(r.Errors, msg)
}

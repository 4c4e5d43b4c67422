package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a classified pipeline error.
type ErrorCode string

const (
	ErrTimeout          ErrorCode = "timeout"
	ErrRateLimit        ErrorCode = "rate_limit"
	ErrAPIError         ErrorCode = "api_error"
	ErrContextCancelled ErrorCode = "context_cancelled"
	ErrParseError       ErrorCode = "parse_error"
	ErrEmptyContent     ErrorCode = "empty_content"
	ErrMoveFailed       ErrorCode = "move_failed"
	ErrConfigMissing    ErrorCode = "configuration"
	ErrProcessingError  ErrorCode = "processing_error"
)

// Pipeline stage names used in classified errors.
const (
	StageTranscription = "transcription"
	StageSummarization = "summarization"
	StagePublishing    = "publishing"
	StageArchival      = "archival"
)

// PipelineError is a structured error for pipeline stage failures.
type PipelineError struct {
	Code    ErrorCode
	Stage   string
	Message string
	Cause   error
}

func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Stage, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// NewPipelineError builds a PipelineError with an explicit code.
func NewPipelineError(code ErrorCode, stage, message string, cause error) *PipelineError {
	return &PipelineError{Code: code, Stage: stage, Message: message, Cause: cause}
}

// Classify inspects an error and returns a *PipelineError with the
// appropriate code. If the error doesn't match any known pattern, it
// returns a PipelineError with ErrProcessingError.
func Classify(err error, stage string) *PipelineError {
	if err == nil {
		return nil
	}

	var pe *PipelineError
	if errors.As(err, &pe) {
		// Already classified; keep the original code but record the stage
		// where it surfaced if the producer didn't.
		if pe.Stage == "" {
			pe.Stage = stage
		}
		return pe
	}

	out := &PipelineError{
		Stage: stage,
		Cause: err,
	}

	if errors.Is(err, context.DeadlineExceeded) {
		out.Code = ErrTimeout
		out.Message = "operation timed out"
		return out
	}

	if errors.Is(err, context.Canceled) {
		out.Code = ErrContextCancelled
		out.Message = "operation cancelled"
		return out
	}

	if errors.Is(err, ErrConfiguration) {
		out.Code = ErrConfigMissing
		out.Message = err.Error()
		return out
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	if strings.Contains(lower, "empty content") || strings.Contains(lower, "empty transcript") || strings.Contains(lower, "no content") {
		out.Code = ErrEmptyContent
		out.Message = msg
		return out
	}

	if strings.Contains(lower, "rate limit") || strings.Contains(lower, "429") || strings.Contains(lower, "too many requests") || strings.Contains(lower, "quota exceeded") {
		out.Code = ErrRateLimit
		out.Message = msg
		return out
	}

	if strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out") {
		out.Code = ErrTimeout
		out.Message = msg
		return out
	}

	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "unavailable") || strings.Contains(lower, "no such host") || strings.Contains(lower, "http 5") {
		out.Code = ErrAPIError
		out.Message = msg
		return out
	}

	if strings.Contains(lower, "parse") || strings.Contains(lower, "unmarshal") || strings.Contains(lower, "decode") {
		out.Code = ErrParseError
		out.Message = msg
		return out
	}

	out.Code = ErrProcessingError
	out.Message = msg
	return out
}

// IsTimeout returns true if the error is a classified timeout error.
func IsTimeout(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == ErrTimeout
	}
	return false
}

// IsRateLimit returns true if the error is a classified rate-limit error.
func IsRateLimit(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code == ErrRateLimit
	}
	return false
}

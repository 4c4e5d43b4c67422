package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"deadline exceeded", context.DeadlineExceeded, ErrTimeout},
		{"cancelled", context.Canceled, ErrContextCancelled},
		{"rate limit text", errors.New("HTTP 429: too many requests"), ErrRateLimit},
		{"quota", errors.New("quota exceeded for model"), ErrRateLimit},
		{"timeout text", errors.New("request timed out"), ErrTimeout},
		{"unavailable", errors.New("connection refused"), ErrAPIError},
		{"parse", errors.New("decode response: unexpected EOF"), ErrParseError},
		{"empty", errors.New("empty transcript"), ErrEmptyContent},
		{"config", fmt.Errorf("anthropic key: %w", ErrConfiguration), ErrConfigMissing},
		{"fallback", errors.New("something odd"), ErrProcessingError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pe := Classify(tc.err, StageSummarization)
			require.NotNil(t, pe)
			assert.Equal(t, tc.want, pe.Code)
			assert.Equal(t, StageSummarization, pe.Stage)
			assert.ErrorIs(t, pe, tc.err)
		})
	}
}

func TestClassify_Nil(t *testing.T) {
	assert.Nil(t, Classify(nil, StageTranscription))
}

func TestClassify_AlreadyClassifiedKeepsCode(t *testing.T) {
	orig := NewPipelineError(ErrRateLimit, "", "throttled", nil)
	wrapped := fmt.Errorf("calling generator: %w", orig)

	pe := Classify(wrapped, StageSummarization)
	assert.Equal(t, ErrRateLimit, pe.Code)
	assert.Equal(t, StageSummarization, pe.Stage)
}

func TestPipelineError_Format(t *testing.T) {
	pe := NewPipelineError(ErrMoveFailed, StageArchival, "destination exists", nil)
	assert.Equal(t, "move_failed: archival: destination exists", pe.Error())

	bare := NewPipelineError(ErrAPIError, "", "HTTP 503", nil)
	assert.Equal(t, "api_error: HTTP 503", bare.Error())
}

func TestIsTimeoutAndRateLimit(t *testing.T) {
	timeoutErr := Classify(context.DeadlineExceeded, StageSummarization)
	assert.True(t, IsTimeout(timeoutErr))
	assert.False(t, IsRateLimit(timeoutErr))

	rlErr := Classify(errors.New("rate limit hit"), StageSummarization)
	assert.True(t, IsRateLimit(rlErr))
	assert.False(t, IsTimeout(errors.New("plain")))
}

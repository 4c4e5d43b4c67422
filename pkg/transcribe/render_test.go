package transcribe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleTranscript() Transcript {
	return Transcript{
		Text:     "  hello team, let's get started  ",
		Language: "en",
		Segments: []Segment{
			{Start: 0, End: 2.5, Text: " hello team "},
			{Start: 12, End: 15, Text: "let's get started"},
		},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleTranscript(), RenderOptions{
		AudioPath:      "audio_input/weekly_sync.m4a",
		Model:          "medium",
		GeneratedAt:    time.Date(2025, 8, 7, 14, 30, 22, 0, time.UTC),
		WithTimestamps: true,
	})

	assert.Contains(t, out, "Transcription of: audio_input/weekly_sync.m4a")
	assert.Contains(t, out, "Generated: 2025-08-07 14:30:22")
	assert.Contains(t, out, "Model: medium")
	assert.Contains(t, out, "Language: en")
	assert.Contains(t, out, "Full Text:\nhello team, let's get started")
	assert.Contains(t, out, "[12.00s - 15.00s]: let's get started")
}

func TestRender_NoTimestampsOrLanguage(t *testing.T) {
	tr := sampleTranscript()
	tr.Language = ""

	out := Render(tr, RenderOptions{AudioPath: "a.m4a", Model: "medium", GeneratedAt: time.Now()})

	assert.Contains(t, out, "Language: unknown")
	assert.NotContains(t, out, "Timestamped Segments:")
}

func TestExtractFullText_RoundTrip(t *testing.T) {
	rendered := Render(sampleTranscript(), RenderOptions{
		AudioPath:      "a.m4a",
		Model:          "medium",
		GeneratedAt:    time.Now(),
		WithTimestamps: true,
	})

	assert.Equal(t, "hello team, let's get started", ExtractFullText(rendered))
}

func TestExtractFullText_PlainFile(t *testing.T) {
	assert.Equal(t, "just some text", ExtractFullText("just some text\n"))
}

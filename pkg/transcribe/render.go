package transcribe

import (
	"fmt"
	"strings"
	"time"
)

// RenderOptions control transcript file rendering.
type RenderOptions struct {
	AudioPath      string
	Model          string
	GeneratedAt    time.Time
	WithTimestamps bool
}

// Render formats a transcript into the text persisted under transcriptions/:
// a small header, the detected language, the full text, and optionally the
// timestamped segment lines.
func Render(t Transcript, opts RenderOptions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Transcription of: %s\n", opts.AudioPath)
	fmt.Fprintf(&b, "Generated: %s\n", opts.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Model: %s\n", opts.Model)
	b.WriteString(strings.Repeat("=", 50))
	b.WriteString("\n")

	language := t.Language
	if language == "" {
		language = "unknown"
	}
	fmt.Fprintf(&b, "Language: %s\n\n", language)

	b.WriteString("Full Text:\n")
	b.WriteString(strings.TrimSpace(t.Text))
	b.WriteString("\n")

	if opts.WithTimestamps && len(t.Segments) > 0 {
		b.WriteString("\nTimestamped Segments:\n")
		for _, s := range t.Segments {
			fmt.Fprintf(&b, "[%.2fs - %.2fs]: %s\n", s.Start, s.End, strings.TrimSpace(s.Text))
		}
	}

	return b.String()
}

// ExtractFullText pulls the transcript body back out of a rendered file.
// It returns everything after the "Full Text:" marker, stopping before the
// timestamped segment block when present. Files without the marker are
// returned whole, so plain-text transcripts are also accepted.
func ExtractFullText(rendered string) string {
	const marker = "Full Text:\n"
	idx := strings.Index(rendered, marker)
	if idx < 0 {
		return strings.TrimSpace(rendered)
	}
	body := rendered[idx+len(marker):]
	if segIdx := strings.Index(body, "\nTimestamped Segments:"); segIdx >= 0 {
		body = body[:segIdx]
	}
	return strings.TrimSpace(body)
}

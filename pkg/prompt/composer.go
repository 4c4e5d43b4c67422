package prompt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/otherjamesbrown/meetflow/pkg/classify"
)

// Character budgets for prompt assembly.
const (
	// MaxTranscriptChars caps the transcript embedded in a prompt. Longer
	// transcripts are cut and marked so the model knows input is partial.
	MaxTranscriptChars = 100000

	// MaxPreviousSummaryChars caps the previous-meeting context block.
	MaxPreviousSummaryChars = 2000

	truncationMarker = "\n\n[Transcript truncated...]"
)

// UserContext personalizes the prompt preamble. All fields have usable
// defaults so the system works with no configuration.
type UserContext struct {
	Role     string `yaml:"role"`
	Region   string `yaml:"region"`
	TeamSize int    `yaml:"team_size"`
	Company  string `yaml:"company"`
}

// DefaultUserContext returns the context used when none is configured.
func DefaultUserContext() UserContext {
	return UserContext{
		Role:     "Director of Solutions Engineering",
		Region:   "EMEA",
		TeamSize: 6,
		Company:  "Entrust",
	}
}

// Request carries everything Compose needs for one summarization prompt.
type Request struct {
	Category        classify.Category
	Transcript      string
	Context         UserContext
	PreviousSummary string

	// CustomPrompt, when set, replaces the entire assembled instruction
	// block; only the transcript is still appended after it.
	CustomPrompt string

	// CustomRole, when set, replaces the category system prompt.
	CustomRole string
}

// Compose builds the (system, user) prompt pair for a summarization call.
// It never calls the generation API itself.
func Compose(req Request) (systemPrompt, userPrompt string) {
	if req.CustomRole != "" {
		systemPrompt = CustomRole(req.CustomRole)
	} else {
		systemPrompt = RolePrompt(req.Category)
	}

	transcript := req.Transcript
	if len(transcript) > MaxTranscriptChars {
		transcript = truncate(transcript, MaxTranscriptChars) + truncationMarker
	}

	if req.CustomPrompt != "" {
		return systemPrompt, fmt.Sprintf("%s\n\nTranscript:\n%s", req.CustomPrompt, transcript)
	}

	var b strings.Builder

	fmt.Fprintf(&b, `I need you to summarize the following %s meeting transcript.
Context: I'm the %s for %s at %s, managing a team of %d Solutions Engineers.

Please provide a structured summary using Notion-compatible markdown formatting:
`, req.Category, req.Context.Role, req.Context.Region, req.Context.Company, req.Context.TeamSize)

	if example := WorkedExample(req.Category); example != "" {
		b.WriteString("\n")
		b.WriteString(example)
	}

	if req.PreviousSummary != "" {
		prev := req.PreviousSummary
		if len(prev) > MaxPreviousSummaryChars {
			prev = truncate(prev, MaxPreviousSummaryChars)
		}
		b.WriteString("\n**Previous meeting summary for context:**\n")
		b.WriteString(prev)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(SectionTemplate(req.Category))
	b.WriteString("\n")
	b.WriteString(formattingRules)
	b.WriteString("\n\n**Transcript:**\n")
	b.WriteString(transcript)

	return systemPrompt, b.String()
}

// truncate cuts s to at most max bytes without splitting a UTF-8 rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

package pipeline

import (
	"regexp"
	"strings"
)

// ActionItem is one task extracted from a generated summary.
type ActionItem struct {
	Task     string
	Owner    string
	DueDate  string
	Priority string
}

// maxActionItems bounds extraction so a malformed summary cannot flood the
// task store.
const maxActionItems = 20

var (
	// Full form: - [ ] **task** - Owner: x | Due: y | Priority: z
	// (the templates also emit " - " as the field separator).
	strictItemPattern = regexp.MustCompile(`^- \[[ xX]\] \*\*(.+?)\*\*(.*)$`)
	// Loose fallback: any bare checkbox line.
	looseItemPattern = regexp.MustCompile(`^- \[[ xX]\] (.+)$`)
)

// NormalizePriority maps priority synonyms onto the canonical labels.
// Unrecognized or absent values default to Medium.
func NormalizePriority(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "urgent", "high":
		return "High"
	case "med", "medium":
		return "Medium"
	case "low":
		return "Low"
	default:
		return "Medium"
	}
}

// ExtractActionItems parses checkbox lines out of a summary. Lines matching
// the full bold-task grammar yield owner, due date, and priority; bare
// checkbox lines yield just the task text. At most maxActionItems are
// returned.
func ExtractActionItems(summary string) []ActionItem {
	var items []ActionItem

	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)

		if m := strictItemPattern.FindStringSubmatch(line); m != nil {
			item := ActionItem{Task: strings.TrimSpace(m[1]), Priority: "Medium"}
			owner, due, priority := parseItemFields(m[2])
			item.Owner = owner
			item.DueDate = due
			if priority != "" {
				item.Priority = NormalizePriority(priority)
			}
			items = append(items, item)
		} else if m := looseItemPattern.FindStringSubmatch(line); m != nil {
			items = append(items, ActionItem{
				Task:     strings.TrimSpace(m[1]),
				Priority: "Medium",
			})
		}

		if len(items) >= maxActionItems {
			break
		}
	}

	return items
}

// parseItemFields picks the labelled fields out of the text following the
// bold task. Fields are separated by "|" or " - "; hyphens inside values
// (dates, names) survive because only spaced dashes split.
func parseItemFields(rest string) (owner, due, priority string) {
	rest = strings.TrimSpace(rest)
	rest = strings.TrimPrefix(rest, "-")

	for _, chunk := range splitFields(rest) {
		switch {
		case strings.HasPrefix(chunk, "Owner:"):
			owner = strings.TrimSpace(strings.TrimPrefix(chunk, "Owner:"))
		case strings.HasPrefix(chunk, "Due:"):
			due = strings.TrimSpace(strings.TrimPrefix(chunk, "Due:"))
		case strings.HasPrefix(chunk, "Priority:"):
			priority = strings.TrimSpace(strings.TrimPrefix(chunk, "Priority:"))
		}
	}
	return owner, due, priority
}

func splitFields(s string) []string {
	var out []string
	for _, part := range strings.Split(s, "|") {
		for _, sub := range strings.Split(part, " - ") {
			sub = strings.TrimSpace(sub)
			if sub != "" {
				out = append(out, sub)
			}
		}
	}
	return out
}

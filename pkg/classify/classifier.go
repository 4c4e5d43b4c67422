package classify

import (
	"strings"
)

// Tier weights for keyword hits.
const (
	weightHigh   = 3.0
	weightMedium = 1.5
	weightLow    = 0.5
)

// Structural bonuses applied to the one-on-one score.
const (
	bonusTwoParticipants = 2.0
	bonusShortTranscript = 1.0
	shortTranscriptWords = 500
	confidenceFloor      = 0.3
)

// keywordTiers holds the phrase lists for one category, strongest first.
type keywordTiers struct {
	high   []string
	medium []string
	low    []string
}

// Per-category keyword tables. Phrases are matched as lowercase substrings;
// repeated occurrences count independently.
var keywordTables = map[Category]keywordTiers{
	CategoryOneOnOne: {
		high:   []string{"1:1", "one on one", "performance review", "career development"},
		medium: []string{"coaching", "feedback", "personal goals", "development plan", "check-in"},
		low:    []string{"how are you", "growth", "promotion", "skills"},
	},
	CategoryTeamMeeting: {
		high:   []string{"team meeting", "standup", "stand-up", "all hands", "retrospective"},
		medium: []string{"team update", "sprint", "blockers", "announcements"},
		low:    []string{"agenda", "minutes", "everyone", "around the room"},
	},
	CategoryForecast: {
		high:   []string{"forecast", "pipeline", "commit", "quarter close", "revenue", "quota"},
		medium: []string{"deal", "opportunity", "close date", "upside", "best case"},
		low:    []string{"target", "number", "booking", "attainment"},
	},
	CategoryCustomer: {
		high:   []string{"customer", "client", "prospect", "demo"},
		medium: []string{"proof of concept", "evaluation", "requirements", "use case", "onboarding"},
		low:    []string{"pricing", "contract", "renewal", "stakeholder"},
	},
	CategoryTechnical: {
		high:   []string{"architecture", "integration", "api", "technical design"},
		medium: []string{"deployment", "infrastructure", "latency", "schema", "migration"},
		low:    []string{"bug", "release", "endpoint", "configuration"},
	},
	CategoryStrategic: {
		high:   []string{"strategy", "market", "competitive", "positioning"},
		medium: []string{"roadmap", "vision", "expansion", "partnership"},
		low:    []string{"long term", "priorities", "investment", "landscape"},
	},
}

// Result is the outcome of a classification: the winning category and a
// normalized confidence in [0,1].
type Result struct {
	Category   Category
	Confidence float64
	// Scores holds the raw per-category scores, useful for diagnostics.
	Scores map[Category]float64
}

// Classify scores a transcript against every category and returns the winner.
// participants may be nil when the speaker list is unknown.
//
// When no category reaches a confidence of 0.3, the result defaults to
// team meeting at exactly 0.3: ambiguous transcripts get the safest general
// template rather than a low-confidence specialized one.
func Classify(transcript string, participants []string) Result {
	lower := strings.ToLower(transcript)

	scores := make(map[Category]float64, len(Categories))
	for _, cat := range Categories {
		tiers := keywordTables[cat]
		score := 0.0
		for _, phrase := range tiers.high {
			score += float64(strings.Count(lower, phrase)) * weightHigh
		}
		for _, phrase := range tiers.medium {
			score += float64(strings.Count(lower, phrase)) * weightMedium
		}
		for _, phrase := range tiers.low {
			score += float64(strings.Count(lower, phrase)) * weightLow
		}
		scores[cat] = score
	}

	// Structural bonuses only tilt transcripts that already carry some
	// signal; a transcript with zero keyword hits stays at zero so it falls
	// through to the team-meeting default below.
	anyHits := false
	for _, s := range scores {
		if s > 0 {
			anyHits = true
			break
		}
	}
	if anyHits {
		if len(participants) == 2 {
			scores[CategoryOneOnOne] += bonusTwoParticipants
		}
		if len(strings.Fields(transcript)) < shortTranscriptWords {
			scores[CategoryOneOnOne] += bonusShortTranscript
		}
	}

	var winner Category
	var best, total float64
	for _, cat := range Categories {
		total += scores[cat]
		if winner == "" || scores[cat] > best {
			winner = cat
			best = scores[cat]
		}
	}

	confidence := 0.0
	if total > 0 {
		confidence = best / total
	}

	if confidence < confidenceFloor {
		return Result{Category: CategoryTeamMeeting, Confidence: confidenceFloor, Scores: scores}
	}
	return Result{Category: winner, Confidence: confidence, Scores: scores}
}

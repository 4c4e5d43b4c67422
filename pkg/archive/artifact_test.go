package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantBase string
		wantTS   string
		wantKind Kind
	}{
		{
			name:     "transcription with timestamp",
			filename: "weekly_sync_transcription_20250807_143022.txt",
			wantBase: "weekly_sync",
			wantTS:   "20250807_143022",
			wantKind: KindTranscription,
		},
		{
			name:     "summary with timestamp",
			filename: "weekly_sync_summary_20250807_143530.md",
			wantBase: "weekly_sync",
			wantTS:   "20250807_143530",
			wantKind: KindSummary,
		},
		{
			name:     "processed audio date only",
			filename: "standup_processed_20250807.m4a",
			wantBase: "standup",
			wantTS:   "20250807",
			wantKind: KindAudio,
		},
		{
			name:     "no pattern",
			filename: "random_notes.txt",
			wantBase: "random_notes",
			wantTS:   "",
			wantKind: KindUnknown,
		},
		{
			name:     "marker without digits does not match",
			filename: "call_transcription_final.txt",
			wantBase: "call_transcription_final",
			wantTS:   "",
			wantKind: KindUnknown,
		},
		{
			name:     "base name containing marker word",
			filename: "transcription_review_transcription_20250101_000000.txt",
			wantBase: "transcription_review",
			wantTS:   "20250101_000000",
			wantKind: KindTranscription,
		},
		{
			name:     "short digit run rejected",
			filename: "call_summary_2025.md",
			wantBase: "call_summary_2025",
			wantTS:   "",
			wantKind: KindUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base, ts, kind := ParseFilename(tc.filename)
			assert.Equal(t, tc.wantBase, base)
			assert.Equal(t, tc.wantTS, ts)
			assert.Equal(t, tc.wantKind, kind)
		})
	}
}

func TestSortKey(t *testing.T) {
	withTS := Artifact{Timestamp: "20250807_143022"}
	assert.Equal(t, "20250807_143022", withTS.sortKey())

	mod := time.Date(2025, 8, 7, 14, 30, 22, 0, time.UTC)
	withoutTS := Artifact{ModifiedAt: mod}
	assert.Equal(t, "20250807_143022", withoutTS.sortKey())
}

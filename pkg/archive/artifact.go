// Package archive manages archiving of transcriptions, summaries, and
// processed audio files. It organizes files into dated buckets and resolves
// duplicate versions while preserving the latest copy of each artifact.
package archive

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Kind identifies the artifact type recovered from a filename.
type Kind string

const (
	KindTranscription Kind = "transcription"
	KindSummary       Kind = "summary"
	KindAudio         Kind = "audio"
	KindUnknown       Kind = "unknown"
)

// Filename patterns, tried in priority order. First match wins.
var filenamePatterns = []struct {
	re   *regexp.Regexp
	kind Kind
}{
	// <base>_transcription_YYYYMMDD_HHMMSS
	{regexp.MustCompile(`^(.+)_transcription_(\d{8}_\d{6})$`), KindTranscription},
	// <base>_summary_YYYYMMDD_HHMMSS
	{regexp.MustCompile(`^(.+)_summary_(\d{8}_\d{6})$`), KindSummary},
	// <base>_processed_YYYYMMDD
	{regexp.MustCompile(`^(.+)_processed_(\d{8})$`), KindAudio},
}

// Artifact is a filesystem entry tracked by the archive engine.
type Artifact struct {
	// Path is the absolute or engine-relative location of the file.
	Path string

	// BaseName is the logical identity shared across versioned copies.
	BaseName string

	// Timestamp is the zero-padded timestamp parsed from the filename
	// (YYYYMMDD_HHMMSS or YYYYMMDD), or empty when the name carries none.
	Timestamp string

	// Kind is the artifact type, KindUnknown for unrecognized names.
	Kind Kind

	// ModifiedAt is the filesystem modification time, used as the
	// fallback clock when the filename has no timestamp.
	ModifiedAt time.Time
}

// ParseFilename extracts the base name, timestamp, and kind from a filename.
// Matching is exact literal substring plus digit groups; no case or unicode
// normalization is applied. Names matching no pattern return the whole stem
// with an empty timestamp and KindUnknown.
func ParseFilename(filename string) (baseName, timestamp string, kind Kind) {
	stem := strings.TrimSuffix(filename, filepath.Ext(filename))

	for _, p := range filenamePatterns {
		if m := p.re.FindStringSubmatch(stem); m != nil {
			return m[1], m[2], p.kind
		}
	}

	return stem, "", KindUnknown
}

// sortKey returns the key used for latest-selection. Filename timestamps
// order lexicographically because the format is zero-padded; modification
// times are rendered into the same format so mixed groups stay comparable.
func (a Artifact) sortKey() string {
	if a.Timestamp != "" {
		return a.Timestamp
	}
	return a.ModifiedAt.Format("20060102_150405")
}

package archive

import (
	"path/filepath"
	"time"
)

// UnknownDateBucket receives artifacts whose filename timestamp cannot be
// parsed as a date.
const UnknownDateBucket = "unknown-date"

// Bucket returns the YYYY-MM archive bucket for an artifact. Artifacts with
// a filename timestamp bucket by that date; artifacts without one bucket by
// modification time. An unparseable timestamp falls back to UnknownDateBucket,
// never to the modification time.
func Bucket(a Artifact) string {
	if a.Timestamp == "" {
		return a.ModifiedAt.Format("2006-01")
	}
	datePart := a.Timestamp
	if len(datePart) > 8 {
		datePart = datePart[:8]
	}
	t, err := time.Parse("20060102", datePart)
	if err != nil {
		return UnknownDateBucket
	}
	return t.Format("2006-01")
}

// BucketPath returns the destination path for an artifact under targetRoot,
// preserving the original filename inside its dated bucket.
func BucketPath(a Artifact, targetRoot string) string {
	return filepath.Join(targetRoot, Bucket(a), filepath.Base(a.Path))
}

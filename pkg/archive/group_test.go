package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	return path
}

func TestListArtifacts_MissingDir(t *testing.T) {
	artifacts, err := ListArtifacts(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestListArtifacts_SkipsHiddenAndDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sync_transcription_20250807_143022.txt")
	writeFile(t, dir, ".DS_Store")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	artifacts, err := ListArtifacts(dir)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "sync", artifacts[0].BaseName)
	assert.Equal(t, KindTranscription, artifacts[0].Kind)
}

func TestGroupByBaseName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sync_transcription_20250807_143022.txt")
	writeFile(t, dir, "sync_transcription_20250808_090000.txt")
	writeFile(t, dir, "planning_transcription_20250807_100000.txt")

	groups, err := GroupByBaseName(dir)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups["sync"], 2)
	assert.Len(t, groups["planning"], 1)
}

func TestLatest_FilenameTimestampWins(t *testing.T) {
	older := Artifact{Path: "a", Timestamp: "20250101_000000"}
	newer := Artifact{Path: "b", Timestamp: "20250807_143022"}

	assert.Equal(t, "b", Latest([]Artifact{older, newer}).Path)
	assert.Equal(t, "b", Latest([]Artifact{newer, older}).Path)
}

func TestLatest_MtimeFallback(t *testing.T) {
	older := Artifact{Path: "a", ModifiedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := Artifact{Path: "b", ModifiedAt: time.Date(2025, 8, 7, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, "b", Latest([]Artifact{older, newer}).Path)
}

func TestLatest_TieKeepsFirst(t *testing.T) {
	first := Artifact{Path: "a", Timestamp: "20250807_143022"}
	second := Artifact{Path: "b", Timestamp: "20250807_143022"}

	assert.Equal(t, "a", Latest([]Artifact{first, second}).Path)
}

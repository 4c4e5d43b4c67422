package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/otherjamesbrown/meetflow/config"
	"github.com/otherjamesbrown/meetflow/pkg/archive"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

func testArchiveDeps(t *testing.T) (*ArchiveCommandDeps, string) {
	t.Helper()
	baseDir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.BaseDir = baseDir

	deps := &ArchiveCommandDeps{
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
		NewEngine: func(cfg *config.Config, _ logging.Logger) *archive.Engine {
			return archive.NewEngine(cfg.ResolveBaseDir(), archive.WithLogger(logging.NewNopLogger()))
		},
	}
	return deps, baseDir
}

func writeArtifact(t *testing.T, dir, name string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
	return path
}

func runCommand(t *testing.T, deps *ArchiveCommandDeps, args ...string) (string, error) {
	t.Helper()
	cmd := NewArchiveCommand(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestArchiveRun_ResolvesDuplicates(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)
	tdir := filepath.Join(baseDir, "transcriptions")

	older := writeArtifact(t, tdir, "standup_transcription_20250804_093000.txt")
	newer := writeArtifact(t, tdir, "standup_transcription_20250805_093000.txt")

	out, err := runCommand(t, deps, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "transcription duplicates: 1")

	assert.NoFileExists(t, older)
	assert.FileExists(t, newer)
	assert.FileExists(t, filepath.Join(baseDir, "archive", "transcriptions",
		"2025-08", "standup_transcription_20250804_093000.txt"))
}

func TestArchiveRun_DryRunLeavesFiles(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)
	tdir := filepath.Join(baseDir, "transcriptions")

	older := writeArtifact(t, tdir, "standup_transcription_20250804_093000.txt")
	writeArtifact(t, tdir, "standup_transcription_20250805_093000.txt")

	out, err := runCommand(t, deps, "run", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "would archive")

	assert.FileExists(t, older)
	assert.NoDirExists(t, filepath.Join(baseDir, "archive"))
}

func TestArchiveRun_DefaultArchivesOldFiles(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)
	tdir := filepath.Join(baseDir, "transcriptions")

	stale := writeArtifact(t, tdir, "retro_transcription_20250401_100000.txt")
	old := time.Now().AddDate(0, 0, -100)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := runCommand(t, deps, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "old transcriptions:       1")

	assert.NoFileExists(t, stale)
	assert.FileExists(t, filepath.Join(baseDir, "archive", "transcriptions",
		"2025-04", "retro_transcription_20250401_100000.txt"))
}

func TestArchiveRun_DuplicatesOnlySkipsOldFiles(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)
	tdir := filepath.Join(baseDir, "transcriptions")

	stale := writeArtifact(t, tdir, "retro_transcription_20250401_100000.txt")
	old := time.Now().AddDate(0, 0, -100)
	require.NoError(t, os.Chtimes(stale, old, old))

	out, err := runCommand(t, deps, "run", "--duplicates-only")
	require.NoError(t, err)
	assert.NotContains(t, out, "old transcriptions:")
	assert.FileExists(t, stale)
}

func TestArchiveDuplicates_ListsGroups(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)
	sdir := filepath.Join(baseDir, "summaries")

	writeArtifact(t, sdir, "standup_summary_20250804_093000.txt")
	writeArtifact(t, sdir, "standup_summary_20250805_093000.txt")
	writeArtifact(t, sdir, "retro_summary_20250804_100000.txt")

	out, err := runCommand(t, deps, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "summaries:")
	assert.Contains(t, out, "standup (2 copies)")
	assert.NotContains(t, out, "retro")
}

func TestArchiveDuplicates_NoneFound(t *testing.T) {
	deps, _ := testArchiveDeps(t)

	out, err := runCommand(t, deps, "duplicates")
	require.NoError(t, err)
	assert.Contains(t, out, "no duplicates found")
}

func TestArchiveStats(t *testing.T) {
	deps, baseDir := testArchiveDeps(t)

	writeArtifact(t, filepath.Join(baseDir, "transcriptions"), "a_transcription_20250804_093000.txt")
	writeArtifact(t, filepath.Join(baseDir, "summaries"), "a_summary_20250804_093000.txt")
	writeArtifact(t, filepath.Join(baseDir, "archive", "summaries", "2025-07"), "old_summary_20250701_090000.txt")

	out, err := runCommand(t, deps, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "transcriptions:  1")
	assert.Contains(t, out, "summaries:       1")
}

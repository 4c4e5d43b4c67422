package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runClassify(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewClassifyCommand(DefaultClassifyDeps())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestClassifyCommand_DetectsForecast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("We reviewed the Q3 pipeline and the forecast looks solid against quota."), 0o644))

	out, err := runClassify(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "type:       forecast")
	assert.Contains(t, out, "confidence:")
}

func TestClassifyCommand_ShowsScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.txt")
	require.NoError(t, os.WriteFile(path, []byte("forecast pipeline quota"), 0o644))

	out, err := runClassify(t, path, "--scores")
	require.NoError(t, err)
	assert.Contains(t, out, "scores:")
	assert.Contains(t, out, "forecast")
}

func TestClassifyCommand_MissingFile(t *testing.T) {
	_, err := runClassify(t, filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultWhisperURL, cfg.Whisper.ServerURL)
	assert.Equal(t, DefaultClaudeModel, cfg.Claude.Model)
	assert.True(t, cfg.Pipeline.ArchiveProcessed)
	assert.Equal(t, "EMEA", cfg.UserContext.Region)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileAndEnvOverlay(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEETFLOW_CONFIG_DIR", dir)

	yaml := `
whisper:
  server_url: http://whisper.internal:9000
  model: large
  timeout: 10m
claude:
  model: claude-3-opus-20240229
notion:
  database_id: db-123
user_context:
  role: VP Engineering
  team_size: 12
pipeline:
  archive_processed: false
  with_timestamps: true
  days_old: 14
  cache_size: 4
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o600))

	// Env beats file.
	t.Setenv("MEETFLOW_WHISPER_MODEL", "small")
	t.Setenv("MEETFLOW_NOTION_TASKS_DATABASE_ID", "db-tasks")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://whisper.internal:9000", cfg.Whisper.ServerURL)
	assert.Equal(t, "small", cfg.Whisper.Model)
	assert.Equal(t, "claude-3-opus-20240229", cfg.Claude.Model)
	assert.Equal(t, "db-123", cfg.Notion.DatabaseID)
	assert.Equal(t, "db-tasks", cfg.Notion.TasksDatabaseID)
	assert.Equal(t, "VP Engineering", cfg.UserContext.Role)
	assert.Equal(t, 12, cfg.UserContext.TeamSize)
	// Untouched fields keep their defaults.
	assert.Equal(t, "EMEA", cfg.UserContext.Region)
	assert.False(t, cfg.Pipeline.ArchiveProcessed)
	assert.Equal(t, 14, cfg.Pipeline.DaysOld)
}

func TestLoadConfig_PartialPipelineSectionKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEETFLOW_CONFIG_DIR", dir)

	yaml := `
pipeline:
  days_old: 60
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 60, cfg.Pipeline.DaysOld)
	assert.True(t, cfg.Pipeline.ArchiveProcessed)
	assert.True(t, cfg.Pipeline.WithTimestamps)
	assert.Equal(t, DefaultCacheSize, cfg.Pipeline.CacheSize)
}

func TestLoadConfig_PipelineFalseOverridesDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEETFLOW_CONFIG_DIR", dir)

	yaml := `
pipeline:
  archive_processed: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte(yaml), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.Pipeline.ArchiveProcessed)
	assert.True(t, cfg.Pipeline.WithTimestamps)
}

func TestLoadConfig_NoFileUsesDefaults(t *testing.T) {
	t.Setenv("MEETFLOW_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DefaultWhisperModel, cfg.Whisper.Model)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	t.Setenv("MEETFLOW_CONFIG_DIR", t.TempDir())

	cfg := DefaultConfig()
	cfg.Notion.DatabaseID = "db-456"
	cfg.UserContext.Company = "Example Ltd"
	require.NoError(t, SaveConfig(cfg))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "db-456", loaded.Notion.DatabaseID)
	assert.Equal(t, "Example Ltd", loaded.UserContext.Company)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Whisper.ServerURL = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Claude.MaxTokens = 0
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Pipeline.DaysOld = -1
	assert.Error(t, cfg.Validate())
}

func TestResolveBaseDir(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ".", cfg.ResolveBaseDir())
	cfg.BaseDir = "/data/meetings"
	assert.Equal(t, "/data/meetings", cfg.ResolveBaseDir())
}

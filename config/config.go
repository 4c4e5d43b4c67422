// Package config provides configuration management for the meetflow CLI.
// It supports loading configuration from YAML files and environment
// variables, with sensible defaults so the tool works out of the box.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/meetflow/pkg/prompt"
)

// Default configuration values.
const (
	DefaultWhisperURL   = "http://localhost:9000"
	DefaultWhisperModel = "medium"
	DefaultClaudeModel  = "claude-3-5-sonnet-20241022"
	DefaultMaxTokens    = 2000
	DefaultTemperature  = 0.1
	DefaultDaysOld      = 30
	DefaultCacheSize    = 16
	DefaultConfigDir    = ".meetflow"
	DefaultConfigFile   = "config.yaml"
)

// WhisperConfig holds transcription server settings.
type WhisperConfig struct {
	// ServerURL is the base URL of the Whisper-compatible server.
	ServerURL string `yaml:"server_url"`

	// Model selects the transcription model.
	Model string `yaml:"model"`

	// Language forces a transcription language; empty means auto-detect.
	Language string `yaml:"language,omitempty"`

	// Temperature is passed through to the transcription call when set.
	Temperature float64 `yaml:"temperature,omitempty"`

	// Timeout bounds one transcription request.
	Timeout time.Duration `yaml:"-"`
}

// ClaudeConfig holds generation settings.
type ClaudeConfig struct {
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`

	// BaseURL overrides the API endpoint, used by tests.
	BaseURL string `yaml:"base_url,omitempty"`
}

// NotionConfig holds publishing settings. The API token itself lives in the
// credential store, never in this file.
type NotionConfig struct {
	DatabaseID      string `yaml:"database_id,omitempty"`
	TasksDatabaseID string `yaml:"tasks_database_id,omitempty"`
}

// PipelineConfig holds workflow behavior toggles.
type PipelineConfig struct {
	// ArchiveProcessed moves recordings to processed/ after a clean run.
	ArchiveProcessed bool `yaml:"archive_processed"`

	// WithTimestamps renders timestamped segments into transcript files.
	WithTimestamps bool `yaml:"with_timestamps"`

	// DaysOld is the stale threshold for archive runs.
	DaysOld int `yaml:"days_old"`

	// CacheSize bounds the in-process summary cache.
	CacheSize int `yaml:"cache_size"`
}

// Config is the full meetflow configuration.
type Config struct {
	// BaseDir roots the working directories (transcriptions/, summaries/,
	// audio_input/, processed/, archive/). Empty means the current directory.
	BaseDir string `yaml:"base_dir,omitempty"`

	Whisper     WhisperConfig      `yaml:"whisper"`
	Claude      ClaudeConfig       `yaml:"claude"`
	Notion      NotionConfig       `yaml:"notion"`
	UserContext prompt.UserContext `yaml:"user_context"`
	Pipeline    PipelineConfig     `yaml:"pipeline"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns the configuration used when nothing is on disk.
func DefaultConfig() *Config {
	return &Config{
		Whisper: WhisperConfig{
			ServerURL: DefaultWhisperURL,
			Model:     DefaultWhisperModel,
			Timeout:   30 * time.Minute,
		},
		Claude: ClaudeConfig{
			Model:       DefaultClaudeModel,
			MaxTokens:   DefaultMaxTokens,
			Temperature: DefaultTemperature,
		},
		UserContext: prompt.DefaultUserContext(),
		Pipeline: PipelineConfig{
			ArchiveProcessed: true,
			WithTimestamps:   true,
			DaysOld:          DefaultDaysOld,
			CacheSize:        DefaultCacheSize,
		},
	}
}

// ConfigDir returns the configuration directory path.
// Uses $MEETFLOW_CONFIG_DIR if set, otherwise ~/.meetflow
func ConfigDir() (string, error) {
	if dir := os.Getenv("MEETFLOW_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads configuration in this order (later sources override
// earlier): defaults, config file, environment variables.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	// Duration fields come in as strings.
	type fileWhisper struct {
		ServerURL   string  `yaml:"server_url"`
		Model       string  `yaml:"model"`
		Language    string  `yaml:"language"`
		Temperature float64 `yaml:"temperature"`
		Timeout     string  `yaml:"timeout"`
	}
	// Pointer fields distinguish "absent" from zero values, so a partial
	// pipeline section keeps the other defaults.
	type filePipeline struct {
		ArchiveProcessed *bool `yaml:"archive_processed"`
		WithTimestamps   *bool `yaml:"with_timestamps"`
		DaysOld          *int  `yaml:"days_old"`
		CacheSize        *int  `yaml:"cache_size"`
	}
	type configFile struct {
		BaseDir     string              `yaml:"base_dir"`
		Whisper     *fileWhisper        `yaml:"whisper"`
		Claude      *ClaudeConfig       `yaml:"claude"`
		Notion      *NotionConfig       `yaml:"notion"`
		UserContext *prompt.UserContext `yaml:"user_context"`
		Pipeline    *filePipeline       `yaml:"pipeline"`
		Debug       bool                `yaml:"debug"`
	}

	var fileCfg configFile
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.BaseDir != "" {
		cfg.BaseDir = fileCfg.BaseDir
	}
	if w := fileCfg.Whisper; w != nil {
		if w.ServerURL != "" {
			cfg.Whisper.ServerURL = w.ServerURL
		}
		if w.Model != "" {
			cfg.Whisper.Model = w.Model
		}
		if w.Language != "" {
			cfg.Whisper.Language = w.Language
		}
		if w.Temperature > 0 {
			cfg.Whisper.Temperature = w.Temperature
		}
		if w.Timeout != "" {
			if d, err := time.ParseDuration(w.Timeout); err == nil {
				cfg.Whisper.Timeout = d
			}
		}
	}
	if c := fileCfg.Claude; c != nil {
		if c.Model != "" {
			cfg.Claude.Model = c.Model
		}
		if c.MaxTokens > 0 {
			cfg.Claude.MaxTokens = c.MaxTokens
		}
		if c.Temperature > 0 {
			cfg.Claude.Temperature = c.Temperature
		}
		if c.BaseURL != "" {
			cfg.Claude.BaseURL = c.BaseURL
		}
	}
	if n := fileCfg.Notion; n != nil {
		if n.DatabaseID != "" {
			cfg.Notion.DatabaseID = n.DatabaseID
		}
		if n.TasksDatabaseID != "" {
			cfg.Notion.TasksDatabaseID = n.TasksDatabaseID
		}
	}
	if u := fileCfg.UserContext; u != nil {
		if u.Role != "" {
			cfg.UserContext.Role = u.Role
		}
		if u.Region != "" {
			cfg.UserContext.Region = u.Region
		}
		if u.TeamSize > 0 {
			cfg.UserContext.TeamSize = u.TeamSize
		}
		if u.Company != "" {
			cfg.UserContext.Company = u.Company
		}
	}
	if p := fileCfg.Pipeline; p != nil {
		if p.ArchiveProcessed != nil {
			cfg.Pipeline.ArchiveProcessed = *p.ArchiveProcessed
		}
		if p.WithTimestamps != nil {
			cfg.Pipeline.WithTimestamps = *p.WithTimestamps
		}
		if p.DaysOld != nil {
			cfg.Pipeline.DaysOld = *p.DaysOld
		}
		if p.CacheSize != nil {
			cfg.Pipeline.CacheSize = *p.CacheSize
		}
	}
	if fileCfg.Debug {
		cfg.Debug = true
	}

	return nil
}

// loadFromEnv overlays MEETFLOW_* environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("MEETFLOW_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}

	if v := os.Getenv("MEETFLOW_WHISPER_URL"); v != "" {
		cfg.Whisper.ServerURL = v
	}
	if v := os.Getenv("MEETFLOW_WHISPER_MODEL"); v != "" {
		cfg.Whisper.Model = v
	}
	if v := os.Getenv("MEETFLOW_WHISPER_LANGUAGE"); v != "" {
		cfg.Whisper.Language = v
	}

	if v := os.Getenv("MEETFLOW_CLAUDE_MODEL"); v != "" {
		cfg.Claude.Model = v
	}
	if v := os.Getenv("MEETFLOW_CLAUDE_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Claude.MaxTokens = n
		}
	}

	if v := os.Getenv("MEETFLOW_NOTION_DATABASE_ID"); v != "" {
		cfg.Notion.DatabaseID = v
	}
	if v := os.Getenv("MEETFLOW_NOTION_TASKS_DATABASE_ID"); v != "" {
		cfg.Notion.TasksDatabaseID = v
	}

	if v := os.Getenv("MEETFLOW_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// Validate checks the configuration for obvious misconfiguration.
func (c *Config) Validate() error {
	if c.Whisper.ServerURL == "" {
		return fmt.Errorf("whisper server_url must not be empty")
	}
	if c.Claude.MaxTokens <= 0 {
		return fmt.Errorf("claude max_tokens must be positive")
	}
	if c.Pipeline.DaysOld < 0 {
		return fmt.Errorf("pipeline days_old must not be negative")
	}
	return nil
}

// ResolveBaseDir returns the working directory root, defaulting to the
// current directory.
func (c *Config) ResolveBaseDir() string {
	if c.BaseDir == "" {
		return "."
	}
	return c.BaseDir
}

// SaveConfig writes the configuration to the config file, creating the
// config directory if needed.
func SaveConfig(cfg *Config) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	type fileWhisper struct {
		ServerURL   string  `yaml:"server_url"`
		Model       string  `yaml:"model"`
		Language    string  `yaml:"language,omitempty"`
		Temperature float64 `yaml:"temperature,omitempty"`
		Timeout     string  `yaml:"timeout,omitempty"`
	}
	type configFile struct {
		BaseDir     string             `yaml:"base_dir,omitempty"`
		Whisper     fileWhisper        `yaml:"whisper"`
		Claude      ClaudeConfig       `yaml:"claude"`
		Notion      NotionConfig       `yaml:"notion,omitempty"`
		UserContext prompt.UserContext `yaml:"user_context"`
		Pipeline    PipelineConfig     `yaml:"pipeline"`
		Debug       bool               `yaml:"debug,omitempty"`
	}

	fileCfg := configFile{
		BaseDir: cfg.BaseDir,
		Whisper: fileWhisper{
			ServerURL:   cfg.Whisper.ServerURL,
			Model:       cfg.Whisper.Model,
			Language:    cfg.Whisper.Language,
			Temperature: cfg.Whisper.Temperature,
			Timeout:     cfg.Whisper.Timeout.String(),
		},
		Claude:      cfg.Claude,
		Notion:      cfg.Notion,
		UserContext: cfg.UserContext,
		Pipeline:    cfg.Pipeline,
		Debug:       cfg.Debug,
	}

	data, err := yaml.Marshal(&fileCfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/otherjamesbrown/meetflow/config"
)

// ConfigCommandDeps holds the dependencies for the config commands.
type ConfigCommandDeps struct {
	LoadConfig func() (*config.Config, error)
	SaveConfig func(cfg *config.Config) error
	ConfigPath func() (string, error)
}

// DefaultConfigDeps returns the production dependencies.
func DefaultConfigDeps() *ConfigCommandDeps {
	return &ConfigCommandDeps{
		LoadConfig: config.LoadConfig,
		SaveConfig: config.SaveConfig,
		ConfigPath: config.ConfigPath,
	}
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(deps *ConfigCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultConfigDeps()
	}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and edit meetflow configuration",
	}

	cmd.AddCommand(
		newConfigShowCommand(deps),
		newConfigInitCommand(deps),
		newConfigSetCommand(deps),
	)
	return cmd
}

func newConfigShowCommand(deps *ConfigCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			path, err := deps.ConfigPath()
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("marshaling config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", path)
			fmt.Fprint(out, string(data))
			return nil
		},
	}
}

func newConfigInitCommand(deps *ConfigCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := deps.SaveConfig(config.DefaultConfig()); err != nil {
				return err
			}
			path, err := deps.ConfigPath()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}

func newConfigSetCommand(deps *ConfigCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value and save the file",
		Long: `Set a configuration value. Supported keys:

  base_dir                  working directory root
  whisper.server_url        transcription server URL
  whisper.model             transcription model
  whisper.language          forced transcription language
  claude.model              generation model
  claude.max_tokens         generation token limit
  notion.database_id        meetings database
  notion.tasks_database_id  tasks database
  user_context.role         summary persona role
  user_context.region       summary persona region
  user_context.team_size    summary persona team size
  user_context.company      summary persona company
  pipeline.days_old         archive age cutoff

Examples:
  meetflow config set notion.database_id 1234abcd
  meetflow config set pipeline.days_old 60`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}

			key, value := args[0], args[1]
			if err := applyConfigValue(cfg, key, value); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := deps.SaveConfig(cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "set %s = %s\n", key, value)
			return nil
		},
	}
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	atoi := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s expects a number, got %q", key, value)
		}
		return n, nil
	}

	switch key {
	case "base_dir":
		cfg.BaseDir = value
	case "whisper.server_url":
		cfg.Whisper.ServerURL = value
	case "whisper.model":
		cfg.Whisper.Model = value
	case "whisper.language":
		cfg.Whisper.Language = value
	case "claude.model":
		cfg.Claude.Model = value
	case "claude.max_tokens":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.Claude.MaxTokens = n
	case "notion.database_id":
		cfg.Notion.DatabaseID = value
	case "notion.tasks_database_id":
		cfg.Notion.TasksDatabaseID = value
	case "user_context.role":
		cfg.UserContext.Role = value
	case "user_context.region":
		cfg.UserContext.Region = value
	case "user_context.team_size":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.UserContext.TeamSize = n
	case "user_context.company":
		cfg.UserContext.Company = value
	case "pipeline.days_old":
		n, err := atoi()
		if err != nil {
			return err
		}
		cfg.Pipeline.DaysOld = n
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Package cmd provides CLI commands for the meetflow tool.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/meetflow/config"
	"github.com/otherjamesbrown/meetflow/credentials"
	"github.com/otherjamesbrown/meetflow/pkg/archive"
	"github.com/otherjamesbrown/meetflow/pkg/llm"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
	"github.com/otherjamesbrown/meetflow/pkg/notion"
	"github.com/otherjamesbrown/meetflow/pkg/pipeline"
	"github.com/otherjamesbrown/meetflow/pkg/transcribe"
)

// ProcessCommandDeps holds the dependencies for the process command.
type ProcessCommandDeps struct {
	LoadConfig func() (*config.Config, error)

	// BuildPipeline constructs the pipeline with the collaborators the run
	// needs. Tests override this to inject fakes.
	BuildPipeline func(cfg *config.Config, opts pipeline.RunOptions, log logging.Logger) (*pipeline.Pipeline, error)
}

// DefaultProcessDeps returns the production dependencies.
func DefaultProcessDeps() *ProcessCommandDeps {
	return &ProcessCommandDeps{
		LoadConfig:    config.LoadConfig,
		BuildPipeline: buildPipeline,
	}
}

// buildPipeline wires the real collaborators, skipping the ones the run
// options make unnecessary so missing credentials only matter when used.
func buildPipeline(cfg *config.Config, opts pipeline.RunOptions, log logging.Logger) (*pipeline.Pipeline, error) {
	store := credentials.NewStore()
	deps := pipeline.Deps{Logger: log}

	if !opts.SkipTranscribe {
		tc, err := transcribe.NewClient(transcribe.Config{
			BaseURL: cfg.Whisper.ServerURL,
			Model:   cfg.Whisper.Model,
			Timeout: cfg.Whisper.Timeout,
		}, log)
		if err != nil {
			return nil, err
		}
		deps.Transcriber = tc
	}

	if !opts.SkipSummarize {
		apiKey, err := store.Get(credentials.AnthropicAPIKey)
		if err != nil {
			return nil, fmt.Errorf("anthropic credential: %w (run 'meetflow auth set %s')",
				err, credentials.AnthropicAPIKey)
		}
		gc, err := llm.NewClient(llm.Config{
			APIKey:      apiKey,
			BaseURL:     cfg.Claude.BaseURL,
			Model:       cfg.Claude.Model,
			MaxTokens:   cfg.Claude.MaxTokens,
			Temperature: cfg.Claude.Temperature,
		}, log)
		if err != nil {
			return nil, err
		}
		deps.Generator = gc
	}

	if !opts.SkipPublish {
		token, err := store.Get(credentials.NotionToken)
		if err != nil {
			return nil, fmt.Errorf("notion credential: %w (run 'meetflow auth set %s')",
				err, credentials.NotionToken)
		}
		nc, err := notion.NewClient(notion.Config{
			Token:           token,
			DatabaseID:      cfg.Notion.DatabaseID,
			TasksDatabaseID: cfg.Notion.TasksDatabaseID,
		}, log)
		if err != nil {
			return nil, err
		}
		deps.Publisher = nc
	}

	if !opts.NoArchive {
		deps.Archiver = archive.NewEngine(cfg.ResolveBaseDir(), archive.WithLogger(log))
	}

	return pipeline.New(cfg.ResolveBaseDir(), cfg.UserContext, deps,
		pipeline.WithCacheSize(cfg.Pipeline.CacheSize)), nil
}

// NewProcessCommand creates the process command.
func NewProcessCommand(deps *ProcessCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultProcessDeps()
	}

	var (
		meetingType    string
		customPrompt   string
		customRole     string
		language       string
		model          string
		participants   []string
		skipTranscribe bool
		skipSummarize  bool
		skipPublish    bool
		noArchive      bool
		combine        bool
		timestamps     bool
	)

	cmd := &cobra.Command{
		Use:   "process <audio-file> [audio-file...]",
		Short: "Run the full meeting pipeline on one or more recordings",
		Long: `Process a meeting recording through the complete pipeline:
transcription, meeting-type detection, summarization, Notion publishing,
and archival of the source recording.

With several files and --combine, every file is transcribed and a single
combined summary is produced.

Examples:
  meetflow process meeting.m4a
  meetflow process meeting.m4a --meeting-type 1:1
  meetflow process meeting.m4a --skip-publish
  meetflow process part1.m4a part2.m4a --combine`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg, "process")

			if model != "" {
				cfg.Whisper.Model = model
			}
			if cmd.Flags().Changed("timestamps") {
				cfg.Pipeline.WithTimestamps = timestamps
			}

			opts := pipeline.RunOptions{
				MeetingType:    meetingType,
				CustomPrompt:   customPrompt,
				CustomRole:     customRole,
				Language:       orDefault(language, cfg.Whisper.Language),
				Temperature:    cfg.Whisper.Temperature,
				Participants:   participants,
				SkipTranscribe: skipTranscribe,
				SkipSummarize:  skipSummarize,
				SkipPublish:    skipPublish,
				NoArchive:      noArchive || !cfg.Pipeline.ArchiveProcessed,
				WithTimestamps: cfg.Pipeline.WithTimestamps,
			}

			p, err := deps.BuildPipeline(cfg, opts, log)
			if err != nil {
				return err
			}

			var results []*pipeline.Result
			if combine && len(args) > 1 {
				results = append(results, p.ProcessCombined(cmd.Context(), args, opts))
			} else {
				for _, file := range args {
					opts.AudioFile = file
					results = append(results, p.Process(cmd.Context(), opts))
				}
			}

			failed := 0
			for _, r := range results {
				printResult(cmd, r)
				if !r.OK() {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d runs finished with errors", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&meetingType, "meeting-type", "t", "",
		"pin the meeting type (1:1, team_meeting, forecast, customer, technical, strategic)")
	cmd.Flags().StringVar(&customPrompt, "custom-prompt", "", "replace the assembled summarization prompt")
	cmd.Flags().StringVar(&customRole, "custom-role", "", "replace the summarizer role description")
	cmd.Flags().StringVar(&language, "language", "", "force the transcription language")
	cmd.Flags().StringVar(&model, "model", "", "override the transcription model")
	cmd.Flags().StringSliceVar(&participants, "participants", nil, "participant names (comma-separated)")
	cmd.Flags().BoolVar(&skipTranscribe, "skip-transcribe", false, "reuse the newest existing transcript")
	cmd.Flags().BoolVar(&skipSummarize, "skip-summarize", false, "skip summarization and publishing")
	cmd.Flags().BoolVar(&skipPublish, "skip-publish", false, "skip Notion publishing")
	cmd.Flags().BoolVar(&noArchive, "no-archive", false, "leave the recording in audio_input/")
	cmd.Flags().BoolVar(&combine, "combine", false, "summarize multiple recordings as one meeting")
	cmd.Flags().BoolVar(&timestamps, "timestamps", false, "include timestamped segments in the transcript file")

	return cmd
}

func printResult(cmd *cobra.Command, r *pipeline.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%s\n", r.AudioFile)
	fmt.Fprintf(out, "  state:      %s\n", r.State)
	if r.Category != "" {
		fmt.Fprintf(out, "  type:       %s (confidence %.2f)\n", r.Category, r.Confidence)
	}
	if r.TranscriptFile != "" {
		fmt.Fprintf(out, "  transcript: %s\n", r.TranscriptFile)
	}
	if r.SummaryFile != "" {
		fmt.Fprintf(out, "  summary:    %s\n", r.SummaryFile)
	}
	if r.NotionPage != "" {
		fmt.Fprintf(out, "  notion:     %s\n", r.NotionPage)
	}
	if len(r.TaskURLs) > 0 {
		fmt.Fprintf(out, "  tasks:      %d created\n", len(r.TaskURLs))
	}
	if r.ArchivedFile != "" {
		fmt.Fprintf(out, "  archived:   %s\n", r.ArchivedFile)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "  error:      %s\n", e)
	}
}

// newLogger builds the command logger from config.
func newLogger(cfg *config.Config, component string) logging.Logger {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	return logging.NewLogger(&logging.Config{
		Level:     level,
		Component: component,
		Output:    os.Stderr,
	})
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

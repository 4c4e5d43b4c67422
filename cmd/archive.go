package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/meetflow/config"
	"github.com/otherjamesbrown/meetflow/pkg/archive"
	"github.com/otherjamesbrown/meetflow/pkg/logging"
)

// ArchiveCommandDeps holds the dependencies for the archive commands.
type ArchiveCommandDeps struct {
	LoadConfig func() (*config.Config, error)

	// NewEngine builds the archive engine. Tests override this to pin the
	// base directory and clock.
	NewEngine func(cfg *config.Config, log logging.Logger) *archive.Engine
}

// DefaultArchiveDeps returns the production dependencies.
func DefaultArchiveDeps() *ArchiveCommandDeps {
	return &ArchiveCommandDeps{
		LoadConfig: config.LoadConfig,
		NewEngine: func(cfg *config.Config, log logging.Logger) *archive.Engine {
			return archive.NewEngine(cfg.ResolveBaseDir(), archive.WithLogger(log))
		},
	}
}

// NewArchiveCommand creates the archive command group.
func NewArchiveCommand(deps *ArchiveCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultArchiveDeps()
	}

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage transcript, summary, and audio archives",
	}

	cmd.AddCommand(
		newArchiveRunCommand(deps),
		newArchiveDuplicatesCommand(deps),
		newArchiveStatsCommand(deps),
	)
	return cmd
}

func newArchiveRunCommand(deps *ArchiveCommandDeps) *cobra.Command {
	var (
		dryRun         bool
		duplicatesOnly bool
		archiveOld     bool
		archiveAudio   bool
		daysOld        int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Archive duplicates and old files into dated buckets",
		Long: `Run an archive cycle. Older copies of artifacts sharing a base name are
moved into YYYY-MM buckets under archive/, keeping only the latest, and
files older than the cutoff move too unless --duplicates-only is given.
Empty directories left behind under archive/ are pruned.

Examples:
  meetflow archive run --dry-run
  meetflow archive run --duplicates-only
  meetflow archive run --days-old 60 --archive-audio`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			log := newLogger(cfg, "archive")
			engine := deps.NewEngine(cfg, log)

			if daysOld == 0 {
				daysOld = cfg.Pipeline.DaysOld
			}
			opts := archive.CycleOptions{
				RemoveDuplicates:      true,
				ArchiveStale:          archiveOld && !duplicatesOnly,
				ArchiveProcessedAudio: archiveAudio && !duplicatesOnly,
				DaysOld:               daysOld,
				DryRun:                dryRun,
			}

			result, err := engine.RunFullCycle(opts)

			out := cmd.OutOrStdout()
			verb := "archived"
			if dryRun {
				verb = "would archive"
			}
			fmt.Fprintf(out, "%s %d files:\n", verb, result.Total()-result.EmptyDirsRemoved)
			fmt.Fprintf(out, "  transcription duplicates: %d\n", result.TranscriptionDuplicates)
			fmt.Fprintf(out, "  summary duplicates:       %d\n", result.SummaryDuplicates)
			if opts.ArchiveStale {
				fmt.Fprintf(out, "  old transcriptions:       %d\n", result.TranscriptionsStale)
				fmt.Fprintf(out, "  old summaries:            %d\n", result.SummariesStale)
			}
			if opts.ArchiveProcessedAudio {
				fmt.Fprintf(out, "  old processed audio:      %d\n", result.ProcessedAudioArchived)
			}
			fmt.Fprintf(out, "  empty dirs removed:       %d\n", result.EmptyDirsRemoved)

			return err
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report planned moves without touching files")
	cmd.Flags().BoolVar(&duplicatesOnly, "duplicates-only", false, "resolve duplicates only, ignore age")
	cmd.Flags().BoolVar(&archiveOld, "archive-old", true, "archive files older than the cutoff (disable with --archive-old=false)")
	cmd.Flags().BoolVar(&archiveAudio, "archive-audio", false, "apply the age cutoff to processed audio too")
	cmd.Flags().IntVar(&daysOld, "days-old", 0, "age cutoff in days (default from config)")

	return cmd
}

func newArchiveDuplicatesCommand(deps *ArchiveCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates",
		Short: "List artifact groups with more than one copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			engine := deps.NewEngine(cfg, newLogger(cfg, "archive"))

			dupes, err := engine.ListDuplicates()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(dupes) == 0 {
				fmt.Fprintln(out, "no duplicates found")
				return nil
			}

			categories := make([]string, 0, len(dupes))
			for c := range dupes {
				categories = append(categories, c)
			}
			sort.Strings(categories)

			for _, category := range categories {
				fmt.Fprintf(out, "%s:\n", category)
				bases := make([]string, 0, len(dupes[category]))
				for b := range dupes[category] {
					bases = append(bases, b)
				}
				sort.Strings(bases)
				for _, base := range bases {
					fmt.Fprintf(out, "  %s (%d copies)\n", base, len(dupes[category][base]))
					for _, name := range dupes[category][base] {
						fmt.Fprintf(out, "    %s\n", name)
					}
				}
			}
			return nil
		},
	}
}

func newArchiveStatsCommand(deps *ArchiveCommandDeps) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show file counts for active and archived directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := deps.LoadConfig()
			if err != nil {
				return err
			}
			engine := deps.NewEngine(cfg, newLogger(cfg, "archive"))

			stats, err := engine.CollectStats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "active:")
			fmt.Fprintf(out, "  transcriptions:  %d\n", stats.Transcriptions)
			fmt.Fprintf(out, "  summaries:       %d\n", stats.Summaries)
			fmt.Fprintf(out, "  processed audio: %d\n", stats.ProcessedAudio)
			fmt.Fprintln(out, "archived:")
			fmt.Fprintf(out, "  transcriptions:  %d\n", stats.ArchivedTranscriptions)
			fmt.Fprintf(out, "  summaries:       %d\n", stats.ArchivedSummaries)
			fmt.Fprintf(out, "  audio:           %d\n", stats.ArchivedAudio)
			return nil
		},
	}
}

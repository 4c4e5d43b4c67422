package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/meetflow/pkg/classify"
)

// ClassifyCommandDeps holds the dependencies for the classify command.
type ClassifyCommandDeps struct {
	ReadFile func(path string) ([]byte, error)
	Classify func(transcript string, participants []string) classify.Result
}

// DefaultClassifyDeps returns the production dependencies.
func DefaultClassifyDeps() *ClassifyCommandDeps {
	return &ClassifyCommandDeps{
		ReadFile: os.ReadFile,
		Classify: classify.Classify,
	}
}

// NewClassifyCommand creates the classify command.
func NewClassifyCommand(deps *ClassifyCommandDeps) *cobra.Command {
	if deps == nil {
		deps = DefaultClassifyDeps()
	}

	var (
		participants []string
		showScores   bool
	)

	cmd := &cobra.Command{
		Use:   "classify <transcript-file>",
		Short: "Detect the meeting type of a transcript",
		Long: `Classify a transcript into one of the meeting types (1:1, team_meeting,
forecast, customer, technical, strategic) using weighted keyword scoring.

Examples:
  meetflow classify transcriptions/standup_transcription_20250804_093000.txt
  meetflow classify notes.txt --participants alice,bob --scores`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := deps.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading transcript: %w", err)
			}

			result := deps.Classify(string(data), participants)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "type:       %s\n", result.Category)
			fmt.Fprintf(out, "confidence: %.2f\n", result.Confidence)

			if showScores {
				cats := make([]classify.Category, 0, len(result.Scores))
				for c := range result.Scores {
					cats = append(cats, c)
				}
				sort.Slice(cats, func(i, j int) bool {
					return result.Scores[cats[i]] > result.Scores[cats[j]]
				})
				fmt.Fprintln(out, "scores:")
				for _, c := range cats {
					fmt.Fprintf(out, "  %-14s %.1f\n", c, result.Scores[c])
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&participants, "participants", nil, "participant names (comma-separated)")
	cmd.Flags().BoolVar(&showScores, "scores", false, "print raw per-type scores")

	return cmd
}

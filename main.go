// meetflow turns meeting recordings into transcripts, summaries, and Notion
// pages, and keeps the working directories tidy with a dated archive.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/meetflow/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "meetflow",
		Short: "Meeting recording pipeline",
		Long: `meetflow processes meeting recordings end to end: transcription via a
Whisper-compatible server, meeting-type detection, Claude summarization,
Notion publishing, and archival of processed files.

Configuration lives in ~/.meetflow/config.yaml (see 'meetflow config');
API credentials live in the system keyring (see 'meetflow auth').`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		cmd.NewProcessCommand(nil),
		cmd.NewArchiveCommand(nil),
		cmd.NewClassifyCommand(nil),
		cmd.NewAuthCommand(nil),
		cmd.NewConfigCommand(nil),
		cmd.NewVersionCommand(),
	)

	return root
}

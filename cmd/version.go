package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/otherjamesbrown/meetflow/pkg/buildinfo"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := buildinfo.Get()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "meetflow %s\n", buildinfo.String())
			fmt.Fprintf(out, "go: %s\n", info.GoVersion)
		},
	}
}

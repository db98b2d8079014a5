package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for nsmarchive.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nsmarchive",
		Short: "Mirror the Nintendo sheet music catalog to disk",
		Long: `nsmarchive crawls the ninsheetmusic.org catalog and downloads every
sheet in PDF, MIDI and MusicXML form.

Files are written to <output>/<series>/<game>/<sheet>.<ext>. Rerunning into
the same directory overwrites the files in place, so an interrupted run can
simply be started again.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs to stderr as JSON")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Package cli implements the taskdeck command-line interface using Cobra.
// Client commands talk to a taskdeck API server; serve and user run one.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "taskdeck: track site tasks from the terminal",
	Long: `taskdeck is a task dashboard for field teams.

Log in to a taskdeck server, list and filter tasks, follow the status
summary, and create, update or delete tasks as your role allows.
Run 'taskdeck serve' to host the task API yourself.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", explain(err))
		os.Exit(1)
	}
}

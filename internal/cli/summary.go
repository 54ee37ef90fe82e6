package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show task counts by status",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	engine, err := env.loadedEngine(cmd.Context())
	if err != nil {
		return err
	}

	s := engine.Summary()
	out := cmd.OutOrStdout()
	printSummary(out, s)
	if n := s.Unclassified(); n > 0 {
		fmt.Fprintf(out, "Unclassified: %d\n", n)
	}
	return nil
}

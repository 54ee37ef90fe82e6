package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Long:    "Delete a task. Requires the ADMIN role. ID may be a unique prefix.",
	Args:    cobra.ExactArgs(1),
	RunE:    runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	engine, err := env.loadedEngine(cmd.Context())
	if err != nil {
		return err
	}

	id, err := resolveID(engine, args[0])
	if err != nil {
		return err
	}
	if err := engine.Delete(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
	return nil
}

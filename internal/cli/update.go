package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateFlags taskFlags

var updateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Update fields of a task",
	Long: `Update a task. Only the flags you pass are changed; pass an empty
--start or --end to remove that date.
VIEWER accounts cannot update tasks. ID may be a unique prefix.`,
	Example: `  taskdeck update 3f2a --status in_progress --completion 40
  taskdeck update 3f2a --remarks "waiting on parts" --status hold
  taskdeck update 3f2a --end ""`,
	Args: cobra.ExactArgs(1),
	RunE: runUpdate,
}

func init() {
	updateFlags.register(updateCmd.Flags(), true)
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	patch, err := updateFlags.patch(cmd.Flags())
	if err != nil {
		return err
	}

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
	t, err := engine.Update(cmd.Context(), id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s  %s  %s %d%%\n", shortID(t.ID), t.TaskName, t.Status, t.CompletionPercentage)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var createFlags taskFlags

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a task",
	Long: `Create a task. Requires the ADMIN or SUPERVISOR role.
New tasks start NOT_STARTED at 0% completion.`,
	Example: `  taskdeck create --name "Replace pump seal" --priority high --hours 6
  taskdeck create --name "Inspect valves" --responsible Luis --start 2026-11-02`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createFlags.register(createCmd.Flags(), false)
	_ = createCmd.MarkFlagRequired("name")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	draft, err := createFlags.draft()
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

	t, err := engine.Create(cmd.Context(), draft)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s  %s\n", shortID(t.ID), t.TaskName)
	return nil
}

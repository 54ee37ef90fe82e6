package cli

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one task",
	Long:  "Show every field of a task. ID may be a unique prefix.",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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
	t, _ := engine.Find(id)
	printTask(cmd.OutOrStdout(), t)
	return nil
}

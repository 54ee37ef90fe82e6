package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/domain"
)

var (
	listStatus string
	listSearch string
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks from the server. --status narrows to one status and
--search matches task name, responsible person, remarks or the last
editor, ignoring case.
The summary line always counts the whole collection.`,
	Example: `  taskdeck list
  taskdeck list --status in_progress
  taskdeck list --search pump`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "all", "all, NOT_STARTED, IN_PROGRESS, COMPLETED or HOLD")
	listCmd.Flags().StringVarP(&listSearch, "search", "q", "", "Search term")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print tasks as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	filter, err := domain.ParseStatusFilter(listStatus)
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

	tasks := engine.FilteredView(filter, listSearch)
	out := cmd.OutOrStdout()

	if listJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(tasks)
	}

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks match.")
	} else if err := printTasks(out, tasks); err != nil {
		return err
	}
	fmt.Fprintln(out)
	printSummary(out, engine.Summary())
	return nil
}

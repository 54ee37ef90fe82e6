package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/daemon"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the task API server",
	Long: `Run the taskdeck API server in the foreground.

Tasks, users and login tokens are stored in $TASKDECK_HOME/state.db.
Create the first account with 'taskdeck user add'.`,
	Example: `  taskdeck serve
  taskdeck serve --host 0.0.0.0 --port 9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := daemon.NewLogger(cfg.Logging, os.Stderr)
	d, err := daemon.NewWithConfig(cfg, logger)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}
	defer d.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "taskdeck API listening on http://%s\n", cfg.Addr())
	return d.Serve(cmd.Context())
}

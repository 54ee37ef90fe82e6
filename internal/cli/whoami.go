package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app/permission"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user and what they may do",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	u, err := env.ws.Whoami(cmd.Context())
	if err != nil {
		return err
	}

	caps := permission.Capabilities(u.Role)
	names := make([]string, 0, len(caps))
	for _, c := range caps {
		names = append(names, string(c))
	}
	allowed := strings.Join(names, ", ")
	if allowed == "" {
		allowed = "read only"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Username:  %s\n", u.Username)
	fmt.Fprintf(out, "Name:      %s\n", u.FullName)
	fmt.Fprintf(out, "Role:      %s\n", u.Role)
	fmt.Fprintf(out, "Can:       %s\n", allowed)
	fmt.Fprintf(out, "Server:    %s\n", env.client.BaseURL())
	return nil
}

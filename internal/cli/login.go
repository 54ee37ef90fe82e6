package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/domain"
)

var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login [USERNAME]",
	Short: "Log in to the task server",
	Long: `Authenticate against the configured server and save the session
locally. Username and password are prompted for when not given.`,
	Example: `  taskdeck login
  taskdeck login ana --password secret`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	in := newLineScanner(os.Stdin)
	out := cmd.ErrOrStderr()

	creds := domain.Credentials{Password: loginPassword}
	if len(args) == 1 {
		creds.Username = args[0]
	} else {
		creds.Username = prompt(in, out, "Username: ")
	}
	if creds.Password == "" {
		creds.Password = prompt(in, out, "Password: ")
	}

	sess, err := env.ws.Login(cmd.Context(), creds)
	if err != nil {
		return err
	}

	name := sess.User.FullName
	if name == "" {
		name = sess.User.Username
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s) at %s\n", name, sess.User.Role, env.client.BaseURL())
	return nil
}

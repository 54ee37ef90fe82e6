package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/app/accounts"
	"github.com/taskdeck/taskdeck/internal/daemon"
	"github.com/taskdeck/taskdeck/internal/domain"
	"github.com/taskdeck/taskdeck/internal/infra/sqlite"
)

var (
	userRole     string
	userPassword string
	userFullName string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage server accounts",
	Long:  "Manage the accounts of the local taskdeck server. Works directly on the server database.",
}

var userAddCmd = &cobra.Command{
	Use:   "add USERNAME",
	Short: "Create an account",
	Example: `  taskdeck user add admin --role admin
  taskdeck user add luis --role operator --name "Luis Prado" --password secret`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userRole, "role", string(domain.RoleViewer), "ADMIN, SUPERVISOR, OPERATOR or VIEWER")
	userAddCmd.Flags().StringVarP(&userPassword, "password", "p", "", "Password (prompted when omitted)")
	userAddCmd.Flags().StringVar(&userFullName, "name", "", "Full name")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	role, ok := domain.ParseRole(userRole)
	if !ok {
		return fmt.Errorf("%w: unknown role %q", domain.ErrValidation, userRole)
	}

	password := userPassword
	if password == "" {
		password = prompt(newLineScanner(os.Stdin), cmd.ErrOrStderr(), "Password: ")
	}

	db, err := sqlite.Open(daemon.TaskdeckHome())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	svc := accounts.NewService(db, accounts.DefaultTokenTTL)
	u := domain.User{
		Username: args[0],
		FullName: strings.TrimSpace(userFullName),
		Role:     role,
	}
	if err := svc.Register(cmd.Context(), u, password); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %s account %s\n", role, strings.TrimSpace(u.Username))
	return nil
}

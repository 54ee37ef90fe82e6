package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taskdeck/taskdeck/internal/domain"
)

var (
	profileName     string
	profilePassword string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Change your display name or password",
	Example: `  taskdeck profile --name "Ana Torres"
  taskdeck profile --password n3w-secret`,
	Args: cobra.NoArgs,
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().StringVar(&profileName, "name", "", "New full name")
	profileCmd.Flags().StringVar(&profilePassword, "password", "", "New password")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	var update domain.ProfileUpdate
	if cmd.Flags().Changed("name") {
		update.FullName = &profileName
	}
	if cmd.Flags().Changed("password") {
		update.Password = &profilePassword
	}

	env, err := openClient()
	if err != nil {
		return err
	}
	defer env.Close()

	u, err := env.ws.UpdateProfile(cmd.Context(), update)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s (%s)\n", u.Username, u.FullName)
	return nil
}

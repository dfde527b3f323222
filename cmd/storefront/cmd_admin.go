package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aircon-store/storefront/app/repositories"
	"github.com/aircon-store/storefront/app/services"
	"github.com/aircon-store/storefront/config"
)

var adminInput services.AdminInput

// storefront admin:create --email --password --name
var adminCreateCmd = &cobra.Command{
	Use:   "admin:create",
	Short: "Create an admin account, or reset the password of an existing one",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		in := adminInput
		if in.Email == "" {
			in.Email = config.AdminEmail()
		}
		if in.Password == "" {
			in.Password = config.AdminPassword()
		}
		u, err := services.NewAuthService(repositories.NewUserRepository(db)).CreateAdmin(cmd.Context(), in)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin %s ready (id %s)\n", u.Email, u.ID)
		return nil
	},
}

func init() {
	f := adminCreateCmd.Flags()
	f.StringVar(&adminInput.Email, "email", "", "admin email (default ADMIN_EMAIL)")
	f.StringVar(&adminInput.Password, "password", "", "admin password (default ADMIN_PASSWORD)")
	f.StringVar(&adminInput.Name, "name", "Administrator", "display name")
}

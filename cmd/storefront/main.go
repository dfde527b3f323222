// Command storefront runs the air-conditioner storefront API and its
// maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/aircon-store/storefront/database/migrations"
	"github.com/aircon-store/storefront/database/seeders"
	"github.com/aircon-store/storefront/pkg/app"
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Air-conditioner storefront and admin API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return bootConfig()
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLogger()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(app.MigrateCommands(openDB)...)
	rootCmd.AddCommand(app.SeedCommand(openDB, seeders.RunAll))
	rootCmd.AddCommand(app.RouteListCommand(buildApp))
	rootCmd.AddCommand(adminCreateCmd)
	rootCmd.AddCommand(productsPatchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

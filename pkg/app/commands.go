package app

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/aircon-store/storefront/pkg/migration"
)

// DBOpener returns the connection a command runs against.
type DBOpener func() (*gorm.DB, error)

// MigrateCommands returns migrate, migrate:rollback and migrate:status.
func MigrateCommands(open DBOpener) []*cobra.Command {
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Run all pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			n, err := migration.New(db, cmd.OutOrStdout()).Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) applied\n", n)
			return nil
		},
	}

	rollback := &cobra.Command{
		Use:   "migrate:rollback",
		Short: "Roll back the last batch of migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			n, err := migration.New(db, cmd.OutOrStdout()).Rollback()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d migration(s) rolled back\n", n)
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "migrate:status",
		Short: "Show the status of each migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			list, err := migration.New(db, nil).Status()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
			for _, s := range list {
				batch := "-"
				if s.Ran {
					batch = fmt.Sprint(s.Batch)
				}
				fmt.Fprintf(w, "%s\t%v\t%s\n", s.Name, s.Ran, batch)
			}
			return w.Flush()
		},
	}

	return []*cobra.Command{migrate, rollback, status}
}

// SeedCommand runs seed against the opened database.
func SeedCommand(open DBOpener, seed func(ctx context.Context, db *gorm.DB, out io.Writer) error) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Run all database seeders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders...")
			return seed(cmd.Context(), db, cmd.OutOrStdout())
		},
	}
}

// RouteListCommand prints the routes build registers.
func RouteListCommand(build func() (*Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "route:list",
		Short: "List all registered routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := build()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "METHOD\tPATH\tNAME")
			fmt.Fprintln(w, "------\t----\t----")
			for _, ri := range a.RouteList() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ri.Method, ri.Path, ri.Name)
			}
			return w.Flush()
		},
	}
}

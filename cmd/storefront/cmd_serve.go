package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aircon-store/storefront/config"
	"github.com/aircon-store/storefront/internal/server"
	"github.com/aircon-store/storefront/pkg/database"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server (and the gRPC health server when GRPC_PORT is set)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := buildApp()
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = ":" + config.AppPort()
		}
		return a.Serve(ctx, server.Options{
			Addr:     addr,
			GRPCPort: config.GRPCPort(),
			Health: func(c context.Context) error {
				return database.Ping(c, database.DB)
			},
		})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :APP_PORT)")
}

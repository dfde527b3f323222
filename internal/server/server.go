// Package server owns the listen/serve lifecycle of the HTTP server and
// the optional gRPC health server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/aircon-store/storefront/pkg/grpc"
	"github.com/aircon-store/storefront/pkg/logger"
)

// Options configures Run.
type Options struct {
	Addr     string
	GRPCPort string
	// Health is reported by the gRPC health service.
	Health          grpc.Checker
	ShutdownTimeout time.Duration
}

// Run serves handler until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func Run(ctx context.Context, handler http.Handler, opts Options) error {
	lis, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", opts.Addr, err)
	}
	return Serve(ctx, lis, handler, opts)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	if opts.GRPCPort != "" {
		gs, err := grpc.Start(opts.GRPCPort, opts.Health)
		if err != nil {
			lis.Close()
			return err
		}
		defer grpc.Stop(gs)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: serving", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("http: shutting down", "timeout", opts.ShutdownTimeout.String())
	sctx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

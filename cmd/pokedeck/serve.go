// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Cylabeth/pokedeck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP aggregation backend",
	Long: `Serve starts the JSON API that the web client queries: /api/search,
/api/pokemon/{name}, /api/hydrate, /api/expand and the index/list
endpoints. Shuts down gracefully on SIGINT/SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}
		logger := newLogger()

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: server.New(engine, logger).Routes(),
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", cfg.Server.Addr).Msg("listening")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server: %w", err)
		case <-ctx.Done():
		}

		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")

	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/simplelog/internal/server"
	"github.com/aretw0/simplelog/pkg/notes"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the front end through the offline cache",
	Long: `Serve answers every request through the offline cache manager: cached
resources are served without touching the origin, everything else is
proxied. On start the current cache generation is resumed, or installed
and activated when missing. /healthz and /debug/state are served too.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}

		store, closeFn, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer closeFn()

		mgr, err := openCache()
		if err != nil {
			return err
		}

		srv, err := server.New(server.Options{
			Addr:    cfg.Server.Addr,
			Handler: server.NewRouter(mgr.Handler(), []introspection.Introspectable{store, mgr}, logger),
			Logger:  logger,
		})
		if err != nil {
			return fmt.Errorf("init server: %w", err)
		}

		eg, ctx := errgroup.WithContext(ctx)

		eg.Go(func() error { return srv.Run(ctx) })

		eg.Go(func() error {
			if err := store.Watch(ctx); err != nil && !errors.Is(err, notes.ErrNotWatchable) {
				return err
			}
			return nil
		})

		eg.Go(func() error {
			resumed, err := mgr.Resume(ctx)
			if err != nil {
				logger.Warn("cache resume failed", "error", err)
			}
			if resumed {
				return nil
			}
			// An unreachable origin must not take the server down.
			if err := mgr.Start(ctx); err != nil {
				logger.Warn("cache not installed, serving from network", "error", err)
			}
			return nil
		})

		if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

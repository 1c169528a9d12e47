package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/imlogolabs/studio/internal/handlers"
	"github.com/imlogolabs/studio/internal/site"
	"github.com/spf13/cobra"
)

const sweepInterval = time.Minute

func newServeCmd() *cobra.Command {
	var (
		dev          bool
		templatesDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the portfolio web server",
		Long: `Starts the imlogolabs site on the specified port.

The site serves the gallery (paging or load-more, per the config), the service
cards with their query forms, the image record API and the query API. Each
visitor's gallery state lives on the server behind a session cookie.`,
		Example: `  # Start server on default port 8888 with the built-in gallery
  imlogolabs serve

  # Serve a custom manifest and config on port 3000
  imlogolabs serve --port 3000 --manifest gallery.yaml --config site.toml

  # Reload templates from disk while editing them
  imlogolabs serve --dev`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := loadSite(cmd)
			if err != nil {
				return err
			}

			dir := ""
			if dev {
				dir = templatesDir
			}
			renderer, err := site.NewRenderer(dir)
			if err != nil {
				return err
			}

			handler := handlers.New(handlers.Options{
				Config:    inputs.cfg,
				Catalog:   inputs.catalog,
				Renderer:  renderer,
				AssetsDir: inputs.assetsDir,
			})

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go handler.SweepSessions(ctx, sweepInterval)
			go func() {
				if err := renderer.Watch(ctx); err != nil {
					slog.Error("Template watcher stopped", "err", err)
				}
			}()

			addr := ":" + flagOrEnv(cmd, "port", "PORT")
			server := &http.Server{
				Addr:              addr,
				Handler:           handler.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			// Start server in goroutine
			serverErr := make(chan error, 1)
			go func() {
				slog.Info("imlogolabs site available", "addr", addr, "url", "http://localhost"+addr, "images", inputs.catalog.Len(), "dev", dev)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			// Wait for context cancellation (Ctrl+C) or server error
			select {
			case <-ctx.Done():
				slog.Info("Shutting down server...")
				// Give server 5 seconds to shut down gracefully
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "err", err)
					return err
				}
				slog.Info("Server stopped")
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringP("port", "p", "8888", "Port to listen on (env PORT)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Re-read templates from disk when they change")
	cmd.Flags().StringVar(&templatesDir, "templates", "internal/site/templates", "Template directory used with --dev")
	addSiteFlags(cmd)

	return cmd
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/brook-ui/brook/internal/config"
	"github.com/brook-ui/brook/internal/dev"
	"github.com/brook-ui/brook/pkg/middleware"
	"github.com/brook-ui/brook/pkg/server"
	"github.com/brook-ui/brook/pkg/stream"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		devMode    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve pages over HTTP with chunked streaming",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg.Log)

			srv := server.New(&server.Config{
				Address: cfg.Server.Address(),
				Chunking: stream.Config{
					TargetChunkBytes: cfg.Render.TargetChunkBytes,
					MaxLatency:       cfg.Render.MaxLatency,
				},
				ClientScript: cfg.Render.ClientScript,
				Logger:       &logger,
			})
			srv.Use(middleware.Metrics(), middleware.Tracing())
			srv.Router().Handle("/metrics", promhttp.Handler())
			srv.Page("/", demoPage(cfg))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if devMode {
				reload := dev.NewReloadServer(logger)
				srv.Router().HandleFunc("/_brook/reload", reload.HandleWebSocket)

				watcher := dev.NewWatcher(dev.WatcherConfig{
					Paths:    cfg.Dev.Watch,
					Debounce: cfg.Dev.Debounce,
				}, logger)
				watcher.OnChange(reload.NotifyReload)
				go func() {
					if err := watcher.Run(ctx); err != nil {
						logger.Error().Err(err).Msg("file watcher stopped")
					}
				}()
				logger.Info().Strs("paths", cfg.Dev.Watch).Msg("dev mode: watching for changes")
			}

			logger.Info().Str("address", cfg.Server.Address()).Msg("starting server")
			if err := srv.Start(ctx); err != nil {
				return fmt.Errorf("server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to brook.yaml")
	cmd.Flags().BoolVar(&devMode, "dev", false, "enable live reload and file watching")
	return cmd
}

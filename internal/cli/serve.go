package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/canvasd/canvasd/internal/config"
	"github.com/canvasd/canvasd/internal/server"
	"github.com/canvasd/canvasd/pkg/buildinfo"
	"github.com/canvasd/canvasd/pkg/canvas"
	"github.com/canvasd/canvasd/pkg/fonts"
	"github.com/canvasd/canvasd/pkg/httputil"
	"github.com/canvasd/canvasd/pkg/imagefetch"
)

// shutdownGrace is how long in-flight requests get to finish on shutdown.
const shutdownGrace = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the canvas HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
			}

			loaderOpts := []imagefetch.Option{
				imagefetch.WithTimeout(cfg.FetchTimeout()),
			}
			if cfg.CacheEnabled() {
				cache, err := httputil.NewCache(cfg.CacheDir, cfg.CacheTTL())
				if err != nil {
					logger.Warn("image cache disabled", "err", err)
				} else {
					logger.Debug("image cache ready", "dir", cache.Dir(), "ttl", cache.TTL())
					loaderOpts = append(loaderOpts, imagefetch.WithCache(cache))
				}
			}

			registry := canvas.NewRegistry(canvas.WithMaxSessions(cfg.MaxSessions))
			raster := canvas.NewRasterizer(fonts.NewResolver(), imagefetch.NewLoader(loaderOpts...))
			srv := server.New(registry, raster,
				server.WithLogger(logger),
				server.WithMaxUpload(cfg.MaxUploadBytes),
			)

			httpServer := &http.Server{
				Addr:              cfg.Listen,
				Handler:           srv.Routes(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				printBanner(os.Stdout, cfg.Listen, buildinfo.Version)
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case err := <-errCh:
				return err
			case <-cmd.Context().Done():
			}

			logger.Info("shutting down", "grace", shutdownGrace)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to TOML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", ":8080", "HTTP listen address")

	return cmd
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/voltlab/sldraw/internal/httpapi"
	"github.com/voltlab/sldraw/pkg/cache"
)

// newServeCmd creates the serve command, which runs the diagram HTTP API.
// The cache backend is picked by flag: Redis when --redis is set, the
// file cache otherwise, none with --no-cache.
func newServeCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		redisAddr  string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram API over HTTP",
		Long: `Serve starts an HTTP server that accepts diagram document revisions,
lays them out, and exports the current diagram. A revision that fails
validation is recorded but the previous good revision stays live.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			engine, err := engineFromConfig(configPath)
			if err != nil {
				return err
			}

			var store cache.Cache
			switch {
			case noCache:
				store = cache.NewNullCache()
			case redisAddr != "":
				store, err = cache.NewRedisCache(redisAddr)
				if err != nil {
					return fmt.Errorf("connect redis: %w", err)
				}
				logger.Info("using redis cache", "addr", redisAddr)
			default:
				dir, err := cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				if store, err = cache.NewFileCache(dir); err != nil {
					return fmt.Errorf("open cache: %w", err)
				}
			}
			defer store.Close()

			api := httpapi.NewServer(engine, store, logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           api.Router(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
				return ctx.Err()
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML config file overriding layout geometry and ranks")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address (host:port) for the shared cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout and artifact caching")
	return cmd
}

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vellum-ui/vellum/internal/config"
	"github.com/vellum-ui/vellum/internal/logging"
	"github.com/vellum-ui/vellum/internal/runtime"
	"github.com/vellum-ui/vellum/internal/server"
	"github.com/vellum-ui/vellum/internal/watcher"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the preview server",
	Long: `Serve starts an HTTP server that renders registered component types
on demand and pushes update notifications to connected pages over a
websocket. When hydration files are configured, the runtime is hydrated
from them at startup and re-hydrated whenever a watched file changes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cfg, logger)
	},
}

func runServe(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := hydratedRuntime(cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg, rt, logger)

	if len(cfg.Watch.Paths) > 0 {
		fw, err := newWatcher(cfg, logger, srv)
		if err != nil {
			return err
		}
		defer fw.Close()
		fw.Start(ctx)
	}

	return srv.Start(ctx)
}

// hydratedRuntime builds a runtime from configuration and, when hydration
// files are configured, hydrates it from them.
func hydratedRuntime(cfg *config.Config, logger logging.Logger) (*runtime.Runtime, error) {
	rt := buildRuntime(cfg, logger)

	if cfg.Hydration.PayloadFile != "" {
		payload, err := os.ReadFile(cfg.Hydration.PayloadFile)
		if err != nil {
			return nil, err
		}
		markup := ""
		if cfg.Hydration.MarkupFile != "" {
			b, err := os.ReadFile(cfg.Hydration.MarkupFile)
			if err != nil {
				return nil, err
			}
			markup = string(b)
		}
		if err := rt.Hydrate(payload, markup); err != nil {
			return nil, err
		}
	}
	return rt, nil
}

// newWatcher watches the configured paths; on a debounced batch of
// changes it rebuilds and re-hydrates a fresh runtime, swaps it into the
// server and tells connected pages to reload.
func newWatcher(cfg *config.Config, logger logging.Logger, srv *server.PreviewServer) (*watcher.FileWatcher, error) {
	debounce := time.Duration(cfg.Watch.DebounceMillis) * time.Millisecond
	fw, err := watcher.New(debounce, logger)
	if err != nil {
		return nil, err
	}

	if len(cfg.Watch.ExcludePatterns) > 0 {
		fw.AddFilter(watcher.ExcludePatternFilter(cfg.Watch.ExcludePatterns...))
	}
	for _, path := range cfg.Watch.Paths {
		if err := fw.AddRecursive(path); err != nil {
			fw.Close()
			return nil, err
		}
	}

	log := logger.WithComponent("serve")
	fw.AddHandler(func(events []watcher.ChangeEvent) {
		ctx := context.Background()
		log.Info(ctx, "files changed", "count", len(events), "first", events[0].Path)

		fresh, err := hydratedRuntime(cfg, log)
		if err != nil {
			log.Error(ctx, err, "re-hydration failed, keeping previous runtime")
			return
		}
		srv.SetRuntime(fresh)
		srv.Hub().Broadcast(server.UpdateMessage{Kind: "reload"})
	})
	return fw, nil
}

func init() {
	serveCmd.Flags().String("host", "", "host interface to bind")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on")
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

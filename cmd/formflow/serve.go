package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/forms"
)

var (
	serveAddr  string
	serveWatch bool
)

// serveCmd runs the HTTP surface
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve forms over HTTP",
	Long: `Serve the configured forms, notifications and collections over HTTP.

With --watch (or forms.watch in the configuration) definitions under
forms.dir are reloaded when they change.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload form definitions when they change")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveWatch {
		cfg.Forms.Watch = true
	}

	registry, err := formflow.LoadForms(ctx, cfg.Forms, logger.Named("forms"))
	if err != nil {
		return err
	}
	srv, closer, err := formflow.NewServer(ctx, cfg, registry, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	var watcher *forms.Watcher
	if cfg.Forms.Watch && cfg.Forms.Dir != "" {
		watcher, err = forms.NewWatcher(cfg.Forms.Dir, registry,
			forms.WithWatchLogger(logger.Named("forms")),
			forms.WithPinned(pinnedForms(registry)...))
		if err != nil {
			return err
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return srv.Run(groupCtx, cfg.Server.Addr, cfg.ShutdownTimeout())
	})
	if watcher != nil {
		group.Go(func() error {
			return watcher.Run(groupCtx)
		})
	}

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// pinnedForms lists the forms that did not come from forms.dir, such as
// OpenAPI imports, so reloads keep them.
func pinnedForms(registry *forms.Registry) []string {
	onDisk, err := forms.LoadFS(os.DirFS(cfg.Forms.Dir))
	if err != nil {
		logger.Warn("scan form definitions", zap.Error(err))
		return nil
	}
	var pinned []string
	for _, id := range registry.IDs() {
		if _, ok := onDisk.Form(id); !ok {
			pinned = append(pinned, id)
		}
	}
	return pinned
}

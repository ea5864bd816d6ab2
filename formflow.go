// Package formflow wires the form validation and submission packages into a
// runnable service: built-in form definitions, the configured draft backend,
// the theme palette and the HTTP server.
package formflow

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	gotheme "github.com/goliatone/go-theme"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/openapi"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/server"
	"github.com/goliatone/go-formflow/pkg/theme"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

//go:embed definitions/*.yaml
var embeddedDefinitions embed.FS

// ErrUnknownBackend is returned when drafts.backend names no store.
var ErrUnknownBackend = errors.New("formflow: unknown draft backend")

// BuiltinForms exposes the form definitions shipped with the module.
func BuiltinForms() fs.FS {
	sub, err := fs.Sub(embeddedDefinitions, "definitions")
	if err != nil {
		return embeddedDefinitions
	}
	return sub
}

// EmbeddedTemplates exposes the built-in page templates so callers can copy
// or extend them.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}

// LoadForms builds the registry from forms.dir, or from the built-in
// definitions when no directory is configured, and adds the forms imported
// from forms.openapi.
func LoadForms(ctx context.Context, cfg config.FormsConfig, logger *zap.Logger) (*forms.Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	source := BuiltinForms()
	if dir := strings.TrimSpace(cfg.Dir); dir != "" {
		source = os.DirFS(dir)
	}
	registry, err := forms.LoadFS(source)
	if err != nil {
		return nil, err
	}

	if location := strings.TrimSpace(cfg.OpenAPI); location != "" {
		src, err := openapi.SourceFor(location)
		if err != nil {
			return nil, err
		}
		loader := openapi.NewLoader(openapi.WithHTTPFallback(30 * time.Second))
		parser := openapi.NewParser(openapi.WithReferenceResolution(true))
		imported, err := openapi.Import(ctx, loader, parser, src)
		if err != nil {
			return nil, fmt.Errorf("formflow: import %s: %w", location, err)
		}
		for _, form := range imported {
			if _, exists := registry.Form(form.ID); exists {
				logger.Warn("openapi form shadowed by definition", zap.String("form", form.ID))
				continue
			}
			registry.Add(form)
		}
		logger.Debug("openapi forms imported", zap.String("source", location), zap.Int("forms", len(imported)))
	}

	logger.Info("forms loaded", zap.Int("count", registry.Len()))
	return registry, nil
}

// OpenDrafts opens the configured draft store. The returned closer releases
// database and Redis connections; it is never nil.
func OpenDrafts(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*draft.Cache, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store  draft.Store
		closer io.Closer = nopCloser{}
	)
	switch cfg.Drafts.Backend {
	case "", config.BackendMemory:
		store = draft.NewMemoryStore()
	case config.BackendFile:
		fileStore, err := draft.NewFileStore(cfg.Drafts.Path)
		if err != nil {
			return nil, nil, err
		}
		store = fileStore
	case config.BackendSQLite:
		sqlStore, err := draft.OpenSQLite(ctx, cfg.Drafts.Path)
		if err != nil {
			return nil, nil, err
		}
		store, closer = sqlStore, sqlStore
	case config.BackendPostgres:
		sqlStore, err := draft.OpenPostgres(ctx, cfg.Drafts.DSN)
		if err != nil {
			return nil, nil, err
		}
		store, closer = sqlStore, sqlStore
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Drafts.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("formflow: ping redis: %w", err)
		}
		redisStore := draft.NewRedisStore(client, "", cfg.DraftTTL())
		store, closer = redisStore, redisStore
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Drafts.Backend)
	}

	logger.Debug("draft store opened", zap.String("backend", cfg.Drafts.Backend))
	cache := draft.New(store,
		draft.WithNamespace(cfg.Drafts.Namespace),
		draft.WithLogger(logger.Named("drafts")))
	return cache, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewRenderer resolves the configured theme and returns a page renderer for
// it. Manifests under theme.manifests are registered alongside the built-in
// palette.
func NewRenderer(cfg config.ThemeConfig) (*render.Renderer, error) {
	var extras []*gotheme.Manifest
	if dir := strings.TrimSpace(cfg.Manifests); dir != "" {
		loaded, err := theme.LoadManifests(os.DirFS(dir))
		if err != nil {
			return nil, err
		}
		extras = loaded
	}
	palette, err := theme.NewPalette(extras...)
	if err != nil {
		return nil, err
	}
	rendererCfg, err := palette.RendererConfig(cfg.Name, cfg.Variant)
	if err != nil {
		return nil, err
	}
	return render.New(render.WithTheme(rendererCfg))
}

// NewValidator returns the validator configured for cfg.
func NewValidator(cfg *config.Config) *validation.Validator {
	return validation.New(validation.WithGPAFieldID(cfg.Forms.GPAFieldID))
}

// NewServer assembles the HTTP server for cfg. Close the returned closer
// after the server stops.
func NewServer(ctx context.Context, cfg *config.Config, registry *forms.Registry, logger *zap.Logger) (*server.Server, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer, err := NewRenderer(cfg.Theme)
	if err != nil {
		return nil, nil, err
	}
	cache, closer, err := OpenDrafts(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	srv, err := server.New(registry,
		server.WithRenderer(renderer),
		server.WithDrafts(cache, cfg.DraftDebounce()),
		server.WithValidatorOptions(validation.WithGPAFieldID(cfg.Forms.GPAFieldID)),
		server.WithSubmitter(workflow.NewSimulatedSubmitter(cfg.SubmissionLatency())),
		server.WithNotificationTTL(cfg.NotificationTTL()),
		server.WithSessionTTL(cfg.SessionTTL()),
		server.WithMembershipFormID(cfg.Forms.MembershipFormID),
		server.WithNavigation(cfg.Nav),
		server.WithCollections(cfg.Collections),
		server.WithBaseURL(cfg.Server.BaseURL),
		server.WithLogger(logger.Named("server")),
	)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return srv, closer, nil
}

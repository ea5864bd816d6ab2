package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/notify"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/site"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

// ErrNilRegistry is returned by New without a form registry.
var ErrNilRegistry = errors.New("server: form registry is required")

// Server serves the form site.
type Server struct {
	forms            *forms.Registry
	renderer         *render.Renderer
	drafts           *draft.Cache
	debounce         time.Duration
	validator        *validation.Validator
	submitter        workflow.Submitter
	notifyTTL        time.Duration
	sessionTTL       time.Duration
	membershipFormID string
	nav              []site.NavLink
	collections      map[string][]site.Item
	baseURL          string
	logger           *zap.Logger
	now              func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

// New builds a Server over the forms in registry.
func New(registry *forms.Registry, options ...Option) (*Server, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	s := &Server{
		forms:      registry,
		validator:  validation.New(),
		submitter:  workflow.NewSimulatedSubmitter(workflow.DefaultLatency),
		notifyTTL:  notify.DefaultTTL,
		sessionTTL: DefaultSessionTTL,
		logger:     zap.NewNop(),
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.renderer == nil {
		renderer, err := render.New()
		if err != nil {
			return nil, fmt.Errorf("server: renderer: %w", err)
		}
		s.renderer = renderer
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /{page}", s.handlePage)
	mux.HandleFunc("GET /forms/{id}", s.handleForm)
	mux.HandleFunc("POST /forms/{id}/fields/{field}/blur", s.handleBlur)
	mux.HandleFunc("POST /forms/{id}/fields/{field}/input", s.handleInput)
	mux.HandleFunc("POST /forms/{id}/submit", s.handleSubmit)
	mux.HandleFunc("GET /notifications", s.handleNotifications)
	mux.HandleFunc("POST /notifications/{id}/dismiss", s.handleDismiss)
	mux.HandleFunc("GET /collections/{name}", s.handleCollection)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(render.AssetsFS())))
	return s.logRequests(mux)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", s.now().Sub(start)))
	})
}

// Close ends every session: in-flight submissions finish, pending drafts
// are flushed and notification timers stop.
func (s *Server) Close(ctx context.Context) {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		sessions = append(sessions, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.close(ctx)
	}
}

// Run listens on addr until ctx is cancelled, then shuts down within
// shutdownTimeout and closes all sessions.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

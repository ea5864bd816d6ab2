package server

import (
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/site"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

const (
	// SessionCookie names the cookie carrying the session id.
	SessionCookie = "formflow_session"
	// DefaultSessionTTL is how long an idle session is kept.
	DefaultSessionTTL = 30 * time.Minute
)

// Option configures a Server.
type Option func(*Server)

// WithRenderer replaces the default page renderer.
func WithRenderer(renderer *render.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.renderer = renderer
		}
	}
}

// WithDrafts enables per-session draft caching. Each session gets the cache
// scoped to its id.
func WithDrafts(cache *draft.Cache, debounce time.Duration) Option {
	return func(s *Server) {
		s.drafts = cache
		s.debounce = debounce
	}
}

// WithValidatorOptions configures the validator every session uses.
func WithValidatorOptions(options ...validation.Option) Option {
	return func(s *Server) {
		s.validator = validation.New(options...)
	}
}

// WithSubmitter replaces the simulated submitter.
func WithSubmitter(submitter workflow.Submitter) Option {
	return func(s *Server) {
		if submitter != nil {
			s.submitter = submitter
		}
	}
}

// WithNotificationTTL sets how long notifications stay visible.
func WithNotificationTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.notifyTTL = ttl
		}
	}
}

// WithSessionTTL sets how long idle sessions survive.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithMembershipFormID changes the form that gets the membership success
// message.
func WithMembershipFormID(id string) Option {
	return func(s *Server) {
		s.membershipFormID = id
	}
}

// WithNavigation sets the navigation bar links.
func WithNavigation(links []site.NavLink) Option {
	return func(s *Server) {
		s.nav = append([]site.NavLink(nil), links...)
	}
}

// WithCollections registers the filterable collections.
func WithCollections(collections map[string][]site.Item) Option {
	return func(s *Server) {
		s.collections = collections
	}
}

// WithBaseURL sets the public origin used to build share links. Share links
// are omitted when it is empty.
func WithBaseURL(base string) Option {
	return func(s *Server) {
		s.baseURL = base
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides time.Now for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/notify"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

// session is one visitor's page and the workflow bound to it.
type session struct {
	id     string
	page   *dom.Page
	center *notify.Center
	flow   *workflow.Workflow

	mu       sync.Mutex
	lastSeen time.Time
	restored map[string]bool
}

func (s *session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// markRestored reports whether the form's draft still had to be restored and
// records that it now has been.
func (s *session) markRestored(formID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.restored[formID] {
		return false
	}
	s.restored[formID] = true
	return true
}

func (s *session) close(ctx context.Context) {
	s.flow.Close(ctx)
	s.center.Close()
}

// session returns the caller's session. A well-formed cookie the server does
// not know, after a restart or an expiry, resumes under the same id so its
// stored drafts are found again; otherwise a new id is issued. The cookie is
// (re)set whenever a session is created.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session, error) {
	now := s.now()
	id := ""
	if cookie, err := r.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		sess, ok := s.sessions[cookie.Value]
		s.mu.Unlock()
		if ok {
			sess.touch(now)
			return sess, nil
		}
		if parsed, err := uuid.Parse(cookie.Value); err == nil {
			id = parsed.String()
		}
	}

	s.sweep(r.Context())

	resumed := id != ""
	if !resumed {
		id = uuid.NewString()
	}
	sess, err := s.newSession(id, now)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if existing, ok := s.sessions[id]; ok {
		// A concurrent request resumed it first.
		s.mu.Unlock()
		sess.close(r.Context())
		existing.touch(now)
		return existing, nil
	}
	s.sessions[id] = sess
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.sessionTTL / time.Second),
	})
	s.logger.Debug("session created", zap.String("session", sess.id), zap.Bool("resumed", resumed))
	return sess, nil
}

func (s *Server) newSession(id string, now time.Time) (*session, error) {
	page := dom.NewPage(s.forms.Forms()...)
	center := notify.NewCenter(
		notify.WithTTL(s.notifyTTL),
		notify.WithLogger(s.logger.With(zap.String("session", id))),
	)

	options := []workflow.Option{
		workflow.WithValidator(s.validator),
		workflow.WithNotifier(center),
		workflow.WithSubmitter(s.submitter),
		workflow.WithMembershipFormID(s.membershipFormID),
		workflow.WithLogger(s.logger.With(zap.String("session", id))),
	}
	if s.drafts != nil {
		options = append(options, workflow.WithDrafts(s.drafts.Scoped(id), s.debounce))
	}
	flow, err := workflow.New(page, options...)
	if err != nil {
		center.Close()
		return nil, err
	}
	flow.Bind(page)

	return &session{
		id:       id,
		page:     page,
		center:   center,
		flow:     flow,
		lastSeen: now,
		restored: make(map[string]bool),
	}, nil
}

// sweep closes sessions idle for longer than the session TTL.
func (s *Server) sweep(ctx context.Context) {
	now := s.now()
	var expired []*session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.idleSince(now) > s.sessionTTL {
			expired = append(expired, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range expired {
		sess.close(ctx)
		s.logger.Debug("session expired", zap.String("session", sess.id))
	}
}

// Sessions reports how many sessions are live.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

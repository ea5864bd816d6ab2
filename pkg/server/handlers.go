package server

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/render"
	"github.com/goliatone/go-formflow/pkg/site"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

// BlurResponse is returned by the blur endpoint.
type BlurResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// InputResponse is returned by the input endpoint. Counter is set for
// textareas.
type InputResponse struct {
	Value   string        `json:"value"`
	Counter *site.Counter `json:"counter,omitempty"`
}

// SubmitResponse is returned by the submit endpoint.
type SubmitResponse struct {
	Attempt string             `json:"attempt"`
	State   string             `json:"state"`
	Issues  []validation.Issue `json:"issues,omitempty"`
}

func (s *Server) basePage(r *http.Request, sess *session, title string) render.Page {
	page := render.Page{
		Title:         title,
		Nav:           site.Navigation(s.nav, r.URL.Path),
		Notifications: sess.center.Active(),
	}
	if s.baseURL != "" {
		page.Share = render.ShareLinksFor(s.baseURL+r.URL.Path, title)
	}
	return page
}

func (s *Server) renderHTML(w http.ResponseWriter, draw func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := draw(&buf); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	current := site.CurrentPage(r.URL.Path)
	title := "Home"
	known := current == site.IndexPage
	for _, link := range s.nav {
		if link.Href == current {
			title, known = link.Label, true
		}
	}
	if !known {
		s.writeError(w, fmt.Errorf("%w: page %q", errNotFound, current))
		return
	}

	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	page := render.IndexPage{Page: s.basePage(r, sess, title)}
	for _, id := range sess.page.FormIDs() {
		form, _ := sess.page.Form(id)
		label := form.Title
		if label == "" {
			label = form.ID
		}
		page.Forms = append(page.Forms, render.FormLink{ID: id, Title: label})
	}
	for name := range s.collections {
		page.Collections = append(page.Collections, name)
	}
	sort.Strings(page.Collections)

	s.renderHTML(w, func(buf *bytes.Buffer) error { return s.renderer.Index(buf, page) })
}

// mount makes sure a form added to the registry after the session started is
// present on the session page.
func (s *Server) mount(sess *session, formID string) (model.Form, error) {
	if form, ok := sess.page.Form(formID); ok {
		return form, nil
	}
	form, ok := s.forms.Form(formID)
	if !ok {
		return model.Form{}, fmt.Errorf("%w: %q", workflow.ErrUnknownForm, formID)
	}
	sess.page.Mount(form)
	return form, nil
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	formID := r.PathValue("id")
	if _, err := s.mount(sess, formID); err != nil {
		s.writeError(w, err)
		return
	}
	if sess.markRestored(formID) {
		if n, err := sess.flow.Restore(r.Context(), formID); err != nil {
			s.logger.Warn("restore draft", zap.String("form", formID), zap.Error(err))
		} else if n > 0 {
			s.logger.Debug("draft restored", zap.String("form", formID), zap.Int("fields", n))
		}
	}

	view, _ := sess.page.View(formID)
	if wantsJSON(r) {
		s.writeJSON(w, http.StatusOK, view)
		return
	}
	page := render.NewFormPage(s.basePage(r, sess, view.Form.Title), view)
	s.renderHTML(w, func(buf *bytes.Buffer) error { return s.renderer.Form(buf, page) })
}

func (s *Server) fieldRequest(w http.ResponseWriter, r *http.Request) (*session, string, string, bool) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return nil, "", "", false
	}
	formID, field := r.PathValue("id"), r.PathValue("field")
	form, err := s.mount(sess, formID)
	if err != nil {
		s.writeError(w, err)
		return nil, "", "", false
	}
	if _, _, ok := form.Field(field); !ok {
		s.writeError(w, fmt.Errorf("%w: %q", dom.ErrUnknownField, field))
		return nil, "", "", false
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return nil, "", "", false
	}
	return sess, formID, field, true
}

func (s *Server) handleBlur(w http.ResponseWriter, r *http.Request) {
	sess, formID, field, ok := s.fieldRequest(w, r)
	if !ok {
		return
	}
	if r.PostForm.Has("value") {
		if err := sess.page.SetValue(formID, field, r.PostForm.Get("value")); err != nil {
			s.writeError(w, err)
			return
		}
	}
	if err := sess.page.Dispatch(r.Context(), dom.Event{Kind: dom.EventBlur, FormID: formID, Field: field}); err != nil {
		s.writeError(w, err)
		return
	}
	fieldErr, errored := sess.page.FieldError(formID, field)
	s.writeJSON(w, http.StatusOK, BlurResponse{Valid: !errored, Message: fieldErr.Message})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sess, formID, field, ok := s.fieldRequest(w, r)
	if !ok {
		return
	}
	value := r.PostForm.Get("value")
	if err := sess.page.Dispatch(r.Context(), dom.Event{Kind: dom.EventInput, FormID: formID, Field: field, Value: value}); err != nil {
		s.writeError(w, err)
		return
	}
	resp := InputResponse{Value: value}
	form, _ := sess.page.Form(formID)
	if f, _, ok := form.Field(field); ok && f.IsMultiline() {
		counter := site.CountCharacters(value)
		resp.Counter = &counter
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleSubmit accepts the whole form as posted by a browser without
// scripts: posted values are applied before the attempt starts. With
// ?wait=true the response carries the final outcome.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	formID := r.PathValue("id")
	form, err := s.mount(sess, formID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	posted := make(map[string]string, len(form.Fields))
	for _, field := range form.Fields {
		if r.PostForm.Has(field.Name) {
			posted[field.Name] = r.PostForm.Get(field.Name)
		}
	}
	if _, err := sess.flow.ApplyValues(formID, posted); err != nil {
		s.writeError(w, err)
		return
	}

	attempt, err := sess.flow.Submit(r.Context(), formID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := SubmitResponse{Attempt: attempt.ID, State: workflow.StateSubmitting.String()}
	wait, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	var outcome workflow.Outcome
	var done bool
	if wait {
		outcome, err = attempt.Wait(r.Context())
		done = err == nil
	} else {
		outcome, done = attempt.Outcome()
	}
	if done {
		resp.State = outcome.State.String()
		resp.Issues = outcome.Issues
	}

	if wantsHTML(r) {
		http.Redirect(w, r, "/forms/"+formID, http.StatusSeeOther)
		return
	}
	status := http.StatusAccepted
	if done {
		status = http.StatusOK
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) handleNotifications(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.center.Active())
}

func (s *Server) handleDismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	id := r.PathValue("id")
	if !sess.center.Dismiss(id) {
		s.writeError(w, fmt.Errorf("%w: notification %q", errNotFound, id))
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, refererOr(r, "/"), http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func refererOr(r *http.Request, fallback string) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return fallback
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	items, ok := s.collections[name]
	if !ok {
		s.writeError(w, fmt.Errorf("%w: collection %q", errNotFound, name))
		return
	}
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	query := r.URL.Query()
	page := render.NewCollectionPage(s.basePage(r, sess, ""), name, items, query.Get("filter"), query.Get("q"))
	if wantsJSON(r) {
		s.writeJSON(w, http.StatusOK, page.Items)
		return
	}
	s.renderHTML(w, func(buf *bytes.Buffer) error { return s.renderer.Collection(buf, page) })
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dom.ErrUnknownForm),
		errors.Is(err, dom.ErrUnknownField),
		errors.Is(err, workflow.ErrUnknownForm),
		errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrSubmissionInProgress):
		return http.StatusConflict
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var (
	errNotFound   = errors.New("server: not found")
	errBadRequest = errors.New("server: bad request")
)

// wantsHTML reports whether the client asked for a page rather than JSON.
func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// wantsJSON reports whether the client asked for JSON explicitly.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

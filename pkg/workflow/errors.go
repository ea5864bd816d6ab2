package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSubmissionInProgress is returned when a form is submitted while its
	// submit control is disabled by an earlier attempt.
	ErrSubmissionInProgress = errors.New("workflow: submission in progress")
	// ErrUnknownForm is returned when the form is not mounted on the surface.
	ErrUnknownForm = errors.New("workflow: unknown form")
	// ErrNilSurface is returned when a workflow is built without a surface.
	ErrNilSurface = errors.New("workflow: surface is required")
)

// SubmissionError is returned by a Submitter that rejects a submission.
// Fields is keyed by field path (name, dotted or JSON pointer); paths that do
// not match a field are shown as form-level messages alongside Form.
type SubmissionError struct {
	Fields map[string][]string
	Form   []string
	Err    error
}

func (e *SubmissionError) Error() string {
	parts := make([]string, 0, 2)
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	if n := len(e.Fields); n > 0 {
		parts = append(parts, fmt.Sprintf("%d field error(s)", n))
	}
	if len(e.Form) > 0 {
		parts = append(parts, strings.Join(e.Form, "; "))
	}
	if len(parts) == 0 {
		return "workflow: submission rejected"
	}
	return "workflow: submission rejected: " + strings.Join(parts, ", ")
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

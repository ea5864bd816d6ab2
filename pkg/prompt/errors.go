package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrDeclined is returned when the user chose not to submit.
	ErrDeclined = errors.New("prompt: submission declined")
	// ErrNilWorkflow is returned by Fill when no workflow is supplied.
	ErrNilWorkflow = errors.New("prompt: workflow is nil")
)

package dom

import "errors"

var (
	// ErrUnknownForm is returned when an operation targets a form that is not
	// mounted on the page.
	ErrUnknownForm = errors.New("dom: unknown form")
	// ErrUnknownField is returned when a field name does not exist on the form.
	ErrUnknownField = errors.New("dom: unknown field")
)

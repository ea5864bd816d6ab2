package dom

import "github.com/goliatone/go-formflow/pkg/model"

// SubmitControl is the state of a form's submit button. A disabled control
// marks a submission in flight.
type SubmitControl struct {
	Label    string `json:"label"`
	Disabled bool   `json:"disabled"`
}

// Surface is the set of page operations the validation display and the
// submission workflow need. Page is the in-memory implementation; renderers
// read a FormView snapshot.
type Surface interface {
	Form(formID string) (model.Form, bool)
	SetValue(formID, field, value string) error
	SetFieldError(formID, field, message string) error
	ClearFieldError(formID, field string) error
	FieldError(formID, field string) (model.FieldError, bool)
	SubmitControl(formID string) (SubmitControl, bool)
	SetSubmitControl(formID string, control SubmitControl) error
	ResetForm(formID string) error
}

// FieldView is a render-ready snapshot of one field.
type FieldView struct {
	model.Field
	Error   string `json:"error,omitempty"`
	Errored bool   `json:"errored"`
}

// FormView is a render-ready snapshot of a mounted form.
type FormView struct {
	Form    model.Form    `json:"form"`
	Fields  []FieldView   `json:"fields"`
	Control SubmitControl `json:"control"`
}

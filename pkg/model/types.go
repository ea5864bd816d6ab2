package model

import "strings"

// FieldKind is the input type of a field. Unknown kinds are accepted and
// rendered as plain text inputs.
type FieldKind string

const (
	FieldKindText     FieldKind = "text"
	FieldKindEmail    FieldKind = "email"
	FieldKindNumber   FieldKind = "number"
	FieldKindTel      FieldKind = "tel"
	FieldKindURL      FieldKind = "url"
	FieldKindTextarea FieldKind = "textarea"
	FieldKindSelect   FieldKind = "select"
	FieldKindCheckbox FieldKind = "checkbox"
	FieldKindRadio    FieldKind = "radio"
)

// DefaultSubmitLabel is used when a form does not declare its own label.
const DefaultSubmitLabel = "Submit"

// Option is a selectable value for select and radio fields.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Field models an individual input inside a form.
type Field struct {
	ID          string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string    `json:"name" yaml:"name"`
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Kind        FieldKind `json:"kind,omitempty" yaml:"kind,omitempty"`
	Required    bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Value       string    `json:"value,omitempty" yaml:"value,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string    `json:"help,omitempty" yaml:"help,omitempty"`
	Options     []Option  `json:"options,omitempty" yaml:"options,omitempty"`
	Min         *float64  `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64  `json:"max,omitempty" yaml:"max,omitempty"`
}

// Identity returns the field ID, falling back to the name.
func (f Field) Identity() string {
	if id := strings.TrimSpace(f.ID); id != "" {
		return id
	}
	return strings.TrimSpace(f.Name)
}

// IsMultiline reports whether the field renders as a textarea.
func (f Field) IsMultiline() bool {
	return f.Kind == FieldKindTextarea
}

// FieldError is a validation complaint attached to one field. A field carries
// at most one FieldError at a time.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Form is an ordered collection of fields.
type Form struct {
	ID             string  `json:"id" yaml:"id"`
	Title          string  `json:"title,omitempty" yaml:"title,omitempty"`
	Description    string  `json:"description,omitempty" yaml:"description,omitempty"`
	Fields         []Field `json:"fields" yaml:"fields"`
	SubmitLabel    string  `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Cache          bool    `json:"cache,omitempty" yaml:"cache,omitempty"`
	SuccessMessage string  `json:"successMessage,omitempty" yaml:"successMessage,omitempty"`
}

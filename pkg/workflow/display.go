package workflow

import (
	"fmt"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// ApplyValidationDisplay reflects a validation result on the surface: an
// invalid field gets its error set (or replaced), a valid one has it
// removed. Applying the same result twice leaves the same state.
func ApplyValidationDisplay(surface dom.Surface, formID, field string, valid bool, message string) error {
	if surface == nil {
		return ErrNilSurface
	}
	if valid {
		return surface.ClearFieldError(formID, field)
	}
	return surface.SetFieldError(formID, field, message)
}

// ClearFieldError removes the field's error unconditionally.
func ClearFieldError(surface dom.Surface, formID, field string) error {
	if surface == nil {
		return ErrNilSurface
	}
	return surface.ClearFieldError(formID, field)
}

// ValidateField validates the field's current value and updates its error
// display.
func ValidateField(surface dom.Surface, validator *validation.Validator, formID, field string) (validation.Result, error) {
	if surface == nil {
		return validation.Result{}, ErrNilSurface
	}
	form, ok := surface.Form(formID)
	if !ok {
		return validation.Result{}, unknownForm(formID)
	}
	target, _, ok := form.Field(field)
	if !ok {
		return validation.Result{}, fmt.Errorf("%w: %q on form %q", dom.ErrUnknownField, field, formID)
	}
	if validator == nil {
		validator = validation.New()
	}
	result := validator.Validate(target)
	if err := ApplyValidationDisplay(surface, formID, target.Name, result.Valid, result.Message); err != nil {
		return result, err
	}
	return result, nil
}

func unknownForm(formID string) error {
	return fmt.Errorf("%w: %q", ErrUnknownForm, formID)
}

package validation

import "github.com/goliatone/go-formflow/pkg/model"

// Issue is a validation failure tied to one field. It is a value, not an
// error: invalid input is an expected outcome.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FormResult captures the outcome of validating every field of a form.
type FormResult struct {
	Valid   bool              `json:"valid"`
	Issues  []Issue           `json:"issues,omitempty"`
	Results map[string]Result `json:"-"`
	Order   []string          `json:"-"`
}

// ValidateForm validates every field in order. It never short-circuits so
// each field's result is available even after an earlier failure.
func (v *Validator) ValidateForm(form model.Form) FormResult {
	result := FormResult{
		Valid:   true,
		Results: make(map[string]Result, len(form.Fields)),
	}
	for _, field := range form.Fields {
		outcome := v.Validate(field)
		result.Results[field.Name] = outcome
		result.Order = append(result.Order, field.Name)
		result.Valid = result.Valid && outcome.Valid
		if !outcome.Valid {
			result.Issues = append(result.Issues, Issue{
				Field:   field.Name,
				Message: outcome.Message,
			})
		}
	}
	return result
}

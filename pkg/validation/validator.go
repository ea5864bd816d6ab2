package validation

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-formflow/pkg/model"
)

const (
	// MessageRequired is reported for required fields left blank.
	MessageRequired = "This field is required"
	// MessageEmail is reported for malformed email addresses.
	MessageEmail = "Please enter a valid email address"
	// MessageGPA is reported when the GPA field is not a number in [0.0, 4.0].
	MessageGPA = "GPA must be between 0.0 and 4.0"

	// DefaultGPAFieldID identifies the field the GPA rule applies to.
	DefaultGPAFieldID = "gpa"
)

const (
	gpaMin = 0.0
	gpaMax = 4.0
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Result is the outcome of validating one field. Message is empty when Valid.
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// Validator decides whether a single field value satisfies its constraints.
// The zero value is not usable; construct with New.
type Validator struct {
	gpaFieldID string
}

// Option configures a Validator.
type Option func(*Validator)

// WithGPAFieldID changes which field identity the GPA range rule applies to.
func WithGPAFieldID(id string) Option {
	return func(v *Validator) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			v.gpaFieldID = trimmed
		}
	}
}

// New constructs a Validator.
func New(options ...Option) *Validator {
	v := &Validator{gpaFieldID: DefaultGPAFieldID}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}
	return v
}

// GPAFieldID reports the identity of the distinguished GPA field.
func (v *Validator) GPAFieldID() string {
	if v == nil {
		return DefaultGPAFieldID
	}
	return v.gpaFieldID
}

// Validate applies the field rules in precedence order: required, email,
// GPA range, declared numeric bounds. Fields without any declared constraint
// are always valid.
func (v *Validator) Validate(field model.Field) Result {
	value := strings.TrimSpace(field.Value)

	switch {
	case field.Required && value == "":
		return invalid(MessageRequired)
	case field.Kind == model.FieldKindEmail && value != "":
		if !emailPattern.MatchString(value) {
			return invalid(MessageEmail)
		}
	case field.Identity() == v.GPAFieldID() && value != "":
		if !inRange(value, gpaMin, gpaMax) {
			return invalid(MessageGPA)
		}
	case (field.Min != nil || field.Max != nil) && value != "":
		lower, upper := bounds(field)
		if !inRange(value, lower, upper) {
			return invalid(RangeMessage(field.Min, field.Max))
		}
	}
	return Result{Valid: true}
}

// RangeMessage formats the complaint for declared numeric bounds.
func RangeMessage(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return "Value must be between " + formatBound(*min) + " and " + formatBound(*max)
	case min != nil:
		return "Value must be at least " + formatBound(*min)
	case max != nil:
		return "Value must be at most " + formatBound(*max)
	default:
		return ""
	}
}

func invalid(message string) Result {
	return Result{Valid: false, Message: message}
}

func bounds(field model.Field) (float64, float64) {
	lower, upper := math.Inf(-1), math.Inf(1)
	if field.Min != nil {
		lower = *field.Min
	}
	if field.Max != nil {
		upper = *field.Max
	}
	return lower, upper
}

// inRange parses value as a float and checks the closed interval. NaN and
// unparseable input are out of range.
func inRange(value string, lower, upper float64) bool {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return false
	}
	return parsed >= lower && parsed <= upper
}

func formatBound(value float64) string {
	out := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.ContainsAny(out, ".eE") && !math.IsInf(value, 0) {
		out += ".0"
	}
	return out
}

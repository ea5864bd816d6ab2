package validation_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func TestValidate_RequiredTakesPrecedence(t *testing.T) {
	v := validation.New()
	kinds := []model.FieldKind{"", model.FieldKindText, model.FieldKindEmail, model.FieldKindNumber, model.FieldKindTextarea}

	for _, kind := range kinds {
		for _, value := range []string{"", "   ", "\t\n"} {
			field := model.Field{ID: "gpa", Name: "gpa", Kind: kind, Required: true, Value: value}
			got := v.Validate(field)
			want := validation.Result{Valid: false, Message: validation.MessageRequired}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("kind %q value %q (-want +got):\n%s", kind, value, diff)
			}
		}
	}
}

func TestValidate_GPA(t *testing.T) {
	v := validation.New()
	cases := []struct {
		value string
		valid bool
	}{
		{"4.0", true},
		{"0", true},
		{"0.0", true},
		{" 3.5 ", true},
		{"4.01", false},
		{"-0.1", false},
		{"abc", false},
		{"3.5abc", false},
		{"NaN", false},
		{"Inf", false},
		{"", true},
	}

	for _, tc := range cases {
		got := v.Validate(model.Field{ID: "gpa", Name: "gpa", Kind: model.FieldKindNumber, Value: tc.value})
		if got.Valid != tc.valid {
			t.Fatalf("gpa %q: expected valid=%v, got %+v", tc.value, tc.valid, got)
		}
		if !tc.valid && got.Message != validation.MessageGPA {
			t.Fatalf("gpa %q: unexpected message %q", tc.value, got.Message)
		}
	}
}

func TestValidate_GPAFieldIdentityIsConfigurable(t *testing.T) {
	v := validation.New(validation.WithGPAFieldID("grade_point"))

	if got := v.Validate(model.Field{Name: "gpa", Value: "9"}); !got.Valid {
		t.Fatalf("default gpa rule should not apply: %+v", got)
	}
	got := v.Validate(model.Field{Name: "grade_point", Value: "9"})
	if got.Valid || got.Message != validation.MessageGPA {
		t.Fatalf("configured gpa rule not applied: %+v", got)
	}
}

func TestValidate_Email(t *testing.T) {
	v := validation.New()
	cases := []struct {
		value string
		valid bool
	}{
		{"a@b.co", true},
		{"first.last@school.k12.us", true},
		{"a@b", false},
		{"a b@c.com", false},
		{"a@@b.com", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a@b.c.d", true},
		{"", true},
	}

	for _, tc := range cases {
		got := v.Validate(model.Field{Name: "email", Kind: model.FieldKindEmail, Value: tc.value})
		if got.Valid != tc.valid {
			t.Fatalf("email %q: expected valid=%v, got %+v", tc.value, tc.valid, got)
		}
		if !tc.valid && got.Message != validation.MessageEmail {
			t.Fatalf("email %q: unexpected message %q", tc.value, got.Message)
		}
	}
}

func TestValidate_DeclaredBounds(t *testing.T) {
	v := validation.New()
	min, max := 9.0, 12.0
	field := model.Field{Name: "grade", Kind: model.FieldKindNumber, Min: &min, Max: &max}

	field.Value = "10"
	if got := v.Validate(field); !got.Valid {
		t.Fatalf("expected 10 in range: %+v", got)
	}
	field.Value = "13"
	got := v.Validate(field)
	if got.Valid || got.Message != "Value must be between 9.0 and 12.0" {
		t.Fatalf("unexpected result: %+v", got)
	}

	field.Max = nil
	field.Value = "1"
	if got := v.Validate(field); got.Message != "Value must be at least 9.0" {
		t.Fatalf("unexpected lower-bound message: %+v", got)
	}
}

func TestValidate_PermissiveDefault(t *testing.T) {
	v := validation.New()
	for _, value := range []string{"", "anything", "  @@ "} {
		if got := v.Validate(model.Field{Name: "notes", Value: value}); !got.Valid {
			t.Fatalf("unconstrained field should be valid for %q: %+v", value, got)
		}
	}
}

func TestValidateForm_DoesNotShortCircuit(t *testing.T) {
	v := validation.New()
	form := model.Form{
		ID: "membership-application",
		Fields: []model.Field{
			{Name: "name", Required: true},
			{Name: "email", Kind: model.FieldKindEmail, Value: "nope"},
			{ID: "gpa", Name: "gpa", Value: "5.0"},
			{Name: "notes", Value: "hello"},
		},
	}

	result := v.ValidateForm(form)
	if result.Valid {
		t.Fatalf("expected invalid form")
	}
	want := []validation.Issue{
		{Field: "name", Message: validation.MessageRequired},
		{Field: "email", Message: validation.MessageEmail},
		{Field: "gpa", Message: validation.MessageGPA},
	}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"name", "email", "gpa", "notes"}, result.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if !result.Results["notes"].Valid {
		t.Fatalf("notes should be valid")
	}
}

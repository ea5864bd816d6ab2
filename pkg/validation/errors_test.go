package validation_test

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/validation"
)

func TestMapErrorPayload(t *testing.T) {
	form := model.Form{
		Fields: []model.Field{
			{Name: "email"},
			{ID: "gpa", Name: "gpa_value"},
		},
	}

	payload := map[string][]string{
		"/data/attributes/email": {" taken ", "taken"},
		"body.gpa":               {"too high"},
		"__all__":                {"try later"},
		"unknown.path":           {"lost?"},
		"email":                  {"  "},
	}

	mapping := validation.MapErrorPayload(form, payload)

	wantFields := map[string][]string{
		"email":     {"taken"},
		"gpa_value": {"too high"},
	}
	if diff := cmp.Diff(wantFields, mapping.Fields); diff != "" {
		t.Fatalf("field mapping mismatch (-want +got):\n%s", diff)
	}

	gotForm := append([]string(nil), mapping.Form...)
	sort.Strings(gotForm)
	if diff := cmp.Diff([]string{"lost?", "try later"}, gotForm); diff != "" {
		t.Fatalf("form messages mismatch (-want +got):\n%s", diff)
	}
	if got := mapping.First("gpa_value"); got != "too high" {
		t.Fatalf("first message = %q", got)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := validation.MergeFormErrors([]string{" a ", "b"}, "a", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

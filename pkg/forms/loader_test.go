package forms

import (
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
)

func TestLoadFS_ParsesJSONAndYAML(t *testing.T) {
	registry, err := LoadFS(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"contact", "membership-application", "volunteer"}, registry.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	membership, ok := registry.Form("membership-application")
	if !ok {
		t.Fatalf("membership form missing")
	}
	if !membership.Cache || membership.Label() != "Submit Application" {
		t.Fatalf("unexpected membership form: %+v", membership)
	}
	if got := membership.Fields[0].Kind; got != model.FieldKindText {
		t.Fatalf("kind should default to text, got %q", got)
	}
	gpa, _, ok := membership.Field("gpa")
	if !ok || gpa.Kind != model.FieldKindNumber || !gpa.Required {
		t.Fatalf("unexpected gpa field: %+v", gpa)
	}

	volunteer, _ := registry.Form("volunteer")
	hours, _, _ := volunteer.Field("hours")
	if hours.Min == nil || *hours.Min != 1 || hours.Max == nil || *hours.Max != 20 {
		t.Fatalf("bounds not parsed: %+v", hours)
	}
	if name, _, _ := volunteer.Field("name"); name.Label != "name" {
		t.Fatalf("label should default to name, got %q", name.Label)
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	registry, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if registry.Len() != 0 {
		t.Fatalf("expected empty registry")
	}
}

func TestLoadFS_Errors(t *testing.T) {
	cases := map[string]struct {
		files fstest.MapFS
		want  string
	}{
		"empty file": {
			files: fstest.MapFS{"a.json": {Data: []byte("  ")}},
			want:  "is empty",
		},
		"garbage": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("::: not yaml [")}},
			want:  "invalid JSON or YAML",
		},
		"duplicate form": {
			files: fstest.MapFS{
				"a.yaml": {Data: []byte("id: contact\nfields: [{name: a}]\n")},
				"b.yaml": {Data: []byte("id: contact\nfields: [{name: b}]\n")},
			},
			want: `duplicate form "contact"`,
		},
		"duplicate field": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("id: contact\nfields: [{name: a}, {name: a}]\n")}},
			want:  `duplicate field "a"`,
		},
		"nameless field": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("id: contact\nfields: [{label: A}]\n")}},
			want:  "has no name",
		},
		"inverted bounds": {
			files: fstest.MapFS{"a.yaml": {Data: []byte("id: x\nfields: [{name: n, min: 5, max: 1}]\n")}},
			want:  "min greater than max",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFS(tc.files)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestNormalise_IDFallsBackToName(t *testing.T) {
	form, err := Normalise(model.Form{ID: " x ", Fields: []model.Field{{ID: "gpa", Kind: "NUMBER"}}})
	if err != nil {
		t.Fatalf("normalise: %v", err)
	}
	want := model.Field{ID: "gpa", Name: "gpa", Label: "gpa", Kind: model.FieldKindNumber}
	if diff := cmp.Diff(want, form.Fields[0]); diff != "" {
		t.Fatalf("field mismatch (-want +got):\n%s", diff)
	}
	if form.ID != "x" {
		t.Fatalf("id not trimmed: %q", form.ID)
	}
}

func TestRegistry_ReplaceKeepsPinned(t *testing.T) {
	registry := NewRegistry(
		model.Form{ID: "builtin"},
		model.Form{ID: "stale"},
	)
	registry.Replace(NewRegistry(model.Form{ID: "fresh"}), "builtin")

	if diff := cmp.Diff([]string{"builtin", "fresh"}, registry.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
}

func mustForm(id string) model.Form {
	return model.Form{ID: id, Fields: []model.Field{{Name: "name"}}}
}

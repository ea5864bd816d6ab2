package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/model"
)

func float(v float64) *float64 { return &v }

func TestImport_BuildsFormsFromRequestBodies(t *testing.T) {
	forms, err := Import(context.Background(), nil, nil, SourceFromFile(filepath.Join("testdata", "membership.yaml")))
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	ids := make([]string, 0, len(forms))
	for _, form := range forms {
		ids = append(ids, form.ID)
	}
	if diff := cmp.Diff([]string{"membership-application", "post:/contact"}, ids); diff != "" {
		t.Fatalf("form ids mismatch (-want +got):\n%s", diff)
	}

	membership := forms[0]
	if membership.Title != "Membership Application" {
		t.Fatalf("unexpected title %q", membership.Title)
	}
	want := []model.Field{
		{Name: "email", Label: "Email", Kind: model.FieldKindEmail, Required: true},
		{Name: "fullName", Label: "Full Name", Kind: model.FieldKindText, Required: true, Placeholder: "Ada Lovelace"},
		{Name: "gpa", Label: "Current GPA", Kind: model.FieldKindNumber, Required: true, Min: float(0), Max: float(4)},
		{Name: "essay", Label: "Essay", Kind: model.FieldKindTextarea, Help: "Tell us why you want to join."},
		{Name: "grade", Label: "Grade", Kind: model.FieldKindSelect, Options: []model.Option{
			{Value: "10", Label: "10"}, {Value: "11", Label: "11"}, {Value: "12", Label: "12"},
		}},
		{Name: "newsletter", Label: "Newsletter", Kind: model.FieldKindCheckbox, Value: "false"},
	}
	if diff := cmp.Diff(want, membership.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}

	contact := forms[1]
	message, _, _ := contact.Field("message")
	website, _, _ := contact.Field("website")
	if message.Kind != model.FieldKindTextarea || !message.Required {
		t.Fatalf("unexpected message field: %+v", message)
	}
	if website.Kind != model.FieldKindURL {
		t.Fatalf("unexpected website field: %+v", website)
	}
	if contact.Title != "Post Contact" {
		t.Fatalf("unexpected derived title %q", contact.Title)
	}
}

func TestLoader_Sources(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "membership.yaml"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	ctx := context.Background()

	loader := NewLoader(WithFileSystem(fstest.MapFS{"api.yaml": {Data: raw}}))
	doc, err := loader.Load(ctx, SourceFromFS("api.yaml"))
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if doc.Location() != "api.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(raw)
	}))
	defer server.Close()

	src, err := SourceFor(server.URL + "/openapi.yaml")
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if src.Kind() != SourceKindURL {
		t.Fatalf("expected url source, got %s", src.Kind())
	}
	if _, err := NewLoader().Load(ctx, src); err == nil {
		t.Fatalf("http should be disabled by default")
	}
	httpLoader := NewLoader(WithHTTPClient(server.Client()))
	if _, err := httpLoader.Load(ctx, src); err != nil {
		t.Fatalf("load http: %v", err)
	}
	missing, _ := SourceFromURL(server.URL + "/missing")
	if _, err := httpLoader.Load(ctx, missing); err == nil {
		t.Fatalf("expected status error")
	}
}

func TestParser_RejectsDocumentsWithoutPaths(t *testing.T) {
	doc, err := NewDocument(SourceFromFS("x"), []byte("openapi: 3.0.3\ninfo: {title: x, version: '1'}\npaths: {}\n"))
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if _, err := NewParser().Operations(context.Background(), doc); err == nil {
		t.Fatalf("expected error for empty paths")
	}
}

func TestHumanize(t *testing.T) {
	cases := map[string]string{
		"fullName":               "Full Name",
		"full_name":              "Full Name",
		"membership-application": "Membership Application",
		"gpa":                    "Gpa",
		"":                       "",
	}
	for in, want := range cases {
		if got := humanize(in); got != want {
			t.Fatalf("humanize(%q) = %q, want %q", in, got, want)
		}
	}
}

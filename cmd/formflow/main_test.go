package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/config"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

func setup(t *testing.T) *bytes.Buffer {
	t.Helper()
	logger = zap.NewNop()
	cfg = config.Default()
	t.Cleanup(func() {
		cfg = nil
		draftsSession = ""
	})
	return &bytes.Buffer{}
}

func testCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd
}

func writeValues(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write values: %v", err)
	}
	return path
}

func TestValidateCmdAcceptsValidValues(t *testing.T) {
	out := setup(t)
	path := writeValues(t, `fullName: Ada Lovelace
email: ada@example.com
grade: "11"
gpa: "3.5"
`)

	if err := runValidate(testCommand(out), []string{"membership-application", path}); err != nil {
		t.Fatalf("runValidate failed: %v", err)
	}
	if !strings.Contains(out.String(), "all fields are valid") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestValidateCmdReportsIssues(t *testing.T) {
	out := setup(t)
	path := writeValues(t, `fullName: Ada Lovelace
email: not-an-email
grade: "11"
gpa: "4.2"
`)

	err := runValidate(testCommand(out), []string{"membership-application", path})
	if !errors.Is(err, errInvalidValues) {
		t.Fatalf("expected errInvalidValues, got %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"email: " + validation.MessageEmail,
		"gpa: " + validation.MessageGPA,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output %q", want, got)
		}
	}
}

func TestValidateCmdUnknownForm(t *testing.T) {
	out := setup(t)
	path := writeValues(t, "name: x\n")

	err := runValidate(testCommand(out), []string{"missing", path})
	if !errors.Is(err, workflow.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
}

func TestDraftsClearCmd(t *testing.T) {
	out := setup(t)
	cfg.Drafts.Backend = config.BackendFile
	cfg.Drafts.Path = t.TempDir()

	ctx := context.Background()
	cache, closer, err := formflow.OpenDrafts(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open drafts: %v", err)
	}
	defer closer.Close()
	session := cache.Scoped("abc")
	if err := session.Save(ctx, "membership-application", map[string]string{"fullName": "Ada"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	draftsSession = "abc"
	if err := runDraftsClear(testCommand(out), []string{"membership-application"}); err != nil {
		t.Fatalf("runDraftsClear failed: %v", err)
	}
	if _, ok := session.Load(ctx, "membership-application"); ok {
		t.Errorf("expected draft to be cleared")
	}
	if !strings.Contains(out.String(), "abc:") {
		t.Errorf("expected scoped key in output, got %q", out.String())
	}
}

func TestServeCmdStopsServerAndWatcher(t *testing.T) {
	out := setup(t)
	dir := t.TempDir()
	def := "id: contact\nfields:\n  - name: name\n    required: true\n"
	if err := os.WriteFile(filepath.Join(dir, "contact.yaml"), []byte(def), 0o644); err != nil {
		t.Fatalf("write definition: %v", err)
	}
	cfg.Forms.Dir = dir
	serveAddr = "127.0.0.1:0"
	serveWatch = true
	t.Cleanup(func() {
		serveAddr = ""
		serveWatch = false
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cmd := testCommand(out)
	cmd.SetContext(ctx)

	done := make(chan error, 1)
	go func() { done <- runServe(cmd, nil) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runServe failed: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runServe did not return after cancellation")
	}
}

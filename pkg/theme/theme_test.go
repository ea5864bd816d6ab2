package theme

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPalette_BuiltinSelection(t *testing.T) {
	palette, err := NewPalette()
	if err != nil {
		t.Fatalf("new palette: %v", err)
	}

	cfg, err := palette.RendererConfig("", "")
	if err != nil {
		t.Fatalf("renderer config: %v", err)
	}
	if cfg.Theme != DefaultName {
		t.Fatalf("expected builtin theme, got %q", cfg.Theme)
	}
	if cfg.CSSVars["--notification-success"] != "#15803d" {
		t.Fatalf("css vars not derived: %v", cfg.CSSVars)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/formflow.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown asset should resolve empty, got %q", got)
	}

	dark, err := palette.RendererConfig(DefaultName, "dark")
	if err != nil {
		t.Fatalf("dark config: %v", err)
	}
	if dark.Tokens["surface"] != "#111827" || dark.Tokens["notification-error"] != "#b91c1c" {
		t.Fatalf("variant tokens not merged: %v", dark.Tokens)
	}
}

func TestPalette_ManifestsFromFiles(t *testing.T) {
	manifests, err := LoadManifests(os.DirFS("testdata"))
	if err != nil {
		t.Fatalf("load manifests: %v", err)
	}
	palette, err := NewPalette(manifests...)
	if err != nil {
		t.Fatalf("new palette: %v", err)
	}
	if diff := cmp.Diff([]string{"acme", DefaultName}, palette.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}

	cfg, err := palette.RendererConfig("acme", "dark")
	if err != nil {
		t.Fatalf("renderer config: %v", err)
	}
	want := map[string]string{"notification-success": "#0f766e", "accent": "#654321"}
	if diff := cmp.Diff(want, cfg.Tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/acme.dark.css" {
		t.Fatalf("unexpected asset url %q", got)
	}
	if cfg.Partials["forms.input"] != "themes/acme/input.tpl" {
		t.Fatalf("partials not propagated: %v", cfg.Partials)
	}
}

func TestPalette_UnknownSelections(t *testing.T) {
	palette, err := NewPalette()
	if err != nil {
		t.Fatalf("new palette: %v", err)
	}
	if _, err := palette.Select("nope", ""); !errors.Is(err, ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
	if _, err := palette.Select(DefaultName, "sepia"); !errors.Is(err, ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if _, err := ParseManifest([]byte("tokens: {a: b}")); err == nil {
		t.Fatalf("expected missing name error")
	}
}

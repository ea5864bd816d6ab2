// Package theme resolves the palette used to render forms and notifications
// from go-theme manifests. Tokens of the selected variant override the base
// manifest and are exposed to templates as CSS custom properties.
package theme

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// DefaultName and DefaultVariant select the built-in manifest.
const (
	DefaultName    = "formflow"
	DefaultVariant = "light"
)

var (
	// ErrUnknownTheme is returned when no manifest has the requested name.
	ErrUnknownTheme = errors.New("theme: unknown theme")
	// ErrUnknownVariant is returned when the manifest lacks the variant.
	ErrUnknownVariant = errors.New("theme: unknown variant")
)

// Palette holds registered manifests and resolves selections against them.
type Palette struct {
	mu        sync.RWMutex
	registry  registrar
	manifests map[string]*gotheme.Manifest
	fallback  string
}

type registrar interface {
	Register(manifest *gotheme.Manifest) error
}

var _ gotheme.ThemeSelector = (*Palette)(nil)

// NewPalette constructs a palette holding the built-in manifest plus any
// extras. Extras with the built-in name replace it.
func NewPalette(extras ...*gotheme.Manifest) (*Palette, error) {
	p := &Palette{
		registry:  gotheme.NewRegistry(),
		manifests: make(map[string]*gotheme.Manifest),
		fallback:  DefaultName,
	}
	builtin := Builtin()
	for _, manifest := range extras {
		if manifest != nil && manifest.Name == builtin.Name {
			builtin = manifest
		}
	}
	if err := p.Register(builtin); err != nil {
		return nil, err
	}
	for _, manifest := range extras {
		if manifest == nil || manifest == builtin {
			continue
		}
		if err := p.Register(manifest); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Register adds a manifest.
func (p *Palette) Register(manifest *gotheme.Manifest) error {
	if manifest == nil || strings.TrimSpace(manifest.Name) == "" {
		return errors.New("theme: manifest name is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.registry.Register(manifest); err != nil {
		return fmt.Errorf("theme: register %q: %w", manifest.Name, err)
	}
	p.manifests[manifest.Name] = manifest
	return nil
}

// Names lists registered themes.
func (p *Palette) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.manifests))
	for name := range p.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Select implements gotheme.ThemeSelector. An empty name selects the
// built-in theme; an empty variant selects the base tokens.
func (p *Palette) Select(name, variant string, _ ...gotheme.QueryOption) (*gotheme.Selection, error) {
	if strings.TrimSpace(name) == "" {
		name = p.fallback
	}
	p.mu.RLock()
	manifest, ok := p.manifests[name]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" && variant != DefaultVariant {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %q in theme %q", ErrUnknownVariant, variant, name)
		}
	}
	return &gotheme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// RendererConfig resolves a selection into the tokens, CSS variables,
// partials and asset resolver templates consume.
func (p *Palette) RendererConfig(name, variant string) (*gotheme.RendererConfig, error) {
	selection, err := p.Select(name, variant)
	if err != nil {
		return nil, err
	}
	return ConfigFor(selection), nil
}

// ConfigFor merges a selection's base and variant values.
func ConfigFor(selection *gotheme.Selection) *gotheme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return &gotheme.RendererConfig{}
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := merge(manifest.Tokens, variant.Tokens)
	partials := merge(manifest.Templates, variant.Templates)
	files := merge(manifest.Assets.Files, variant.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant.Assets.Prefix != "" {
		prefix = variant.Assets.Prefix
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+key] = value
	}

	return &gotheme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}

func merge(base, overlay map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(overlay))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range overlay {
		out[key] = value
	}
	return out
}

// Builtin returns the default manifest. Notification and field colours are
// read from the "notification-*" and "field-*" tokens.
func Builtin() *gotheme.Manifest {
	return &gotheme.Manifest{
		Name:    DefaultName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"notification-success": "#15803d",
			"notification-error":   "#b91c1c",
			"notification-info":    "#1d4ed8",
			"field-error":          "#dc2626",
			"field-border":         "#d1d5db",
			"text":                 "#111827",
			"text-muted":           "#6b7280",
			"surface":              "#ffffff",
			"success":              "#16a34a",
			"warning":              "#d97706",
			"accent":               "#7c3aed",
		},
		Assets: gotheme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "formflow.css",
			},
		},
		Variants: map[string]gotheme.Variant{
			"dark": {
				Tokens: map[string]string{
					"text":         "#f9fafb",
					"text-muted":   "#9ca3af",
					"surface":      "#111827",
					"field-border": "#374151",
				},
			},
		},
	}
}

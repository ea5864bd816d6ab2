package theme

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	"gopkg.in/yaml.v3"
)

type manifestFile struct {
	Name      string                 `json:"name" yaml:"name"`
	Version   string                 `json:"version" yaml:"version"`
	Tokens    map[string]string      `json:"tokens" yaml:"tokens"`
	Templates map[string]string      `json:"templates" yaml:"templates"`
	Assets    assetsFile             `json:"assets" yaml:"assets"`
	Variants  map[string]variantFile `json:"variants" yaml:"variants"`
}

type assetsFile struct {
	Prefix string            `json:"prefix" yaml:"prefix"`
	Files  map[string]string `json:"files" yaml:"files"`
}

type variantFile struct {
	Tokens    map[string]string `json:"tokens" yaml:"tokens"`
	Templates map[string]string `json:"templates" yaml:"templates"`
	Assets    assetsFile        `json:"assets" yaml:"assets"`
}

// LoadManifests parses every JSON/YAML manifest in fsys.
func LoadManifests(fsys fs.FS) ([]*gotheme.Manifest, error) {
	if fsys == nil {
		return nil, nil
	}
	var out []*gotheme.Manifest
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("theme: read %s: %w", path, err)
		}
		manifest, err := ParseManifest(data)
		if err != nil {
			return fmt.Errorf("theme: parse %s: %w", path, err)
		}
		out = append(out, manifest)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ParseManifest decodes one manifest, trying JSON and then YAML.
func ParseManifest(data []byte) (*gotheme.Manifest, error) {
	var raw manifestFile
	if err := json.Unmarshal(data, &raw); err != nil {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON or YAML")
		}
	}
	if strings.TrimSpace(raw.Name) == "" {
		return nil, fmt.Errorf("manifest name is required")
	}

	manifest := &gotheme.Manifest{
		Name:      raw.Name,
		Version:   raw.Version,
		Tokens:    raw.Tokens,
		Templates: raw.Templates,
		Assets:    gotheme.Assets{Prefix: raw.Assets.Prefix, Files: raw.Assets.Files},
	}
	if len(raw.Variants) > 0 {
		manifest.Variants = make(map[string]gotheme.Variant, len(raw.Variants))
		for name, variant := range raw.Variants {
			manifest.Variants[name] = gotheme.Variant{
				Tokens:    variant.Tokens,
				Templates: variant.Templates,
				Assets:    gotheme.Assets{Prefix: variant.Assets.Prefix, Files: variant.Assets.Files},
			}
		}
	}
	return manifest, nil
}

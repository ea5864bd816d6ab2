package forms

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formflow/pkg/model"
)

// LoadFS walks fsys and parses every JSON/YAML form definition. A file holds
// either one form or a "forms" list. When fsys is nil or holds no definition
// files, the returned registry is empty.
func LoadFS(fsys fs.FS) (*Registry, error) {
	registry := NewRegistry()
	if fsys == nil {
		return registry, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("forms: read %s: %w", path, err)
		}
		defs, err := Parse(data, path)
		if err != nil {
			return err
		}
		for _, form := range defs {
			if _, exists := registry.Form(form.ID); exists {
				return fmt.Errorf("forms: duplicate form %q (file %s)", form.ID, path)
			}
			registry.Add(form)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

type documentFile struct {
	Forms []model.Form `json:"forms" yaml:"forms"`
}

// Parse decodes one definition file and normalises its forms. JSON is tried
// first, then YAML.
func Parse(data []byte, source string) ([]model.Form, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("forms: file %s is empty", source)
	}

	var raw []model.Form
	var doc documentFile
	var single model.Form
	switch {
	case json.Unmarshal(data, &doc) == nil && len(doc.Forms) > 0:
		raw = doc.Forms
	case json.Unmarshal(data, &single) == nil && single.ID != "":
		raw = []model.Form{single}
	case yaml.Unmarshal(data, &doc) == nil && len(doc.Forms) > 0:
		raw = doc.Forms
	case yaml.Unmarshal(data, &single) == nil && single.ID != "":
		raw = []model.Form{single}
	default:
		return nil, fmt.Errorf("forms: parse %s: invalid JSON or YAML form definition", source)
	}

	out := make([]model.Form, 0, len(raw))
	for idx, form := range raw {
		normalised, err := Normalise(form)
		if err != nil {
			return nil, fmt.Errorf("forms: file %s form %d: %w", source, idx, err)
		}
		out = append(out, normalised)
	}
	return out, nil
}

// Normalise trims identifiers, defaults field kinds and rejects forms with
// missing or duplicate field names.
func Normalise(form model.Form) (model.Form, error) {
	out := form.Clone()
	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return model.Form{}, fmt.Errorf("form id is required")
	}

	seen := make(map[string]struct{}, len(out.Fields))
	for idx := range out.Fields {
		field := &out.Fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		field.ID = strings.TrimSpace(field.ID)
		if field.Name == "" {
			field.Name = field.ID
		}
		if field.Name == "" {
			return model.Form{}, fmt.Errorf("form %q field %d has no name", out.ID, idx)
		}
		if _, dup := seen[field.Name]; dup {
			return model.Form{}, fmt.Errorf("form %q defines duplicate field %q", out.ID, field.Name)
		}
		seen[field.Name] = struct{}{}
		if field.Kind == "" {
			field.Kind = model.FieldKindText
		}
		field.Kind = model.FieldKind(strings.ToLower(strings.TrimSpace(string(field.Kind))))
		if field.Label == "" {
			field.Label = field.Name
		}
		if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
			return model.Form{}, fmt.Errorf("form %q field %q has min greater than max", out.ID, field.Name)
		}
	}
	return out, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

package model

import "strings"

// Clone returns a deep copy of the form so callers can mutate values without
// touching shared definitions.
func (f Form) Clone() Form {
	out := f
	if len(f.Fields) == 0 {
		out.Fields = nil
		return out
	}
	out.Fields = make([]Field, len(f.Fields))
	for i, field := range f.Fields {
		out.Fields[i] = field.clone()
	}
	return out
}

func (f Field) clone() Field {
	out := f
	if len(f.Options) > 0 {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Min != nil {
		value := *f.Min
		out.Min = &value
	}
	if f.Max != nil {
		value := *f.Max
		out.Max = &value
	}
	return out
}

// Field returns the field matching name (or id) and its index.
func (f Form) Field(name string) (Field, int, bool) {
	key := strings.TrimSpace(name)
	if key == "" {
		return Field{}, -1, false
	}
	for idx, field := range f.Fields {
		if field.Name == key || field.Identity() == key {
			return field, idx, true
		}
	}
	return Field{}, -1, false
}

// Values returns the current field values keyed by field name.
func (f Form) Values() map[string]string {
	out := make(map[string]string, len(f.Fields))
	for _, field := range f.Fields {
		if field.Name == "" {
			continue
		}
		out[field.Name] = field.Value
	}
	return out
}

// Apply copies values onto matching fields, ignoring unknown names. It
// returns the number of fields updated.
func (f *Form) Apply(values map[string]string) int {
	if f == nil || len(values) == 0 {
		return 0
	}
	applied := 0
	for idx := range f.Fields {
		value, ok := values[f.Fields[idx].Name]
		if !ok {
			continue
		}
		f.Fields[idx].Value = value
		applied++
	}
	return applied
}

// Reset empties every field value.
func (f *Form) Reset() {
	if f == nil {
		return
	}
	for idx := range f.Fields {
		f.Fields[idx].Value = ""
	}
}

// Label returns the submit label, defaulting to DefaultSubmitLabel.
func (f Form) Label() string {
	if label := strings.TrimSpace(f.SubmitLabel); label != "" {
		return label
	}
	return DefaultSubmitLabel
}

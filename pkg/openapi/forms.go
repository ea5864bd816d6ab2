package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/goliatone/go-formflow/pkg/model"
)

// textareaThreshold is the maxLength above which a string renders as a
// textarea.
const textareaThreshold = 255

// BuildForm converts an operation's request body into a form. It reports
// false when the operation has no object body.
func BuildForm(op Operation) (model.Form, bool) {
	body := op.RequestBody
	if body.Type != "object" && len(body.Properties) == 0 {
		return model.Form{}, false
	}

	form := model.Form{
		ID:          op.ID,
		Title:       firstNonEmpty(op.Summary, body.Title, humanize(op.ID)),
		Description: firstNonEmpty(op.Description, body.Description),
	}
	for _, name := range body.PropertyNames() {
		form.Fields = append(form.Fields, buildField(name, body.Properties[name], body.IsRequired(name)))
	}
	return form, true
}

func buildField(name string, prop Schema, required bool) model.Field {
	field := model.Field{
		Name:     name,
		Label:    firstNonEmpty(prop.Title, humanize(name)),
		Kind:     fieldKind(prop),
		Required: required,
		Help:     prop.Description,
		Min:      prop.Minimum,
		Max:      prop.Maximum,
	}
	if prop.Default != nil {
		field.Value = fmt.Sprint(prop.Default)
	}
	if prop.Example != nil {
		field.Placeholder = fmt.Sprint(prop.Example)
	}
	for _, value := range prop.Enum {
		text := fmt.Sprint(value)
		field.Options = append(field.Options, model.Option{Value: text, Label: humanize(text)})
	}
	return field
}

func fieldKind(prop Schema) model.FieldKind {
	if prop.Widget != "" {
		return model.FieldKind(strings.ToLower(prop.Widget))
	}
	if len(prop.Enum) > 0 {
		return model.FieldKindSelect
	}
	switch prop.Type {
	case "integer", "number":
		return model.FieldKindNumber
	case "boolean":
		return model.FieldKindCheckbox
	}
	switch prop.Format {
	case "email":
		return model.FieldKindEmail
	case "uri", "url":
		return model.FieldKindURL
	case "phone", "tel":
		return model.FieldKindTel
	}
	if prop.MaxLength != nil && *prop.MaxLength > textareaThreshold {
		return model.FieldKindTextarea
	}
	return model.FieldKindText
}

// Forms builds a form for every operation with an object request body,
// ordered by id.
func Forms(operations map[string]Operation) []model.Form {
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.Form, 0, len(ids))
	for _, id := range ids {
		if form, ok := BuildForm(operations[id]); ok {
			out = append(out, form)
		}
	}
	return out
}

// Import loads and parses the document at src and returns its forms.
func Import(ctx context.Context, loader *Loader, parser *Parser, src Source) ([]model.Form, error) {
	if loader == nil {
		loader = NewLoader()
	}
	if parser == nil {
		parser = NewParser()
	}
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	operations, err := parser.Operations(ctx, doc)
	if err != nil {
		return nil, err
	}
	return Forms(operations), nil
}

// humanize turns "fullName", "full_name" or "full-name" into "Full Name".
func humanize(raw string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(raw)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ' || r == '.' || r == ':' || r == '/':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
	}
	flush()
	for i, word := range words {
		r := []rune(word)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

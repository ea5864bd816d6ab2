package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// WidgetExtension names the schema extension that overrides a field's kind,
// e.g. "x-formflow-widget: textarea".
const WidgetExtension = "x-formflow-widget"

// ParserOptions toggles parser behaviour.
type ParserOptions struct {
	// ResolveReferences allows external $ref resolution and validates the
	// document after loading.
	ResolveReferences bool
}

// ParserOption mutates ParserOptions.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles external reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// Parser converts documents into operations using kin-openapi.
type Parser struct {
	options ParserOptions
}

// NewParser constructs a Parser.
func NewParser(options ...ParserOption) *Parser {
	cfg := ParserOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Parser{options: cfg}
}

// Operations returns the document's operations keyed by operationId.
// Operations without an id are keyed "<method>:<path>".
func (p *Parser) Operations(ctx context.Context, doc Document) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}
	api, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.options.ResolveReferences {
		if err := api.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if api.Paths == nil || api.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range api.Paths.Map() {
		if item == nil {
			continue
		}
		collect(operations, "POST", path, item.Post)
		collect(operations, "PUT", path, item.Put)
		collect(operations, "PATCH", path, item.Patch)
	}
	return operations, nil
}

func collect(target map[string]Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	target[id] = Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		RequestBody: requestSchema(operation.RequestBody),
	}
}

func requestSchema(body *openapi3.RequestBodyRef) Schema {
	if body == nil || body.Value == nil {
		return Schema{}
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "multipart/form-data", "application/json"} {
		if mt, ok := content[mediaType]; ok && mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	for _, mt := range content {
		if mt != nil {
			return convertSchema(mt.Schema)
		}
	}
	return Schema{}
}

func convertSchema(ref *openapi3.SchemaRef) Schema {
	if ref == nil || ref.Value == nil {
		return Schema{}
	}
	src := ref.Value
	schema := Schema{
		Type:        firstSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Example:     src.Example,
	}
	if len(src.Required) > 0 {
		schema.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		schema.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		schema.Properties = make(map[string]Schema, len(src.Properties))
		for name, property := range src.Properties {
			schema.Properties[name] = convertSchema(property)
		}
	}
	if src.Min != nil {
		value := *src.Min
		schema.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		schema.Maximum = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		schema.MaxLength = &value
	}
	if widget, ok := src.Extensions[WidgetExtension].(string); ok {
		schema.Widget = strings.TrimSpace(widget)
	}
	return schema
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, value := range types.Slice() {
		if value != "null" {
			return value
		}
	}
	return ""
}

package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	gotheme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formflow/pkg/render/template"
	"github.com/goliatone/go-formflow/pkg/render/template/pongo"
)

// ContentType is the media type of every rendered page.
const ContentType = "text/html; charset=utf-8"

// Template names understood by Renderer. A theme can point any of them at a
// different template through its manifest "templates" map.
const (
	TemplateIndex      = "index"
	TemplateForm       = "form_page"
	TemplateCollection = "collection"
)

// ErrNilRenderer is returned when a Renderer has no template engine.
var ErrNilRenderer = errors.New("render: template renderer is nil")

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates   template.TemplateRenderer
	overrideDir string
	theme       *gotheme.RendererConfig
	siteTitle   string
}

// WithTemplateRenderer replaces the pongo2 engine.
func WithTemplateRenderer(renderer template.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templates = renderer
		}
	}
}

// WithTemplatesDir lets templates on disk shadow the embedded ones.
func WithTemplatesDir(dir string) Option {
	return func(cfg *config) {
		cfg.overrideDir = strings.TrimSpace(dir)
	}
}

// WithTheme applies a resolved theme: CSS variables, the stylesheet asset and
// template overrides.
func WithTheme(theme *gotheme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = theme
	}
}

// WithSiteTitle sets the suffix of every page title.
func WithSiteTitle(title string) Option {
	return func(cfg *config) {
		cfg.siteTitle = strings.TrimSpace(title)
	}
}

// Renderer turns page data into HTML.
type Renderer struct {
	templates template.TemplateRenderer
	partials  map[string]string
	theme     Theme
	siteTitle string
}

// New builds a Renderer over the embedded templates.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.templates
	if engine == nil {
		engineOptions := []pongo.Option{
			pongo.WithFS(TemplatesFS()),
			pongo.WithFilter("help", sanitizeHelp),
		}
		if cfg.overrideDir != "" {
			if _, err := os.Stat(cfg.overrideDir); err != nil {
				return nil, fmt.Errorf("render: templates dir: %w", err)
			}
			engineOptions = append(engineOptions, pongo.WithBaseDir(cfg.overrideDir))
		}
		created, err := pongo.New(engineOptions...)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		engine = created
	}

	r := &Renderer{
		templates: engine,
		theme:     ThemeFrom(cfg.theme),
		siteTitle: cfg.siteTitle,
	}
	if cfg.theme != nil {
		r.partials = cfg.theme.Partials
	}
	return r, nil
}

// ContentType reports the media type of rendered pages.
func (r *Renderer) ContentType() string {
	return ContentType
}

// Index renders the landing page.
func (r *Renderer) Index(w io.Writer, page IndexPage) error {
	r.decorate(&page.Page)
	return r.render(w, TemplateIndex, page)
}

// Form renders a full page around one form.
func (r *Renderer) Form(w io.Writer, page FormPage) error {
	r.decorate(&page.Page)
	return r.render(w, TemplateForm, page)
}

// Collection renders a filtered collection.
func (r *Renderer) Collection(w io.Writer, page CollectionPage) error {
	r.decorate(&page.Page)
	return r.render(w, TemplateCollection, page)
}

func (r *Renderer) decorate(page *Page) {
	page.Theme = r.theme
	if page.SiteTitle == "" {
		page.SiteTitle = r.siteTitle
	}
}

func (r *Renderer) render(w io.Writer, name string, data any) error {
	if r == nil || r.templates == nil {
		return ErrNilRenderer
	}
	if override, ok := r.partials[name]; ok && override != "" {
		name = override
	}
	if _, err := r.templates.RenderTemplate(name, data, w); err != nil {
		return fmt.Errorf("render: %s: %w", name, err)
	}
	return nil
}

// ThemeFrom flattens a resolved theme into template data. A nil config yields
// an empty theme.
func ThemeFrom(cfg *gotheme.RendererConfig) Theme {
	if cfg == nil {
		return Theme{}
	}
	out := Theme{Name: cfg.Theme, Variant: cfg.Variant}
	for name, value := range cfg.CSSVars {
		out.Vars = append(out.Vars, CSSVar{Name: name, Value: value})
	}
	sort.Slice(out.Vars, func(i, j int) bool { return out.Vars[i].Name < out.Vars[j].Name })
	if cfg.AssetURL != nil {
		out.Stylesheet = cfg.AssetURL("stylesheet")
	}
	return out
}

var helpPolicy = bluemonday.UGCPolicy()

// sanitizeHelp keeps the inline markup user generated content may carry in
// help text and strips everything else.
func sanitizeHelp(input any, _ any) (any, error) {
	raw, _ := input.(string)
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	return template.SafeHTML(helpPolicy.Sanitize(raw)), nil
}

package render

import (
	"strconv"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/notify"
	"github.com/goliatone/go-formflow/pkg/render/template/pongo"
	"github.com/goliatone/go-formflow/pkg/site"
)

// Theme is the template view of a resolved go-theme selection.
type Theme struct {
	Name       string   `json:"name,omitempty"`
	Variant    string   `json:"variant,omitempty"`
	Vars       []CSSVar `json:"vars,omitempty"`
	Stylesheet string   `json:"stylesheet,omitempty"`
}

// CSSVar is one custom property emitted on :root.
type CSSVar struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ShareLink points at a social platform share endpoint.
type ShareLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Page carries what every page layout shows.
type Page struct {
	Title         string                `json:"title"`
	SiteTitle     string                `json:"siteTitle,omitempty"`
	Nav           []site.NavItem        `json:"nav,omitempty"`
	Notifications []notify.Notification `json:"notifications,omitempty"`
	Share         []ShareLink           `json:"share,omitempty"`
	Theme         Theme                 `json:"theme"`
}

// ShareLinksFor builds the share footer for a page in platform order.
func ShareLinksFor(pageURL, title string) []ShareLink {
	links := site.ShareLinks(pageURL, title)
	out := make([]ShareLink, 0, len(links))
	for _, platform := range site.Platforms {
		if href, ok := links[platform]; ok {
			out = append(out, ShareLink{Platform: platform, URL: href})
		}
	}
	return out
}

// FormLink is a form listed on the index page.
type FormLink struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// IndexPage lists the mounted forms and configured collections.
type IndexPage struct {
	Page
	Forms       []FormLink `json:"forms,omitempty"`
	Collections []string   `json:"collections,omitempty"`
}

// FieldData is a field ready for the form template.
type FieldData struct {
	dom.FieldView
	InputID   string        `json:"inputId"`
	InputType string        `json:"inputType"`
	MinAttr   string        `json:"minAttr,omitempty"`
	MaxAttr   string        `json:"maxAttr,omitempty"`
	Counter   *site.Counter `json:"counter,omitempty"`
}

// FormPage is a page showing a single form.
type FormPage struct {
	Page
	Form    model.Form        `json:"form"`
	Fields  []FieldData       `json:"fields"`
	Control dom.SubmitControl `json:"control"`
}

// NewFormPage prepares a form snapshot for rendering. Textareas get a
// character counter.
func NewFormPage(page Page, view dom.FormView) FormPage {
	if page.Title == "" {
		page.Title = view.Form.Title
	}
	if page.Title == "" {
		page.Title = view.Form.ID
	}
	out := FormPage{
		Page:    page,
		Form:    view.Form,
		Fields:  make([]FieldData, 0, len(view.Fields)),
		Control: view.Control,
	}
	for _, field := range view.Fields {
		data := FieldData{
			FieldView: field,
			InputID:   pongo.DashCase(view.Form.ID) + "-" + pongo.DashCase(field.Identity()),
			InputType: inputType(field.Kind),
			MinAttr:   formatBound(field.Min),
			MaxAttr:   formatBound(field.Max),
		}
		if field.IsMultiline() {
			counter := site.CountCharacters(field.Value)
			data.Counter = &counter
		}
		out.Fields = append(out.Fields, data)
	}
	return out
}

func inputType(kind model.FieldKind) string {
	switch kind {
	case model.FieldKindEmail, model.FieldKindNumber, model.FieldKindTel, model.FieldKindURL:
		return string(kind)
	default:
		return string(model.FieldKindText)
	}
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'f', -1, 64)
}

// FilterOption is one category button of a collection page.
type FilterOption struct {
	Value  string `json:"value"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// CollectionPage shows a collection narrowed by category and search query.
type CollectionPage struct {
	Page
	Name    string         `json:"name"`
	Filter  string         `json:"filter"`
	Query   string         `json:"query,omitempty"`
	Filters []FilterOption `json:"filters"`
	Items   []site.Item    `json:"items"`
}

// NewCollectionPage filters then searches items. The filter buttons list
// every category of the full collection, led by "all".
func NewCollectionPage(page Page, name string, items []site.Item, filter, query string) CollectionPage {
	if filter == "" {
		filter = site.FilterAll
	}
	if page.Title == "" {
		page.Title = name
	}
	out := CollectionPage{
		Page:   page,
		Name:   name,
		Filter: filter,
		Query:  query,
		Items:  site.Search(site.Filter(items, filter), query),
	}
	out.Filters = append(out.Filters, FilterOption{Value: site.FilterAll, Label: "All", Active: filter == site.FilterAll})
	for _, category := range site.Categories(items) {
		out.Filters = append(out.Filters, FilterOption{Value: category, Label: category, Active: filter == category})
	}
	return out
}

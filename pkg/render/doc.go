// Package render produces the HTML pages of the form site: an index, one page
// per form and filterable collections. Templates are embedded and rendered
// through the pongo2 engine in render/template/pongo; a go-theme selection
// supplies CSS variables, the stylesheet URL and template overrides.
package render

package site

import "strings"

// IndexPage is the page name used for the site root.
const IndexPage = "index.html"

// NavLink is one entry of the navigation bar.
type NavLink struct {
	Href  string `json:"href" yaml:"href"`
	Label string `json:"label" yaml:"label"`
}

// NavItem is a NavLink with its highlight state.
type NavItem struct {
	NavLink
	Active bool `json:"active"`
}

// CurrentPage returns the last segment of a request path, or IndexPage for
// the root.
func CurrentPage(path string) string {
	path = strings.TrimSuffix(path, "/")
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		path = path[idx+1:]
	}
	if path == "" {
		return IndexPage
	}
	return path
}

// Navigation marks the links whose href equals the current page of path.
func Navigation(links []NavLink, path string) []NavItem {
	current := CurrentPage(path)
	out := make([]NavItem, 0, len(links))
	for _, link := range links {
		out = append(out, NavItem{NavLink: link, Active: link.Href == current})
	}
	return out
}

package site

import "strings"

// FilterAll matches every item.
const FilterAll = "all"

// Item is an entry of a filterable collection such as events or projects.
type Item struct {
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Categories  []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Link        string   `json:"link,omitempty" yaml:"link,omitempty"`
}

// Filter keeps the items tagged with category. An empty category or
// FilterAll keeps everything.
func Filter(items []Item, category string) []Item {
	category = strings.TrimSpace(category)
	if category == "" || category == FilterAll {
		return append([]Item(nil), items...)
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		for _, candidate := range item.Categories {
			if candidate == category {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// Search keeps the items whose text contains query, ignoring case. A blank
// query keeps everything.
func Search(items []Item, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]Item(nil), items...)
	}
	out := make([]Item, 0, len(items))
	for _, item := range items {
		if strings.Contains(item.searchText(), query) {
			out = append(out, item)
		}
	}
	return out
}

// Categories lists the distinct categories in first-seen order.
func Categories(items []Item) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		for _, category := range item.Categories {
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			out = append(out, category)
		}
	}
	return out
}

func (i Item) searchText() string {
	return strings.ToLower(i.Title + " " + i.Description + " " + strings.Join(i.Categories, " "))
}

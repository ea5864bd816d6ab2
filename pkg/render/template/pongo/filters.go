package pongo

import (
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var builtinOnce sync.Once

func registerBuiltinFilters() {
	builtinOnce.Do(func() {
		if !pongo2.FilterExists("trim") {
			_ = pongo2.RegisterFilter("trim", filterTrim)
		}
		if !pongo2.FilterExists("dashcase") {
			_ = pongo2.RegisterFilter("dashcase", filterDashCase)
		}
	})
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

// filterDashCase turns a field name such as "fullName" into "full-name" for
// use in element ids and class names.
func filterDashCase(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(DashCase(in.String())), nil
}

// DashCase lowercases s and separates camel-case humps, spaces and
// underscores with single dashes.
func DashCase(s string) string {
	var b strings.Builder
	lastDash := true
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == ' ' || r == '_' || r == '-' || r == '.':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
			continue
		case r >= 'A' && r <= 'Z':
			if i > 0 && !lastDash {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
		lastDash = false
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Package model defines the typed form model shared by the validator, the
// submission workflow, the dom surface and the renderers. Forms are ordered
// collections of string-valued fields; field kinds mirror HTML input types so
// renderers can emit them directly. A field's ID defaults to its Name and is
// what distinguished rules (for example the GPA range) key on.
package model

// Package template defines the engine contract page renderers depend on.
// The pongo2 implementation lives in the pongo subpackage.
package template

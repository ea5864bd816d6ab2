// Package forms loads form definitions from JSON or YAML files into a
// registry and keeps the registry current while the files change.
package forms

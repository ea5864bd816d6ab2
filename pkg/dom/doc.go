// Package dom is the page abstraction the workflow drives instead of a
// browser document. A Page holds mounted forms with their current values,
// at most one FieldError per field and one submit control per form, and
// dispatches blur/input/submit events to registered handlers. Pages are safe
// for concurrent use.
package dom

// Package site holds the page helpers around the forms: navigation
// highlighting, textarea character counters, collection filtering and
// search, and social share links.
package site

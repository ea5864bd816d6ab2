// Package server exposes the form workflow over HTTP. Every visitor session
// owns its own page, notification center and workflow; browser events arrive
// as POST requests and are dispatched to the page.
package server

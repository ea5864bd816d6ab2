// Package openapi derives form definitions from the request bodies of an
// OpenAPI 3 document. Documents are loaded from files, an fs.FS or HTTP and
// parsed with kin-openapi; each operation with an object request body
// becomes one form.
package openapi

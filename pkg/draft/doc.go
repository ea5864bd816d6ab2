// Package draft implements best-effort caching of in-progress form values.
//
// A Cache serialises a form's field values to JSON under the key
// "form-data-<formID>" (optionally prefixed by a namespace such as a visitor
// session) and hands the bytes to a Store. Stores are interchangeable:
// memory, a directory of files, SQLite, PostgreSQL or Redis. Reads never fail
// the caller: missing, unreadable or corrupt entries are reported as absent
// and logged as warnings.
//
// Autosaver debounces bursts of edits so a draft is written once the user
// pauses typing.
package draft

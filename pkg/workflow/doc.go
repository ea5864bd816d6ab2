// Package workflow drives a form through validation and submission.
//
// A submit validates every field, updates the field error display and, when
// the form is valid, disables the submit control while a Submitter runs.
// Success shows a notification, empties the form and clears its draft.
// Invalid input or a failed submission shows an error notification and keeps
// the values. Handlers registered with Bind connect the workflow to a dom
// page: blur validates, input clears the error and schedules a draft save.
package workflow

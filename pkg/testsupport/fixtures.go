package testsupport

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/notify"
)

// MembershipForm returns the membership application used across tests. Every
// required field is empty.
func MembershipForm() model.Form {
	return model.Form{
		ID:          "membership-application",
		Title:       "Membership Application",
		SubmitLabel: "Submit Application",
		Cache:       true,
		Fields: []model.Field{
			{Name: "fullName", Label: "Full Name", Kind: model.FieldKindText, Required: true},
			{Name: "email", Label: "Email", Kind: model.FieldKindEmail, Required: true},
			{Name: "grade", Label: "Grade", Kind: model.FieldKindSelect, Required: true, Options: []model.Option{
				{Value: "10", Label: "10th Grade"},
				{Value: "11", Label: "11th Grade"},
				{Value: "12", Label: "12th Grade"},
			}},
			{ID: "gpa", Name: "gpa", Label: "Current GPA", Kind: model.FieldKindNumber, Required: true},
			{Name: "essay", Label: "Why do you want to join?", Kind: model.FieldKindTextarea},
		},
	}
}

// FilledMembershipValues returns values that make MembershipForm valid.
func FilledMembershipValues() map[string]string {
	return map[string]string{
		"fullName": "Ada Lovelace",
		"email":    "ada@example.com",
		"grade":    "11",
		"gpa":      "3.5",
		"essay":    "Service and scholarship.",
	}
}

// ContactForm returns a small generic form without draft caching.
func ContactForm() model.Form {
	return model.Form{
		ID:    "contact",
		Title: "Contact",
		Fields: []model.Field{
			{Name: "name", Label: "Name", Kind: model.FieldKindText, Required: true},
			{Name: "email", Label: "Email", Kind: model.FieldKindEmail},
			{Name: "message", Label: "Message", Kind: model.FieldKindTextarea},
		},
	}
}

// RecordingNotifier captures shown notifications in order.
type RecordingNotifier struct {
	mu    sync.Mutex
	shown []notify.Notification
}

// Show implements notify.Notifier.
func (r *RecordingNotifier) Show(message string, kind notify.Kind) notify.Notification {
	n := notify.Notification{Message: message, Kind: kind}
	r.mu.Lock()
	r.shown = append(r.shown, n)
	r.mu.Unlock()
	return n
}

// Shown returns a copy of the captured notifications.
func (r *RecordingNotifier) Shown() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Notification(nil), r.shown...)
}

// CaptureOutput runs render against a buffer, returning both the string
// result and the buffer contents.
func CaptureOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	return out, buf.String()
}

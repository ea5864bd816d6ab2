package workflow

import (
	"context"

	"github.com/goliatone/go-formflow/pkg/dom"
)

// Bind registers the workflow's handlers on page: blur validates the field,
// input clears its error and schedules a draft save, submit starts an
// attempt. The page must be the workflow's surface.
func (w *Workflow) Bind(page *dom.Page) {
	page.On(dom.EventBlur, func(_ context.Context, event dom.Event) error {
		_, err := w.ValidateField(event.FormID, event.Field)
		return err
	})
	page.On(dom.EventInput, func(_ context.Context, event dom.Event) error {
		return w.edited(event.FormID, event.Field)
	})
	page.On(dom.EventSubmit, func(ctx context.Context, event dom.Event) error {
		_, err := w.Submit(ctx, event.FormID)
		return err
	})
}

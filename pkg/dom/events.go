package dom

import (
	"context"
	"errors"
	"fmt"
)

// EventKind names the page events handlers can subscribe to.
type EventKind string

const (
	EventBlur   EventKind = "blur"
	EventInput  EventKind = "input"
	EventSubmit EventKind = "submit"
)

// Event is a single user interaction. Value is only meaningful for input
// events and carries the new field value.
type Event struct {
	Kind   EventKind
	FormID string
	Field  string
	Value  string
}

// Handler reacts to a dispatched event.
type Handler func(ctx context.Context, event Event) error

// On registers a handler for an event kind. Handlers run in registration
// order.
func (p *Page) On(kind EventKind, handler Handler) {
	if handler == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[kind] = append(p.handlers[kind], handler)
}

// Dispatch delivers an event. Input events write the new value before any
// handler runs, the way a browser updates the control before firing "input".
// Every handler runs; their errors are joined.
func (p *Page) Dispatch(ctx context.Context, event Event) error {
	if _, ok := p.Form(event.FormID); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownForm, event.FormID)
	}
	if event.Kind == EventInput {
		if err := p.SetValue(event.FormID, event.Field, event.Value); err != nil {
			return err
		}
	}

	p.mu.RLock()
	handlers := append([]Handler(nil), p.handlers[event.Kind]...)
	p.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

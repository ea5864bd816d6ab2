package dom

import (
	"fmt"
	"sort"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

type formState struct {
	form    model.Form
	errors  map[string]string
	control SubmitControl
}

// Page is an in-memory Surface plus event dispatcher.
type Page struct {
	mu       sync.RWMutex
	forms    map[string]*formState
	handlers map[EventKind][]Handler
}

// Ensure Page satisfies the Surface contract.
var _ Surface = (*Page)(nil)

// NewPage constructs an empty page and mounts the provided forms.
func NewPage(forms ...model.Form) *Page {
	p := &Page{
		forms:    make(map[string]*formState, len(forms)),
		handlers: make(map[EventKind][]Handler),
	}
	for _, form := range forms {
		p.Mount(form)
	}
	return p
}

// Mount adds (or replaces) a form. The page keeps its own copy.
func (p *Page) Mount(form model.Form) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.forms[form.ID] = &formState{
		form:    form.Clone(),
		errors:  make(map[string]string),
		control: SubmitControl{Label: form.Label()},
	}
}

// FormIDs lists mounted forms in sorted order.
func (p *Page) FormIDs() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ids := make([]string, 0, len(p.forms))
	for id := range p.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Form returns a copy of the mounted form with its current values.
func (p *Page) Form(formID string) (model.Form, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.forms[formID]
	if !ok {
		return model.Form{}, false
	}
	return state.form.Clone(), true
}

// SetValue updates a field value.
func (p *Page) SetValue(formID, field, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, idx, err := p.locate(formID, field)
	if err != nil {
		return err
	}
	state.form.Fields[idx].Value = value
	return nil
}

// SetFieldError attaches or replaces the field's error message.
func (p *Page) SetFieldError(formID, field, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, idx, err := p.locate(formID, field)
	if err != nil {
		return err
	}
	state.errors[state.form.Fields[idx].Name] = message
	return nil
}

// ClearFieldError removes any error attached to the field.
func (p *Page) ClearFieldError(formID, field string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, idx, err := p.locate(formID, field)
	if err != nil {
		return err
	}
	delete(state.errors, state.form.Fields[idx].Name)
	return nil
}

// FieldError returns the error currently attached to the field.
func (p *Page) FieldError(formID, field string) (model.FieldError, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, idx, err := p.locate(formID, field)
	if err != nil {
		return model.FieldError{}, false
	}
	name := state.form.Fields[idx].Name
	message, ok := state.errors[name]
	if !ok {
		return model.FieldError{}, false
	}
	return model.FieldError{Field: name, Message: message}, true
}

// FieldErrors returns every error on the form keyed by field name.
func (p *Page) FieldErrors(formID string) map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.forms[formID]
	if !ok || len(state.errors) == 0 {
		return nil
	}
	out := make(map[string]string, len(state.errors))
	for name, message := range state.errors {
		out[name] = message
	}
	return out
}

// SubmitControl returns the form's submit control state.
func (p *Page) SubmitControl(formID string) (SubmitControl, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.forms[formID]
	if !ok {
		return SubmitControl{}, false
	}
	return state.control, true
}

// SetSubmitControl replaces the form's submit control state.
func (p *Page) SetSubmitControl(formID string, control SubmitControl) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.forms[formID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	state.control = control
	return nil
}

// ResetForm empties every value. Field errors are left untouched.
func (p *Page) ResetForm(formID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	state, ok := p.forms[formID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	state.form.Reset()
	return nil
}

// View returns a render-ready snapshot of the form.
func (p *Page) View(formID string) (FormView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	state, ok := p.forms[formID]
	if !ok {
		return FormView{}, false
	}
	view := FormView{
		Form:    state.form.Clone(),
		Control: state.control,
		Fields:  make([]FieldView, 0, len(state.form.Fields)),
	}
	for _, field := range view.Form.Fields {
		message, errored := state.errors[field.Name]
		view.Fields = append(view.Fields, FieldView{
			Field:   field,
			Error:   message,
			Errored: errored,
		})
	}
	return view, true
}

func (p *Page) locate(formID, field string) (*formState, int, error) {
	state, ok := p.forms[formID]
	if !ok {
		return nil, -1, fmt.Errorf("%w: %q", ErrUnknownForm, formID)
	}
	_, idx, ok := state.form.Field(field)
	if !ok {
		return nil, -1, fmt.Errorf("%w: %q on form %q", ErrUnknownField, field, formID)
	}
	return state, idx, nil
}

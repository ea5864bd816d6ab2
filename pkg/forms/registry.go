package forms

import (
	"sort"
	"sync"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Registry holds form definitions by id. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	forms map[string]model.Form
}

// NewRegistry constructs a registry holding the given forms.
func NewRegistry(forms ...model.Form) *Registry {
	r := &Registry{forms: make(map[string]model.Form, len(forms))}
	for _, form := range forms {
		r.Add(form)
	}
	return r
}

// Add inserts or replaces a form definition.
func (r *Registry) Add(form model.Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[form.ID] = form.Clone()
}

// Form returns a copy of the definition with the given id.
func (r *Registry) Form(id string) (model.Form, bool) {
	if r == nil {
		return model.Form{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[id]
	if !ok {
		return model.Form{}, false
	}
	return form.Clone(), true
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Forms returns copies of every definition ordered by id.
func (r *Registry) Forms() []model.Form {
	ids := r.IDs()
	out := make([]model.Form, 0, len(ids))
	for _, id := range ids {
		if form, ok := r.Form(id); ok {
			out = append(out, form)
		}
	}
	return out
}

// Len reports how many forms are registered.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.forms)
}

// Replace swaps the registry contents for those of next, keeping forms that
// are pinned (registered from code rather than files).
func (r *Registry) Replace(next *Registry, pinned ...string) {
	fresh := make(map[string]model.Form, next.Len()+len(pinned))
	for _, form := range next.Forms() {
		fresh[form.ID] = form
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range pinned {
		if form, ok := r.forms[id]; ok {
			if _, overridden := fresh[id]; !overridden {
				fresh[id] = form
			}
		}
	}
	r.forms = fresh
}

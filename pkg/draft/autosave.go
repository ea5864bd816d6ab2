package draft

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last edit before a draft is
// written.
const DefaultDebounce = time.Second

// SnapshotFunc returns the current values of a form, or false when the form
// is gone.
type SnapshotFunc func(formID string) (map[string]string, bool)

// Autosaver writes drafts once edits to a form have been quiet for the
// debounce period. Each Touch restarts that form's timer.
type Autosaver struct {
	cache    *Cache
	snapshot SnapshotFunc
	delay    time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	seq     uint64
	pending map[string]scheduled
	saving  map[string]chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

// scheduled is a pending save. gen tells a fired timer apart from the one
// that replaced it.
type scheduled struct {
	timer *time.Timer
	gen   uint64
}

// AutosaveOption configures an Autosaver.
type AutosaveOption func(*Autosaver)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(delay time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if delay > 0 {
			a.delay = delay
		}
	}
}

// WithAutosaveLogger attaches a logger for failed writes.
func WithAutosaveLogger(logger *zap.Logger) AutosaveOption {
	return func(a *Autosaver) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAutosaver constructs an Autosaver that saves snapshot results to cache.
func NewAutosaver(cache *Cache, snapshot SnapshotFunc, options ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		cache:    cache,
		snapshot: snapshot,
		delay:    DefaultDebounce,
		timeout:  5 * time.Second,
		logger:   zap.NewNop(),
		pending:  make(map[string]scheduled),
		saving:   make(map[string]chan struct{}),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(a)
	}
	return a
}

// Touch schedules a save for formID, replacing any pending one.
func (a *Autosaver) Touch(formID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if prev, ok := a.pending[formID]; ok {
		prev.timer.Stop()
	}
	a.seq++
	gen := a.seq
	a.pending[formID] = scheduled{
		timer: time.AfterFunc(a.delay, func() { a.fire(formID, gen) }),
		gen:   gen,
	}
}

// Cancel drops a pending save for formID and waits for a save of that form
// already in progress. It reports whether a save was still pending.
func (a *Autosaver) Cancel(formID string) bool {
	a.mu.Lock()
	entry, ok := a.pending[formID]
	if ok {
		delete(a.pending, formID)
	}
	inflight := a.saving[formID]
	a.mu.Unlock()

	stopped := ok && entry.timer.Stop()
	if inflight != nil {
		<-inflight
	}
	return stopped
}

// Pending reports whether a save is scheduled for formID.
func (a *Autosaver) Pending(formID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.pending[formID]
	return ok
}

// Flush saves every pending form immediately.
func (a *Autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	ids := make([]string, 0, len(a.pending))
	for id, entry := range a.pending {
		entry.timer.Stop()
		ids = append(ids, id)
		delete(a.pending, id)
	}
	a.mu.Unlock()

	for _, id := range ids {
		a.save(ctx, id)
	}
}

// Stop cancels pending saves and waits for in-flight ones to finish.
func (a *Autosaver) Stop() {
	a.mu.Lock()
	a.stopped = true
	for id, entry := range a.pending {
		entry.timer.Stop()
		delete(a.pending, id)
	}
	a.mu.Unlock()
	a.wg.Wait()
}

// fire runs the save scheduled as gen. A timer that was replaced, cancelled
// or flushed before it got the lock does nothing.
func (a *Autosaver) fire(formID string, gen uint64) {
	a.mu.Lock()
	entry, ok := a.pending[formID]
	if a.stopped || !ok || entry.gen != gen {
		a.mu.Unlock()
		return
	}
	delete(a.pending, formID)
	previous := a.saving[formID]
	done := make(chan struct{})
	a.saving[formID] = done
	a.wg.Add(1)
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		if a.saving[formID] == done {
			delete(a.saving, formID)
		}
		a.mu.Unlock()
		close(done)
		a.wg.Done()
	}()

	// Saves of one form are written in order.
	if previous != nil {
		<-previous
	}
	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	a.save(ctx, formID)
}

func (a *Autosaver) save(ctx context.Context, formID string) {
	values, ok := a.snapshot(formID)
	if !ok {
		return
	}
	if err := a.cache.Save(ctx, formID, values); err != nil {
		a.logger.Warn("draft autosave failed", zap.String("form", formID), zap.Error(err))
		return
	}
	a.logger.Debug("draft saved", zap.String("form", formID), zap.Int("fields", len(values)))
}

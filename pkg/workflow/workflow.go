package workflow

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/draft"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/notify"
	"github.com/goliatone/go-formflow/pkg/validation"
)

// Workflow validates and submits the forms mounted on one surface.
type Workflow struct {
	surface          dom.Surface
	validator        *validation.Validator
	notifier         notify.Notifier
	submitter        Submitter
	drafts           *draft.Cache
	debounce         time.Duration
	autosaver        *draft.Autosaver
	observer         Observer
	logger           *zap.Logger
	membershipFormID string
	now              func() time.Time

	mu sync.Mutex
	wg sync.WaitGroup
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithValidator overrides the default validator.
func WithValidator(validator *validation.Validator) Option {
	return func(w *Workflow) {
		if validator != nil {
			w.validator = validator
		}
	}
}

// WithNotifier sets where success and error messages are shown.
func WithNotifier(notifier notify.Notifier) Option {
	return func(w *Workflow) {
		if notifier != nil {
			w.notifier = notifier
		}
	}
}

// WithSubmitter replaces the simulated submitter.
func WithSubmitter(submitter Submitter) Option {
	return func(w *Workflow) {
		if submitter != nil {
			w.submitter = submitter
		}
	}
}

// WithDrafts enables draft restore, debounced autosave and clearing on
// success for forms that opt into caching. A non-positive debounce selects
// draft.DefaultDebounce.
func WithDrafts(cache *draft.Cache, debounce time.Duration) Option {
	return func(w *Workflow) {
		w.drafts = cache
		w.debounce = debounce
	}
}

// WithObserver registers a transition observer.
func WithObserver(observer Observer) Option {
	return func(w *Workflow) {
		w.observer = observer
	}
}

// WithLogger attaches a logger. Transitions are logged at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMembershipFormID changes which form receives the membership success
// message.
func WithMembershipFormID(id string) Option {
	return func(w *Workflow) {
		if id != "" {
			w.membershipFormID = id
		}
	}
}

// New constructs a Workflow over surface.
func New(surface dom.Surface, options ...Option) (*Workflow, error) {
	if surface == nil {
		return nil, ErrNilSurface
	}
	w := &Workflow{
		surface:          surface,
		validator:        validation.New(),
		notifier:         notify.NotifierFunc(discard),
		submitter:        NewSimulatedSubmitter(DefaultLatency),
		logger:           zap.NewNop(),
		membershipFormID: MembershipFormID,
		now:              time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(w)
	}
	if w.drafts != nil {
		w.autosaver = draft.NewAutosaver(w.drafts, w.snapshot,
			draft.WithDebounce(w.debounce),
			draft.WithAutosaveLogger(w.logger))
	}
	return w, nil
}

func discard(message string, kind notify.Kind) notify.Notification {
	return notify.Notification{Message: message, Kind: kind}
}

// Surface returns the page the workflow operates on.
func (w *Workflow) Surface() dom.Surface {
	return w.surface
}

// Validator returns the validator used by the workflow.
func (w *Workflow) Validator() *validation.Validator {
	return w.validator
}

// ValidateField validates one field and updates its error display.
func (w *Workflow) ValidateField(formID, field string) (validation.Result, error) {
	return ValidateField(w.surface, w.validator, formID, field)
}

// Edit records a new value for a field: the error is cleared straight away
// and, for cached forms, a draft save is scheduled.
func (w *Workflow) Edit(formID, field, value string) error {
	if err := w.surface.SetValue(formID, field, value); err != nil {
		return err
	}
	return w.edited(formID, field)
}

func (w *Workflow) edited(formID, field string) error {
	if err := ClearFieldError(w.surface, formID, field); err != nil {
		return err
	}
	if w.autosaver == nil {
		return nil
	}
	if form, ok := w.surface.Form(formID); ok && form.Cache {
		w.autosaver.Touch(formID)
	}
	return nil
}

// ApplyValues edits every field of formID that has an entry in values, as
// Edit does, unless a submission of the form is in flight. In that case
// nothing changes and ErrSubmissionInProgress is returned.
func (w *Workflow) ApplyValues(formID string, values map[string]string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	form, ok := w.surface.Form(formID)
	if !ok {
		return 0, unknownForm(formID)
	}
	if control, _ := w.surface.SubmitControl(formID); control.Disabled {
		return 0, ErrSubmissionInProgress
	}
	applied := 0
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := w.surface.SetValue(formID, field.Name, value); err != nil {
			return applied, err
		}
		if err := w.edited(formID, field.Name); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// Restore applies the cached draft of a form, if any. It reports how many
// fields were populated.
func (w *Workflow) Restore(ctx context.Context, formID string) (int, error) {
	form, ok := w.surface.Form(formID)
	if !ok {
		return 0, unknownForm(formID)
	}
	if w.drafts == nil || !form.Cache {
		return 0, nil
	}
	values, ok := w.drafts.Load(ctx, formID)
	if !ok {
		return 0, nil
	}
	applied := 0
	for _, field := range form.Fields {
		value, ok := values[field.Name]
		if !ok {
			continue
		}
		if err := w.surface.SetValue(formID, field.Name, value); err != nil {
			return applied, err
		}
		applied++
	}
	w.logger.Debug("draft restored", zap.String("form", formID), zap.Int("fields", applied))
	return applied, nil
}

// Submit starts a submission attempt. Validation runs synchronously: an
// invalid form yields an attempt that is already Rejected. A valid form
// moves to Submitting and the Submitter runs in the background; cancelling
// ctx does not abort it. Submitting a form whose control is disabled returns
// ErrSubmissionInProgress.
func (w *Workflow) Submit(ctx context.Context, formID string) (*Attempt, error) {
	w.mu.Lock()

	form, ok := w.surface.Form(formID)
	if !ok {
		w.mu.Unlock()
		return nil, unknownForm(formID)
	}
	control, _ := w.surface.SubmitControl(formID)
	if control.Disabled {
		w.mu.Unlock()
		w.logger.Debug("submit ignored", zap.String("form", formID))
		return nil, ErrSubmissionInProgress
	}

	attempt := newAttempt(uuid.NewString(), formID)
	w.transition(attempt, StateIdle, StateValidating)

	result := w.validator.ValidateForm(form)
	for _, name := range result.Order {
		outcome := result.Results[name]
		if err := ApplyValidationDisplay(w.surface, formID, name, outcome.Valid, outcome.Message); err != nil {
			w.logger.Warn("apply validation display", zap.String("form", formID), zap.String("field", name), zap.Error(err))
		}
	}

	if !result.Valid {
		w.transition(attempt, StateValidating, StateRejected)
		w.notifier.Show(MessageRejected, notify.KindError)
		w.transition(attempt, StateRejected, StateIdle)
		w.mu.Unlock()
		attempt.finish(Outcome{State: StateRejected, Issues: result.Issues})
		return attempt, nil
	}

	if err := w.surface.SetSubmitControl(formID, dom.SubmitControl{Label: SubmittingLabel, Disabled: true}); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	w.transition(attempt, StateValidating, StateSubmitting)
	w.wg.Add(1)
	w.mu.Unlock()

	go w.deliver(context.WithoutCancel(ctx), attempt, form, control)
	return attempt, nil
}

func (w *Workflow) deliver(ctx context.Context, attempt *Attempt, form model.Form, control dom.SubmitControl) {
	defer w.wg.Done()

	err := w.submitter.Submit(ctx, form)

	w.mu.Lock()
	var outcome Outcome
	if err != nil {
		outcome = w.reject(attempt, form, err)
	} else {
		outcome = w.complete(ctx, attempt, form)
	}
	control.Disabled = false
	if err := w.surface.SetSubmitControl(form.ID, control); err != nil {
		w.logger.Warn("restore submit control", zap.String("form", form.ID), zap.Error(err))
	}
	w.transition(attempt, outcome.State, StateIdle)
	w.mu.Unlock()

	attempt.finish(outcome)
}

func (w *Workflow) complete(ctx context.Context, attempt *Attempt, form model.Form) Outcome {
	w.transition(attempt, StateSubmitting, StateCompleted)
	w.notifier.Show(w.successMessage(form), notify.KindSuccess)

	if err := w.surface.ResetForm(form.ID); err != nil {
		w.logger.Warn("reset form", zap.String("form", form.ID), zap.Error(err))
	}
	if w.drafts != nil {
		if w.autosaver != nil {
			w.autosaver.Cancel(form.ID)
		}
		if err := w.drafts.Clear(ctx, form.ID); err != nil {
			w.logger.Warn("clear draft", zap.String("form", form.ID), zap.Error(err))
		}
	}
	return Outcome{State: StateCompleted}
}

func (w *Workflow) reject(attempt *Attempt, form model.Form, err error) Outcome {
	w.transition(attempt, StateSubmitting, StateRejected)
	w.logger.Info("submission rejected", zap.String("form", form.ID), zap.Error(err))

	var issues []validation.Issue
	var formMessages []string
	var subErr *SubmissionError
	if errors.As(err, &subErr) {
		mapping := validation.MapErrorPayload(form, subErr.Fields)
		for _, field := range form.Fields {
			message := mapping.First(field.Name)
			if message == "" {
				continue
			}
			if err := w.surface.SetFieldError(form.ID, field.Name, message); err != nil {
				w.logger.Warn("apply submission error", zap.String("field", field.Name), zap.Error(err))
			}
			issues = append(issues, validation.Issue{Field: field.Name, Message: message})
		}
		formMessages = validation.MergeFormErrors(mapping.Form, subErr.Form...)
	}

	w.notifier.Show(MessageRejected, notify.KindError)
	for _, message := range formMessages {
		w.notifier.Show(message, notify.KindError)
		issues = append(issues, validation.Issue{Message: message})
	}
	return Outcome{State: StateRejected, Issues: issues, Err: err}
}

func (w *Workflow) successMessage(form model.Form) string {
	if form.SuccessMessage != "" {
		return form.SuccessMessage
	}
	if form.ID == w.membershipFormID {
		return MessageMembershipSuccess
	}
	return MessageSuccess
}

func (w *Workflow) snapshot(formID string) (map[string]string, bool) {
	form, ok := w.surface.Form(formID)
	if !ok {
		return nil, false
	}
	return form.Values(), true
}

func (w *Workflow) transition(attempt *Attempt, from, to State) {
	w.logger.Debug("submission transition",
		zap.String("form", attempt.FormID),
		zap.String("attempt", attempt.ID),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	if w.observer != nil {
		w.observer(Transition{
			FormID:    attempt.FormID,
			AttemptID: attempt.ID,
			From:      from,
			To:        to,
			At:        w.now(),
		})
	}
}

// Wait blocks until every in-flight submission has finished.
func (w *Workflow) Wait() {
	w.wg.Wait()
}

// Close waits for in-flight submissions, flushes pending draft saves and
// stops the autosaver.
func (w *Workflow) Close(ctx context.Context) {
	w.wg.Wait()
	if w.autosaver != nil {
		w.autosaver.Flush(ctx)
		w.autosaver.Stop()
	}
}

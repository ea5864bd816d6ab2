package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/notify"
	"github.com/goliatone/go-formflow/pkg/site"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

// Filler walks a form field by field in the terminal and submits it through
// a workflow. Answers go through the same edit, blur and submit steps as the
// web page.
type Filler struct {
	driver    PromptDriver
	theme     Theme
	maxRounds int
	confirm   bool
	logger    *zap.Logger
}

// New builds a Filler. The survey driver is used unless one is supplied.
func New(options ...Option) *Filler {
	f := &Filler{
		theme:     DefaultTheme,
		maxRounds: DefaultMaxRounds,
		logger:    zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver()
	}
	return f
}

// Notifier prints workflow notifications through the driver.
func (f *Filler) Notifier() notify.Notifier {
	return notify.NotifierFunc(func(message string, kind notify.Kind) notify.Notification {
		n := notify.Notification{ID: uuid.NewString(), Message: notify.PlainText(message), Kind: kind}
		if err := f.driver.Info(context.Background(), f.prefix(kind)+n.Message); err != nil {
			f.logger.Warn("print notification", zap.Error(err))
		}
		return n
	})
}

func (f *Filler) prefix(kind notify.Kind) string {
	switch kind {
	case notify.KindSuccess:
		return f.theme.SuccessPrefix
	case notify.KindError:
		return f.theme.ErrorPrefix
	default:
		return f.theme.InfoPrefix
	}
}

// Fill prompts for every field of formID and submits the form. When the
// submission is rejected the rejected fields are asked again, up to the
// configured number of rounds. The last outcome is returned.
func (f *Filler) Fill(ctx context.Context, flow *workflow.Workflow, formID string) (workflow.Outcome, error) {
	if flow == nil {
		return workflow.Outcome{}, ErrNilWorkflow
	}
	form, ok := flow.Surface().Form(formID)
	if !ok {
		return workflow.Outcome{}, fmt.Errorf("%w: %q", workflow.ErrUnknownForm, formID)
	}

	restored, err := flow.Restore(ctx, formID)
	if err != nil {
		f.logger.Warn("restore draft", zap.String("form", formID), zap.Error(err))
	} else if restored > 0 {
		f.info(ctx, fmt.Sprintf("Restored %d saved answers", restored))
	}
	if form.Title != "" {
		f.info(ctx, form.Title)
	}

	pending := make([]string, 0, len(form.Fields))
	for _, field := range form.Fields {
		pending = append(pending, field.Name)
	}

	var outcome workflow.Outcome
	for round := 1; ; round++ {
		for _, name := range pending {
			if err := f.askField(ctx, flow, formID, name); err != nil {
				return outcome, err
			}
		}

		if f.confirm {
			title := form.Title
			if title == "" {
				title = form.ID
			}
			ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: "Submit " + title + "?", Default: true})
			if err != nil {
				return outcome, err
			}
			if !ok {
				return workflow.Outcome{State: workflow.StateIdle}, ErrDeclined
			}
		}

		attempt, err := flow.Submit(ctx, formID)
		if err != nil {
			return outcome, err
		}
		f.info(ctx, workflow.SubmittingLabel)
		outcome, err = attempt.Wait(ctx)
		if err != nil {
			return outcome, err
		}
		if outcome.State == workflow.StateCompleted || round >= f.maxRounds {
			return outcome, nil
		}

		pending = pending[:0]
		for _, issue := range outcome.Issues {
			if issue.Field != "" {
				pending = append(pending, issue.Field)
			}
		}
		if len(pending) == 0 {
			return outcome, nil
		}
		f.logger.Debug("asking rejected fields again", zap.Strings("fields", pending), zap.Int("round", round))
	}
}

// askField repeats the prompt until the answer passes field validation.
func (f *Filler) askField(ctx context.Context, flow *workflow.Workflow, formID, name string) error {
	for {
		form, _ := flow.Surface().Form(formID)
		field, _, ok := form.Field(name)
		if !ok {
			return fmt.Errorf("prompt: form %q has no field %q", formID, name)
		}

		value, err := f.ask(ctx, field)
		if err != nil {
			return err
		}
		if err := flow.Edit(formID, name, value); err != nil {
			return err
		}
		if field.IsMultiline() {
			f.info(ctx, site.CountCharacters(value).Text)
		}

		result, err := flow.ValidateField(formID, name)
		if err != nil {
			return err
		}
		if result.Valid {
			return nil
		}
		f.info(ctx, f.theme.ErrorPrefix+result.Message)
	}
}

func (f *Filler) ask(ctx context.Context, field model.Field) (string, error) {
	message := field.Label
	if message == "" {
		message = field.Name
	}
	if field.Required {
		message += " *"
	}
	help := notify.PlainText(field.Help)

	switch field.Kind {
	case model.FieldKindSelect, model.FieldKindRadio:
		labels := make([]string, len(field.Options))
		current := -1
		for i, option := range field.Options {
			labels[i] = option.Label
			if labels[i] == "" {
				labels[i] = option.Value
			}
			if option.Value == field.Value {
				current = i
			}
		}
		idx, err := f.driver.Select(ctx, SelectConfig{Message: message, Options: labels, DefaultIndex: current, Help: help})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	case model.FieldKindCheckbox:
		ok, err := f.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: field.Value != "", Help: help})
		if err != nil || !ok {
			return "", err
		}
		return "true", nil
	case model.FieldKindTextarea:
		return f.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Value, Help: help})
	default:
		value, err := f.driver.Input(ctx, InputConfig{Message: message, Default: field.Value, Help: help})
		return strings.TrimRight(value, "\r\n"), err
	}
}

func (f *Filler) info(ctx context.Context, msg string) {
	if err := f.driver.Info(ctx, msg); err != nil {
		f.logger.Warn("print message", zap.Error(err))
	}
}

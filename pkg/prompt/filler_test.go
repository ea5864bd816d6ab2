package prompt

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/testsupport"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

type stubDriver struct {
	mu sync.Mutex

	inputs     []string
	selectIdx  []int
	confirm    []bool
	textAreas  []string
	asked      []string
	infos      []string
	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int
	inputErr   error
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, cfg.Message)
	if s.inputErr != nil {
		return "", s.inputErr
	}
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, cfg.Message)
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, cfg.Message)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asked = append(s.asked, cfg.Message)
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, msg)
	return nil
}

func (s *stubDriver) Infos() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.infos...)
}

func (s *stubDriver) Asked() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.asked...)
}

func newFlow(t *testing.T, filler *Filler, submitter workflow.Submitter) (*workflow.Workflow, *dom.Page) {
	t.Helper()
	page := dom.NewPage(testsupport.MembershipForm(), testsupport.ContactForm())
	flow, err := workflow.New(page,
		workflow.WithNotifier(filler.Notifier()),
		workflow.WithSubmitter(submitter),
	)
	if err != nil {
		t.Fatalf("new workflow: %v", err)
	}
	t.Cleanup(func() { flow.Close(context.Background()) })
	return flow, page
}

var immediate = workflow.SubmitterFunc(func(context.Context, model.Form) error { return nil })

func contains(list []string, want string) bool {
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func TestFill_MembershipCompletes(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"", "Ada Lovelace", "not-an-email", "ada@example.com", "3.5"},
		selectIdx: []int{1},
		textAreas: []string{"Service and scholarship."},
	}
	filler := New(WithPromptDriver(driver))
	flow, page := newFlow(t, filler, immediate)

	outcome, err := filler.Fill(context.Background(), flow, "membership-application")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if outcome.State != workflow.StateCompleted {
		t.Fatalf("state = %s, want completed", outcome.State)
	}

	infos := driver.Infos()
	for _, want := range []string{
		DefaultTheme.ErrorPrefix + validation.MessageRequired,
		DefaultTheme.ErrorPrefix + validation.MessageEmail,
		"24 characters",
		DefaultTheme.SuccessPrefix + workflow.MessageMembershipSuccess,
	} {
		if !contains(infos, want) {
			t.Errorf("missing message %q in %q", want, infos)
		}
	}

	form, _ := page.Form("membership-application")
	for name, value := range form.Values() {
		if value != "" {
			t.Fatalf("field %s not reset after completion: %q", name, value)
		}
	}
}

func TestFill_ReasksRejectedFields(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Ada Lovelace", "ada@example.com", "3.5", "ada@school.edu"},
		selectIdx: []int{0},
		textAreas: []string{""},
	}
	filler := New(WithPromptDriver(driver))

	calls := 0
	var submitted []string
	submitter := workflow.SubmitterFunc(func(_ context.Context, form model.Form) error {
		calls++
		submitted = append(submitted, form.Values()["email"])
		if calls == 1 {
			return &workflow.SubmissionError{Fields: map[string][]string{"email": {"Email already registered"}}}
		}
		return nil
	})
	flow, _ := newFlow(t, filler, submitter)

	outcome, err := filler.Fill(context.Background(), flow, "membership-application")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if outcome.State != workflow.StateCompleted {
		t.Fatalf("state = %s, want completed", outcome.State)
	}
	if diff := cmp.Diff([]string{"ada@example.com", "ada@school.edu"}, submitted); diff != "" {
		t.Fatalf("submitted emails mismatch (-want +got):\n%s", diff)
	}

	asked := driver.Asked()
	wantAsked := []string{"Full Name *", "Email *", "Grade *", "Current GPA *", "Why do you want to join?", "Email *"}
	if diff := cmp.Diff(wantAsked, asked); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if !contains(driver.Infos(), DefaultTheme.ErrorPrefix+workflow.MessageRejected) {
		t.Fatalf("rejection not reported: %q", driver.Infos())
	}
}

func TestFill_StopsAfterMaxRounds(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Grace", "", "Grace H."},
		textAreas: []string{""},
	}
	filler := New(WithPromptDriver(driver), WithMaxRounds(2))
	flow, _ := newFlow(t, filler, workflow.SubmitterFunc(func(context.Context, model.Form) error {
		return &workflow.SubmissionError{Fields: map[string][]string{"name": {"Name taken"}}}
	}))

	outcome, err := filler.Fill(context.Background(), flow, "contact")
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if outcome.State != workflow.StateRejected {
		t.Fatalf("state = %s, want rejected", outcome.State)
	}
	if len(outcome.Issues) == 0 || outcome.Issues[0].Field != "name" {
		t.Fatalf("issues = %+v", outcome.Issues)
	}
	if driver.inputPos != 3 {
		t.Fatalf("expected name to be asked twice, inputs used = %d", driver.inputPos)
	}
}

func TestFill_Declined(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"Grace", ""},
		textAreas: []string{""},
		confirm:   []bool{false},
	}
	filler := New(WithPromptDriver(driver), WithConfirm(true))
	flow, _ := newFlow(t, filler, immediate)

	_, err := filler.Fill(context.Background(), flow, "contact")
	if !errors.Is(err, ErrDeclined) {
		t.Fatalf("expected ErrDeclined, got %v", err)
	}
	if last := driver.Asked()[len(driver.Asked())-1]; !strings.HasPrefix(last, "Submit ") {
		t.Fatalf("last prompt = %q", last)
	}
}

func TestFill_AbortPropagates(t *testing.T) {
	driver := &stubDriver{inputErr: ErrAborted}
	filler := New(WithPromptDriver(driver))
	flow, _ := newFlow(t, filler, immediate)

	if _, err := filler.Fill(context.Background(), flow, "contact"); !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
}

func TestFill_UnknownForm(t *testing.T) {
	filler := New(WithPromptDriver(&stubDriver{}))
	flow, _ := newFlow(t, filler, immediate)

	if _, err := filler.Fill(context.Background(), flow, "missing"); !errors.Is(err, workflow.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if _, err := filler.Fill(context.Background(), nil, "contact"); !errors.Is(err, ErrNilWorkflow) {
		t.Fatalf("expected ErrNilWorkflow, got %v", err)
	}
}

func TestNotifier_SanitisesAndPrefixes(t *testing.T) {
	driver := &stubDriver{}
	filler := New(WithPromptDriver(driver), WithTheme(Theme{InfoPrefix: "[i] ", ErrorPrefix: "[x] ", SuccessPrefix: "[ok] "}))

	n := filler.Notifier().Show("<b>Saved</b>", "info")
	if n.ID == "" || n.Message != "Saved" {
		t.Fatalf("notification = %+v", n)
	}
	if diff := cmp.Diff([]string{"[i] Saved"}, driver.Infos()); diff != "" {
		t.Fatalf("infos mismatch (-want +got):\n%s", diff)
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/dom"
	"github.com/goliatone/go-formflow/pkg/prompt"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

var (
	fillNoConfirm bool
	fillRounds    int
)

// fillCmd fills a form interactively
var fillCmd = &cobra.Command{
	Use:   "fill <form-id>",
	Short: "Fill and submit a form in the terminal",
	Long: `Prompt for every field of a form, validating each answer as it is
given, then submit it. Fields the submission rejects are asked again.

Cached forms restore their draft first and save it while you answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runFill,
}

func init() {
	fillCmd.Flags().BoolVar(&fillNoConfirm, "yes", false, "Submit without asking for confirmation")
	fillCmd.Flags().IntVar(&fillRounds, "rounds", prompt.DefaultMaxRounds, "Submission attempts before giving up")
}

func runFill(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formID := args[0]

	registry, err := formflow.LoadForms(ctx, cfg.Forms, logger.Named("forms"))
	if err != nil {
		return err
	}
	form, ok := registry.Form(formID)
	if !ok {
		return fmt.Errorf("%w: %q", workflow.ErrUnknownForm, formID)
	}

	cache, closer, err := formflow.OpenDrafts(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	filler := prompt.New(
		prompt.WithConfirm(!fillNoConfirm),
		prompt.WithMaxRounds(fillRounds),
		prompt.WithLogger(logger.Named("prompt")),
	)
	flow, err := workflow.New(dom.NewPage(form),
		workflow.WithValidator(formflow.NewValidator(cfg)),
		workflow.WithNotifier(filler.Notifier()),
		workflow.WithSubmitter(workflow.NewSimulatedSubmitter(cfg.SubmissionLatency())),
		workflow.WithDrafts(cache, cfg.DraftDebounce()),
		workflow.WithMembershipFormID(cfg.Forms.MembershipFormID),
		workflow.WithLogger(logger.Named("workflow")),
	)
	if err != nil {
		return err
	}
	defer flow.Close(ctx)

	outcome, err := filler.Fill(ctx, flow, formID)
	if err != nil {
		return err
	}
	logger.Debug("fill finished", zap.String("form", formID), zap.Stringer("state", outcome.State))
	if outcome.State != workflow.StateCompleted {
		return fmt.Errorf("form %q was not submitted: %s", formID, outcome.State)
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	formflow "github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/workflow"
)

var errInvalidValues = errors.New("values do not pass validation")

// validateCmd checks a values file against a form
var validateCmd = &cobra.Command{
	Use:   "validate <form-id> <values.yaml>",
	Short: "Validate field values without submitting",
	Long: `Apply the values in a YAML (or JSON) file to a form and report every
field that fails validation. The command fails when any field is invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	formID, path := args[0], args[1]

	registry, err := formflow.LoadForms(cmd.Context(), cfg.Forms, logger.Named("forms"))
	if err != nil {
		return err
	}
	form, ok := registry.Form(formID)
	if !ok {
		return fmt.Errorf("%w: %q", workflow.ErrUnknownForm, formID)
	}

	values, err := readValues(path)
	if err != nil {
		return err
	}
	form.Apply(values)

	result := formflow.NewValidator(cfg).ValidateForm(form)
	printIssues(cmd, result)
	if !result.Valid {
		return errInvalidValues
	}
	return nil
}

func readValues(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	// YAML is a superset of JSON, so one decoder covers both.
	var values map[string]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

func printIssues(cmd *cobra.Command, result validation.FormResult) {
	out := cmd.OutOrStdout()
	if result.Valid {
		fmt.Fprintln(out, "✔ all fields are valid")
		return
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(out, "✖ %s: %s\n", issue.Field, issue.Message)
	}
}

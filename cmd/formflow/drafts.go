package main

import (
	"fmt"

	"github.com/spf13/cobra"

	formflow "github.com/goliatone/go-formflow"
)

var draftsSession string

// draftsCmd groups draft maintenance
var draftsCmd = &cobra.Command{
	Use:   "drafts",
	Short: "Manage saved form drafts",
}

// draftsClearCmd removes one form's draft
var draftsClearCmd = &cobra.Command{
	Use:   "clear <form-id>",
	Short: "Delete the saved draft of a form",
	Long: `Delete the saved draft of a form from the configured store.

Drafts written by the HTTP server are kept per browser session; pass the
session id with --session to clear one of those.`,
	Args: cobra.ExactArgs(1),
	RunE: runDraftsClear,
}

func init() {
	draftsClearCmd.Flags().StringVar(&draftsSession, "session", "", "Session id the draft belongs to")
	draftsCmd.AddCommand(draftsClearCmd)
}

func runDraftsClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formID := args[0]

	cache, closer, err := formflow.OpenDrafts(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closer.Close()

	if draftsSession != "" {
		cache = cache.Scoped(draftsSession)
	}
	if err := cache.Clear(ctx, formID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "cleared draft %s\n", cache.Key(formID))
	return nil
}

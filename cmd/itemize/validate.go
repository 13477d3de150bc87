package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <invoice>",
		Short: "Run the validation checkpoints without saving anything",
		Long: `Run every checkpoint against an invoice and report the issues found.
Exits non-zero unless the itemization could be finalized.`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	addFormatFlag(cmd)
	cmd.Flags().Bool("accept", false, "use suggested categories for unassigned line items")

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	inv, err := loadInvoice(cmd, args[0])
	if err != nil {
		return err
	}

	eng, err := newEngine(cmd, nil)
	if err != nil {
		return err
	}

	out, err := eng.Process(cmd.Context(), inv)
	if err != nil {
		return err
	}

	for _, r := range out.Reports {
		fmt.Fprintln(w, cli.FormatCheckpoint(string(r.Checkpoint), r.Passed, r.Errors()))
	}

	if !out.Finalized() {
		fmt.Fprintln(w, cli.FormatError(fmt.Sprintf("Stopped at stage %s", out.Stage)))
		return errChecksFailed
	}
	fmt.Fprintln(w, cli.FormatSuccess("Ready to submit"))
	return nil
}

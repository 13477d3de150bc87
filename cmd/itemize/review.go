package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/classification"
	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/ingest"
	"github.com/Veraticus/hotel-itemizer/internal/itemize"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <invoice>",
		Short: "Assign categories to line items interactively",
		Long: `Walk through every line item, accepting the suggested category or
choosing another one, then write the reviewed invoice.

Examples:
  itemize review stay.json -o stay.reviewed.json
  itemize run stay.reviewed.json`,
		Args: cobra.ExactArgs(1),
		RunE: runReview,
	}

	addFormatFlag(cmd)
	cmd.Flags().StringP("output", "o", "", "file to write the reviewed invoice to (required)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runReview(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	output, _ := cmd.Flags().GetString("output")

	inv, err := loadInvoice(cmd, args[0])
	if err != nil {
		return err
	}

	validator := itemize.NewValidator(itemize.DefaultConfig())
	categorizer := itemize.NewCategorizer(classification.NewDefaultDetector(), validator)
	inv = categorizer.SuggestCategories(inv)

	handler := cli.NewInterruptHandler(w)
	ctx := handler.HandleInterrupts(cmd.Context(), "Review", "Nothing was written to "+output)

	reviewer := cli.NewReviewer(cmd.InOrStdin(), w)
	reviewed, err := reviewer.Review(ctx, inv)
	if err != nil {
		if handler.WasInterrupted() || errors.Is(err, cli.ErrInputCancelled) {
			return nil
		}
		return err
	}
	reviewer.ShowCompletion()

	if err := ingest.WriteFile(output, reviewed); err != nil {
		return err
	}

	report := categorizer.Validate(reviewed)
	for _, msg := range report.Errors() {
		fmt.Fprintln(w, cli.FormatWarning(msg))
	}
	fmt.Fprintln(w, cli.FormatSuccess("Wrote "+output))
	return nil
}

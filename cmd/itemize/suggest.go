package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/classification"
	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/ingest"
	"github.com/Veraticus/hotel-itemizer/internal/itemize"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <invoice>",
		Short: "Suggest a category for every line item",
		Long: `Show the keyword-based category suggestion for every line item.
Suggestions already present in the invoice are kept. With --output the
invoice is written back with the suggestions filled in.`,
		Args: cobra.ExactArgs(1),
		RunE: runSuggest,
	}

	addFormatFlag(cmd)
	cmd.Flags().StringP("output", "o", "", "write the invoice with suggestions to this file")
	return cmd
}

func runSuggest(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	inv, err := loadInvoice(cmd, args[0])
	if err != nil {
		return err
	}

	detector := classification.NewDefaultDetector()
	categorizer := itemize.NewCategorizer(detector, itemize.NewValidator(itemize.DefaultConfig()))
	suggested := categorizer.SuggestCategories(inv)

	rows := make([][]string, 0, len(suggested.LineItems))
	for i, item := range suggested.LineItems {
		source := "invoice"
		if inv.LineItems[i].SuggestedCategory == nil {
			match := detector.Detect(item.Description)
			source = match.PatternName
			if match.Fallback {
				source = "fallback"
			}
		}
		rows = append(rows, []string{
			item.Description,
			model.FormatAmount(suggested.Currency, item.Amount),
			item.SuggestedCategory.String(),
			source,
		})
	}
	fmt.Fprintln(w, cli.RenderTable([]string{"Description", "Amount", "Suggestion", "Source"}, rows))

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := ingest.WriteFile(path, suggested); err != nil {
			return err
		}
		fmt.Fprintln(w, cli.FormatSuccess("Wrote "+path))
	}
	return nil
}

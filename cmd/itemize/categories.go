package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/itemize"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the hotel expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mapping := itemize.CategoryMapping()

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(cmd.OutOrStdout(), mapping)
			}

			rows := make([][]string, 0, len(mapping))
			for _, info := range mapping {
				rows = append(rows, []string{info.Name.String(), info.Kind})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable([]string{"Category", "Billing"}, rows))
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}

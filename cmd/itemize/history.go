package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect saved itemization runs",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			limit, _ := cmd.Flags().GetInt("limit")
			invoice, _ := cmd.Flags().GetString("invoice")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			var runs []model.Run
			if invoice != "" {
				runs, err = store.GetRunsByInvoiceNumber(ctx, invoice)
			} else {
				runs, err = store.ListRuns(ctx, limit)
			}
			if err != nil {
				return err
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				for i := range runs {
					runs[i].Outcome = nil
				}
				return writeJSON(cmd.OutOrStdout(), runs)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No saved runs"))
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				status := "failed"
				switch {
				case r.SubmittedAt != nil:
					status = "submitted"
				case r.Passed:
					status = "finalized"
				}
				rows = append(rows, []string{
					r.ID,
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.HotelName,
					r.InvoiceNumber,
					model.FormatAmount(r.Currency, r.TotalOriginal),
					status,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderTable(
				[]string{"ID", "Created", "Hotel", "Invoice", "Total", "Status"}, rows))
			return nil
		},
	}

	cmd.Flags().IntP("limit", "n", 20, "maximum number of runs (0 = all)")
	cmd.Flags().String("invoice", "", "only runs for this invoice number")
	cmd.Flags().Bool("json", false, "print as JSON")
	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			run, out, err := loadOutcome(ctx, store, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return writeJSON(w, out)
			}

			printOutcome(w, out)
			if run.Submission != nil {
				fmt.Fprintln(w)
				for _, res := range run.Submission.Results {
					line := fmt.Sprintf("#%d %s (%d attempt(s))", res.Index, res.Subcategory, res.Attempts)
					if res.Success {
						fmt.Fprintln(w, cli.FormatSuccess(line))
					} else {
						fmt.Fprintln(w, cli.FormatError(line+": "+res.Error))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the stored outcome as JSON")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a saved run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer closeStore(store)

			if err := store.DeleteRun(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Deleted run "+args[0]))
			return nil
		},
	}
}

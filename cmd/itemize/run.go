package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
	"github.com/Veraticus/hotel-itemizer/internal/report"
	"github.com/Veraticus/hotel-itemizer/internal/storage"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <invoice>",
		Short: "Itemize a hotel invoice",
		Long: `Process an invoice through categorization, consolidation, daily rate
calculation and validation.

Examples:
  itemize run stay.json                 # Show the itemization
  itemize run stay.yaml --accept --save # Accept suggestions and keep the run
  itemize run stay.json --submit        # Submit entries once every check passes
  itemize run stay.json --pdf stay.pdf  # Also render a PDF summary`,
		Args: cobra.ExactArgs(1),
		RunE: runItemize,
	}

	addFormatFlag(cmd)
	cmd.Flags().Bool("accept", false, "use suggested categories for unassigned line items")
	cmd.Flags().Bool("json", false, "print the full outcome as JSON")
	cmd.Flags().Bool("save", false, "record the run in the history database")
	cmd.Flags().Bool("submit", false, "submit the entries when the itemization is finalized (implies --save)")
	cmd.Flags().String("pdf", "", "write a PDF summary to this path")

	return cmd
}

func runItemize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()
	asJSON, _ := cmd.Flags().GetBool("json")
	save, _ := cmd.Flags().GetBool("save")
	submit, _ := cmd.Flags().GetBool("submit")
	pdfPath, _ := cmd.Flags().GetString("pdf")

	inv, err := loadInvoice(cmd, args[0])
	if err != nil {
		return err
	}

	var store *storage.SQLiteStorage
	var recorder engine.RunRecorder
	if save || submit {
		store, err = initStorage(ctx)
		if err != nil {
			return err
		}
		defer closeStore(store)
		recorder = store
	}

	eng, err := newEngine(cmd, recorder)
	if err != nil {
		return err
	}

	out, err := eng.Process(ctx, inv)
	if err != nil {
		return err
	}

	if asJSON {
		if err := writeJSON(w, out); err != nil {
			return err
		}
	} else {
		printOutcome(w, out)
	}

	if pdfPath != "" && out.Result != nil {
		if err := writePDF(pdfPath, out); err != nil {
			return err
		}
		slog.Info("Wrote PDF summary", "path", pdfPath)
	}

	if !out.Finalized() {
		return errChecksFailed
	}

	if submit {
		sub, closeDriver, err := newSubmitter(w)
		if err != nil {
			return err
		}
		defer closeDriver()

		return submitOutcome(cmd, store, eng, out, sub)
	}

	return nil
}

func writePDF(path string, out *engine.Outcome) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create PDF: %w", err)
	}
	if err := report.RenderPDF(f, *out.Result); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printSubmission(cmd *cobra.Command, submitted, failed int, driverName string) {
	w := cmd.OutOrStdout()
	msg := fmt.Sprintf("Submitted %d entries via %s", submitted, driverName)
	if failed > 0 {
		fmt.Fprintln(w, cli.FormatError(fmt.Sprintf("%s; %d failed", msg, failed)))
		return
	}
	fmt.Fprintln(w, cli.FormatSuccess(msg))
}

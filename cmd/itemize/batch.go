package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
	"github.com/Veraticus/hotel-itemizer/internal/ingest"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

type batchResult struct {
	err     error
	outcome *engine.Outcome
	path    string
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <invoice>...",
		Short: "Itemize many invoices concurrently",
		Long: `Process every invoice given, each on its own worker. A failing invoice
does not stop the others.

Examples:
  itemize batch invoices/*.json --save
  itemize batch a.yaml b.yaml --concurrency 2 --accept`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBatch,
	}

	cmd.Flags().Bool("accept", false, "use suggested categories for unassigned line items")
	cmd.Flags().Bool("save", false, "record every run in the history database")
	cmd.Flags().IntP("concurrency", "c", 4, "number of invoices processed at once")
	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	save, _ := cmd.Flags().GetBool("save")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	handler := cli.NewInterruptHandler(w)
	ctx := handler.HandleInterrupts(cmd.Context(), "Batch", "Runs finished before the interrupt were kept.")

	var recorder engine.RunRecorder
	if save {
		store, err := initStorage(ctx)
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

	results := make([]batchResult, len(args))
	progress := cli.NewBatchProgress(cmd.ErrOrStderr(), len(args))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, path := range args {
		g.Go(func() error {
			results[i] = processFile(gctx, eng, path)
			progress.Done(results[i].err == nil && results[i].outcome.Finalized())
			// Only cancellation stops the batch.
			return gctx.Err()
		})
	}
	waitErr := g.Wait()
	passed, failed := progress.Finish()

	fmt.Fprintln(w)
	fmt.Fprintln(w, cli.RenderTable([]string{"Invoice", "Hotel", "Stage", "Itemized", "Result"}, batchRows(results)))
	fmt.Fprintln(w)

	summary := fmt.Sprintf("%d finalized, %d failed", passed, failed)
	if waitErr != nil {
		return fmt.Errorf("batch interrupted after %s: %w", summary, waitErr)
	}
	if failed > 0 {
		fmt.Fprintln(w, cli.FormatWarning(summary))
		return errChecksFailed
	}
	fmt.Fprintln(w, cli.FormatSuccess(summary))
	return nil
}

func processFile(ctx context.Context, eng *engine.Engine, path string) batchResult {
	res := batchResult{path: path}
	inv, err := ingest.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.outcome, res.err = eng.Process(ctx, inv)
	return res
}

func batchRows(results []batchResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		name := filepath.Base(r.path)
		switch {
		case r.err != nil && r.outcome == nil:
			rows = append(rows, []string{name, "", "", "", "error: " + r.err.Error()})
		case r.outcome == nil:
			rows = append(rows, []string{name, "", "", "", "not processed"})
		default:
			out := r.outcome
			itemized := ""
			if out.Result != nil {
				itemized = model.FormatAmount(out.Invoice.Currency, out.Result.TotalItemized)
			}
			result := "finalized"
			if !out.Finalized() {
				result = fmt.Sprintf("%d issue(s)", len(out.Errors()))
			}
			if r.err != nil {
				result = "error: " + r.err.Error()
			}
			rows = append(rows, []string{name, out.Invoice.HotelName, string(out.Stage), itemized, result})
		}
	}
	return rows
}

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veraticus/hotel-itemizer/internal/classification"
	"github.com/Veraticus/hotel-itemizer/internal/cli"
	"github.com/Veraticus/hotel-itemizer/internal/config"
	"github.com/Veraticus/hotel-itemizer/internal/driver"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
	"github.com/Veraticus/hotel-itemizer/internal/ingest"
	"github.com/Veraticus/hotel-itemizer/internal/model"
	"github.com/Veraticus/hotel-itemizer/internal/storage"
)

// errChecksFailed makes the process exit non-zero after the failure has
// already been reported.
var errChecksFailed = errors.New("itemization checks failed")

// initStorage opens the run history database and brings it up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStore(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close database", "error", err)
	}
}

// newEngine builds an engine from configuration. recorder may be nil.
func newEngine(cmd *cobra.Command, recorder engine.RunRecorder) (*engine.Engine, error) {
	cfg, err := config.LoadItemizerConfig()
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Lookup("accept") != nil && cmd.Flags().Changed("accept") {
		cfg.AcceptSuggestions, _ = cmd.Flags().GetBool("accept")
	}
	return engine.NewWithConfig(classification.NewDefaultDetector(), recorder, cfg), nil
}

// loadInvoice reads an invoice file, honoring an explicit --format flag.
func loadInvoice(cmd *cobra.Command, path string) (model.InvoiceDetails, error) {
	name, _ := cmd.Flags().GetString("format")
	if name == "" {
		return ingest.ReadFile(path)
	}

	format, err := ingest.ParseFormat(name)
	if err != nil {
		return model.InvoiceDetails{}, err
	}

	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return model.InvoiceDetails{}, fmt.Errorf("failed to open invoice: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ingest.Decode(f, format)
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "", "invoice format (json, yaml); default: by file extension")
}

// newSubmitter builds the configured downstream driver.
func newSubmitter(w io.Writer) (*driver.Submitter, func(), error) {
	cfg, err := config.LoadDriverConfig()
	if err != nil {
		return nil, nil, err
	}

	var d driver.Driver
	switch cfg.Kind {
	case config.DriverAMQP:
		d, err = driver.NewQueueDriver(cfg.URL, cfg.Exchange, cfg.Queue)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect submission queue: %w", err)
		}
	default:
		d = driver.NewLogDriver(w)
	}

	closeFn := func() {
		if closeErr := d.Close(); closeErr != nil {
			slog.Warn("Failed to close driver", "driver", d.Name(), "error", closeErr)
		}
	}
	return driver.NewSubmitter(d, cfg.Retry), closeFn, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printOutcome renders checkpoints, consolidated categories and entries.
func printOutcome(w io.Writer, out *engine.Outcome) {
	inv := out.Invoice
	title := inv.HotelName
	if inv.InvoiceNumber != "" {
		title = fmt.Sprintf("%s (invoice %s)", inv.HotelName, inv.InvoiceNumber)
	}
	fmt.Fprintln(w, cli.FormatTitle(title))

	for _, r := range out.Reports {
		fmt.Fprintln(w, cli.FormatCheckpoint(string(r.Checkpoint), r.Passed, r.Errors()))
	}
	fmt.Fprintln(w)

	if len(out.Consolidated) > 0 {
		rows := make([][]string, 0, len(out.Consolidated))
		for _, c := range out.Consolidated {
			rows = append(rows, []string{
				c.Category.String(),
				c.Category.Kind().String(),
				fmt.Sprintf("%d", len(c.SourceItems)),
				fmt.Sprintf("%d", c.Quantity),
				c.DailyRate.StringFixed(2),
				c.TotalAmount.StringFixed(2),
			})
		}
		fmt.Fprintln(w, cli.RenderTable([]string{"Category", "Kind", "Items", "Qty", "Daily Rate", "Total"}, rows))
		fmt.Fprintln(w)
	}

	if len(out.Entries) > 0 {
		rows := make([][]string, 0, len(out.Entries))
		for _, e := range out.Entries {
			rows = append(rows, []string{
				e.Subcategory.String(),
				e.StartDate.Format(ingest.DateLayout),
				fmt.Sprintf("%d", e.Quantity),
				e.DailyRate.StringFixed(2),
				e.TotalAmount.StringFixed(2),
			})
		}
		fmt.Fprintln(w, cli.RenderTable([]string{"Subcategory", "Start", "Qty", "Daily Rate", "Total"}, rows))
		fmt.Fprintln(w)
	}

	if out.Adjustment.Applied {
		fmt.Fprintln(w, cli.FormatInfo(fmt.Sprintf("Rounding adjustment of %s applied to %s",
			model.FormatAmount(inv.Currency, out.Adjustment.Difference), out.Adjustment.Subcategory)))
	}

	status := fmt.Sprintf("Stage: %s", out.Stage)
	if out.RunID != "" {
		status += fmt.Sprintf("  Run: %s", out.RunID)
	}
	if out.Finalized() {
		fmt.Fprintln(w, cli.FormatSuccess(status))
	} else {
		fmt.Fprintln(w, cli.FormatWarning(status))
	}
}

// loadOutcome fetches a run and restores its outcome.
func loadOutcome(ctx context.Context, store *storage.SQLiteStorage, id string) (*model.Run, *engine.Outcome, error) {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	out, err := engine.DecodeOutcome(run)
	if err != nil {
		return nil, nil, err
	}
	return run, out, nil
}

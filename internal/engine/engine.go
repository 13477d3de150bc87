// Package engine drives a hotel invoice through the itemization state
// machine and hands finalized entries to a downstream driver.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/itemize"
	"github.com/Veraticus/hotel-itemizer/internal/model"
	"github.com/Veraticus/hotel-itemizer/internal/service"
)

// ErrNotFinalized is returned when a submission is attempted for an outcome
// that did not pass every checkpoint.
var ErrNotFinalized = errors.New("itemization is not finalized")

// Config holds configuration options for the engine.
type Config struct {
	Itemize           itemize.Config
	AcceptSuggestions bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Itemize:           itemize.DefaultConfig(),
		AcceptSuggestions: false,
	}
}

// Engine processes invoices. It holds no per-invoice state, so one Engine
// may process many invoices concurrently.
type Engine struct {
	categorizer       *itemize.Categorizer
	validator         *itemize.Validator
	recorder          RunRecorder
	acceptSuggestions bool
}

// New creates an engine with the default configuration. Both arguments
// may be nil.
func New(suggester itemize.Suggester, recorder RunRecorder) *Engine {
	return NewWithConfig(suggester, recorder, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(suggester itemize.Suggester, recorder RunRecorder, cfg Config) *Engine {
	validator := itemize.NewValidator(cfg.Itemize)
	return &Engine{
		categorizer:       itemize.NewCategorizer(suggester, validator),
		validator:         validator,
		recorder:          recorder,
		acceptSuggestions: cfg.AcceptSuggestions,
	}
}

// Validator exposes the engine's checkpoint validator.
func (e *Engine) Validator() *itemize.Validator {
	return e.validator
}

// Categorizer exposes the engine's categorizer.
func (e *Engine) Categorizer() *itemize.Categorizer {
	return e.categorizer
}

// Process runs inv through every stage it qualifies for. Business-rule
// failures are reported in the outcome. The returned error is non-nil only
// when ctx is canceled between stages or the outcome could not be recorded;
// in the latter case the outcome is still returned.
func (e *Engine) Process(ctx context.Context, inv model.InvoiceDetails) (*Outcome, error) {
	out := &Outcome{
		Stage:   StageExtracted,
		Invoice: inv.Clone(),
		RunID:   uuid.NewString(),
	}

	if err := e.run(ctx, out); err != nil {
		return out, err
	}

	slog.Info("itemization finished",
		"run_id", out.RunID,
		"hotel", out.Invoice.HotelName,
		"stage", out.Stage,
		"errors", len(out.Errors()))

	if e.recorder != nil {
		if err := e.record(ctx, out); err != nil {
			return out, err
		}
	}

	return out, nil
}

func (e *Engine) run(ctx context.Context, out *Outcome) error {
	invoiceReport := e.validator.ValidateInvoiceDetails(out.Invoice)
	out.Reports = append(out.Reports, invoiceReport)
	if !invoiceReport.Passed {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	inv := out.Invoice
	if e.acceptSuggestions {
		inv = e.categorizer.AcceptSuggestions(inv)
	} else {
		inv = e.categorizer.SuggestCategories(inv)
	}
	out.Invoice = inv

	catReport := e.categorizer.Validate(inv)
	out.Categorization = &catReport
	out.Reports = append(out.Reports, catReport.Report)
	if !catReport.Passed {
		return nil
	}
	out.Stage = StageCategorized

	if err := ctx.Err(); err != nil {
		return err
	}

	target := inv.ItemizableTotal()
	out.Consolidated = itemize.Consolidate(inv)
	out.Reports = append(out.Reports,
		e.validator.ValidateConsolidation(out.Consolidated, target, inv.Currency))
	out.Stage = StageConsolidated

	if err := ctx.Err(); err != nil {
		return err
	}

	out.Entries, out.Adjustment = itemize.CalculateEntries(inv, out.Consolidated)
	out.Stage = StageRateAdjusted

	entriesReport := e.validator.ValidateEntries(out.Entries, target, inv.Currency)
	out.Reports = append(out.Reports, entriesReport)
	out.Stage = StageValidated

	passed := out.Passed()
	result := itemize.Assemble(inv, out.Consolidated, out.Entries, passed)
	out.Result = &result

	if passed {
		out.Stage = StageFinalized
	}
	return nil
}

func (e *Engine) record(ctx context.Context, out *Outcome) error {
	run, err := out.ToRun()
	if err != nil {
		return err
	}
	if err := e.recorder.SaveRun(ctx, run); err != nil {
		common.LogError(err, "failed to record itemization run", common.Fields{
			"run_id": out.RunID,
			"hotel":  out.Invoice.HotelName,
		})
		return fmt.Errorf("failed to record run %s: %w", out.RunID, err)
	}
	return nil
}

// Submit validates the finalized entries once more and hands them to the
// submitter. Outcomes that are not finalized are refused.
func (e *Engine) Submit(ctx context.Context, out *Outcome, submitter service.EntrySubmitter) (model.SubmissionReport, error) {
	if out == nil || !out.Finalized() || out.Result == nil {
		return model.SubmissionReport{}, ErrNotFinalized
	}

	report := e.validator.ValidateEntries(out.Result.Entries, out.Invoice.ItemizableTotal(), out.Invoice.Currency)
	if !report.Passed {
		return model.SubmissionReport{}, fmt.Errorf("%w: %w", ErrNotFinalized, report.Err())
	}

	common.LogInfo("submitting itemization entries", common.Fields{
		"run_id":  out.RunID,
		"entries": len(out.Result.Entries),
	})

	return submitter.Submit(ctx, out.Result.Entries)
}

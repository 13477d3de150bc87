package itemize

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Validator runs the reconciliation checkpoints. It holds only its
// tolerances and may be shared between goroutines.
type Validator struct {
	cfg Config
}

// NewValidator creates a validator with the given tolerances.
func NewValidator(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateInvoiceDetails checks a freshly extracted invoice for structural
// problems. Line items only need to be within the loose ingest tolerance of
// the invoice total here.
func (v *Validator) ValidateInvoiceDetails(inv model.InvoiceDetails) Report {
	var issues []Issue

	if inv.HotelName == "" {
		issues = append(issues, Issue{Kind: ErrInvalidInvoice, Message: "Hotel name is required"})
	}

	if len(inv.LineItems) == 0 {
		issues = append(issues, Issue{Kind: ErrInvalidInvoice, Message: "No line items found in invoice"})
	}

	if !inv.TotalAmount.IsPositive() {
		issues = append(issues, Issue{Kind: ErrInvalidInvoice, Message: "Total amount must be greater than zero"})
	}

	if inv.CheckOut.Before(inv.CheckIn) {
		issues = append(issues, Issue{Kind: ErrInvalidInvoice, Message: "Check-out date cannot be before check-in date"})
	}

	lineTotal := inv.LineItemsTotal()
	band := inv.TotalAmount.Abs().Mul(v.cfg.IngestTolerance)
	if lineTotal.Sub(inv.TotalAmount).Abs().GreaterThan(band) {
		issues = append(issues, Issue{
			Kind: ErrReconciliation,
			Message: fmt.Sprintf("Line items total (%s) differs significantly from invoice total (%s)",
				model.FormatAmount(inv.Currency, lineTotal), model.FormatAmount(inv.Currency, inv.TotalAmount)),
		})
	}

	negatives := 0
	for _, item := range inv.LineItems {
		if item.Amount.IsNegative() {
			negatives++
		}
	}
	if negatives > 0 {
		slog.Warn("invoice contains negative line items (possible credits or refunds)",
			"hotel", inv.HotelName,
			"count", negatives)
	}

	return v.finish(newReport(CheckpointInvoice, issues))
}

// ValidateCategorization checks that every line item has an assignment and
// that assigned plus ignored charges reconcile to the invoice total.
func (v *Validator) ValidateCategorization(inv model.InvoiceDetails) CategorizationReport {
	var issues []Issue
	assigned := decimal.Zero
	ignored := decimal.Zero

	for _, item := range inv.LineItems {
		switch {
		case item.UserCategory == nil:
			issues = append(issues, Issue{
				Kind:    ErrMissingCategory,
				Message: fmt.Sprintf("No category assigned for: %s", item.Description),
			})
		case item.UserCategory.IsExcluded():
			ignored = ignored.Add(item.Amount)
		default:
			assigned = assigned.Add(item.Amount)
		}
	}

	categorized := assigned.Add(ignored)
	diff := categorized.Sub(inv.TotalAmount).Abs()
	if diff.GreaterThan(v.cfg.ReconcileTolerance) {
		issues = append(issues, Issue{
			Kind: ErrReconciliation,
			Message: fmt.Sprintf("Categorized total (%s) does not match invoice total (%s). Difference: %s",
				model.FormatAmount(inv.Currency, categorized),
				model.FormatAmount(inv.Currency, inv.TotalAmount),
				model.FormatAmount(inv.Currency, diff)),
		})
	}

	if assigned.IsZero() && !ignored.IsZero() {
		issues = append(issues, Issue{
			Kind:    ErrReconciliation,
			Message: "All items are marked as 'Ignore' - at least some items should be categorized",
		})
	}

	return CategorizationReport{
		Report:        v.finish(newReport(CheckpointCategorization, issues)),
		TotalAssigned: assigned,
		TotalIgnored:  ignored,
		TotalOriginal: inv.TotalAmount,
	}
}

// ValidateConsolidation reconciles consolidated categories against the
// itemizable total of their invoice.
func (v *Validator) ValidateConsolidation(cats []model.ConsolidatedCategory, originalTotal decimal.Decimal, currency string) Report {
	if len(cats) == 0 {
		return v.finish(newReport(CheckpointConsolidation, []Issue{
			{Kind: ErrReconciliation, Message: "No categories to consolidate"},
		}))
	}

	var issues []Issue
	total := decimal.Zero

	for _, cat := range cats {
		total = total.Add(cat.TotalAmount)
		name := cat.Category.String()

		if cat.Category.IsExcluded() {
			issues = append(issues, Issue{
				Kind:    ErrReconciliation,
				Message: fmt.Sprintf("Category '%s' must not be consolidated", name),
			})
		}

		if !cat.TotalAmount.IsPositive() {
			issues = append(issues, Issue{
				Kind:    ErrInvalidAmount,
				Message: fmt.Sprintf("Category '%s' has invalid total: %s", name, model.FormatAmount(currency, cat.TotalAmount)),
			})
		}

		if cat.Quantity < 1 {
			issues = append(issues, Issue{
				Kind:    ErrInvalidAmount,
				Message: fmt.Sprintf("Category '%s' has invalid quantity: %d", name, cat.Quantity),
			})
		} else if !v.consistent(cat.DailyRate, cat.Quantity, cat.TotalAmount) {
			issues = append(issues, Issue{
				Kind: ErrCalculationInconsistency,
				Message: fmt.Sprintf("Category '%s' daily rate calculation error: daily_rate(%s) * quantity(%d) != total(%s)",
					name, cat.DailyRate.StringFixed(2), cat.Quantity, cat.TotalAmount.StringFixed(2)),
			})
		}

		if len(cat.SourceItems) == 0 {
			issues = append(issues, Issue{
				Kind:    ErrReconciliation,
				Message: fmt.Sprintf("Category '%s' has no source items", name),
			})
		}
	}

	if diff := total.Sub(originalTotal).Abs(); diff.GreaterThan(v.cfg.ReconcileTolerance) {
		// Prepend so the headline mismatch is read first.
		issues = append([]Issue{{
			Kind: ErrReconciliation,
			Message: fmt.Sprintf("Consolidated total (%s) does not match original total (%s). Difference: %s",
				model.FormatAmount(currency, total),
				model.FormatAmount(currency, originalTotal),
				model.FormatAmount(currency, diff)),
		}}, issues...)
	}

	return v.finish(newReport(CheckpointConsolidation, issues))
}

// ValidateEntries is the final check before entries are handed to a driver.
// It accepts entries from any source, including ones that bypassed the
// earlier stages.
func (v *Validator) ValidateEntries(entries []model.ItemizationEntry, originalTotal decimal.Decimal, currency string) Report {
	if len(entries) == 0 {
		return v.finish(newReport(CheckpointEntries, []Issue{
			{Kind: ErrReconciliation, Message: "No itemization entries to validate"},
		}))
	}

	var issues []Issue
	total := decimal.Zero

	for _, entry := range entries {
		total = total.Add(entry.TotalAmount)
		name := entry.Subcategory.String()

		if !entry.Subcategory.Valid() || entry.Subcategory.IsExcluded() {
			issues = append(issues, Issue{
				Kind:    ErrReconciliation,
				Message: fmt.Sprintf("Subcategory '%s' cannot be itemized", name),
			})
		}

		if !entry.DailyRate.IsPositive() {
			issues = append(issues, Issue{
				Kind:    ErrInvalidAmount,
				Message: fmt.Sprintf("Invalid daily rate for %s: %s", name, entry.DailyRate.StringFixed(2)),
			})
		}

		if entry.Quantity <= 0 {
			issues = append(issues, Issue{
				Kind:    ErrInvalidAmount,
				Message: fmt.Sprintf("Invalid quantity for %s: %d", name, entry.Quantity),
			})
		}

		if !v.consistent(entry.DailyRate, entry.Quantity, entry.TotalAmount) {
			issues = append(issues, Issue{
				Kind: ErrCalculationInconsistency,
				Message: fmt.Sprintf("Calculation error for %s: daily_rate(%s) * quantity(%d) != total(%s)",
					name, entry.DailyRate.StringFixed(2), entry.Quantity, entry.TotalAmount.StringFixed(2)),
			})
		}
	}

	if diff := total.Sub(originalTotal).Abs(); diff.GreaterThan(v.cfg.ReconcileTolerance) {
		issues = append([]Issue{{
			Kind: ErrReconciliation,
			Message: fmt.Sprintf("Itemized total (%s) does not match original total (%s). Difference: %s",
				model.FormatAmount(currency, total),
				model.FormatAmount(currency, originalTotal),
				model.FormatAmount(currency, diff)),
		}}, issues...)
	}

	return v.finish(newReport(CheckpointEntries, issues))
}

// consistent reports whether rate * quantity is within tolerance of total.
func (v *Validator) consistent(rate decimal.Decimal, quantity int, total decimal.Decimal) bool {
	expected := rate.Mul(decimal.NewFromInt(int64(quantity)))
	return expected.Sub(total).Abs().LessThanOrEqual(v.cfg.ReconcileTolerance)
}

func (v *Validator) finish(r Report) Report {
	if r.Passed {
		slog.Debug("checkpoint passed", "checkpoint", r.Checkpoint)
	} else {
		slog.Warn("checkpoint failed", "checkpoint", r.Checkpoint, "errors", r.Errors())
	}
	return r
}

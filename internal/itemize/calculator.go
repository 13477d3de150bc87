package itemize

import (
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// CentPlaces is the number of fraction digits the destination system accepts.
const CentPlaces = 2

// CalculateNights counts calendar nights between check-in and check-out.
// Same-day and inverted ranges count as one night.
func CalculateNights(checkIn, checkOut time.Time) int {
	in := calendarDay(checkIn)
	out := calendarDay(checkOut)
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 1 {
		return 1
	}
	return nights
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// BuildEntries turns consolidated categories into draft itemization entries
// starting on checkIn. Multi-night rates are priced to the cent, so the sum
// of the drafts may be off by a few cents; AdjustForRounding absorbs that.
func BuildEntries(cats []model.ConsolidatedCategory, checkIn time.Time) []model.ItemizationEntry {
	start := calendarDay(checkIn)
	entries := make([]model.ItemizationEntry, 0, len(cats))

	for _, cat := range cats {
		if cat.Category.IsExcluded() {
			continue
		}

		rate := cat.DailyRate
		total := cat.TotalAmount
		if cat.Quantity > 1 {
			rate = cat.TotalAmount.Div(decimal.NewFromInt(int64(cat.Quantity))).Round(CentPlaces)
			total = rate.Mul(decimal.NewFromInt(int64(cat.Quantity)))
		}

		slog.Debug("built itemization entry",
			"subcategory", cat.Category,
			"daily_rate", rate.StringFixed(CentPlaces),
			"quantity", cat.Quantity,
			"total", total.StringFixed(CentPlaces))

		entries = append(entries, model.ItemizationEntry{
			Subcategory: cat.Category,
			StartDate:   start,
			DailyRate:   rate,
			Quantity:    cat.Quantity,
			TotalAmount: total,
		})
	}

	return entries
}

// Adjustment describes a rounding correction.
type Adjustment struct {
	Subcategory model.Category  `json:"subcategory,omitempty"`
	Difference  decimal.Decimal `json:"difference"`
	Index       int             `json:"index"`
	Applied     bool            `json:"applied"`
}

// AdjustForRounding returns entries whose totals sum to target exactly. Any
// residual goes to the entry with the largest total (the first one on a
// tie); its daily rate is recomputed from the new total. Only that entry is
// replaced and the input slice is left untouched.
func AdjustForRounding(entries []model.ItemizationEntry, target decimal.Decimal) ([]model.ItemizationEntry, Adjustment) {
	out := model.CloneEntries(entries)
	if len(out) == 0 {
		return out, Adjustment{Index: -1}
	}

	current := decimal.Zero
	for _, entry := range out {
		current = current.Add(entry.TotalAmount)
	}

	diff := target.Sub(current)
	if diff.IsZero() {
		return out, Adjustment{Index: -1}
	}

	largest := 0
	for i := 1; i < len(out); i++ {
		if out[i].TotalAmount.GreaterThan(out[largest].TotalAmount) {
			largest = i
		}
	}

	entry := out[largest]
	newTotal := entry.TotalAmount.Add(diff)
	newRate := newTotal
	if entry.Quantity > 0 {
		newRate = newTotal.Div(decimal.NewFromInt(int64(entry.Quantity)))
	}

	out[largest] = model.ItemizationEntry{
		Subcategory: entry.Subcategory,
		StartDate:   entry.StartDate,
		DailyRate:   newRate,
		Quantity:    entry.Quantity,
		TotalAmount: newTotal,
	}

	slog.Info("applied rounding adjustment",
		"subcategory", entry.Subcategory,
		"difference", diff.String(),
		"new_total", newTotal.StringFixed(CentPlaces),
		"new_daily_rate", newRate.StringFixed(CentPlaces))

	return out, Adjustment{
		Subcategory: entry.Subcategory,
		Difference:  diff,
		Index:       largest,
		Applied:     true,
	}
}

// CalculateEntries builds and rounds entries for an invoice's consolidated
// categories in one step.
func CalculateEntries(inv model.InvoiceDetails, cats []model.ConsolidatedCategory) ([]model.ItemizationEntry, Adjustment) {
	drafts := BuildEntries(cats, inv.CheckIn)
	return AdjustForRounding(drafts, inv.ItemizableTotal())
}

package itemize

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Assemble packages the artifacts of a run into a result. All inputs are
// copied so later changes by the caller cannot reach the result.
func Assemble(
	inv model.InvoiceDetails,
	cats []model.ConsolidatedCategory,
	entries []model.ItemizationEntry,
	passed bool,
) model.ItemizationResult {
	itemized := decimal.Zero
	for _, entry := range entries {
		itemized = itemized.Add(entry.TotalAmount)
	}

	return model.ItemizationResult{
		InvoiceDetails:         inv.Clone(),
		ConsolidatedCategories: model.CloneConsolidated(cats),
		Entries:                model.CloneEntries(entries),
		TotalItemized:          itemized,
		TotalOriginal:          inv.TotalAmount,
		ValidationPassed:       passed,
		Nights:                 CalculateNights(inv.CheckIn, inv.CheckOut),
	}
}

package itemize

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Consolidate groups the categorized line items of inv by category and
// derives the per-night rate of recurring categories. Ignored and
// unassigned items are skipped. Output is in taxonomy order, so the result
// does not depend on line item order.
func Consolidate(inv model.InvoiceDetails) []model.ConsolidatedCategory {
	groups := make(map[model.Category][]model.LineItem)
	for _, item := range inv.LineItems {
		if item.UserCategory == nil || !item.UserCategory.Valid() || item.UserCategory.IsExcluded() {
			continue
		}
		groups[*item.UserCategory] = append(groups[*item.UserCategory], item.Clone())
	}

	nights := CalculateNights(inv.CheckIn, inv.CheckOut)

	keys := make([]model.Category, 0, len(groups))
	for cat := range groups {
		keys = append(keys, cat)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].Rank() < keys[j].Rank()
	})

	consolidated := make([]model.ConsolidatedCategory, 0, len(keys))
	for _, cat := range keys {
		items := groups[cat]

		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Amount)
		}

		dailyRate := total
		quantity := 1
		if cat.IsRecurring() {
			dailyRate = total.Div(decimal.NewFromInt(int64(nights)))
			quantity = nights
		}

		slog.Debug("consolidated category",
			"category", cat,
			"total", total.StringFixed(2),
			"daily_rate", dailyRate.StringFixed(2),
			"quantity", quantity,
			"items", len(items))

		consolidated = append(consolidated, model.ConsolidatedCategory{
			Category:    cat,
			TotalAmount: total,
			DailyRate:   dailyRate,
			Quantity:    quantity,
			SourceItems: items,
		})
	}

	return consolidated
}

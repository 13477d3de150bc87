package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConsolidatedCategory groups every line item assigned to one category.
// It is derived from its source invoice and recomputed on every run.
type ConsolidatedCategory struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	Category    Category        `json:"category"`
	SourceItems []LineItem      `json:"source_items"`
	Quantity    int             `json:"quantity"`
}

// ItemizationEntry is one row submitted to the destination expense system.
type ItemizationEntry struct {
	StartDate   time.Time       `json:"start_date"`
	DailyRate   decimal.Decimal `json:"daily_rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Subcategory Category        `json:"subcategory"`
	Quantity    int             `json:"quantity"`
}

// ItemizationResult is the final artifact of a pipeline run. Its slices
// are owned by the result; use Clone before handing it to code that may
// modify it.
type ItemizationResult struct {
	InvoiceDetails         InvoiceDetails         `json:"invoice_details"`
	TotalItemized          decimal.Decimal        `json:"total_itemized"`
	TotalOriginal          decimal.Decimal        `json:"total_original"`
	ConsolidatedCategories []ConsolidatedCategory `json:"consolidated_categories"`
	Entries                []ItemizationEntry     `json:"entries"`
	Nights                 int                    `json:"nights"`
	ValidationPassed       bool                   `json:"validation_passed"`
}

// Clone returns a deep copy of the result.
func (r ItemizationResult) Clone() ItemizationResult {
	out := r
	out.InvoiceDetails = r.InvoiceDetails.Clone()
	out.ConsolidatedCategories = CloneConsolidated(r.ConsolidatedCategories)
	out.Entries = CloneEntries(r.Entries)
	return out
}

// CloneConsolidated deep-copies consolidated categories.
func CloneConsolidated(cats []ConsolidatedCategory) []ConsolidatedCategory {
	if cats == nil {
		return nil
	}
	out := make([]ConsolidatedCategory, len(cats))
	for i, c := range cats {
		out[i] = c
		out[i].SourceItems = CloneLineItems(c.SourceItems)
	}
	return out
}

// CloneEntries copies a slice of entries.
func CloneEntries(entries []ItemizationEntry) []ItemizationEntry {
	if entries == nil {
		return nil
	}
	out := make([]ItemizationEntry, len(entries))
	copy(out, entries)
	return out
}

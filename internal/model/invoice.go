// Package model defines the core domain models used throughout the itemizer.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when the upstream extractor omits a currency.
const DefaultCurrency = "USD"

// LineItem is a single charge extracted from a hotel invoice. Amount is
// authoritative and never recomputed.
type LineItem struct {
	SuggestedCategory *Category       `json:"suggested_category,omitempty"`
	UserCategory      *Category       `json:"user_category,omitempty"`
	Description       string          `json:"description"`
	Amount            decimal.Decimal `json:"amount"`
}

// Clone returns a copy that shares no pointers with li.
func (li LineItem) Clone() LineItem {
	out := li
	if li.SuggestedCategory != nil {
		out.SuggestedCategory = CategoryPtr(*li.SuggestedCategory)
	}
	if li.UserCategory != nil {
		out.UserCategory = CategoryPtr(*li.UserCategory)
	}
	return out
}

// InvoiceDetails is an extracted hotel invoice. CheckIn and CheckOut are
// calendar dates at midnight UTC.
type InvoiceDetails struct {
	CheckIn       time.Time       `json:"check_in"`
	CheckOut      time.Time       `json:"check_out"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	HotelName     string          `json:"hotel_name"`
	Location      string          `json:"location,omitempty"`
	Currency      string          `json:"currency"`
	InvoiceNumber string          `json:"invoice_number,omitempty"`
	LineItems     []LineItem      `json:"line_items"`
}

// Clone returns a deep copy of the invoice.
func (inv InvoiceDetails) Clone() InvoiceDetails {
	out := inv
	out.LineItems = CloneLineItems(inv.LineItems)
	return out
}

// LineItemsTotal sums every line item regardless of category.
func (inv InvoiceDetails) LineItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.LineItems {
		total = total.Add(item.Amount)
	}
	return total
}

// IgnoredTotal sums the line items a reviewer marked as Ignore.
func (inv InvoiceDetails) IgnoredTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range inv.LineItems {
		if item.UserCategory != nil && item.UserCategory.IsExcluded() {
			total = total.Add(item.Amount)
		}
	}
	return total
}

// ItemizableTotal is the invoice total minus ignored charges. It is the
// figure every post-categorization checkpoint reconciles against.
func (inv InvoiceDetails) ItemizableTotal() decimal.Decimal {
	return inv.TotalAmount.Sub(inv.IgnoredTotal())
}

// CloneLineItems deep-copies a slice of line items.
func CloneLineItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

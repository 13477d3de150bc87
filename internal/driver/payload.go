// Package driver hands finalized itemization entries to the destination
// expense system, one entry at a time.
package driver

import (
	"fmt"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/itemize"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

const dateLayout = "2006-01-02"

// Payload is the wire form of one entry. Money is rendered with exactly two
// fraction digits.
type Payload struct {
	Subcategory string `json:"subcategory"`
	StartDate   string `json:"start_date"`
	DailyRate   string `json:"daily_rate"`
	TotalAmount string `json:"total_amount"`
	Index       int    `json:"index"`
	Quantity    int    `json:"quantity"`
}

// NewPayload converts the entry at position index. Entries the destination
// could never accept are rejected with common.ErrEntryRejected.
func NewPayload(index int, e model.ItemizationEntry) (Payload, error) {
	if !e.Subcategory.Valid() || e.Subcategory.IsExcluded() {
		return Payload{}, fmt.Errorf("%w: subcategory %q cannot be itemized", common.ErrEntryRejected, e.Subcategory)
	}
	if e.Quantity < 1 {
		return Payload{}, fmt.Errorf("%w: quantity must be positive, got %d", common.ErrEntryRejected, e.Quantity)
	}

	return Payload{
		Index:       index,
		Subcategory: e.Subcategory.String(),
		StartDate:   e.StartDate.Format(dateLayout),
		DailyRate:   e.DailyRate.StringFixed(itemize.CentPlaces),
		TotalAmount: e.TotalAmount.StringFixed(itemize.CentPlaces),
		Quantity:    e.Quantity,
	}, nil
}

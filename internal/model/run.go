package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Run is a persisted itemization attempt. Outcome holds the full pipeline
// outcome as JSON; the other fields are denormalized for listing.
type Run struct {
	CreatedAt     time.Time         `json:"created_at"`
	SubmittedAt   *time.Time        `json:"submitted_at,omitempty"`
	Submission    *SubmissionReport `json:"submission,omitempty"`
	CheckIn       time.Time         `json:"check_in"`
	CheckOut      time.Time         `json:"check_out"`
	TotalOriginal decimal.Decimal   `json:"total_original"`
	TotalItemized decimal.Decimal   `json:"total_itemized"`
	ID            string            `json:"id"`
	InvoiceNumber string            `json:"invoice_number,omitempty"`
	HotelName     string            `json:"hotel_name"`
	Currency      string            `json:"currency"`
	Stage         string            `json:"stage"`
	Errors        []string          `json:"errors,omitempty"`
	Outcome       json.RawMessage   `json:"outcome,omitempty"`
	Nights        int               `json:"nights"`
	Passed        bool              `json:"passed"`
}

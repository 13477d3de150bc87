package engine

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/hotel-itemizer/internal/itemize"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Stage is a point in the per-invoice state machine.
type Stage string

// Stages in the order an invoice moves through them.
const (
	StageExtracted    Stage = "extracted"
	StageCategorized  Stage = "categorized"
	StageConsolidated Stage = "consolidated"
	StageRateAdjusted Stage = "rate_adjusted"
	StageValidated    Stage = "validated"
	StageFinalized    Stage = "finalized"
)

// Outcome is everything a single Process call produced, including the
// partial results of a run that stopped at a failed checkpoint.
type Outcome struct {
	Result         *model.ItemizationResult      `json:"result,omitempty"`
	Categorization *itemize.CategorizationReport `json:"categorization,omitempty"`
	RunID          string                        `json:"run_id,omitempty"`
	Stage          Stage                         `json:"stage"`
	Invoice        model.InvoiceDetails          `json:"invoice"`
	Consolidated   []model.ConsolidatedCategory  `json:"consolidated,omitempty"`
	Entries        []model.ItemizationEntry      `json:"entries,omitempty"`
	Reports        []itemize.Report              `json:"reports"`
	Adjustment     itemize.Adjustment            `json:"adjustment"`
}

// Finalized reports whether the outcome may be handed to a driver.
func (o *Outcome) Finalized() bool {
	return o.Stage == StageFinalized
}

// Passed reports whether every recorded checkpoint passed.
func (o *Outcome) Passed() bool {
	for _, r := range o.Reports {
		if !r.Passed {
			return false
		}
	}
	return len(o.Reports) > 0
}

// Errors flattens the messages of every failed checkpoint in order.
func (o *Outcome) Errors() []string {
	var msgs []string
	for _, r := range o.Reports {
		msgs = append(msgs, r.Errors()...)
	}
	return msgs
}

// Report returns the report of a checkpoint, if it ran.
func (o *Outcome) Report(cp itemize.Checkpoint) (itemize.Report, bool) {
	for _, r := range o.Reports {
		if r.Checkpoint == cp {
			return r, true
		}
	}
	return itemize.Report{}, false
}

// ToRun converts the outcome into a history record.
func (o *Outcome) ToRun() (*model.Run, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return nil, fmt.Errorf("failed to encode outcome: %w", err)
	}

	run := &model.Run{
		ID:            o.RunID,
		InvoiceNumber: o.Invoice.InvoiceNumber,
		HotelName:     o.Invoice.HotelName,
		CheckIn:       o.Invoice.CheckIn,
		CheckOut:      o.Invoice.CheckOut,
		Currency:      o.Invoice.Currency,
		TotalOriginal: o.Invoice.TotalAmount,
		Nights:        itemize.CalculateNights(o.Invoice.CheckIn, o.Invoice.CheckOut),
		Stage:         string(o.Stage),
		Passed:        o.Finalized(),
		Errors:        o.Errors(),
		Outcome:       data,
	}
	if o.Result != nil {
		run.TotalItemized = o.Result.TotalItemized
	}
	return run, nil
}

// DecodeOutcome restores the outcome stored with a run. Issue kinds are not
// persisted, so reports decoded this way only carry messages.
func DecodeOutcome(run *model.Run) (*Outcome, error) {
	var o Outcome
	if err := json.Unmarshal(run.Outcome, &o); err != nil {
		return nil, fmt.Errorf("failed to decode outcome of run %s: %w", run.ID, err)
	}
	o.RunID = run.ID
	return &o, nil
}

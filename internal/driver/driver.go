package driver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/model"
	"github.com/Veraticus/hotel-itemizer/internal/service"
)

// Driver delivers single entries to the destination. Implementations
// report transient failures with errors that common.IsRetryable accepts.
type Driver interface {
	Name() string
	SubmitEntry(ctx context.Context, p Payload) error
	Close() error
}

// Submitter submits entries in order through a driver, retrying each one.
type Submitter struct {
	driver Driver
	retry  service.RetryOptions
}

// NewSubmitter creates a submitter for d.
func NewSubmitter(d Driver, retry service.RetryOptions) *Submitter {
	return &Submitter{driver: d, retry: retry}
}

// Submit hands every entry to the driver and reports the result per entry.
// A failed entry does not stop the ones after it. The returned error is
// only set when ctx ends; entries not yet attempted are then marked failed.
func (s *Submitter) Submit(ctx context.Context, entries []model.ItemizationEntry) (model.SubmissionReport, error) {
	report := model.SubmissionReport{
		Driver:  s.driver.Name(),
		Results: make([]model.EntrySubmission, 0, len(entries)),
	}

	for i, entry := range entries {
		result := model.EntrySubmission{Index: i, Subcategory: entry.Subcategory}

		if err := ctx.Err(); err != nil {
			for j := i; j < len(entries); j++ {
				report.Results = append(report.Results, model.EntrySubmission{
					Index:       j,
					Subcategory: entries[j].Subcategory,
					Error:       err.Error(),
				})
				report.Failed++
			}
			return report, err
		}

		err := s.submitOne(ctx, i, entry, &result.Attempts)
		if err != nil {
			result.Error = err.Error()
			report.Failed++
			common.LogError(err, "entry submission failed", common.Fields{
				"driver":      s.driver.Name(),
				"index":       i,
				"subcategory": entry.Subcategory,
				"attempts":    result.Attempts,
			})
		} else {
			result.Success = true
			report.Submitted++
			slog.Debug("entry submitted",
				"driver", s.driver.Name(),
				"index", i,
				"subcategory", entry.Subcategory)
		}

		report.Results = append(report.Results, result)
	}

	return report, nil
}

func (s *Submitter) submitOne(ctx context.Context, index int, entry model.ItemizationEntry, attempts *int) error {
	payload, err := NewPayload(index, entry)
	if err != nil {
		return err
	}

	return common.WithRetry(ctx, func() error {
		*attempts++
		err := s.driver.SubmitEntry(ctx, payload)
		if err != nil && errors.Is(err, context.Canceled) {
			return &common.RetryableError{Err: err, Retryable: false}
		}
		return err
	}, s.retry)
}

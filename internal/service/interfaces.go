// Package service defines the interfaces shared between the itemizer's
// components.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// RunStore persists itemization runs.
type RunStore interface {
	SaveRun(ctx context.Context, run *model.Run) error
	GetRun(ctx context.Context, id string) (*model.Run, error)
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	GetRunsByInvoiceNumber(ctx context.Context, invoiceNumber string) ([]model.Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// EntrySubmitter hands validated entries to the destination expense system.
type EntrySubmitter interface {
	Submit(ctx context.Context, entries []model.ItemizationEntry) (model.SubmissionReport, error)
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

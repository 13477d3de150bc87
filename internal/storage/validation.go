// Package storage provides the run history persistence layer.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrNilParameter = errors.New("parameter cannot be nil")
	ErrInvalidRun   = errors.New("invalid run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRun validates a run before it is written.
func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if strings.TrimSpace(run.HotelName) == "" {
		return fmt.Errorf("%w: missing hotel name", ErrInvalidRun)
	}
	if strings.TrimSpace(run.Stage) == "" {
		return fmt.Errorf("%w: missing stage", ErrInvalidRun)
	}
	if strings.TrimSpace(run.Currency) == "" {
		return fmt.Errorf("%w: missing currency", ErrInvalidRun)
	}
	if run.Nights < 1 {
		return fmt.Errorf("%w: nights must be at least 1, got %d", ErrInvalidRun, run.Nights)
	}
	return nil
}

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

const runColumns = `id, invoice_number, hotel_name, check_in, check_out, currency,
	total_original, total_itemized, nights, stage, passed, errors, outcome,
	created_at, submitted_at, submission`

// SaveRun inserts or replaces a run. A missing ID is filled with a new UUID
// and a zero CreatedAt with the current time; both are written back to run.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	errs := run.Errors
	if errs == nil {
		errs = []string{}
	}
	errsJSON, err := json.Marshal(errs)
	if err != nil {
		return fmt.Errorf("failed to encode run errors: %w", err)
	}

	outcome := run.Outcome
	if len(outcome) == 0 {
		outcome = json.RawMessage("{}")
	}

	var submittedAt, submission sql.NullString
	if run.SubmittedAt != nil {
		submittedAt = sql.NullString{String: run.SubmittedAt.UTC().Format(timestampLayout), Valid: true}
	}
	if run.Submission != nil {
		data, marshalErr := json.Marshal(run.Submission)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode submission: %w", marshalErr)
		}
		submission = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO itemization_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.InvoiceNumber,
		run.HotelName,
		run.CheckIn.Format(dateLayout),
		run.CheckOut.Format(dateLayout),
		run.Currency,
		run.TotalOriginal.String(),
		run.TotalItemized.String(),
		run.Nights,
		run.Stage,
		run.Passed,
		string(errsJSON),
		string(outcome),
		run.CreatedAt.UTC().Format(timestampLayout),
		submittedAt,
		submission,
	)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

// GetRun retrieves a run by ID. A missing run wraps common.ErrNotFound.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM itemization_runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}

	return run, nil
}

// ListRuns returns the most recent runs first. A non-positive limit returns
// every run.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM itemization_runs
		ORDER BY created_at DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectRuns(rows)
}

// GetRunsByInvoiceNumber returns every run for an invoice, newest first.
func (s *SQLiteStorage) GetRunsByInvoiceNumber(ctx context.Context, invoiceNumber string) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(invoiceNumber, "invoiceNumber"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM itemization_runs
		WHERE invoice_number = ?
		ORDER BY created_at DESC, id`, invoiceNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for invoice %s: %w", invoiceNumber, err)
	}
	defer func() { _ = rows.Close() }()

	return collectRuns(rows)
}

// RecordSubmission stores the result of submitting a run's entries.
func (s *SQLiteStorage) RecordSubmission(ctx context.Context, id string, report model.SubmissionReport) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE itemization_runs SET submitted_at = ?, submission = ? WHERE id = ?`,
		time.Now().UTC().Format(timestampLayout), string(data), id)
	if err != nil {
		return fmt.Errorf("failed to record submission for run %s: %w", id, err)
	}

	return requireAffected(result, id)
}

// DeleteRun removes a run. A missing run wraps common.ErrNotFound.
func (s *SQLiteStorage) DeleteRun(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM itemization_runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}

	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s: %w", id, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectRuns(rows *sql.Rows) ([]model.Run, error) {
	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return runs, nil
}

func scanRun(row rowScanner) (*model.Run, error) {
	var (
		run                          model.Run
		checkIn, checkOut, createdAt string
		totalOriginal, totalItemized string
		errsJSON, outcome            string
		submittedAt, submission      sql.NullString
	)

	err := row.Scan(
		&run.ID,
		&run.InvoiceNumber,
		&run.HotelName,
		&checkIn,
		&checkOut,
		&run.Currency,
		&totalOriginal,
		&totalItemized,
		&run.Nights,
		&run.Stage,
		&run.Passed,
		&errsJSON,
		&outcome,
		&createdAt,
		&submittedAt,
		&submission,
	)
	if err != nil {
		return nil, err
	}

	if run.CheckIn, err = time.Parse(dateLayout, checkIn); err != nil {
		return nil, fmt.Errorf("%w: bad check_in %q", common.ErrDatabaseCorrupted, checkIn)
	}
	if run.CheckOut, err = time.Parse(dateLayout, checkOut); err != nil {
		return nil, fmt.Errorf("%w: bad check_out %q", common.ErrDatabaseCorrupted, checkOut)
	}
	if run.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, fmt.Errorf("%w: bad created_at %q", common.ErrDatabaseCorrupted, createdAt)
	}
	if run.TotalOriginal, err = decimal.NewFromString(totalOriginal); err != nil {
		return nil, fmt.Errorf("%w: bad total_original %q", common.ErrDatabaseCorrupted, totalOriginal)
	}
	if run.TotalItemized, err = decimal.NewFromString(totalItemized); err != nil {
		return nil, fmt.Errorf("%w: bad total_itemized %q", common.ErrDatabaseCorrupted, totalItemized)
	}
	if err = json.Unmarshal([]byte(errsJSON), &run.Errors); err != nil {
		return nil, fmt.Errorf("%w: bad errors column: %v", common.ErrDatabaseCorrupted, err)
	}
	if len(run.Errors) == 0 {
		run.Errors = nil
	}
	run.Outcome = json.RawMessage(outcome)

	if submittedAt.Valid {
		ts, parseErr := time.Parse(timestampLayout, submittedAt.String)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: bad submitted_at %q", common.ErrDatabaseCorrupted, submittedAt.String)
		}
		run.SubmittedAt = &ts
	}
	if submission.Valid {
		var report model.SubmissionReport
		if err = json.Unmarshal([]byte(submission.String), &report); err != nil {
			return nil, fmt.Errorf("%w: bad submission column: %v", common.ErrDatabaseCorrupted, err)
		}
		run.Submission = &report
	}

	return &run, nil
}

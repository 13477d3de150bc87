// Package itemize turns a categorized hotel invoice into per-category
// itemization entries and reconciles every derived total against the
// invoice. All functions are pure: they never mutate their inputs and
// never return a Go error for business-rule violations.
package itemize

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Business-rule violation kinds. Every Issue unwraps to exactly one of these.
var (
	ErrMissingCategory          = errors.New("missing category")
	ErrReconciliation           = errors.New("reconciliation failed")
	ErrCalculationInconsistency = errors.New("calculation inconsistency")
	ErrInvalidInvoice           = errors.New("invalid invoice")
	ErrInvalidAmount            = errors.New("invalid amount")
)

// Checkpoint names a validation pass.
type Checkpoint string

// Checkpoints in pipeline order.
const (
	CheckpointInvoice        Checkpoint = "invoice"
	CheckpointCategorization Checkpoint = "categorization"
	CheckpointConsolidation  Checkpoint = "consolidation"
	CheckpointEntries        Checkpoint = "entries"
)

// Issue is a single readable business-rule violation.
type Issue struct {
	Kind    error  `json:"-"`
	Message string `json:"message"`
}

func (i Issue) Error() string {
	return i.Message
}

func (i Issue) Unwrap() error {
	return i.Kind
}

// Report is the outcome of one checkpoint. Passed is true exactly when
// Issues is empty.
type Report struct {
	Checkpoint Checkpoint `json:"checkpoint"`
	Issues     []Issue    `json:"issues,omitempty"`
	Passed     bool       `json:"passed"`
}

func newReport(cp Checkpoint, issues []Issue) Report {
	return Report{
		Checkpoint: cp,
		Issues:     issues,
		Passed:     len(issues) == 0,
	}
}

// Errors returns the readable messages of every issue.
func (r Report) Errors() []string {
	msgs := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

// Err joins all issues into one error, or returns nil when the report passed.
func (r Report) Err() error {
	if len(r.Issues) == 0 {
		return nil
	}
	errs := make([]error, len(r.Issues))
	for i, issue := range r.Issues {
		errs[i] = issue
	}
	return errors.Join(errs...)
}

// Has reports whether any issue is of the given kind.
func (r Report) Has(kind error) bool {
	for _, issue := range r.Issues {
		if errors.Is(issue, kind) {
			return true
		}
	}
	return false
}

// CategorizationReport extends Report with the reconciled figures.
type CategorizationReport struct {
	TotalAssigned decimal.Decimal `json:"total_assigned"`
	TotalIgnored  decimal.Decimal `json:"total_ignored"`
	TotalOriginal decimal.Decimal `json:"total_original"`
	Report
}

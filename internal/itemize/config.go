package itemize

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Config holds the tolerances used by the checkpoints.
type Config struct {
	// ReconcileTolerance bounds every exact reconciliation (one cent).
	ReconcileTolerance decimal.Decimal
	// IngestTolerance is the fraction of the invoice total that the raw
	// line items may differ by at extraction time.
	IngestTolerance decimal.Decimal
}

// DefaultConfig returns the standard tolerances.
func DefaultConfig() Config {
	return Config{
		ReconcileTolerance: decimal.New(1, -2),
		IngestTolerance:    decimal.New(1, -1),
	}
}

// Validate rejects negative tolerances.
func (c Config) Validate() error {
	if c.ReconcileTolerance.IsNegative() {
		return fmt.Errorf("reconcile tolerance cannot be negative: %s", c.ReconcileTolerance)
	}
	if c.IngestTolerance.IsNegative() {
		return fmt.Errorf("ingest tolerance cannot be negative: %s", c.IngestTolerance)
	}
	return nil
}

package config

import (
	"fmt"
	"path/filepath"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/engine"
)

// DatabaseFile is the run-history file name inside DataDir.
const DatabaseFile = "itemize.db"

// LoadItemizerConfig reads the itemizer.* keys on top of the engine defaults.
// Tolerances are read as strings so they keep their exact decimal value.
func LoadItemizerConfig() (engine.Config, error) {
	cfg := engine.DefaultConfig()

	if viper.IsSet("itemizer.ingest_tolerance") {
		d, err := decimal.NewFromString(viper.GetString("itemizer.ingest_tolerance"))
		if err != nil {
			return cfg, fmt.Errorf("%w: itemizer.ingest_tolerance: %w", common.ErrInvalidConfig, err)
		}
		cfg.Itemize.IngestTolerance = d
	}

	if viper.IsSet("itemizer.reconcile_tolerance") {
		d, err := decimal.NewFromString(viper.GetString("itemizer.reconcile_tolerance"))
		if err != nil {
			return cfg, fmt.Errorf("%w: itemizer.reconcile_tolerance: %w", common.ErrInvalidConfig, err)
		}
		cfg.Itemize.ReconcileTolerance = d
	}

	cfg.AcceptSuggestions = viper.GetBool("itemizer.accept_suggestions")

	if err := cfg.Itemize.Validate(); err != nil {
		return cfg, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// DatabasePath returns database.path expanded, or DatabaseFile inside
// DataDir when unset.
func DatabasePath() string {
	if path := viper.GetString("database.path"); path != "" {
		return filepath.Clean(ExpandPath(path))
	}
	return filepath.Join(DataDir(), DatabaseFile)
}

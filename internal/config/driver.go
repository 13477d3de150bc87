package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/hotel-itemizer/internal/common"
	"github.com/Veraticus/hotel-itemizer/internal/service"
)

// Driver kinds.
const (
	DriverLog  = "log"
	DriverAMQP = "amqp"
)

// DriverConfig selects and configures the downstream submission driver.
type DriverConfig struct {
	Kind     string
	URL      string
	Exchange string
	Queue    string
	Retry    service.RetryOptions
}

// DefaultDriverConfig returns a dry-run configuration.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		Kind:     DriverLog,
		Exchange: "itemization",
		Queue:    "itemization.entries",
		Retry: service.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// LoadDriverConfig reads the driver.* keys.
func LoadDriverConfig() (DriverConfig, error) {
	cfg := DefaultDriverConfig()

	if v := viper.GetString("driver.kind"); v != "" {
		cfg.Kind = v
	}
	cfg.URL = viper.GetString("driver.amqp.url")
	if v := viper.GetString("driver.amqp.exchange"); v != "" {
		cfg.Exchange = v
	}
	if v := viper.GetString("driver.amqp.queue"); v != "" {
		cfg.Queue = v
	}
	if viper.IsSet("driver.retry_attempts") {
		cfg.Retry.MaxAttempts = viper.GetInt("driver.retry_attempts")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the driver kind and its required settings.
func (c DriverConfig) Validate() error {
	switch c.Kind {
	case DriverLog:
	case DriverAMQP:
		if c.URL == "" {
			return fmt.Errorf("%w: driver.amqp.url is required for the amqp driver", common.ErrMissingConfig)
		}
		if c.Queue == "" {
			return fmt.Errorf("%w: driver.amqp.queue is required for the amqp driver", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown driver kind %q", common.ErrInvalidConfig, c.Kind)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: driver.retry_attempts must be at least 1", common.ErrInvalidConfig)
	}
	return nil
}

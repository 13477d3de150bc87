// Package sheets exports itemization results to Google Sheets.
package sheets

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata" // spreadsheet time zones must resolve on hosts without zoneinfo

	"github.com/Veraticus/hotel-itemizer/internal/common"
)

// DefaultSpreadsheetName is used when no spreadsheet name is configured.
const DefaultSpreadsheetName = "Hotel Itemization"

// AuthMethod names how the writer obtains Google credentials.
type AuthMethod string

// Supported authentication methods.
const (
	AuthNone           AuthMethod = ""
	AuthOAuth2         AuthMethod = "oauth2"
	AuthServiceAccount AuthMethod = "service_account"
)

// Config holds the configuration for the Google Sheets writer.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns the writer defaults. Credentials are left empty.
func DefaultConfig() Config {
	return Config{
		SpreadsheetName:  DefaultSpreadsheetName,
		EnableFormatting: true,
		TimeZone:         "America/New_York",
		BatchSize:        500,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// envBindings maps GOOGLE_SHEETS_* variables onto config fields.
var envBindings = []struct {
	field func(*Config) *string
	name  string
}{
	{name: "GOOGLE_SHEETS_CLIENT_ID", field: func(c *Config) *string { return &c.ClientID }},
	{name: "GOOGLE_SHEETS_CLIENT_SECRET", field: func(c *Config) *string { return &c.ClientSecret }},
	{name: "GOOGLE_SHEETS_REFRESH_TOKEN", field: func(c *Config) *string { return &c.RefreshToken }},
	{name: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", field: func(c *Config) *string { return &c.ServiceAccountPath }},
	{name: "GOOGLE_SHEETS_SPREADSHEET_ID", field: func(c *Config) *string { return &c.SpreadsheetID }},
	{name: "GOOGLE_SHEETS_SPREADSHEET_NAME", field: func(c *Config) *string { return &c.SpreadsheetName }},
	{name: "GOOGLE_SHEETS_TIMEZONE", field: func(c *Config) *string { return &c.TimeZone }},
}

// ApplyEnv overlays any GOOGLE_SHEETS_* variables that are set.
func (c *Config) ApplyEnv() {
	for _, b := range envBindings {
		if v, ok := os.LookupEnv(b.name); ok && v != "" {
			*b.field(c) = v
		}
	}
}

// LoadFromEnv applies the environment and fails when no credentials are
// available afterwards.
func (c *Config) LoadFromEnv() error {
	c.ApplyEnv()

	if c.SpreadsheetName == "" {
		c.SpreadsheetName = DefaultSpreadsheetName
	}

	if c.Method() == AuthNone {
		return fmt.Errorf("%w: provide GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH or OAuth2 client credentials with a refresh token",
			common.ErrMissingConfig)
	}
	return nil
}

// Method reports which credentials are configured. A partial OAuth2 set
// counts as none.
func (c Config) Method() AuthMethod {
	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case c.ServiceAccountPath != "" && !hasOAuth:
		return AuthServiceAccount
	case hasOAuth && c.ServiceAccountPath == "":
		return AuthOAuth2
	default:
		return AuthNone
	}
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	hasOAuth := c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
	switch {
	case hasOAuth && c.ServiceAccountPath != "":
		errs = append(errs, fmt.Errorf("%w: both OAuth2 and service account credentials configured", common.ErrInvalidConfig))
	case c.Method() == AuthNone:
		errs = append(errs, fmt.Errorf("%w: no Google Sheets credentials configured", common.ErrMissingConfig))
	}

	if c.BatchSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: batch size must be positive, got %d", common.ErrInvalidConfig, c.BatchSize))
	}
	if c.RetryAttempts < 0 {
		errs = append(errs, fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig))
	}
	if c.RetryDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig))
	}
	if c.TimeZone != "" {
		if _, err := time.LoadLocation(c.TimeZone); err != nil {
			errs = append(errs, fmt.Errorf("%w: unknown time zone %q", common.ErrInvalidConfig, c.TimeZone))
		}
	}

	return errors.Join(errs...)
}

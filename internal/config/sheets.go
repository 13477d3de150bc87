package config

import (
	"github.com/spf13/viper"

	"github.com/Veraticus/hotel-itemizer/internal/sheets"
)

// sheetsKeys maps viper keys onto string fields of the writer config.
var sheetsKeys = []struct {
	field func(*sheets.Config) *string
	key   string
}{
	{key: "sheets.client_id", field: func(c *sheets.Config) *string { return &c.ClientID }},
	{key: "sheets.client_secret", field: func(c *sheets.Config) *string { return &c.ClientSecret }},
	{key: "sheets.refresh_token", field: func(c *sheets.Config) *string { return &c.RefreshToken }},
	{key: "sheets.service_account_path", field: func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{key: "sheets.spreadsheet_id", field: func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{key: "sheets.spreadsheet_name", field: func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{key: "sheets.timezone", field: func(c *sheets.Config) *string { return &c.TimeZone }},
}

// LoadSheetsConfig builds the Google Sheets writer config. Values from the
// config file (or ITEMIZE_SHEETS_* variables) win over GOOGLE_SHEETS_*
// variables, which win over defaults.
func LoadSheetsConfig() (*sheets.Config, error) {
	config := sheets.DefaultConfig()
	config.ApplyEnv()

	for _, k := range sheetsKeys {
		if v := viper.GetString(k.key); v != "" {
			*k.field(&config) = v
		}
	}
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if viper.IsSet("sheets.enable_formatting") {
		config.EnableFormatting = viper.GetBool("sheets.enable_formatting")
	}
	if viper.IsSet("sheets.batch_size") {
		config.BatchSize = viper.GetInt("sheets.batch_size")
	}
	if viper.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if viper.IsSet("sheets.retry_delay") {
		config.RetryDelay = viper.GetDuration("sheets.retry_delay")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

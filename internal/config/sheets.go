package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/Veraticus/savemoney/internal/sheets"
)

// LoadSheetsConfig loads Google Sheets configuration with this precedence:
// viper (config file or SAVEMONEY_ env vars), then GOOGLE_SHEETS_* variables,
// then defaults. An incomplete configuration is not an error; it selects the
// simulated ledger.
func LoadSheetsConfig() sheets.Config {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(firstNonEmpty(
		viper.GetString("sheets.service_account_path"),
		os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")))
	config.ClientID = viper.GetString("sheets.client_id")
	config.ClientSecret = viper.GetString("sheets.client_secret")
	config.RefreshToken = viper.GetString("sheets.refresh_token")
	config.SpreadsheetID = viper.GetString("sheets.spreadsheet_id")
	if v := viper.GetString("sheets.sheet_name"); v != "" {
		config.SheetName = v
	}
	if viper.IsSet("sheets.retry_attempts") {
		config.RetryAttempts = viper.GetInt("sheets.retry_attempts")
	}
	if viper.IsSet("sheets.retry_delay") {
		config.RetryDelay = viper.GetDuration("sheets.retry_delay")
	}

	config.LoadFromEnv()
	return config
}

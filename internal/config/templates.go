package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Signal Tracker Configuration

[channel]
# Broadcast channel to scan, e.g. "@nirmalbangofficial"
name = ""
# How many recent messages the daily scan covers. Signals older than this
# window are invisible even when their date matches.
message_cap = 1000
# Bot API gateway; leave empty for the standard endpoint.
base_url = ""
# Optional HTTP proxy for the gateway.
proxy_url = ""

[market]
# Local timezone used to stamp and filter messages
timezone = "Asia/Kolkata"
# Exchange prefix for quote lookups: NSE, BSE
exchange = "NSE"

[symbols]
# CSV with company-name and symbol columns (NSE equity list)
csv_path = ""
`

const credentialsTemplate = `# Signal Tracker Credentials
# Keep this file private (chmod 600).

[kite]
api_key = ""
# File containing the day's Kite access token
access_token_path = ""

[telegram]
bot_token = ""
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}
	return fmt.Errorf("created template config at %s, please edit it and retry", path)
}

func createTemplateCredentials(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	path := filepath.Join(configDir, "credentials.toml")
	if err := os.WriteFile(path, []byte(credentialsTemplate), 0600); err != nil {
		return fmt.Errorf("writing credentials template: %w", err)
	}
	return fmt.Errorf("created template credentials at %s, please edit it and retry", path)
}

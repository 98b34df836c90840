// Package config provides configuration management for the signal tracker.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Channel     ChannelConfig `mapstructure:"channel"`
	Market      MarketConfig  `mapstructure:"market"`
	Symbols     SymbolsConfig `mapstructure:"symbols"`
	Credentials Credentials   `mapstructure:"-"` // Loaded separately
}

// ChannelConfig identifies the broadcast channel and scan window.
type ChannelConfig struct {
	Name       string `mapstructure:"name"`
	MessageCap int    `mapstructure:"message_cap"`
	BaseURL    string `mapstructure:"base_url"`
	ProxyURL   string `mapstructure:"proxy_url"`
}

// MarketConfig holds market-related configuration.
type MarketConfig struct {
	Timezone string `mapstructure:"timezone"` // IANA name, e.g. Asia/Kolkata
	Exchange string `mapstructure:"exchange"` // NSE, BSE
}

// SymbolsConfig locates the symbol reference directory.
type SymbolsConfig struct {
	CSVPath string `mapstructure:"csv_path"`
}

// Credentials holds API credentials.
type Credentials struct {
	Kite     KiteCredentials     `mapstructure:"kite"`
	Telegram TelegramCredentials `mapstructure:"telegram"`
}

// KiteCredentials holds Kite Connect API credentials.
type KiteCredentials struct {
	APIKey          string `mapstructure:"api_key"`
	AccessTokenPath string `mapstructure:"access_token_path"`
}

// TelegramCredentials holds the Bot API token.
type TelegramCredentials struct {
	BotToken string `mapstructure:"bot_token"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/signal-tracker"
	}
	return filepath.Join(home, ".config", "signal-tracker")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}
	if err := loadCredentials(configDir, &cfg.Credentials); err != nil {
		return nil, fmt.Errorf("loading credentials.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("channel.message_cap", 1000)
	v.SetDefault("market.timezone", "Asia/Kolkata")
	v.SetDefault("market.exchange", "NSE")
	v.SetDefault("symbols.csv_path", filepath.Join(configDir, "nse_symbols.csv"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateConfig(configDir)
		}
		return err
	}
	return v.Unmarshal(target)
}

func loadCredentials(configDir string, creds *Credentials) error {
	v := viper.New()
	v.SetConfigName("credentials")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return createTemplateCredentials(configDir)
		}
		return err
	}
	return v.Unmarshal(creds)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KITE_API_KEY"); v != "" {
		cfg.Credentials.Kite.APIKey = v
	}
	if v := os.Getenv("KITE_ACCESS_TOKEN_PATH"); v != "" {
		cfg.Credentials.Kite.AccessTokenPath = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Credentials.Telegram.BotToken = v
	}
	if v := os.Getenv("SIGNAL_CHANNEL"); v != "" {
		cfg.Channel.Name = v
	}
	if v := os.Getenv("SIGNAL_MESSAGE_CAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Channel.MessageCap = n
		}
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Channel.MessageCap <= 0 {
		return fmt.Errorf("channel.message_cap must be positive, got %d", c.Channel.MessageCap)
	}
	if _, err := time.LoadLocation(c.Market.Timezone); err != nil {
		return fmt.Errorf("market.timezone %q: %w", c.Market.Timezone, err)
	}
	if c.Market.Exchange != "NSE" && c.Market.Exchange != "BSE" {
		return fmt.Errorf("market.exchange must be NSE or BSE, got %q", c.Market.Exchange)
	}
	return nil
}

// Location resolves the configured timezone. Validate has already checked it
// loads; a broken tz database at runtime falls back to fixed IST.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Market.Timezone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

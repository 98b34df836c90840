package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"signal-tracker/internal/broker"
	"signal-tracker/internal/config"
	"signal-tracker/internal/enrich"
	"signal-tracker/internal/logging"
	"signal-tracker/internal/models"
	"signal-tracker/internal/signals"
	"signal-tracker/internal/telegram"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Source signals.MessageSource
	Feed   enrich.QuoteFeed
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Credentials.Telegram.BotToken != "" {
		app.Source = telegram.NewClient(telegram.Config{
			BotToken: cfg.Credentials.Telegram.BotToken,
			BaseURL:  cfg.Channel.BaseURL,
			ProxyURL: cfg.Channel.ProxyURL,
		})
		logger.Debug().Msg("Telegram history client initialized")
	}

	if cfg.Credentials.Kite.APIKey != "" {
		feed, err := broker.NewKiteFeed(broker.KiteConfig{
			APIKey:          cfg.Credentials.Kite.APIKey,
			AccessTokenPath: cfg.Credentials.Kite.AccessTokenPath,
			Exchange:        models.Exchange(cfg.Market.Exchange),
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Kite feed unavailable, records will lack live prices")
		} else {
			app.Feed = feed
			logger.Debug().Msg("Kite quote feed initialized")
		}
	}

	rootCmd := &cobra.Command{
		Use:   "signal-tracker",
		Short: "Telegram stock signal tracker for the Indian market",
		Long: `Signal Tracker extracts stock recommendations from a Telegram broadcast
channel, resolves company names to NSE symbols and enriches each record with
live Kite Connect quotes and floor-trader pivot levels.

Use 'signal-tracker fetch' for the daily signal table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/signal-tracker)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newFetchCmd(app))
	rootCmd.AddCommand(newResolveCmd(app))
	rootCmd.AddCommand(newQuoteCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("signal-tracker %s\n", Version)
		},
	}
}

package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"signal-tracker/internal/enrich"
	"signal-tracker/internal/symbols"
	"signal-tracker/pkg/utils"
)

var errNoFeed = errors.New("quote feed not configured")

func newResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <company name>",
		Short: "Resolve a company name to its ticker symbol",
		Long: `Run a company name through the same matching cascade the collector uses
(exact, substring, first token) and print the resulting symbol.

Useful for checking why a channel name does or does not map.`,
		Example: `  signal-tracker resolve "Reliance Industries"
  signal-tracker resolve "Tata Motors Ltd."`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			name := strings.Join(args, " ")

			dir, err := symbols.LoadDirectoryFile(app.Config.Symbols.CSVPath)
			if err != nil {
				output.Error("Failed to load symbol directory: %v", err)
				return err
			}

			sym := symbols.Resolve(name, dir)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"name":       name,
					"normalized": symbols.Normalize(name),
					"symbol":     sym,
				})
			}
			if sym == "" {
				output.Warning("%q did not match any of %d directory entries.", name, len(dir))
				return nil
			}
			output.Success("%s -> %s", name, sym)
			return nil
		},
	}
}

func newQuoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "quote <symbol> [symbol...]",
		Short: "Fetch quotes and pivot levels for symbols",
		Example: `  signal-tracker quote RELIANCE
  signal-tracker quote INFY TCS --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Feed == nil {
				output.Error("Kite feed not configured. Edit credentials.toml first.")
				return errNoFeed
			}

			syms := make([]string, len(args))
			for i, a := range args {
				syms[i] = strings.ToUpper(a)
			}

			quotes, err := app.Feed.Quotes(ctx, syms)
			if err != nil {
				output.Error("Failed to fetch quotes: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(quotes)
			}
			for _, sym := range syms {
				snap, ok := quotes[sym]
				if !ok {
					output.Warning("%s: no quote", sym)
					continue
				}
				output.Bold("%s", sym)
				if snap.LastPrice != nil {
					output.Printf("  LTP:  %s\n", utils.FormatIndianCurrency(*snap.LastPrice))
				}
				output.Printf("  Open: %s  High: %s  Low: %s\n",
					fmtPrice(snap.Open), output.Green(fmtPrice(snap.High)), output.Red(fmtPrice(snap.Low)))
				target, stop := enrich.ComputePivots(snap.Open, snap.High, snap.Low)
				output.Printf("  Target (R1): %s  Stop Loss (S1): %s\n", fmtLevel(target), fmtLevel(stop))
				output.Println()
			}
			return nil
		},
	}
}

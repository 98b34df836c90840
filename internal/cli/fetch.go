package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"signal-tracker/internal/enrich"
	"signal-tracker/internal/models"
	"signal-tracker/internal/signals"
	"signal-tracker/internal/symbols"
	"signal-tracker/pkg/utils"
)

func newFetchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch and enrich signals for a date",
		Long: `Scan the configured channel for stock signals on a given date, resolve
company names against the symbol directory and enrich each record with live
quotes and pivot levels.

The date accepts YYYY-MM-DD or compact DDMMYY; omit it for today.`,
		Example: `  signal-tracker fetch
  signal-tracker fetch --date 2026-08-28
  signal-tracker fetch --date 280826 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			if app.Source == nil {
				output.Error("Telegram bot token not configured. Edit credentials.toml first.")
				return fmt.Errorf("message source not configured")
			}
			if app.Config.Channel.Name == "" {
				output.Error("No channel configured. Set channel.name in config.toml.")
				return fmt.Errorf("channel not configured")
			}

			dir, err := symbols.LoadDirectoryFile(app.Config.Symbols.CSVPath)
			if err != nil {
				if errors.Is(err, symbols.ErrMissingColumns) {
					output.Error("Symbol directory %s has no recognizable name/symbol columns.", app.Config.Symbols.CSVPath)
				} else {
					output.Error("Failed to load symbol directory: %v", err)
				}
				return err
			}

			collector := signals.NewCollector(signals.Config{
				Timezone:   app.Config.Location(),
				Channel:    app.Config.Channel.Name,
				MessageCap: app.Config.Channel.MessageCap,
			}, app.Source, dir, app.Logger)

			dateStr, _ := cmd.Flags().GetString("date")
			records, unresolved, err := collector.CollectForDate(ctx, dateStr)
			if err != nil {
				output.Error("Collection failed: %v", err)
				return err
			}

			var enriched []models.EnrichedRecord
			if app.Feed != nil {
				enriched = enrich.NewEnricher(app.Feed, app.Logger).Enrich(ctx, records)
			} else {
				app.Logger.Warn().Msg("no quote feed, emitting records without prices")
				for _, rec := range records {
					enriched = append(enriched, models.EnrichedRecord{ResolvedRecord: rec})
				}
			}

			if output.IsJSON() {
				return output.JSON(struct {
					Records    []models.EnrichedRecord
					Unresolved []string
				}{enriched, unresolved})
			}
			return displayRecords(output, enriched, unresolved)
		},
	}

	cmd.Flags().StringP("date", "d", "", "target date (YYYY-MM-DD or DDMMYY, default today)")

	return cmd
}

func displayRecords(output *Output, records []models.EnrichedRecord, unresolved []string) error {
	if len(records) == 0 {
		output.Warning("No signals found.")
	} else {
		if !utils.IsMarketOpen() {
			output.Info("Market is closed; quotes reflect the last session.")
		}
		output.Bold("%-24s %-10s %8s %10s %10s %10s %10s %8s %8s",
			"Name", "Symbol", "CMP", "Live", "Open", "High", "Low", "Target", "Stop")
		for _, r := range records {
			output.Printf("%-24s %-10s %8s %10s %10s %10s %10s %8s %8s  %s\n",
				truncate(r.DisplayName, 24), r.Symbol, r.QuotedPrice,
				fmtPrice(r.LastPrice), fmtPrice(r.Open),
				output.Green(fmtPrice(r.High)), output.Red(fmtPrice(r.Low)),
				fmtLevel(r.Target), fmtLevel(r.StopLoss),
				output.DimText(r.Time))
		}
		output.Println()
		output.Success("%d records for %s.", len(records), records[0].Date)
	}

	if len(unresolved) > 0 {
		output.Println()
		output.Warning("Unresolved names (%d):", len(unresolved))
		for _, name := range unresolved {
			output.Printf("  %s\n", name)
		}
	}
	return nil
}

func fmtPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return strconv.FormatFloat(*p, 'f', 2, 64)
}

func fmtLevel(l *int) string {
	if l == nil {
		return "-"
	}
	return strconv.Itoa(*l)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

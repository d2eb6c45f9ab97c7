package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/kalshi-backtest/internal/config"
	"github.com/rickgao/kalshi-backtest/internal/data"
	"github.com/rickgao/kalshi-backtest/internal/engine"
	"github.com/rickgao/kalshi-backtest/internal/metrics"
	"github.com/rickgao/kalshi-backtest/internal/version"
	"github.com/rickgao/kalshi-backtest/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/backtest.yaml", "path to config file")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	logger.Info("starting backtest",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"strategies", cfg.Run.Strategies,
		"start_date", cfg.Run.StartDate,
		"end_date", cfg.Run.EndDate,
	)

	start, end, err := dateRange(cfg.Run.StartDate, cfg.Run.EndDate)
	if err != nil {
		logger.Error("invalid date range", "error", err)
		os.Exit(1)
	}

	loader := data.NewLoader(cfg.Data, logger)
	ds, err := loader.Load(start, end, cfg.Market.StrikeInterval)
	if err != nil {
		logger.Error("failed to load data", "error", err)
		os.Exit(1)
	}
	logger.Info("data loaded", "hours", len(ds.Hours()))

	e := engine.New(*cfg, ds, logger)
	results, err := e.RunAll(cfg.Run.Strategies)
	if err != nil {
		logger.Error("failed to run strategies", "error", err)
		os.Exit(1)
	}

	marketDuration := time.Duration(cfg.Market.DurationMinutes) * time.Minute
	table := metrics.ComparisonTable(results, marketDuration)
	fmt.Print(metrics.Render(table))

	w := writer.New(cfg.Output.Dir, logger)
	for _, res := range results {
		if err := w.WriteResult(res); err != nil {
			logger.Error("failed to write results", "strategy", res.Strategy, "error", err)
			os.Exit(1)
		}
	}
	if len(results) > 0 {
		runTag := results[0].RunID.String()[:8]
		if err := w.WriteSummaries(runTag, table); err != nil {
			logger.Error("failed to write summary", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("backtest complete", "strategies", len(results), "output", cfg.Output.Dir)
}

// dateRange converts the optional YYYY-MM-DD config bounds into time
// bounds. The end date is inclusive through the end of its day so the
// final hour's resolution price at midnight stays in range.
func dateRange(startDate, endDate string) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if startDate != "" {
		start, err = time.Parse("2006-01-02", startDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse start_date: %w", err)
		}
	}
	if endDate != "" {
		end, err = time.Parse("2006-01-02", endDate)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse end_date: %w", err)
		}
		end = end.Add(24 * time.Hour)
	}
	return start, end, nil
}

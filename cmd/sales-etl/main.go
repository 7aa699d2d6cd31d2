package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/pipeline"
	"github.com/brightline/sales-etl/internal/report"
	"github.com/brightline/sales-etl/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional JSON config file")
		source     = flag.String("source", "", "path to the input CSV file")
		store      = flag.String("store", "", "store location: SQLite path or postgres:// DSN")
		driver     = flag.String("driver", "", "store driver: sqlite or postgres (default: inferred)")
		reports    = flag.String("reports", "", "directory for report artifacts")
		topN       = flag.Int("top", 0, "number of products in the top-sellers report")
		runReport  = flag.Bool("report", false, "run the reporter after a successful load")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if *configPath != "" {
		if err := common.ApplyConfigFile(cfg, *configPath); err != nil {
			logger.Error("invalid config file", "path", *configPath, "error", err)
			os.Exit(1)
		}
	}
	// flags win over config file and environment
	if *source != "" {
		cfg.SourcePath = *source
	}
	if *store != "" {
		cfg.StorePath = *store
	}
	if *driver != "" {
		cfg.StoreDriver = *driver
	}
	if *reports != "" {
		cfg.ReportOutputDir = *reports
	}
	if *topN > 0 {
		cfg.TopN = *topN
	}
	if cfg.SourcePath == "" {
		logger.Error("source path is required: pass -source, set SOURCE_PATH, or use a config file")
		os.Exit(1)
	}

	ctx := context.Background()

	if _, err := pipeline.New(cfg, logger).Run(ctx); err != nil {
		logger.Error("etl run failed", "error", err)
		os.Exit(1)
	}

	if *runReport {
		saleStore, err := repository.Open(ctx, cfg, logger)
		if err != nil {
			logger.Error("report stage failed", "error", err)
			os.Exit(1)
		}
		defer repository.Close(saleStore, logger)

		if _, err := report.NewService(saleStore, cfg.TopN, logger).Run(ctx, cfg.ReportOutputDir); err != nil {
			logger.Error("report stage failed", "error", err)
			os.Exit(1)
		}
	}
}

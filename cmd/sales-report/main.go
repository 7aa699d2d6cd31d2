package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/report"
	"github.com/brightline/sales-etl/internal/repository"
)

func main() {
	var (
		configPath = flag.String("config", "", "optional JSON config file")
		store      = flag.String("store", "", "store location: SQLite path or postgres:// DSN")
		driver     = flag.String("driver", "", "store driver: sqlite or postgres (default: inferred)")
		reports    = flag.String("reports", "", "directory for report artifacts")
		topN       = flag.Int("top", 0, "number of products in the top-sellers report")
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

	ctx := context.Background()

	saleStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer repository.Close(saleStore, logger)

	res, err := report.NewService(saleStore, cfg.TopN, logger).Run(ctx, cfg.ReportOutputDir)
	if err != nil {
		logger.Error("report run failed", "error", err)
		os.Exit(1)
	}

	printResults(res)
	fmt.Printf("\nAnalysis reports saved to %q\n", cfg.ReportOutputDir)
}

func printResults(res *report.Results) {
	fmt.Println("--- Total Sales by Product ---")
	for _, p := range res.ProductSales {
		fmt.Printf("%-30s qty=%-6d revenue=%.2f avg_price=%.2f\n",
			p.Product, p.TotalQuantity, p.TotalRevenue, p.AveragePrice)
	}

	fmt.Println("\n--- Monthly Sales Trend ---")
	for _, m := range res.MonthlyTrend {
		fmt.Printf("%s  orders=%-5d revenue=%.2f\n", m.Month, m.OrderCount, m.Revenue)
	}

	fmt.Printf("\n--- Top %d Products by Quantity ---\n", len(res.TopProducts))
	for _, p := range res.TopProducts {
		fmt.Printf("%-30s qty=%d\n", p.Product, p.TotalQuantity)
	}

	s := res.Stats
	fmt.Println("\n--- Store Statistics ---")
	fmt.Printf("total_orders=%d unique_products=%d total_revenue=%.2f average_order_value=%.2f dates=%s..%s\n",
		s.TotalOrders, s.UniqueProducts, s.TotalRevenue, s.AverageOrderValue, s.EarliestDate, s.LatestDate)
}

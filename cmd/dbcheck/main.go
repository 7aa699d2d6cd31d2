// Command dbcheck opens the record store, verifies connectivity and schema
// presence, and prints basic statistics.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/repository"
)

func main() {
	var (
		store  = flag.String("store", "", "store location: SQLite path or postgres:// DSN")
		driver = flag.String("driver", "", "store driver: sqlite or postgres (default: inferred)")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *store != "" {
		cfg.StorePath = *store
	}
	if *driver != "" {
		cfg.StoreDriver = *driver
	}

	ctx := context.Background()

	saleStore, err := repository.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatalf("store health: FAIL (%v)", err)
	}
	defer func() {
		if err := saleStore.Close(); err != nil {
			log.Printf("ERROR: closing store: %v", err)
		}
	}()
	log.Println("store health: OK")

	ok, err := saleStore.HasSchema(ctx)
	if err != nil {
		log.Fatalf("checking schema: %v", err)
	}
	if !ok {
		log.Println("sales table: missing (load has not run)")
		os.Exit(0)
	}
	log.Println("sales table: present")

	n, err := saleStore.CountSales(ctx)
	if err != nil {
		log.Fatalf("counting sales: %v", err)
	}
	log.Printf("stored sales: %d", n)

	stats, err := saleStore.Stats(ctx)
	if err != nil {
		log.Fatalf("reading statistics: %v", err)
	}
	log.Printf("unique products: %d", stats.UniqueProducts)
	log.Printf("total revenue: %.2f", stats.TotalRevenue)
	if stats.EarliestDate != "" {
		log.Printf("date range: %s .. %s", stats.EarliestDate, stats.LatestDate)
	}
}

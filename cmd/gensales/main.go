// Command gensales writes a sample sales CSV for exercising the pipeline.
// A configurable fraction of rows is deliberately incomplete or malformed
// so the transform stage has something to drop.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type product struct {
	name     string
	minPrice float64
	maxPrice float64
}

// Product names are left in mixed case on purpose; title-casing them is the
// transformer's job.
var products = []product{
	{"Laptop", 799.99, 1999.99},
	{"Smartphone", 299.99, 1299.99},
	{"Headphones", 49.99, 349.99},
	{"Monitor", 149.99, 699.99},
	{"Keyboard", 29.99, 199.99},
	{"Mouse", 14.99, 99.99},
	{"tablet", 199.99, 899.99},
	{"printer", 89.99, 399.99},
	{"usb cable", 9.99, 29.99},
	{"external hard drive", 59.99, 299.99},
}

// Input date layouts the transformer accepts, plus rows use them unevenly
// to mimic a messy export.
var dateLayouts = []string{"2006-01-02", "01/02/2006", "02-01-2006"}

func main() {
	var (
		out   = flag.String("out", "sales_data.csv", "output CSV path")
		rows  = flag.Int("rows", 1000, "number of rows to generate")
		dirty = flag.Float64("dirty", 0.05, "fraction of rows made incomplete or malformed")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")
	)
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rng := rand.New(rand.NewSource(*seed))
	if err := writeSample(*out, *rows, *dirty, rng); err != nil {
		logger.Error("failed to write sample data", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("sample data written", "path", *out, "rows", *rows, "dirty_fraction", *dirty)
}

func writeSample(path string, rows int, dirty float64, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"order_id", "product", "quantity", "price_per_unit", "sale_date"}); err != nil {
		_ = f.Close()
		return err
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	span := int(end.Sub(start).Hours() / 24)

	for i := 0; i < rows; i++ {
		p := products[rng.Intn(len(products))]
		price := p.minPrice + rng.Float64()*(p.maxPrice-p.minPrice)
		day := start.AddDate(0, 0, rng.Intn(span))
		layout := dateLayouts[rng.Intn(len(dateLayouts))]

		rec := []string{
			uuid.NewString(),
			p.name,
			strconv.Itoa(1 + rng.Intn(10)),
			fmt.Sprintf("%.2f", price),
			day.Format(layout),
		}
		if rng.Float64() < dirty {
			corrupt(rec, rng)
		}
		if err := w.Write(rec); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// corrupt blanks or mangles one field so the row fails validation.
func corrupt(rec []string, rng *rand.Rand) {
	switch rng.Intn(4) {
	case 0:
		rec[1] = "" // missing product
	case 1:
		rec[2] = "" // missing quantity
	case 2:
		rec[3] = "" // missing price
	case 3:
		rec[4] = "not-a-date"
	}
}

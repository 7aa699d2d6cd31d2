package repository

import (
	"context"

	"github.com/brightline/sales-etl/internal/entity"
)

// TableName is the single table the pipeline owns.
const TableName = "sales"

// ProductSales is one row of the per-product revenue summary.
type ProductSales struct {
	Product       string
	TotalQuantity int64
	TotalRevenue  float64
	AveragePrice  float64
}

// MonthlyTrend is one row of the per-calendar-month revenue summary.
type MonthlyTrend struct {
	Month      string // YYYY-MM
	OrderCount int64
	Revenue    float64
}

// ProductQuantity is one row of the top-sellers summary.
type ProductQuantity struct {
	Product       string
	TotalQuantity int64
}

// StoreStats are descriptive statistics over the whole table.
type StoreStats struct {
	TotalOrders       int64
	UniqueProducts    int64
	TotalRevenue      float64
	AverageOrderValue float64
	EarliestDate      string
	LatestDate        string
}

// SaleStore is the persistent record store keyed by order_id. The loader
// writes through InsertIfAbsent only; everything else is read-only.
type SaleStore interface {
	// EnsureSchema creates the sales table if it does not exist.
	EnsureSchema(ctx context.Context) error
	// HasSchema reports whether the sales table exists.
	HasSchema(ctx context.Context) (bool, error)
	// InsertIfAbsent inserts the record unless a row with the same
	// order_id already exists, and reports whether an insert happened.
	// The operation is idempotent; the primary key is only a backstop.
	InsertIfAbsent(ctx context.Context, rec entity.CleanSale) (bool, error)
	// CountSales returns the number of stored records.
	CountSales(ctx context.Context) (int64, error)

	// ProductSales sums quantity and revenue per product, with average
	// unit price rounded to 2 decimals, ordered by revenue descending.
	ProductSales(ctx context.Context) ([]ProductSales, error)
	// MonthlyTrend sums orders and revenue per calendar month of
	// sale_date, ordered by month ascending.
	MonthlyTrend(ctx context.Context) ([]MonthlyTrend, error)
	// TopProducts returns the n products with the highest summed
	// quantity, descending.
	TopProducts(ctx context.Context, n int) ([]ProductQuantity, error)
	// Stats returns descriptive statistics over the full table.
	Stats(ctx context.Context) (StoreStats, error)

	Close() error
}

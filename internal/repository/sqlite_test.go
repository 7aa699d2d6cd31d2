package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline/sales-etl/internal/entity"
)

func openTestStore(t *testing.T) SaleStore {
	t.Helper()
	store, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sale(orderID, product string, quantity int, price, total, date string) entity.CleanSale {
	return entity.CleanSale{
		OrderID:      orderID,
		Product:      product,
		Quantity:     quantity,
		PricePerUnit: decimal.RequireFromString(price),
		TotalPrice:   decimal.RequireFromString(total),
		SaleDate:     date,
	}
}

func seed(t *testing.T, store SaleStore) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))
	for _, rec := range []entity.CleanSale{
		sale("A1", "Laptop", 1, "1000.00", "1000.00", "2024-01-10"),
		sale("A2", "Laptop", 2, "900.00", "1800.00", "2024-02-05"),
		sale("A3", "Mouse", 10, "20.00", "200.00", "2024-01-20"),
		sale("A4", "Keyboard", 4, "50.00", "200.00", "2024-02-14"),
		sale("A5", "Mouse", 3, "25.00", "75.00", "2024-03-01"),
	} {
		inserted, err := store.InsertIfAbsent(ctx, rec)
		require.NoError(t, err)
		require.True(t, inserted)
	}
}

func TestSchemaLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	ok, err := store.HasSchema(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.EnsureSchema(ctx))
	// creating twice is fine
	require.NoError(t, store.EnsureSchema(ctx))

	ok, err = store.HasSchema(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestInsertIfAbsent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.EnsureSchema(ctx))

	rec := sale("B2", "Tablet", 2, "300.00", "600.00", "2024-05-01")

	inserted, err := store.InsertIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, inserted)

	// same key again: skipped, not an error, even with different values
	dup := rec
	dup.Product = "Different Tablet"
	inserted, err = store.InsertIfAbsent(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	n, err := store.CountSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// first occurrence won
	prods, err := store.ProductSales(ctx)
	require.NoError(t, err)
	require.Len(t, prods, 1)
	assert.Equal(t, "Tablet", prods[0].Product)
}

func TestProductSalesOrdering(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)

	prods, err := store.ProductSales(context.Background())
	require.NoError(t, err)
	require.Len(t, prods, 3)

	// descending by revenue: Laptop 2800, Mouse 275, Keyboard 200
	assert.Equal(t, "Laptop", prods[0].Product)
	assert.Equal(t, int64(3), prods[0].TotalQuantity)
	assert.InDelta(t, 2800.00, prods[0].TotalRevenue, 0.001)
	assert.InDelta(t, 950.00, prods[0].AveragePrice, 0.001)

	assert.Equal(t, "Mouse", prods[1].Product)
	assert.InDelta(t, 275.00, prods[1].TotalRevenue, 0.001)

	assert.Equal(t, "Keyboard", prods[2].Product)
}

func TestMonthlyTrendOrdering(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)

	months, err := store.MonthlyTrend(context.Background())
	require.NoError(t, err)
	require.Len(t, months, 3)

	assert.Equal(t, "2024-01", months[0].Month)
	assert.Equal(t, int64(2), months[0].OrderCount)
	assert.InDelta(t, 1200.00, months[0].Revenue, 0.001)

	assert.Equal(t, "2024-02", months[1].Month)
	assert.InDelta(t, 2000.00, months[1].Revenue, 0.001)

	assert.Equal(t, "2024-03", months[2].Month)
	assert.InDelta(t, 75.00, months[2].Revenue, 0.001)
}

func TestTopProducts(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)

	top, err := store.TopProducts(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "Mouse", top[0].Product)
	assert.Equal(t, int64(13), top[0].TotalQuantity)
	assert.Equal(t, "Keyboard", top[1].Product)
	assert.Equal(t, int64(4), top[1].TotalQuantity)
}

func TestStats(t *testing.T) {
	store := openTestStore(t)
	seed(t, store)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), stats.TotalOrders)
	assert.Equal(t, int64(3), stats.UniqueProducts)
	assert.InDelta(t, 3275.00, stats.TotalRevenue, 0.001)
	assert.InDelta(t, 655.00, stats.AverageOrderValue, 0.001)
	assert.Equal(t, "2024-01-10", stats.EarliestDate)
	assert.Equal(t, "2024-03-01", stats.LatestDate)
}

func TestStatsEmptyTable(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.EnsureSchema(context.Background()))

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, 0.0, stats.TotalRevenue)
	assert.Equal(t, "", stats.EarliestDate)
}

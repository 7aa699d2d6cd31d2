package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/entity"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS sales (
	order_id       TEXT PRIMARY KEY,
	product        TEXT    NOT NULL,
	quantity       INTEGER NOT NULL CHECK (quantity > 0),
	price_per_unit NUMERIC NOT NULL CHECK (price_per_unit >= 0),
	total_price    NUMERIC NOT NULL,
	sale_date      TEXT    NOT NULL
)`

// sqliteStore implements SaleStore over an embedded SQLite database.
type sqliteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if necessary) the SQLite database at path.
// ":memory:" is accepted for tests. The pool is capped at one connection:
// the pipeline is single-writer by contract, and it keeps an in-memory
// database on a single handle.
func OpenSQLite(path string, logger *slog.Logger) (SaleStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, common.WrapError(err, fmt.Sprintf("opening sqlite store %s", path))
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, common.WrapError(err, fmt.Sprintf("pinging sqlite store %s", path))
	}
	logger.Info("opened sqlite store", "path", path)
	return &sqliteStore{db: db, logger: logger}, nil
}

func (s *sqliteStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return common.WrapError(err, "creating sales table")
	}
	return nil
}

func (s *sqliteStore) HasSchema(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteStore) InsertIfAbsent(ctx context.Context, rec entity.CleanSale) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (order_id, product, quantity, price_per_unit, total_price, sale_date)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (order_id) DO NOTHING`,
		rec.OrderID, rec.Product, rec.Quantity,
		rec.PricePerUnit.String(), rec.TotalPrice.String(), rec.SaleDate,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *sqliteStore) CountSales(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n)
	return n, err
}

func (s *sqliteStore) ProductSales(ctx context.Context) ([]ProductSales, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product,
		       SUM(quantity)                 AS total_quantity,
		       SUM(total_price)              AS total_revenue,
		       ROUND(AVG(price_per_unit), 2) AS average_price
		FROM sales
		GROUP BY product
		ORDER BY total_revenue DESC, product`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductSales
	for rows.Next() {
		var r ProductSales
		if err := rows.Scan(&r.Product, &r.TotalQuantity, &r.TotalRevenue, &r.AveragePrice); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) MonthlyTrend(ctx context.Context) ([]MonthlyTrend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(sale_date, 1, 7) AS month,
		       COUNT(*)                AS order_count,
		       SUM(total_price)        AS revenue
		FROM sales
		GROUP BY month
		ORDER BY month`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyTrend
	for rows.Next() {
		var r MonthlyTrend
		if err := rows.Scan(&r.Month, &r.OrderCount, &r.Revenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) TopProducts(ctx context.Context, n int) ([]ProductQuantity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product, SUM(quantity) AS total_quantity
		FROM sales
		GROUP BY product
		ORDER BY total_quantity DESC, product
		LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductQuantity
	for rows.Next() {
		var r ProductQuantity
		if err := rows.Scan(&r.Product, &r.TotalQuantity); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteStore) Stats(ctx context.Context) (StoreStats, error) {
	var (
		stats    StoreStats
		revenue  sql.NullFloat64
		avgValue sql.NullFloat64
		earliest sql.NullString
		latest   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(DISTINCT product),
		       SUM(total_price),
		       AVG(total_price),
		       MIN(sale_date),
		       MAX(sale_date)
		FROM sales`).Scan(
		&stats.TotalOrders, &stats.UniqueProducts,
		&revenue, &avgValue, &earliest, &latest,
	)
	if err != nil {
		return StoreStats{}, err
	}
	stats.TotalRevenue = revenue.Float64
	stats.AverageOrderValue = avgValue.Float64
	stats.EarliestDate = earliest.String
	stats.LatestDate = latest.String
	return stats, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

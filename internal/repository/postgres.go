package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/entity"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS sales (
	order_id       TEXT PRIMARY KEY,
	product        TEXT          NOT NULL,
	quantity       INTEGER       NOT NULL CHECK (quantity > 0),
	price_per_unit NUMERIC(12,2) NOT NULL CHECK (price_per_unit >= 0),
	total_price    NUMERIC(12,2) NOT NULL,
	sale_date      TEXT          NOT NULL
)`

// PostgresConfig carries the pool settings for a Postgres-backed store.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MaxConnLifetime time.Duration
	DialTimeout     time.Duration
}

// postgresStore implements SaleStore on a PostgreSQL database, for runs
// where the durable store lives outside the local filesystem.
type postgresStore struct {
	db     *sql.DB
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a pgx pool and wraps it as database/sql for the
// store queries.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (SaleStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to postgres store", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, common.WrapError(err, "parsing postgres dsn")
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "sales-etl"

	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, common.WrapError(err, "connecting to postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, common.WrapError(err, "pinging postgres")
	}

	db := stdlib.OpenDBFromPool(pool)
	logger.Info("connected to postgres store")
	return &postgresStore{db: db, pool: pool, logger: logger}, nil
}

func (s *postgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, postgresSchema); err != nil {
		return common.WrapError(err, "creating sales table")
	}
	return nil
}

func (s *postgresStore) HasSchema(ctx context.Context) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1`, TableName,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *postgresStore) InsertIfAbsent(ctx context.Context, rec entity.CleanSale) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sales (order_id, product, quantity, price_per_unit, total_price, sale_date)
		VALUES ($1, $2, $3, $4, $5, $6)
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

func (s *postgresStore) CountSales(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sales`).Scan(&n)
	return n, err
}

func (s *postgresStore) ProductSales(ctx context.Context) ([]ProductSales, error) {
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

func (s *postgresStore) MonthlyTrend(ctx context.Context) ([]MonthlyTrend, error) {
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

func (s *postgresStore) TopProducts(ctx context.Context, n int) ([]ProductQuantity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT product, SUM(quantity) AS total_quantity
		FROM sales
		GROUP BY product
		ORDER BY total_quantity DESC, product
		LIMIT $1`, n)
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

func (s *postgresStore) Stats(ctx context.Context) (StoreStats, error) {
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

func (s *postgresStore) Close() error {
	err := s.db.Close()
	s.pool.Close()
	return err
}

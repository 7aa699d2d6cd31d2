package repository

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/brightline/sales-etl/internal/common"
)

// Open opens the record store described by cfg, picking the backend from
// StoreDriver or, when unset, from the shape of StorePath.
func Open(ctx context.Context, cfg *common.Config, logger *slog.Logger) (SaleStore, error) {
	driver := cfg.StoreDriver
	if driver == "" {
		driver = inferDriver(cfg.StorePath)
	}
	switch driver {
	case "sqlite":
		return OpenSQLite(cfg.StorePath, logger)
	case "postgres":
		return OpenPostgres(ctx, PostgresConfig{
			DSN:             cfg.StorePath,
			MaxConns:        4,
			MaxConnLifetime: 30 * time.Minute,
			DialTimeout:     3 * time.Second,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: unknown store driver %q", common.ErrInvalidConfig, driver)
	}
}

func inferDriver(storePath string) string {
	if strings.HasPrefix(storePath, "postgres://") || strings.HasPrefix(storePath, "postgresql://") {
		return "postgres"
	}
	return "sqlite"
}

// Close closes the store, logging rather than propagating the error; it is
// meant for deferred cleanup in the batch binaries.
func Close(store SaleStore, logger *slog.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Error("failed to close record store", "error", err)
	}
}

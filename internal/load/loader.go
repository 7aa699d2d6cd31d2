package load

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/entity"
	"github.com/brightline/sales-etl/internal/repository"
)

// Result reports what a load run did to the store.
type Result struct {
	Inserted int
	Skipped  int
}

// Loader reconciles clean sale records against the record store. Records
// whose order_id is already present are skipped, not errors, which makes
// repeated loads of the same records idempotent.
type Loader struct {
	store  repository.SaleStore
	logger *slog.Logger
}

func NewLoader(store repository.SaleStore, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{store: store, logger: logger}
}

// Load ensures the schema exists, then inserts each record whose key is not
// already present, in input order. A store failure aborts the remaining
// work; inserts already committed remain.
func (l *Loader) Load(ctx context.Context, recs []entity.CleanSale) (Result, error) {
	if err := l.store.EnsureSchema(ctx); err != nil {
		return Result{}, fmt.Errorf("%w: %v", common.ErrStoreWrite, err)
	}

	var res Result
	for _, rec := range recs {
		inserted, err := l.store.InsertIfAbsent(ctx, rec)
		if err != nil {
			return res, fmt.Errorf("%w: inserting order %s: %v", common.ErrStoreWrite, rec.OrderID, err)
		}
		if inserted {
			res.Inserted++
		} else {
			res.Skipped++
		}
	}

	l.logger.Info("load complete", "inserted", res.Inserted, "skipped", res.Skipped)
	return res, nil
}

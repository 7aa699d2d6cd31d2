package report

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/repository"
)

// Results holds the output of the fixed set of aggregate queries, each an
// ordered sequence.
type Results struct {
	ProductSales []repository.ProductSales
	MonthlyTrend []repository.MonthlyTrend
	TopProducts  []repository.ProductQuantity
	Stats        repository.StoreStats
}

// Service runs read-only aggregate queries against the record store and
// renders tabular and graphical summaries. It never mutates the store.
type Service struct {
	store  repository.SaleStore
	topN   int
	logger *slog.Logger
}

func NewService(store repository.SaleStore, topN int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if topN <= 0 {
		topN = 5
	}
	return &Service{store: store, topN: topN, logger: logger}
}

// Query executes the aggregate queries. The sales table must exist;
// reporting against a store that was never loaded is a query failure, not
// an empty result.
func (s *Service) Query(ctx context.Context) (*Results, error) {
	ok, err := s.store.HasSchema(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: checking schema: %v", common.ErrQuery, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: sales table does not exist; run the load stage first", common.ErrQuery)
	}

	res := &Results{}
	if res.ProductSales, err = s.store.ProductSales(ctx); err != nil {
		return nil, fmt.Errorf("%w: product sales: %v", common.ErrQuery, err)
	}
	if res.MonthlyTrend, err = s.store.MonthlyTrend(ctx); err != nil {
		return nil, fmt.Errorf("%w: monthly trend: %v", common.ErrQuery, err)
	}
	if res.TopProducts, err = s.store.TopProducts(ctx, s.topN); err != nil {
		return nil, fmt.Errorf("%w: top products: %v", common.ErrQuery, err)
	}
	if res.Stats, err = s.store.Stats(ctx); err != nil {
		return nil, fmt.Errorf("%w: statistics: %v", common.ErrQuery, err)
	}

	s.logger.Info("report queries complete",
		"products", len(res.ProductSales),
		"months", len(res.MonthlyTrend),
		"total_orders", res.Stats.TotalOrders,
		"total_revenue", res.Stats.TotalRevenue,
	)
	return res, nil
}

// Run executes the queries and writes all report artifacts under outDir.
func (s *Service) Run(ctx context.Context, outDir string) (*Results, error) {
	res, err := s.Query(ctx)
	if err != nil {
		return nil, err
	}
	if err := WriteArtifacts(res, outDir, s.logger); err != nil {
		return nil, err
	}
	return res, nil
}

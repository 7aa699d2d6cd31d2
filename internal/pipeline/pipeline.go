package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/extract"
	"github.com/brightline/sales-etl/internal/load"
	"github.com/brightline/sales-etl/internal/repository"
	"github.com/brightline/sales-etl/internal/transform"
)

// Summary is the per-run accounting reported on success.
type Summary struct {
	RunID       string
	RowsRead    int
	RowsDropped int
	RowsClean   int
	Inserted    int
	Skipped     int
	Duration    time.Duration
}

// Pipeline coordinates extract, then transform, then load, strictly in
// sequence. The first stage-fatal error aborts the run; no stage recovers
// from a prior stage's failure.
type Pipeline struct {
	cfg    *common.Config
	logger *slog.Logger
}

func New(cfg *common.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, logger: logger}
}

// Run executes one complete batch. The source file handle and the store
// connection are each scoped to the stage that uses them; nothing is held
// open across stage boundaries.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID)
	start := time.Now()
	logger.Info("starting etl run", "source", p.cfg.SourcePath, "store", p.cfg.StorePath)

	raw, err := extract.NewExtractor(logger).Extract(p.cfg.SourcePath)
	if err != nil {
		logger.Error("extract stage failed", "error", err)
		return nil, err
	}

	clean, dropped := transform.NewTransformer(logger).Transform(raw)

	store, err := repository.Open(ctx, p.cfg, logger)
	if err != nil {
		logger.Error("load stage failed", "error", err)
		return nil, fmt.Errorf("%w: opening store: %v", common.ErrStoreWrite, err)
	}
	defer repository.Close(store, logger)

	res, err := load.NewLoader(store, logger).Load(ctx, clean)
	if err != nil {
		logger.Error("load stage failed", "error", err)
		return nil, err
	}

	summary := &Summary{
		RunID:       runID,
		RowsRead:    len(raw),
		RowsDropped: dropped,
		RowsClean:   len(clean),
		Inserted:    res.Inserted,
		Skipped:     res.Skipped,
		Duration:    time.Since(start),
	}
	logger.Info("etl run complete",
		"rows_read", summary.RowsRead,
		"rows_dropped", summary.RowsDropped,
		"rows_clean", summary.RowsClean,
		"inserted", summary.Inserted,
		"skipped", summary.Skipped,
		"duration", summary.Duration.String(),
	)
	return summary, nil
}

package extract

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/brightline/sales-etl/internal/common"
	"github.com/brightline/sales-etl/internal/entity"
)

// requiredColumns are the header names the source file must carry. Column
// order in the file is not significant; names are.
var requiredColumns = []string{"order_id", "product", "quantity", "price_per_unit", "sale_date"}

// Extractor reads a delimited source file into raw sale records. It drops
// and alters nothing; all validation is deferred to the transform stage.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract reads every data row of the CSV at path, in file order. The file
// must exist and carry a header row naming the five required columns
// (case-insensitive, any order, extra columns ignored).
func (e *Extractor) Extract(path string) ([]entity.RawSale, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("%w: opening %s: %v", common.ErrSourceNotFound, path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("failed to close source file", "path", path, "error", cerr)
		}
	}()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// Ragged rows are not a format error; short rows surface as empty
	// fields and fall to the completeness filter downstream.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header of %s: %v", common.ErrSourceFormat, path, err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrSourceFormat, path, err)
	}

	var rows []entity.RawSale
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", common.ErrSourceFormat, path, err)
		}
		rows = append(rows, entity.RawSale{
			OrderID:      field(rec, cols["order_id"]),
			Product:      field(rec, cols["product"]),
			Quantity:     field(rec, cols["quantity"]),
			PricePerUnit: field(rec, cols["price_per_unit"]),
			SaleDate:     field(rec, cols["sale_date"]),
		})
	}

	e.logger.Info("extracted rows from source", "path", path, "rows", len(rows))
	return rows, nil
}

// mapColumns resolves each required column name to its position in the
// header row.
func mapColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.ToLower(strings.TrimSpace(name))] = i
	}
	cols := make(map[string]int, len(requiredColumns))
	for _, name := range requiredColumns {
		idx, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
		cols[name] = idx
	}
	return cols, nil
}

// field tolerates short rows; a missing cell is an empty value, which the
// transformer's completeness filter will drop.
func field(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

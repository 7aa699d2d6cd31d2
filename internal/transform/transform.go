package transform

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/brightline/sales-etl/internal/entity"
)

// dateLayouts is the fixed set of accepted input date formats, tried in
// order. First match wins; anything else is invalid data and the row is
// dropped.
var dateLayouts = []string{
	"2006-01-02", // ISO
	"01/02/2006", // MM/DD/YYYY
	"02-01-2006", // DD-MM-YYYY
	"2006/01/02",
}

// isoDate is the output layout every surviving sale_date is rewritten to.
const isoDate = "2006-01-02"

// Transformer applies the ordered cleaning rules to raw sale rows:
//
//  1. drop rows with any empty required field
//  2. normalize sale_date to YYYY-MM-DD (unparsable dates drop the row)
//  3. parse quantity (> 0) and price_per_unit (>= 0); failures drop the row
//  4. derive total_price = quantity × price_per_unit, 2dp half-up
//  5. title-case and trim product
//
// Output order equals input order minus dropped rows. Dropped rows are
// counted, never reported individually, and never an error.
type Transformer struct {
	logger *slog.Logger
}

func NewTransformer(logger *slog.Logger) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{logger: logger}
}

// Transform cleans raw rows into sale records, returning the surviving
// records and the number of rows dropped.
func (t *Transformer) Transform(raw []entity.RawSale) ([]entity.CleanSale, int) {
	clean := make([]entity.CleanSale, 0, len(raw))
	dropped := 0
	for _, row := range raw {
		rec, ok := cleanRow(row)
		if !ok {
			dropped++
			continue
		}
		clean = append(clean, rec)
	}
	t.logger.Info("transform complete",
		"rows_in", len(raw),
		"rows_dropped", dropped,
		"rows_out", len(clean),
	)
	return clean, dropped
}

// cleanRow applies the rules in contract order to a single row.
func cleanRow(row entity.RawSale) (entity.CleanSale, bool) {
	orderID := strings.TrimSpace(row.OrderID)
	product := strings.TrimSpace(row.Product)
	quantityStr := strings.TrimSpace(row.Quantity)
	priceStr := strings.TrimSpace(row.PricePerUnit)
	dateStr := strings.TrimSpace(row.SaleDate)

	// 1. completeness filter: subsequent rules never see empty fields
	if orderID == "" || product == "" || quantityStr == "" || priceStr == "" || dateStr == "" {
		return entity.CleanSale{}, false
	}

	// 2. date normalization
	saleDate, ok := NormalizeDate(dateStr)
	if !ok {
		return entity.CleanSale{}, false
	}

	// 3. typed fields; malformed numbers are invalid data, same policy
	// as malformed dates
	quantity, err := strconv.Atoi(quantityStr)
	if err != nil || quantity <= 0 {
		return entity.CleanSale{}, false
	}
	price, err := decimal.NewFromString(priceStr)
	if err != nil || price.IsNegative() {
		return entity.CleanSale{}, false
	}

	// 4. total derivation
	total := price.Mul(decimal.NewFromInt(int64(quantity))).Round(2)

	// 5. product normalization
	return entity.CleanSale{
		OrderID:      orderID,
		Product:      TitleCase(product),
		Quantity:     quantity,
		PricePerUnit: price,
		TotalPrice:   total,
		SaleDate:     saleDate,
	}, true
}

package entity

import "github.com/shopspring/decimal"

// RawSale is a single data row exactly as it appears in the source file.
// Every field is kept as a string; validation and typing happen in the
// transform stage, never here.
type RawSale struct {
	OrderID      string
	Product      string
	Quantity     string
	PricePerUnit string
	SaleDate     string
}

// CleanSale is a RawSale that passed validation, with typed fields and
// derived values filled in. Instances are never mutated after creation.
type CleanSale struct {
	OrderID      string
	Product      string // title-cased, trimmed
	Quantity     int    // > 0
	PricePerUnit decimal.Decimal
	TotalPrice   decimal.Decimal // Quantity × PricePerUnit, 2dp half-up
	SaleDate     string          // YYYY-MM-DD
}

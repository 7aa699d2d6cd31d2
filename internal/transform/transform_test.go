package transform

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightline/sales-etl/internal/entity"
)

func validRaw() entity.RawSale {
	return entity.RawSale{
		OrderID:      "A1",
		Product:      "red apple",
		Quantity:     "3",
		PricePerUnit: "2.50",
		SaleDate:     "03/15/2024",
	}
}

func TestTransformScenario(t *testing.T) {
	tr := NewTransformer(nil)

	clean, dropped := tr.Transform([]entity.RawSale{validRaw()})
	require.Len(t, clean, 1)
	assert.Equal(t, 0, dropped)

	rec := clean[0]
	assert.Equal(t, "A1", rec.OrderID)
	assert.Equal(t, "Red Apple", rec.Product)
	assert.Equal(t, 3, rec.Quantity)
	assert.True(t, rec.PricePerUnit.Equal(decimal.RequireFromString("2.50")), "price %s", rec.PricePerUnit)
	assert.True(t, rec.TotalPrice.Equal(decimal.RequireFromString("7.50")), "total %s", rec.TotalPrice)
	assert.Equal(t, "2024-03-15", rec.SaleDate)
}

func TestCompletenessFilter(t *testing.T) {
	blank := func(mutate func(*entity.RawSale)) entity.RawSale {
		r := validRaw()
		mutate(&r)
		return r
	}
	tests := []struct {
		name string
		row  entity.RawSale
	}{
		{"missing order_id", blank(func(r *entity.RawSale) { r.OrderID = "" })},
		{"missing product", blank(func(r *entity.RawSale) { r.Product = "  " })},
		{"missing quantity", blank(func(r *entity.RawSale) { r.Quantity = "" })},
		{"missing price", blank(func(r *entity.RawSale) { r.PricePerUnit = "" })},
		{"missing date", blank(func(r *entity.RawSale) { r.SaleDate = "" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clean, dropped := NewTransformer(nil).Transform([]entity.RawSale{tt.row})
			assert.Empty(t, clean)
			assert.Equal(t, 1, dropped)
		})
	}
}

func TestInvalidDataDropped(t *testing.T) {
	rows := []entity.RawSale{validRaw()}
	mutations := []func(*entity.RawSale){
		func(r *entity.RawSale) { r.SaleDate = "15th of March" },
		func(r *entity.RawSale) { r.Quantity = "three" },
		func(r *entity.RawSale) { r.Quantity = "0" },
		func(r *entity.RawSale) { r.Quantity = "-2" },
		func(r *entity.RawSale) { r.PricePerUnit = "free" },
		func(r *entity.RawSale) { r.PricePerUnit = "-0.01" },
	}
	for _, mutate := range mutations {
		r := validRaw()
		mutate(&r)
		rows = append(rows, r)
	}

	clean, dropped := NewTransformer(nil).Transform(rows)
	assert.Len(t, clean, 1)
	assert.Equal(t, len(mutations), dropped)
}

func TestOrderPreserved(t *testing.T) {
	rows := []entity.RawSale{}
	for _, id := range []string{"C3", "A1", "B2", "E5", "D4"} {
		r := validRaw()
		r.OrderID = id
		if id == "B2" {
			r.Quantity = "" // dropped, must not disturb order of survivors
		}
		rows = append(rows, r)
	}

	clean, dropped := NewTransformer(nil).Transform(rows)
	require.Equal(t, 1, dropped)
	ids := make([]string, len(clean))
	for i, rec := range clean {
		ids[i] = rec.OrderID
	}
	assert.Equal(t, []string{"C3", "A1", "E5", "D4"}, ids)
}

func TestTotalPriceRounding(t *testing.T) {
	tests := []struct {
		quantity string
		price    string
		total    string
	}{
		{"3", "2.50", "7.50"},
		{"3", "2.675", "8.03"},  // 8.025 rounds half-up
		{"1", "0.005", "0.01"},  // exact half
		{"7", "19.99", "139.93"},
		{"2", "0", "0.00"},
	}
	for _, tt := range tests {
		r := validRaw()
		r.Quantity = tt.quantity
		r.PricePerUnit = tt.price

		clean, _ := NewTransformer(nil).Transform([]entity.RawSale{r})
		require.Len(t, clean, 1, "qty=%s price=%s", tt.quantity, tt.price)
		assert.True(t, clean[0].TotalPrice.Equal(decimal.RequireFromString(tt.total)),
			"qty=%s price=%s got total %s want %s", tt.quantity, tt.price, clean[0].TotalPrice, tt.total)
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03-15", "2024-03-15", true},
		{"03/15/2024", "2024-03-15", true},
		{"15-03-2024", "2024-03-15", true},
		{"2024/03/15", "2024-03-15", true},
		{"15/03/2024", "", false}, // DD/MM/YYYY is not in the accepted set
		{"March 15, 2024", "", false},
		{"2024-13-01", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeDate(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"red apple", "Red Apple"},
		{"  external   hard drive ", "External Hard Drive"},
		{"USB CABLE", "Usb Cable"},
		{"laptop", "Laptop"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleCase(tt.in), "input %q", tt.in)
	}
}

func TestTitleCaseIdempotent(t *testing.T) {
	for _, s := range []string{"red apple", "USB CABLE", "External Hard Drive", "  spaced  out  "} {
		once := TitleCase(s)
		assert.Equal(t, once, TitleCase(once), "input %q", s)
	}
}

package report

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Artifact file names under the report output directory.
const (
	ProductSummaryFile = "product_sales_summary.csv"
	MonthlyTrendFile   = "monthly_sales_trend.csv"
	WorkbookFile       = "sales_report.xlsx"
)

// WriteArtifacts renders the query results as disposable report files:
// two CSV summaries and an XLSX workbook with charts.
func WriteArtifacts(res *Results, outDir string, logger *slog.Logger) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating report directory %s: %w", outDir, err)
	}

	if err := writeProductSummaryCSV(res, filepath.Join(outDir, ProductSummaryFile)); err != nil {
		return err
	}
	if err := writeMonthlyTrendCSV(res, filepath.Join(outDir, MonthlyTrendFile)); err != nil {
		return err
	}
	if err := writeWorkbook(res, filepath.Join(outDir, WorkbookFile)); err != nil {
		return err
	}

	logger.Info("report artifacts written", "dir", outDir,
		"files", []string{ProductSummaryFile, MonthlyTrendFile, WorkbookFile})
	return nil
}

func writeProductSummaryCSV(res *Results, path string) error {
	rows := [][]string{{"product", "total_quantity", "total_revenue", "average_price"}}
	for _, p := range res.ProductSales {
		rows = append(rows, []string{
			p.Product,
			strconv.FormatInt(p.TotalQuantity, 10),
			money(p.TotalRevenue),
			money(p.AveragePrice),
		})
	}
	return writeCSV(path, rows)
}

func writeMonthlyTrendCSV(res *Results, path string) error {
	rows := [][]string{{"month", "order_count", "monthly_revenue"}}
	for _, m := range res.MonthlyTrend {
		rows = append(rows, []string{
			m.Month,
			strconv.FormatInt(m.OrderCount, 10),
			money(m.Revenue),
		})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// Sheet names in the report workbook.
const (
	productSheet = "Product Sales"
	monthlySheet = "Monthly Trend"
	statsSheet   = "Statistics"
)

// writeWorkbook builds the XLSX report: one sheet per summary plus a bar
// chart of revenue by product and a line chart of the monthly trend.
func writeWorkbook(res *Results, path string) error {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", productSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(monthlySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(statsSheet); err != nil {
		return err
	}

	setRow := func(sheet string, row int, values ...any) {
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	setRow(productSheet, 1, "Product", "Total Quantity", "Total Revenue", "Average Price")
	for i, p := range res.ProductSales {
		setRow(productSheet, i+2, p.Product, p.TotalQuantity, p.TotalRevenue, p.AveragePrice)
	}
	if n := len(res.ProductSales); n > 0 {
		chart := &excelize.Chart{
			Type: excelize.Col,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$C$1", productSheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", productSheet, n+1),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", productSheet, n+1),
			}},
			Title: []excelize.RichTextRun{{Text: "Total Revenue by Product"}},
		}
		if err := f.AddChart(productSheet, "F2", chart); err != nil {
			return fmt.Errorf("adding revenue chart: %w", err)
		}
	}

	setRow(monthlySheet, 1, "Month", "Order Count", "Monthly Revenue")
	for i, m := range res.MonthlyTrend {
		setRow(monthlySheet, i+2, m.Month, m.OrderCount, m.Revenue)
	}
	if n := len(res.MonthlyTrend); n > 0 {
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{{
				Name:       fmt.Sprintf("'%s'!$C$1", monthlySheet),
				Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", monthlySheet, n+1),
				Values:     fmt.Sprintf("'%s'!$C$2:$C$%d", monthlySheet, n+1),
			}},
			Title: []excelize.RichTextRun{{Text: "Monthly Sales Trend"}},
		}
		if err := f.AddChart(monthlySheet, "E2", chart); err != nil {
			return fmt.Errorf("adding trend chart: %w", err)
		}
	}

	setRow(statsSheet, 1, "Total Orders", res.Stats.TotalOrders)
	setRow(statsSheet, 2, "Unique Products", res.Stats.UniqueProducts)
	setRow(statsSheet, 3, "Total Revenue", res.Stats.TotalRevenue)
	setRow(statsSheet, 4, "Average Order Value", res.Stats.AverageOrderValue)
	setRow(statsSheet, 5, "Earliest Sale Date", res.Stats.EarliestDate)
	setRow(statsSheet, 6, "Latest Sale Date", res.Stats.LatestDate)

	rows := len(res.TopProducts)
	setRow(statsSheet, 8, fmt.Sprintf("Top %d Products by Quantity", rows), "")
	setRow(statsSheet, 9, "Product", "Total Quantity")
	for i, p := range res.TopProducts {
		setRow(statsSheet, i+10, p.Product, p.TotalQuantity)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("writing workbook %s: %w", path, err)
	}
	return f.Close()
}

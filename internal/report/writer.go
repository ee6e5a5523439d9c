package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"wc-analyzer/internal/models"
)

// WriteAll writes every artifact of one run into dir, sharing a timestamp in
// the file names, and returns the created paths.
func WriteAll(rep *models.Report, dir string) ([]string, error) {
	ts := rep.AnalysisDate.Format("20060102_150405")

	jsonPath := filepath.Join(dir, fmt.Sprintf("price_report_%s.json", ts))
	csvPath := filepath.Join(dir, fmt.Sprintf("product_analysis_%s.csv", ts))
	mdPath := filepath.Join(dir, fmt.Sprintf("price_report_%s.md", ts))
	xlsxPath := filepath.Join(dir, fmt.Sprintf("product_analysis_%s.xlsx", ts))

	if err := WriteJSON(rep, jsonPath); err != nil {
		return nil, err
	}
	if err := WriteCSV(rep.Products, csvPath); err != nil {
		return nil, err
	}
	if err := WriteMarkdown(rep, mdPath); err != nil {
		return nil, err
	}
	if err := WriteExcel(rep, xlsxPath); err != nil {
		return nil, err
	}

	return []string{jsonPath, csvPath, mdPath, xlsxPath}, nil
}

// WriteJSON writes the full report structure for downstream consumers.
func WriteJSON(rep *models.Report, path string) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

var csvHeader = []string{
	"product_id", "name", "sku", "regular_price", "sale_price", "stock",
	"categories", "date_created", "visits", "quantity", "total_revenue",
	"order_count", "avg_sale_price", "rotation_per_day", "revenue_per_day",
	"visits_per_day", "conversion_rate", "price_diff", "margin_pct",
	"stock_value", "volume_category", "revenue_category", "visits_category",
	"no_visits", "no_visits_high_stock", "high_visits_no_sales",
	"low_conversion", "high_conversion",
}

// WriteCSV dumps every analysis row. The conversion column stays empty when
// the rate is undefined.
func WriteCSV(rows []models.AnalysisRow, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for i := range rows {
		row := &rows[i]
		conversion := ""
		if row.ConversionRate != nil {
			conversion = formatFloat(*row.ConversionRate)
		}
		record := []string{
			strconv.FormatInt(row.ProductID, 10),
			row.Name,
			row.SKU,
			formatFloat(row.RegularPrice),
			formatFloat(row.SalePrice),
			strconv.Itoa(row.Stock),
			strings.Join(row.Categories, "|"),
			row.DateCreated,
			strconv.Itoa(row.Visits),
			strconv.Itoa(row.Quantity),
			formatFloat(row.Revenue),
			strconv.Itoa(row.OrderCount),
			formatFloat(row.AvgSalePrice),
			formatFloat(row.RotationPerDay),
			formatFloat(row.RevenuePerDay),
			formatFloat(row.VisitsPerDay),
			conversion,
			formatFloat(row.PriceDiff),
			formatFloat(row.MarginPct),
			formatFloat(row.StockValue),
			row.VolumeCategory,
			row.RevenueCategory,
			row.VisitsCategory,
			strconv.FormatBool(row.NoVisits),
			strconv.FormatBool(row.NoVisitsHighStock),
			strconv.FormatBool(row.HighVisitsNoSales),
			strconv.FormatBool(row.LowConversion),
			strconv.FormatBool(row.HighConversion),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

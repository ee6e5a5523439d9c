package report

import (
	"fmt"
	"os"
	"strings"

	"wc-analyzer/internal/models"
)

// WriteMarkdown writes the human-readable digest: summary plus the first ten
// entries of each actionable section.
func WriteMarkdown(rep *models.Report, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Price Analysis Report\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", rep.AnalysisDate.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Period:** %s\n\n", rep.Period)

	s := rep.Summary
	fmt.Fprintf(&b, "## Summary\n\n")
	fmt.Fprintf(&b, "- Total products: %d\n", s.TotalProducts)
	fmt.Fprintf(&b, "- Without sales: %d\n", s.ProductsNoSales)
	fmt.Fprintf(&b, "- Without visits: %d\n", s.ProductsNoVisits)
	fmt.Fprintf(&b, "- Without visits, high stock: %d\n", s.ProductsNoVisitsStock)
	fmt.Fprintf(&b, "- Bestsellers by volume: %d\n", s.BestsellersVolume)
	fmt.Fprintf(&b, "- Top revenue products: %d\n", s.TopRevenueProducts)
	fmt.Fprintf(&b, "- Total revenue: $%.2f\n", s.TotalRevenue)
	fmt.Fprintf(&b, "- Units sold: %d\n", s.TotalUnitsSold)
	fmt.Fprintf(&b, "- Total visits: %d\n", s.TotalVisits)
	fmt.Fprintf(&b, "- Average conversion rate: %.2f%%\n", s.AvgConversionRate)
	fmt.Fprintf(&b, "- Average ticket: $%.2f\n\n", s.AvgTicket)

	fmt.Fprintf(&b, "## Products with NO VISITS and high stock\n\n")
	for _, p := range top(rep.NoVisitsHighStock, 10) {
		fmt.Fprintf(&b, "- **%s** (SKU: %s)\n", p.Name, p.SKU)
		fmt.Fprintf(&b, "  - Price: $%.2f | Stock: %d | Stock value: $%.0f\n", p.RegularPrice, p.Stock, p.StockValue)
		fmt.Fprintf(&b, "  - Visits: %d | Sales: %d\n", p.Visits, p.Quantity)
	}

	fmt.Fprintf(&b, "\n## Products with MANY VISITS but NO SALES\n\n")
	for _, p := range top(rep.HighVisitsNoSales, 10) {
		fmt.Fprintf(&b, "- **%s** - %d visits, 0 sales\n", p.Name, p.Visits)
		fmt.Fprintf(&b, "  - Price: $%.2f | Stock: %d\n", p.RegularPrice, p.Stock)
	}

	fmt.Fprintf(&b, "\n## LOW CONVERSION products\n\n")
	for _, p := range top(rep.LowConversion, 10) {
		fmt.Fprintf(&b, "- **%s** - conversion %.2f%%\n", p.Name, conversion(&p))
		fmt.Fprintf(&b, "  - Visits: %d | Sales: %d | Price: $%.2f\n", p.Visits, p.Quantity, p.RegularPrice)
	}

	fmt.Fprintf(&b, "\n## HIGH CONVERSION products\n\n")
	for _, p := range top(rep.HighConversion, 10) {
		fmt.Fprintf(&b, "- **%s** - conversion %.2f%%\n", p.Name, conversion(&p))
		fmt.Fprintf(&b, "  - Visits: %d | Sales: %d | Revenue: $%.0f\n", p.Visits, p.Quantity, p.Revenue)
	}

	fmt.Fprintf(&b, "\n## Top 10 by revenue\n\n")
	for i, p := range top(rep.TopRevenue, 10) {
		fmt.Fprintf(&b, "%d. **%s** - $%.0f\n", i+1, p.Name, p.Revenue)
		fmt.Fprintf(&b, "   - %d units | %d visits | conversion %.1f%%\n", p.Quantity, p.Visits, conversion(&p))
	}

	fmt.Fprintf(&b, "\n## Top 10 by volume\n\n")
	for i, p := range top(rep.BestsellersVolume, 10) {
		fmt.Fprintf(&b, "%d. **%s** - %d units\n", i+1, p.Name, p.Quantity)
		fmt.Fprintf(&b, "   - $%.0f | %d visits | conversion %.1f%%\n", p.Revenue, p.Visits, conversion(&p))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func top(rows []models.AnalysisRow, n int) []models.AnalysisRow {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

func conversion(r *models.AnalysisRow) float64 {
	if r.ConversionRate == nil {
		return 0
	}
	return *r.ConversionRate
}

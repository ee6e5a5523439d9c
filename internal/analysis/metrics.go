package analysis

import (
	"wc-analyzer/internal/models"
)

// DeriveMetrics fills the derived per-product metrics in place. periodDays is
// the extraction lookback window and must be positive.
func DeriveMetrics(rows []models.AnalysisRow, periodDays int) {
	days := float64(periodDays)

	for i := range rows {
		row := &rows[i]

		if row.Quantity > 0 {
			row.AvgSalePrice = row.Revenue / float64(row.Quantity)
		}

		row.RotationPerDay = float64(row.Quantity) / days
		row.RevenuePerDay = row.Revenue / days
		row.VisitsPerDay = float64(row.Visits) / days

		// Conversion is undefined when a product was never viewed. A literal
		// 0 would conflate "never viewed" with "viewed, never bought".
		if row.Visits > 0 {
			rate := float64(row.Quantity) / float64(row.Visits) * 100
			row.ConversionRate = &rate
		} else {
			row.ConversionRate = nil
		}

		row.PriceDiff = row.AvgSalePrice - row.RegularPrice
		if row.RegularPrice > 0 {
			row.MarginPct = row.PriceDiff / row.RegularPrice * 100
		} else {
			row.MarginPct = 0
		}

		row.StockValue = row.RegularPrice * float64(row.Stock)
	}
}

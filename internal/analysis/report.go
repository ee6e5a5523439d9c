package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"wc-analyzer/internal/config"
	"wc-analyzer/internal/models"
)

// sortKey extracts the value a section is ordered by (descending).
type sortKey func(r *models.AnalysisRow) float64

// BuildReport selects, sorts and caps the named sections and computes the
// summary over the full row set. Rows are not mutated; the report is built
// once and handed off read-only.
func BuildReport(rows []models.AnalysisRow, cfg *config.Config) *models.Report {
	byStockValue := func(r *models.AnalysisRow) float64 { return r.StockValue }
	byVisits := func(r *models.AnalysisRow) float64 { return float64(r.Visits) }
	byQuantity := func(r *models.AnalysisRow) float64 { return float64(r.Quantity) }
	byRevenue := func(r *models.AnalysisRow) float64 { return r.Revenue }
	byConversion := func(r *models.AnalysisRow) float64 {
		if r.ConversionRate == nil {
			return 0
		}
		return *r.ConversionRate
	}

	report := &models.Report{
		AnalysisDate: time.Now(),
		Period:       fmt.Sprintf("last %d days", cfg.LookbackDays),
		PeriodDays:   cfg.LookbackDays,
		Summary:      buildSummary(rows),
		Products:     rows,
	}

	report.ProblemProducts = section(rows, 30, byStockValue, func(r *models.AnalysisRow) bool {
		return r.Quantity == 0 && r.Stock > cfg.MinStockNoVisits
	})
	report.NoVisitsHighStock = section(rows, 30, byStockValue, func(r *models.AnalysisRow) bool {
		return r.NoVisitsHighStock
	})
	report.HighVisitsNoSales = section(rows, 20, byVisits, func(r *models.AnalysisRow) bool {
		return r.HighVisitsNoSales
	})
	report.LowConversion = section(rows, 20, byVisits, func(r *models.AnalysisRow) bool {
		return r.LowConversion
	})
	report.HighConversion = section(rows, 20, byConversion, func(r *models.AnalysisRow) bool {
		return r.HighConversion
	})
	report.BestsellersVolume = section(rows, 30, byQuantity, func(r *models.AnalysisRow) bool {
		return r.VolumeCategory == VolumeBestseller
	})
	report.TopRevenue = section(rows, 30, byRevenue, func(r *models.AnalysisRow) bool {
		return r.Revenue > 0
	})
	// Price opportunities: enough sales, a real average sale price, and a
	// realized price diverging materially from the listed one.
	report.PriceOpportunities = section(rows, 20, byQuantity, func(r *models.AnalysisRow) bool {
		return r.Quantity > cfg.MinSalesPriceOpportunity &&
			r.AvgSalePrice > 0 &&
			math.Abs(r.PriceDiff) > r.RegularPrice*cfg.PriceDiffThresholdPct
	})

	return report
}

// section filters, sorts descending by key (product id breaks ties so runs
// stay deterministic) and caps the result.
func section(rows []models.AnalysisRow, limit int, key sortKey, pred func(*models.AnalysisRow) bool) []models.AnalysisRow {
	selected := make([]models.AnalysisRow, 0)
	for i := range rows {
		if pred(&rows[i]) {
			selected = append(selected, rows[i])
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		ki, kj := key(&selected[i]), key(&selected[j])
		if ki != kj {
			return ki > kj
		}
		return selected[i].ProductID < selected[j].ProductID
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}
	return selected
}

func buildSummary(rows []models.AnalysisRow) models.Summary {
	summary := models.Summary{TotalProducts: len(rows)}

	conversionSum := 0.0
	conversionCount := 0
	soldCount := 0

	for i := range rows {
		row := &rows[i]

		if row.Quantity == 0 {
			summary.ProductsNoSales++
		} else {
			soldCount++
		}
		if row.Visits == 0 {
			summary.ProductsNoVisits++
		}
		if row.NoVisitsHighStock {
			summary.ProductsNoVisitsStock++
		}
		if row.VolumeCategory == VolumeBestseller {
			summary.BestsellersVolume++
		}
		if row.RevenueCategory == TopRevenueLabel {
			summary.TopRevenueProducts++
		}

		summary.TotalRevenue += row.Revenue
		summary.TotalUnitsSold += row.Quantity
		summary.TotalVisits += row.Visits

		if row.ConversionRate != nil {
			conversionSum += *row.ConversionRate
			conversionCount++
		}
	}

	// Mean conversion only over rows where it is defined; average ticket only
	// over rows that actually sold.
	if conversionCount > 0 {
		summary.AvgConversionRate = conversionSum / float64(conversionCount)
	}
	if soldCount > 0 {
		summary.AvgTicket = summary.TotalRevenue / float64(soldCount)
	}

	return summary
}

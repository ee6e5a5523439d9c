package analysis

import (
	"wc-analyzer/internal/config"
	"wc-analyzer/internal/models"
)

// Volume tiers are fixed business constants; revenue and visit tiers adapt
// to the data at run time.
const (
	VolumeNoSales    = "no sales"
	VolumeVeryLow    = "very low volume"
	VolumeLow        = "low volume"
	VolumeMedium     = "medium volume"
	VolumeBestseller = "bestseller by volume"
)

var (
	revenueQuantiles = []float64{0.25, 0.5, 0.75}
	revenueLabels    = []string{"no revenue", "low revenue", "medium revenue", "high revenue", "top revenue"}

	visitQuantiles = []float64{0.33, 0.66}
	visitLabels    = []string{"no visits", "few visits", "medium visits", "many visits"}
)

// TopRevenueLabel is the last configured revenue tier, counted in the
// summary.
const TopRevenueLabel = "top revenue"

// Classify assigns the category labels and anomaly flags in place. Metrics
// must already be derived.
func Classify(rows []models.AnalysisRow, cfg *config.Config) {
	classifyVolume(rows)
	classifyRevenue(rows)
	classifyVisits(rows)
	flagAnomalies(rows, cfg)
}

func classifyVolume(rows []models.AnalysisRow) {
	for i := range rows {
		q := rows[i].Quantity
		switch {
		case q <= 0:
			rows[i].VolumeCategory = VolumeNoSales
		case q <= 1:
			rows[i].VolumeCategory = VolumeVeryLow
		case q <= 10:
			rows[i].VolumeCategory = VolumeLow
		case q <= 50:
			rows[i].VolumeCategory = VolumeMedium
		default:
			rows[i].VolumeCategory = VolumeBestseller
		}
	}
}

func classifyRevenue(rows []models.AnalysisRow) {
	values := make([]float64, len(rows))
	for i := range rows {
		values[i] = rows[i].Revenue
	}

	bucketer := NewBucketer(values, revenueQuantiles, revenueLabels)
	if bucketer == nil {
		// Nothing sold anywhere: a single constant tier.
		for i := range rows {
			rows[i].RevenueCategory = revenueLabels[0]
		}
		return
	}
	for i := range rows {
		rows[i].RevenueCategory = bucketer.Label(rows[i].Revenue)
	}
}

func classifyVisits(rows []models.AnalysisRow) {
	values := make([]float64, len(rows))
	for i := range rows {
		values[i] = float64(rows[i].Visits)
	}

	bucketer := NewBucketer(values, visitQuantiles, visitLabels)
	if bucketer == nil {
		for i := range rows {
			rows[i].VisitsCategory = visitLabels[0]
		}
		return
	}
	for i := range rows {
		rows[i].VisitsCategory = bucketer.Label(float64(rows[i].Visits))
	}
}

// flagAnomalies computes the boolean flags. All independent, none exclusive.
func flagAnomalies(rows []models.AnalysisRow, cfg *config.Config) {
	for i := range rows {
		row := &rows[i]

		row.NoVisits = row.Visits == 0
		row.NoVisitsHighStock = row.Visits == 0 && row.Stock > cfg.MinStockNoVisits
		row.HighVisitsNoSales = row.Visits > cfg.HighVisitsNoSales && row.Quantity == 0

		if row.ConversionRate != nil {
			row.LowConversion = row.Visits > cfg.LowConversionVisits && *row.ConversionRate < cfg.LowConversionPct
			row.HighConversion = row.Visits > cfg.HighConversionVisits && *row.ConversionRate > cfg.HighConversionPct
		}
	}
}

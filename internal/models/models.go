package models

import (
	"time"
)

// Product is one catalog entry as extracted from the store. Immutable after
// extraction.
type Product struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	RegularPrice float64  `json:"regular_price"`
	SalePrice    float64  `json:"sale_price"`
	Stock        int      `json:"stock"`
	Categories   []string `json:"categories"`
	DateCreated  string   `json:"date_created"`
	// Visits comes from the first configured visit-tracking meta key; 0 when
	// the store tracks nothing for the product.
	Visits int `json:"visits"`
}

// SaleLineItem is one order line. ProductID may reference a product that has
// since been deleted from the catalog.
type SaleLineItem struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
	OrderID   int64   `json:"order_id"`
	OrderDate string  `json:"order_date"`
	Status    string  `json:"status"`
}

// AnalysisRow is the per-product result of the whole pipeline: product fields,
// aggregated sales, derived metrics, categories and anomaly flags.
type AnalysisRow struct {
	ProductID    int64    `json:"product_id"`
	Name         string   `json:"name"`
	SKU          string   `json:"sku"`
	RegularPrice float64  `json:"regular_price"`
	SalePrice    float64  `json:"sale_price"`
	Stock        int      `json:"stock"`
	Categories   []string `json:"categories"`
	DateCreated  string   `json:"date_created"`
	Visits       int      `json:"visits"`

	// Aggregates, zero when the product had no matching sale
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"total_revenue"`
	OrderCount int     `json:"order_count"`

	// Derived metrics
	AvgSalePrice   float64 `json:"avg_sale_price"`
	RotationPerDay float64 `json:"rotation_per_day"`
	RevenuePerDay  float64 `json:"revenue_per_day"`
	VisitsPerDay   float64 `json:"visits_per_day"`
	// nil when the product was never viewed; 0 would mean "viewed, never bought"
	ConversionRate *float64 `json:"conversion_rate,omitempty"`
	PriceDiff      float64  `json:"price_diff"`
	MarginPct      float64  `json:"margin_pct"`
	StockValue     float64  `json:"stock_value"`

	// Classification
	VolumeCategory  string `json:"volume_category"`
	RevenueCategory string `json:"revenue_category,omitempty"`
	VisitsCategory  string `json:"visits_category,omitempty"`

	// Anomaly flags
	NoVisits          bool `json:"no_visits"`
	NoVisitsHighStock bool `json:"no_visits_high_stock"`
	HighVisitsNoSales bool `json:"high_visits_no_sales"`
	LowConversion     bool `json:"low_conversion"`
	HighConversion    bool `json:"high_conversion"`
}

// Summary holds the scalar aggregates over the full analysis set.
type Summary struct {
	TotalProducts         int     `json:"total_products"`
	ProductsNoSales       int     `json:"products_no_sales"`
	ProductsNoVisits      int     `json:"products_no_visits"`
	ProductsNoVisitsStock int     `json:"products_no_visits_high_stock"`
	BestsellersVolume     int     `json:"bestsellers_volume"`
	TopRevenueProducts    int     `json:"top_revenue_products"`
	TotalRevenue          float64 `json:"total_revenue"`
	TotalUnitsSold        int     `json:"total_units_sold"`
	TotalVisits           int     `json:"total_visits"`
	AvgConversionRate     float64 `json:"avg_conversion_rate"`
	AvgTicket             float64 `json:"avg_ticket"`
}

// Report is the final artifact handed to the serializers. Sections are
// filtered, sorted, size-capped projections of the row set; Products carries
// every row for full-detail export.
type Report struct {
	AnalysisDate time.Time `json:"analysis_date"`
	Period       string    `json:"period"`
	PeriodDays   int       `json:"period_days"`
	Summary      Summary   `json:"summary"`

	ProblemProducts    []AnalysisRow `json:"problem_products"`
	NoVisitsHighStock  []AnalysisRow `json:"no_visits_high_stock"`
	HighVisitsNoSales  []AnalysisRow `json:"high_visits_no_sales"`
	LowConversion      []AnalysisRow `json:"low_conversion"`
	HighConversion     []AnalysisRow `json:"high_conversion"`
	BestsellersVolume  []AnalysisRow `json:"bestsellers_volume"`
	TopRevenue         []AnalysisRow `json:"top_revenue"`
	PriceOpportunities []AnalysisRow `json:"price_opportunities"`

	Products []AnalysisRow `json:"products"`
}

// Order is a raw order as returned by the store, used by the per-order report
// mode which does not need the analysis pipeline.
type Order struct {
	ID          int64          `json:"id"`
	Status      string         `json:"status"`
	DateCreated string         `json:"date_created"`
	LineItems   []SaleLineItem `json:"line_items"`
}

// ReportRun persists one completed analysis for the dashboard.
type ReportRun struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	AnalysisDate  time.Time `json:"analysis_date"`
	PeriodDays    int       `json:"period_days"`
	TotalProducts int       `json:"total_products"`
	TotalRevenue  float64   `json:"total_revenue"`
	UnitsSold     int       `json:"units_sold"`
	TotalVisits   int       `json:"total_visits"`
	ReportJSON    string    `json:"-" gorm:"type:longtext"`
	CreatedAt     time.Time `json:"created_at"`
}

package analysis

import (
	"wc-analyzer/internal/models"
)

// AggregateStats is a diagnostic of one aggregation pass. Orphaned items
// reference a product id missing from the catalog (deleted products); they
// never reach a row but are still counted.
type AggregateStats struct {
	ItemsIngested int `json:"items_ingested"`
	ItemsOrphaned int `json:"items_orphaned"`
}

type salesGroup struct {
	quantity int
	revenue  float64
	orders   map[int64]struct{}
}

// Aggregate groups sale line items by product id and left-joins the result
// onto the catalog: exactly one row per product, zero-filled when nothing
// matched. Rows come out in catalog order, so repeated runs over the same
// inputs are identical.
func Aggregate(products []models.Product, items []models.SaleLineItem) ([]models.AnalysisRow, AggregateStats) {
	known := make(map[int64]struct{}, len(products))
	for _, p := range products {
		known[p.ID] = struct{}{}
	}

	groups := make(map[int64]*salesGroup)
	stats := AggregateStats{ItemsIngested: len(items)}

	for _, item := range items {
		if _, exists := known[item.ProductID]; !exists {
			stats.ItemsOrphaned++
			continue
		}
		g, exists := groups[item.ProductID]
		if !exists {
			g = &salesGroup{orders: make(map[int64]struct{})}
			groups[item.ProductID] = g
		}
		g.quantity += item.Quantity
		g.revenue += item.Total
		g.orders[item.OrderID] = struct{}{}
	}

	rows := make([]models.AnalysisRow, 0, len(products))
	for _, p := range products {
		row := models.AnalysisRow{
			ProductID:    p.ID,
			Name:         p.Name,
			SKU:          p.SKU,
			RegularPrice: p.RegularPrice,
			SalePrice:    p.SalePrice,
			Stock:        p.Stock,
			Categories:   p.Categories,
			DateCreated:  p.DateCreated,
			Visits:       p.Visits,
		}
		if g, exists := groups[p.ID]; exists {
			row.Quantity = g.quantity
			row.Revenue = g.revenue
			row.OrderCount = len(g.orders)
		}
		rows = append(rows, row)
	}

	return rows, stats
}

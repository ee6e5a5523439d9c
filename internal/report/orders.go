package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"wc-analyzer/internal/models"
)

type ProductTotal struct {
	ProductID int64
	Name      string
	Quantity  int
}

// TotalizeOrders sums quantities per product across every order, highest
// first.
func TotalizeOrders(orders []models.Order) []ProductTotal {
	totals := make(map[int64]*ProductTotal)
	for _, order := range orders {
		for _, item := range order.LineItems {
			if item.ProductID == 0 {
				continue
			}
			t, exists := totals[item.ProductID]
			if !exists {
				t = &ProductTotal{ProductID: item.ProductID}
				totals[item.ProductID] = t
			}
			t.Name = item.Name
			t.Quantity += item.Quantity
		}
	}

	list := make([]ProductTotal, 0, len(totals))
	for _, t := range totals {
		list = append(list, *t)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Quantity != list[j].Quantity {
			return list[i].Quantity > list[j].Quantity
		}
		return list[i].ProductID < list[j].ProductID
	})
	return list
}

// WriteOrdersReport writes the per-order Markdown report: every order with
// its line items, then the per-product totalization.
func WriteOrdersReport(orders []models.Order, periodDays int, path string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "# Orders Report\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Period:** last %d days\n\n", periodDays)

	fmt.Fprintf(&b, "## Orders\n\n")
	for _, order := range orders {
		fmt.Fprintf(&b, "### Order #%d - %s (%s)\n\n", order.ID, order.DateCreated, order.Status)
		for _, item := range order.LineItems {
			fmt.Fprintf(&b, "- %s (ID: %d) - quantity: %d\n", item.Name, item.ProductID, item.Quantity)
		}
		fmt.Fprintf(&b, "\n")
	}

	fmt.Fprintf(&b, "## Product totals across all orders\n\n")
	for _, t := range TotalizeOrders(orders) {
		fmt.Fprintf(&b, "- %s (ID: %d) - total: %d\n", t.Name, t.ProductID, t.Quantity)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

package report

import (
	"os"
	"path/filepath"
	"testing"

	"wc-analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrders() []models.Order {
	return []models.Order{
		{
			ID:          101,
			Status:      "completed",
			DateCreated: "2026-08-20T10:00:00",
			LineItems: []models.SaleLineItem{
				{ProductID: 1, Name: "Lamp", Quantity: 2},
				{ProductID: 2, Name: "Chair", Quantity: 1},
			},
		},
		{
			ID:          102,
			Status:      "processing",
			DateCreated: "2026-08-21T11:00:00",
			LineItems: []models.SaleLineItem{
				{ProductID: 1, Name: "Lamp", Quantity: 3},
				{ProductID: 0, Name: "Deleted thing", Quantity: 9},
			},
		},
	}
}

func TestTotalizeOrders(t *testing.T) {
	totals := TotalizeOrders(sampleOrders())

	require.Len(t, totals, 2, "line items without a product id are dropped")
	assert.Equal(t, ProductTotal{ProductID: 1, Name: "Lamp", Quantity: 5}, totals[0])
	assert.Equal(t, ProductTotal{ProductID: 2, Name: "Chair", Quantity: 1}, totals[1])
}

func TestTotalizeOrdersTieBreaksOnID(t *testing.T) {
	orders := []models.Order{{
		ID: 1,
		LineItems: []models.SaleLineItem{
			{ProductID: 7, Name: "B", Quantity: 2},
			{ProductID: 3, Name: "A", Quantity: 2},
		},
	}}

	totals := TotalizeOrders(orders)
	require.Len(t, totals, 2)
	assert.Equal(t, int64(3), totals[0].ProductID)
	assert.Equal(t, int64(7), totals[1].ProductID)
}

func TestTotalizeOrdersEmpty(t *testing.T) {
	assert.Empty(t, TotalizeOrders(nil))
}

func TestWriteOrdersReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.md")

	require.NoError(t, WriteOrdersReport(sampleOrders(), 30, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "last 30 days")
	assert.Contains(t, text, "### Order #101 - 2026-08-20T10:00:00 (completed)")
	assert.Contains(t, text, "- Lamp (ID: 1) - quantity: 2")
	assert.Contains(t, text, "- Lamp (ID: 1) - total: 5")
}

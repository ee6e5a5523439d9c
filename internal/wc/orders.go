package wc

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"wc-analyzer/internal/models"
)

type wcOrder struct {
	ID          int64        `json:"id"`
	Status      string       `json:"status"`
	DateCreated string       `json:"date_created"`
	LineItems   []wcLineItem `json:"line_items"`
}

type wcLineItem struct {
	ProductID int64       `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Price     interface{} `json:"price"`
	Total     interface{} `json:"total"`
}

// FetchOrders extracts every order inside the lookback window, one pass per
// configured sale status, and flattens them into line items. An order carries
// exactly one status at fetch time, so concatenating across statuses cannot
// duplicate it. A status whose pagination dies past the retry budget is
// abandoned with its partial results; the remaining statuses are still
// fetched.
func (c *Client) FetchOrders(ctx context.Context) []models.SaleLineItem {
	after := c.lookbackBound()

	var items []models.SaleLineItem
	for _, status := range c.cfg.ValidStatuses {
		log.Printf("[wc] extracting orders with status %q", status)
		raw, state := c.fetchCollection(ctx, "orders", map[string]string{
			"after":  after,
			"status": status,
		})
		if state == stateExhausted {
			log.Printf("[wc] order extraction for status %q incomplete, keeping %d raw records", status, len(raw))
		}

		for _, r := range raw {
			order, err := decodeOrder(r)
			if err != nil {
				log.Printf("[wc] skipping malformed order record: %v", err)
				continue
			}
			items = append(items, order.LineItems...)
		}
	}

	log.Printf("[wc] extracted %d sale line items", len(items))
	return items
}

// FetchRawOrders returns whole orders for the per-order report mode.
func (c *Client) FetchRawOrders(ctx context.Context) []models.Order {
	after := c.lookbackBound()

	var orders []models.Order
	for _, status := range c.cfg.ValidStatuses {
		log.Printf("[wc] extracting orders with status %q", status)
		raw, _ := c.fetchCollection(ctx, "orders", map[string]string{
			"after":  after,
			"status": status,
		})
		for _, r := range raw {
			order, err := decodeOrder(r)
			if err != nil {
				log.Printf("[wc] skipping malformed order record: %v", err)
				continue
			}
			orders = append(orders, *order)
		}
	}
	return orders
}

func (c *Client) lookbackBound() string {
	return time.Now().AddDate(0, 0, -c.cfg.LookbackDays).Format("2006-01-02T15:04:05")
}

func decodeOrder(r json.RawMessage) (*models.Order, error) {
	var o wcOrder
	if err := json.Unmarshal(r, &o); err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:          o.ID,
		Status:      o.Status,
		DateCreated: o.DateCreated,
		LineItems:   make([]models.SaleLineItem, 0, len(o.LineItems)),
	}
	for _, li := range o.LineItems {
		order.LineItems = append(order.LineItems, models.SaleLineItem{
			ProductID: li.ProductID,
			Name:      li.Name,
			Quantity:  li.Quantity,
			UnitPrice: toFloat(li.Price),
			Total:     toFloat(li.Total),
			OrderID:   o.ID,
			OrderDate: o.DateCreated,
			Status:    o.Status,
		})
	}
	return order, nil
}

package wc

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"strings"

	"wc-analyzer/internal/models"
)

type wcProduct struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	SKU           string      `json:"sku"`
	RegularPrice  interface{} `json:"regular_price"`
	SalePrice     interface{} `json:"sale_price"`
	StockQuantity interface{} `json:"stock_quantity"`
	DateCreated   string      `json:"date_created"`
	Categories    []struct {
		Name string `json:"name"`
	} `json:"categories"`
	MetaData []wcMeta `json:"meta_data"`
}

type wcMeta struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// FetchProducts extracts the whole catalog. On retry exhaustion the products
// collected so far are returned; the caller decides whether a partial (or
// empty) catalog is usable.
func (c *Client) FetchProducts(ctx context.Context) []models.Product {
	raw, state := c.fetchCollection(ctx, "products", nil)
	if state == stateExhausted {
		log.Printf("[wc] product extraction incomplete, keeping %d raw records", len(raw))
	}

	products := make([]models.Product, 0, len(raw))
	for _, r := range raw {
		var p wcProduct
		if err := json.Unmarshal(r, &p); err != nil {
			log.Printf("[wc] skipping malformed product record: %v", err)
			continue
		}
		products = append(products, p.toModel(c.cfg.VisitMetaKeys))
	}

	log.Printf("[wc] extracted %d products", len(products))
	return products
}

func (p *wcProduct) toModel(visitKeys []string) models.Product {
	categories := make([]string, 0, len(p.Categories))
	for _, cat := range p.Categories {
		categories = append(categories, cat.Name)
	}

	return models.Product{
		ID:           p.ID,
		Name:         p.Name,
		SKU:          p.SKU,
		RegularPrice: toFloat(p.RegularPrice),
		SalePrice:    toFloat(p.SalePrice),
		Stock:        int(toFloat(p.StockQuantity)),
		Categories:   categories,
		DateCreated:  p.DateCreated,
		Visits:       resolveVisits(p.MetaData, visitKeys),
	}
}

// resolveVisits walks the configured meta keys in priority order and returns
// the first parsable counter. Products with no visit-tracking meta (or only
// garbage values) count as never viewed.
func resolveVisits(metas []wcMeta, keys []string) int {
	for _, key := range keys {
		for _, meta := range metas {
			if meta.Key != key {
				continue
			}
			if v, ok := metaInt(meta.Value); ok {
				return v
			}
		}
	}
	return 0
}

func metaInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// toFloat coerces the loosely typed numeric fields the API serves (strings,
// numbers, null) the same way for every caller: unparsable means 0.
func toFloat(value interface{}) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

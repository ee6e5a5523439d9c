package pipeline

import (
	"context"
	"errors"
	"log"

	"wc-analyzer/internal/analysis"
	"wc-analyzer/internal/config"
	"wc-analyzer/internal/models"
	"wc-analyzer/internal/wc"
)

// ErrNoProducts aborts a run before analysis: with an empty catalog there is
// nothing to report on. An empty order set is not an error; the analysis
// proceeds on an all-zero sales baseline.
var ErrNoProducts = errors.New("no products extracted")

// Runner wires extraction and analysis into one pass.
type Runner struct {
	cfg    *config.Config
	client *wc.Client
}

func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		cfg:    cfg,
		client: wc.NewClient(cfg),
	}
}

// SetProgressListener forwards extraction progress to the given callback.
func (r *Runner) SetProgressListener(fn func(wc.ProgressEvent)) {
	r.client.SetProgressListener(fn)
}

// Run executes one full analysis: extract, aggregate, derive, classify,
// build. The returned report is complete and read-only.
func (r *Runner) Run(ctx context.Context) (*models.Report, error) {
	log.Println("extracting products...")
	products := r.client.FetchProducts(ctx)
	if len(products) == 0 {
		return nil, ErrNoProducts
	}

	withVisits := 0
	for _, p := range products {
		if p.Visits > 0 {
			withVisits++
		}
	}
	log.Printf("products with visits: %d, without: %d", withVisits, len(products)-withVisits)

	log.Printf("extracting sales (last %d days)...", r.cfg.LookbackDays)
	items := r.client.FetchOrders(ctx)
	if len(items) == 0 {
		log.Println("no sales in the period, reporting on products only")
	}

	log.Println("analyzing...")
	rows, stats := analysis.Aggregate(products, items)
	if stats.ItemsOrphaned > 0 {
		log.Printf("%d of %d line items reference products missing from the catalog", stats.ItemsOrphaned, stats.ItemsIngested)
	}

	analysis.DeriveMetrics(rows, r.cfg.LookbackDays)
	analysis.Classify(rows, r.cfg)

	return analysis.BuildReport(rows, r.cfg), nil
}

// FetchOrders exposes raw orders for the per-order report mode.
func (r *Runner) FetchOrders(ctx context.Context) []models.Order {
	return r.client.FetchRawOrders(ctx)
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"wc-analyzer/internal/config"
	"wc-analyzer/internal/pipeline"
	"wc-analyzer/internal/report"
	"wc-analyzer/internal/store"
	"wc-analyzer/internal/wc"

	"github.com/joho/godotenv"
)

var (
	days         = flag.Int("days", 0, "lookback window in days (0 = configured default)")
	outputDir    = flag.String("output", ".", "directory for generated report files")
	dbURL        = flag.String("db", "", "database URL for persisting the run (optional)")
	verbose      = flag.Bool("verbose", false, "log every extraction step")
	ordersReport = flag.Bool("orders-report", false, "emit the per-order report instead of the analysis")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if *days > 0 {
		cfg = cfg.WithLookback(*days)
	}
	if *dbURL != "" {
		cfg = cfg.WithDatabaseURL(*dbURL)
	}

	runner := pipeline.NewRunner(cfg)
	if *verbose {
		runner.SetProgressListener(func(ev wc.ProgressEvent) {
			if ev.Filter != "" {
				log.Printf("  %s [%s] page %d: %d records (%s)", ev.Resource, ev.Filter, ev.Page, ev.Records, ev.State)
			} else {
				log.Printf("  %s page %d: %d records (%s)", ev.Resource, ev.Page, ev.Records, ev.State)
			}
		})
	}

	ctx := context.Background()

	if *ordersReport {
		runOrdersReport(ctx, runner, cfg.LookbackDays)
		return
	}

	rep, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoProducts) {
			log.Println("could not extract any products, aborting")
			return
		}
		log.Fatalf("analysis failed: %v", err)
	}

	files, err := report.WriteAll(rep, *outputDir)
	if err != nil {
		log.Fatalf("writing reports failed: %v", err)
	}

	log.Println("reports generated:")
	for _, f := range files {
		log.Printf("  - %s", f)
	}

	if cfg.DatabaseURL != "" {
		st, err := store.Initialize(cfg.DatabaseURL)
		if err != nil {
			log.Printf("skipping run persistence: %v", err)
			return
		}
		run, err := st.SaveRun(rep)
		if err != nil {
			log.Printf("persisting run failed: %v", err)
			return
		}
		log.Printf("run #%d saved", run.ID)
	}
}

func runOrdersReport(ctx context.Context, runner *pipeline.Runner, periodDays int) {
	log.Printf("generating orders report (last %d days)...", periodDays)

	orders := runner.FetchOrders(ctx)
	if len(orders) == 0 {
		log.Println("no orders found in the period")
		return
	}

	path := filepath.Join(*outputDir, fmt.Sprintf("orders_report_%s.md", time.Now().Format("20060102_150405")))
	if err := report.WriteOrdersReport(orders, periodDays, path); err != nil {
		log.Fatalf("writing orders report failed: %v", err)
	}
	log.Printf("orders report generated: %s", path)
}

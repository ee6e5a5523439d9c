package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config carries every tunable for an analysis run. Loaded once, passed by
// pointer, never mutated afterwards.
type Config struct {
	// WooCommerce REST API
	StoreURL       string
	ConsumerKey    string
	ConsumerSecret string
	APIVersion     string
	Timeout        time.Duration

	// Extraction
	PerPage      int
	MaxRetries   int
	PageSleep    time.Duration
	RetrySleep   time.Duration
	LookbackDays int

	// Order statuses that count as a real sale. Stores add custom ones
	// (e.g. ready-for-dispatch), so the list is configurable.
	ValidStatuses []string

	// Meta keys checked in order when resolving product visit counts.
	// Post Views Counter and friends each use their own key.
	VisitMetaKeys []string

	// Anomaly thresholds
	HighVisitsNoSales    int
	LowConversionVisits  int
	HighConversionVisits int
	LowConversionPct     float64
	HighConversionPct    float64
	MinStockNoVisits     int

	// Price opportunity section
	MinSalesPriceOpportunity int
	PriceDiffThresholdPct    float64

	// Dashboard / persistence
	DatabaseURL string
	Port        string
}

func Load() *Config {
	return &Config{
		StoreURL:       getEnv("WC_API_URL", "https://example-store.local"),
		ConsumerKey:    getEnv("WC_CONSUMER_KEY", ""),
		ConsumerSecret: getEnv("WC_CONSUMER_SECRET", ""),
		APIVersion:     getEnv("WC_API_VERSION", "wc/v3"),
		Timeout:        getEnvDuration("WC_TIMEOUT", 30*time.Second),

		PerPage:      getEnvInt("WC_PER_PAGE", 100),
		MaxRetries:   getEnvInt("WC_MAX_RETRIES", 3),
		PageSleep:    getEnvDuration("WC_PAGE_SLEEP", time.Second),
		RetrySleep:   getEnvDuration("WC_RETRY_SLEEP", 5*time.Second),
		LookbackDays: getEnvInt("WC_LOOKBACK_DAYS", 90),

		ValidStatuses: getEnvList("WC_SALE_STATUSES", []string{
			"completed",
			"processing",
			"on-hold",
			"listo-despacho",
			"listo-retiro",
		}),
		VisitMetaKeys: getEnvList("WC_VISIT_META_KEYS", []string{
			"_post_views_count",
			"post_views_count",
			"_eael_post_view_count",
		}),

		HighVisitsNoSales:    getEnvInt("HIGH_VISITS_NO_SALES", 50),
		LowConversionVisits:  getEnvInt("LOW_CONVERSION_VISITS", 20),
		HighConversionVisits: getEnvInt("HIGH_CONVERSION_VISITS", 10),
		LowConversionPct:     getEnvFloat("LOW_CONVERSION_PCT", 2),
		HighConversionPct:    getEnvFloat("HIGH_CONVERSION_PCT", 5),
		MinStockNoVisits:     getEnvInt("MIN_STOCK_NO_VISITS", 5),

		MinSalesPriceOpportunity: getEnvInt("MIN_SALES_PRICE_OPPORTUNITY", 10),
		PriceDiffThresholdPct:    getEnvFloat("PRICE_DIFF_THRESHOLD_PCT", 0.1),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		Port:        getEnv("PORT", "8080"),
	}
}

// WithLookback returns a copy with the lookback window replaced.
func (c *Config) WithLookback(days int) *Config {
	cp := *c
	cp.LookbackDays = days
	return &cp
}

// WithDatabaseURL returns a copy with the database URL replaced.
func (c *Config) WithDatabaseURL(url string) *Config {
	cp := *c
	cp.DatabaseURL = url
	return &cp
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

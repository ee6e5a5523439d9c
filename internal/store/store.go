package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"wc-analyzer/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ErrNoRuns means nothing has been analyzed yet.
var ErrNoRuns = errors.New("no report runs stored")

// Store persists completed report runs for the dashboard.
type Store struct {
	db *gorm.DB
}

func Initialize(databaseURL string) (*Store, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.ReportRun{}); err != nil {
		return nil, fmt.Errorf("migrate report runs: %w", err)
	}

	log.Println("Database initialized successfully")
	return &Store{db: db}, nil
}

// SaveRun persists one completed report with its summary numbers.
func (s *Store) SaveRun(rep *models.Report) (*models.ReportRun, error) {
	payload, err := json.Marshal(rep)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	run := models.ReportRun{
		AnalysisDate:  rep.AnalysisDate,
		PeriodDays:    rep.PeriodDays,
		TotalProducts: rep.Summary.TotalProducts,
		TotalRevenue:  rep.Summary.TotalRevenue,
		UnitsSold:     rep.Summary.TotalUnitsSold,
		TotalVisits:   rep.Summary.TotalVisits,
		ReportJSON:    string(payload),
	}
	if err := s.db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("save report run: %w", err)
	}
	return &run, nil
}

// LatestRun returns the newest stored run.
func (s *Store) LatestRun() (*models.ReportRun, error) {
	var run models.ReportRun
	err := s.db.Order("created_at desc").First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// LatestReport returns the newest stored report, decoded.
func (s *Store) LatestReport() (*models.Report, error) {
	run, err := s.LatestRun()
	if err != nil {
		return nil, err
	}
	var rep models.Report
	if err := json.Unmarshal([]byte(run.ReportJSON), &rep); err != nil {
		return nil, fmt.Errorf("decode stored report: %w", err)
	}
	return &rep, nil
}

// ListRuns returns run headers, newest first.
func (s *Store) ListRuns(limit int) ([]models.ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []models.ReportRun
	err := s.db.
		Select("id", "analysis_date", "period_days", "total_products", "total_revenue", "units_sold", "total_visits", "created_at").
		Order("created_at desc").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}

package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"wc-analyzer/internal/config"
	"wc-analyzer/internal/models"
	"wc-analyzer/internal/pipeline"
	"wc-analyzer/internal/store"
	"wc-analyzer/internal/wc"

	"github.com/gin-gonic/gin"
)

type analysisJob struct {
	Running    bool       `json:"running"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
	Error      string     `json:"error"`
	RunID      uint       `json:"run_id,omitempty"`
}

// APIHandler serves stored reports and drives analysis runs for the
// dashboard.
type APIHandler struct {
	cfg   *config.Config
	store *store.Store
	hub   *Hub

	jobMu sync.Mutex
	job   *analysisJob

	// cache of the last in-process run, usable without a database
	reportMu   sync.RWMutex
	lastReport *models.Report
}

func SetupRoutes(r *gin.RouterGroup, cfg *config.Config, st *store.Store, hub *Hub) *APIHandler {
	handler := &APIHandler{
		cfg:   cfg,
		store: st,
		hub:   hub,
	}

	reports := r.Group("/reports")
	{
		reports.GET("/latest", handler.GetLatestReport)
		reports.GET("/runs", handler.ListRuns)
	}

	analysis := r.Group("/analysis")
	{
		analysis.POST("/run", handler.StartAnalysis)
		analysis.GET("/status", handler.AnalysisStatus)
	}

	return handler
}

// GetLatestReport prefers the in-memory report of the newest run and falls
// back to the database.
func (h *APIHandler) GetLatestReport(c *gin.Context) {
	h.reportMu.RLock()
	rep := h.lastReport
	h.reportMu.RUnlock()

	if rep == nil && h.store != nil {
		stored, err := h.store.LatestReport()
		if err != nil && !errors.Is(err, store.ErrNoRuns) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rep = stored
	}

	if rep == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no report available, trigger an analysis run first"})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *APIHandler) ListRuns(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history requires a database"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	runs, err := h.store.ListRuns(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// StartAnalysis launches one analysis run in the background. A single run at
// a time; a second trigger while one is in flight is rejected.
func (h *APIHandler) StartAnalysis(c *gin.Context) {
	h.jobMu.Lock()
	if h.job != nil && h.job.Running {
		st := *h.job
		h.jobMu.Unlock()
		c.JSON(http.StatusConflict, gin.H{"error": "analysis already running", "status": st})
		return
	}
	job := &analysisJob{Running: true, StartedAt: time.Now()}
	h.job = job
	h.jobMu.Unlock()

	go h.runAnalysis(job)
	c.JSON(http.StatusOK, gin.H{"msg": "started", "status": job})
}

func (h *APIHandler) AnalysisStatus(c *gin.Context) {
	h.jobMu.Lock()
	var st *analysisJob
	if h.job != nil {
		cp := *h.job
		st = &cp
	}
	h.jobMu.Unlock()

	if st == nil {
		c.JSON(http.StatusOK, gin.H{"status": gin.H{"running": false}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": st})
}

func (h *APIHandler) runAnalysis(job *analysisJob) {
	runner := pipeline.NewRunner(h.cfg)
	if h.hub != nil {
		runner.SetProgressListener(func(ev wc.ProgressEvent) {
			h.hub.Broadcast(ev)
		})
	}

	rep, err := runner.Run(context.Background())

	h.jobMu.Lock()
	defer h.jobMu.Unlock()
	now := time.Now()
	job.Running = false
	job.FinishedAt = &now

	if err != nil {
		job.Error = err.Error()
		return
	}

	h.reportMu.Lock()
	h.lastReport = rep
	h.reportMu.Unlock()

	if h.store != nil {
		run, err := h.store.SaveRun(rep)
		if err != nil {
			job.Error = err.Error()
			return
		}
		job.RunID = run.ID
	}
}

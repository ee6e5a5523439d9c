package main

import (
	"log"
	"net/http"

	"wc-analyzer/internal/api"
	"wc-analyzer/internal/config"
	"wc-analyzer/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	// The dashboard works without a database; runs are then only kept in
	// memory.
	var st *store.Store
	if cfg.DatabaseURL != "" {
		var err error
		st, err = store.Initialize(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
	} else {
		log.Println("DATABASE_URL not set, run history disabled")
	}

	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Live extraction progress feed
	hub := api.NewHub()
	r.GET("/ws", hub.Handle)

	// API routes
	apiGroup := r.Group("/api/v1")
	api.SetupRoutes(apiGroup, cfg, st, hub)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/scheduler"
)

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "GreenGenius Backend is running"})
}

func HealthCheck(c *gin.Context) {
	status := http.StatusOK
	database := "ok"

	if err := db.Ping(); err != nil {
		status = http.StatusServiceUnavailable
		database = err.Error()
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"message":   "GreenGenius is running",
		"database":  database,
		"scheduler": scheduler.Status(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/dashboard"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/types"
	"go.uber.org/zap"
)

func SaveGrowthEntry(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	var body types.CreateGrowthEntryRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	entry := models.GrowthEntry{
		PotID:       pot.ID,
		Height:      *body.Height,
		Leaves:      *body.Leaves,
		HealthScore: *body.HealthScore,
		Notes:       body.Notes,
		Timestamp:   time.Now(),
	}

	if err := db.DB.Create(&entry).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save growth entry"})
		return
	}

	broadcastGrowth(pot.ID)

	ctx.JSON(http.StatusCreated, entry)
}

func GetGrowthHistory(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	entries, err := listGrowth(pot.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve growth history"})
		return
	}

	ctx.JSON(http.StatusOK, entries)
}

func GetGrowthSummary(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	entries, err := listGrowth(pot.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve growth history"})
		return
	}

	ctx.JSON(http.StatusOK, dashboard.SummarizeGrowth(entries))
}

func listGrowth(potID string) ([]models.GrowthEntry, error) {
	entries := []models.GrowthEntry{}

	if err := db.DB.Where("pot_id = ?", potID).Order("timestamp ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func broadcastGrowth(potID string) {
	entries, err := listGrowth(potID)

	if err != nil {
		zap.L().Warn("Failed to load growth history for broadcast", zap.String("pot_id", potID), zap.Error(err))
		return
	}

	realtime.Publish(realtime.GrowthTopic(potID), entries)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/sensors"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
)

const defaultHistoryLimit = 50

type SensorController struct {
	Source sensors.Source
}

func NewSensorController(source sensors.Source) *SensorController {
	return &SensorController{Source: source}
}

// GetStatus reads the default device.
func (c *SensorController) GetStatus(ctx *gin.Context) {
	status, err := c.Source.Read(ctx.Request.Context(), "")

	if err != nil {
		zap.L().Error("Failed to read sensors", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, status)
}

func (c *SensorController) GetPotStatus(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	status, err := c.Source.Read(ctx.Request.Context(), pot.ID)

	if err != nil {
		zap.L().Error("Failed to read sensors", zap.String("pot_id", pot.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, status)
}

func SaveSensorReading(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	var body types.CreateSensorReadingRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reading := models.SensorReading{
		PotID:        pot.ID,
		Temperature:  *body.Temperature,
		Humidity:     *body.Humidity,
		Light:        *body.Light,
		SoilMoisture: *body.SoilMoisture,
		Timestamp:    time.Now(),
	}

	if err := db.DB.Create(&reading).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save reading"})
		return
	}

	ctx.JSON(http.StatusCreated, reading)
}

func GetSensorHistory(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	var readings []models.SensorReading

	err := db.DB.Where("pot_id = ?", pot.ID).
		Order("timestamp DESC").
		Limit(utils.GetLimit(ctx, defaultHistoryLimit)).
		Find(&readings).Error

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve readings"})
		return
	}

	ctx.JSON(http.StatusOK, readings)
}

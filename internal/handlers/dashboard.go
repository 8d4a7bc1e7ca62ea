package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/internal/dashboard"
	"github.com/greengenius/greengenius/internal/scheduler"
	"github.com/greengenius/greengenius/internal/sensors"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
	"go.uber.org/zap"
)

type DashboardResponse struct {
	Pot         types.PotResponse             `json:"pot"`
	Status      *types.SensorStatus           `json:"status"`
	Metrics     dashboard.RingMetrics         `json:"metrics"`
	Analysis    *types.AnalysisResult         `json:"analysis"`
	Environment []dashboard.EnvironmentStatus `json:"environment"`
	Confidence  *dashboard.ConfidenceLevel    `json:"confidence"`
	Growth      dashboard.GrowthSummary       `json:"growth"`
}

type DashboardController struct {
	Source sensors.Source
}

func NewDashboardController(source sensors.Source) *DashboardController {
	return &DashboardController{Source: source}
}

func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	response := DashboardResponse{
		Pot:         potResponse(*pot),
		Metrics:     dashboard.NormalizeMetrics(nil),
		Environment: dashboard.DefaultEnvironment(),
	}

	if plant := response.Pot.PlantData; plant != nil && plant.Confidence != nil {
		level := dashboard.ClassifyConfidence(*plant.Confidence)
		response.Confidence = &level
	}

	status, err := c.Source.Read(ctx.Request.Context(), pot.ID)

	if err != nil {
		zap.L().Warn("Sensor read failed", zap.String("pot_id", pot.ID), zap.Error(err))
	} else {
		reading := status.ToSensorData()
		response.Status = &status
		response.Metrics = dashboard.NormalizeMetrics(&reading)

		if pot.HasPlant() {
			analysis := services.AnalyzeHealth(scheduler.ProfileOf(*pot), status)
			response.Analysis = &analysis
			response.Environment = dashboard.EnvironmentFromAnalysis(&analysis)
		}
	}

	entries, err := listGrowth(pot.ID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve growth history"})
		return
	}

	response.Growth = dashboard.SummarizeGrowth(entries)

	ctx.JSON(http.StatusOK, response)
}

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
)

type analyzeSensorData struct {
	Temperature  *float64 `json:"temperature"`
	Humidity     *float64 `json:"humidity"`
	LightLevel   *float64 `json:"light_level"`
	SoilMoisture *float64 `json:"soil_moisture"`
}

func valueOr(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func AnalyzeHealth(ctx *gin.Context) {
	var body types.AnalyzeRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "sensor_data is required"})
		return
	}

	var sensor analyzeSensorData

	if err := json.Unmarshal(body.SensorData, &sensor); err != nil || sensor.Temperature == nil || sensor.SoilMoisture == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "sensor_data must include temperature and soil_moisture"})
		return
	}

	var profile types.PlantProfile

	if len(body.PlantData) > 0 {
		if err := json.Unmarshal(body.PlantData, &profile); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"detail": "plant_data must be an object"})
			return
		}
	}

	result := services.AnalyzeHealth(profile, types.SensorStatus{
		Temperature:  *sensor.Temperature,
		Humidity:     valueOr(sensor.Humidity),
		LightLevel:   valueOr(sensor.LightLevel),
		SoilMoisture: *sensor.SoilMoisture,
	})
	result.Details.SensorReadings = body.SensorData

	ctx.JSON(http.StatusOK, result)
}

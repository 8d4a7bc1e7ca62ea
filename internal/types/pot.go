package types

import "time"

type SavePotRequest struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" binding:"required"`
	PlantData *PlantData `json:"plantData"`
}

type UpdatePotPlantRequest struct {
	PlantData *PlantData `json:"plantData"`
}

type RenamePotRequest struct {
	Name string `json:"name" binding:"required"`
}

type PotResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	PlantData *PlantData `json:"plantData"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type CreateSensorReadingRequest struct {
	Temperature  *float64 `json:"temperature" binding:"required"`
	Humidity     *float64 `json:"humidity" binding:"required"`
	Light        *float64 `json:"light" binding:"required"`
	SoilMoisture *float64 `json:"soilMoisture" binding:"required"`
}

type CreateGrowthEntryRequest struct {
	Height      *float64 `json:"height" binding:"required"`
	Leaves      *int     `json:"leaves" binding:"required"`
	HealthScore *float64 `json:"healthScore" binding:"required"`
	Notes       string   `json:"notes"`
}

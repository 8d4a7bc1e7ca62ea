package models

import "time"

type SensorReading struct {
	BaseModel

	PotID        string    `gorm:"not null;index;size:64" json:"pot_id"`
	Temperature  float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	Light        float64   `json:"light"`
	SoilMoisture float64   `json:"soilMoisture"`
	Timestamp    time.Time `gorm:"not null;index" json:"timestamp"`
}

package models

import "time"

type GrowthEntry struct {
	BaseModel

	PotID       string    `gorm:"not null;index;size:64" json:"pot_id"`
	Height      float64   `json:"height"`
	Leaves      int       `json:"leaves"`
	HealthScore float64   `json:"healthScore"`
	Notes       string    `json:"notes"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}

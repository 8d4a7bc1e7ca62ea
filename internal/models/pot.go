package models

import (
	"encoding/json"
	"time"

	"github.com/greengenius/greengenius/internal/types"
	"gorm.io/datatypes"
)

type Pot struct {
	ID        string `gorm:"primaryKey;size:64"`
	UserID    uint   `gorm:"not null;index"`
	Name      string `gorm:"not null"`
	Plant     datatypes.JSON
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	// Relationships
	User           User            `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	SensorReadings []SensorReading `gorm:"foreignKey:PotID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	GrowthEntries  []GrowthEntry   `gorm:"foreignKey:PotID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// PlantData decodes the stored plant, returning nil when the pot is empty.
func (p *Pot) PlantData() (*types.PlantData, error) {
	if len(p.Plant) == 0 || string(p.Plant) == "null" {
		return nil, nil
	}

	var plant types.PlantData

	if err := json.Unmarshal(p.Plant, &plant); err != nil {
		return nil, err
	}

	return &plant, nil
}

func (p *Pot) SetPlantData(plant *types.PlantData) error {
	if plant == nil {
		p.Plant = nil
		return nil
	}

	raw, err := json.Marshal(plant.Normalize())

	if err != nil {
		return err
	}

	p.Plant = raw
	return nil
}

// HasPlant reports whether a plant has been assigned to the pot.
func (p *Pot) HasPlant() bool {
	return len(p.Plant) > 0 && string(p.Plant) != "null"
}

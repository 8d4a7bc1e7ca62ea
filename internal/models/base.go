package models

import "time"

// BaseModel is gorm.Model without soft delete, for rows that are removed
// for real (history, memberships, likes).
type BaseModel struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

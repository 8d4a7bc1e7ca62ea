package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Community struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Description string
	ImageURL    string
	Members     int  `gorm:"not null;default:0"`
	CreatedBy   uint `gorm:"not null;index"`
	Admins      datatypes.JSONSlice[uint]
	IsPrivate   bool   `gorm:"default:false"`
	JoinCode    string `gorm:"size:16"`
	Tags        datatypes.JSONSlice[string]

	// Relationships
	Creator          User              `gorm:"foreignKey:CreatedBy;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CommunityMembers []CommunityMember `gorm:"foreignKey:CommunityID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Posts            []Post            `gorm:"foreignKey:CommunityID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsAdmin reports whether userID administers the community.
func (c *Community) IsAdmin(userID uint) bool {
	for _, admin := range c.Admins {
		if admin == userID {
			return true
		}
	}

	return false
}

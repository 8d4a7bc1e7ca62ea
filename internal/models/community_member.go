package models

import "time"

type CommunityMember struct {
	BaseModel

	CommunityID uint      `gorm:"not null;uniqueIndex:idx_community_user"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_community_user"`
	JoinedAt    time.Time `gorm:"not null"`

	// Relationships
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Community Community `gorm:"foreignKey:CommunityID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

package models

import "gorm.io/gorm"

type Post struct {
	gorm.Model

	CommunityID uint   `gorm:"not null;index"`
	UserID      uint   `gorm:"not null;index"`
	Content     string `gorm:"not null"`
	ImageURL    string
	Likes       int `gorm:"not null;default:0"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Comments  []Comment  `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	PostLikes []PostLike `gorm:"foreignKey:PostID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

type PostLike struct {
	BaseModel

	PostID uint `gorm:"not null;uniqueIndex:idx_post_user"`
	UserID uint `gorm:"not null;uniqueIndex:idx_post_user"`
}

type Comment struct {
	gorm.Model

	PostID  uint   `gorm:"not null;index"`
	UserID  uint   `gorm:"not null;index"`
	Content string `gorm:"not null"`

	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

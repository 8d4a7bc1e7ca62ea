package types

import (
	"encoding/json"
	"time"
)

type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	IsPrivate   bool   `json:"isPrivate"`

	// Tags is either a list or a comma separated string.
	Tags json.RawMessage `json:"tags"`
}

// ParseTags accepts a JSON list or a comma separated string.
func (r CreateCommunityRequest) ParseTags() []string {
	tags := []string{}

	if len(r.Tags) == 0 {
		return tags
	}

	var list []string
	if err := json.Unmarshal(r.Tags, &list); err == nil {
		for _, tag := range list {
			tags = append(tags, SplitList(tag)...)
		}
		return tags
	}

	var joined string
	if err := json.Unmarshal(r.Tags, &joined); err == nil {
		tags = append(tags, SplitList(joined)...)
	}

	return tags
}

type JoinCommunityRequest struct {
	JoinCode string `json:"joinCode"`
}

type CommunityResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	Members     int       `json:"members"`
	CreatedBy   uint      `json:"createdBy"`
	Admins      []uint    `json:"admins"`
	IsPrivate   bool      `json:"isPrivate"`
	JoinCode    string    `json:"joinCode,omitempty"`
	Tags        []string  `json:"tags"`
	IsMember    bool      `json:"isMember"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreatePostRequest struct {
	Content  string `json:"content" binding:"required"`
	ImageURL string `json:"imageUrl"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type AuthorResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

type CommentResponse struct {
	ID        uint           `json:"id"`
	PostID    uint           `json:"postId"`
	Author    AuthorResponse `json:"author"`
	Content   string         `json:"content"`
	CreatedAt time.Time      `json:"createdAt"`
}

type PostResponse struct {
	ID          uint              `json:"id"`
	CommunityID uint              `json:"communityId"`
	Author      AuthorResponse    `json:"author"`
	Content     string            `json:"content"`
	ImageURL    string            `json:"imageUrl"`
	Likes       int               `json:"likes"`
	LikedBy     []uint            `json:"likedBy"`
	IsLiked     bool              `json:"isLiked"`
	Comments    []CommentResponse `json:"comments"`
	CreatedAt   time.Time         `json:"createdAt"`
}

type UploadPlantImageRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	PotID       string `json:"pot_id" binding:"required"`
}

type UploadCommunityImageRequest struct {
	ImageBase64   string `json:"image_base64" binding:"required"`
	CommunityName string `json:"community_name" binding:"required"`
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func ListPosts(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok || !canViewFeed(ctx, community, userID) {
		return
	}

	posts, err := listPosts(community.ID, userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	ctx.JSON(http.StatusOK, posts)
}

func CreatePost(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return
	}

	if !isMember(db.DB, community.ID, userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Join the community to post"})
		return
	}

	var body types.CreatePostRequest

	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Post content is required"})
		return
	}

	post := models.Post{
		CommunityID: community.ID,
		UserID:      userID,
		Content:     strings.TrimSpace(body.Content),
		ImageURL:    strings.TrimSpace(body.ImageURL),
	}

	if err := db.DB.Create(&post).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	if err := db.DB.Preload("User").First(&post, post.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		return
	}

	broadcastPosts(community.ID)

	ctx.JSON(http.StatusCreated, postResponse(post, nil, userID))
}

func DeletePost(ctx *gin.Context) {
	userID, community, post, ok := findPost(ctx)

	if !ok {
		return
	}

	if post.UserID != userID && !community.IsAdmin(userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the author or an admin can delete this post"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostLike{}).Error; err != nil {
			return err
		}

		return tx.Unscoped().Delete(post).Error
	})

	if err != nil {
		zap.L().Error("Failed to delete post", zap.Uint("post_id", post.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	broadcastPosts(community.ID)

	ctx.Status(http.StatusNoContent)
}

// ToggleLike likes the post, or removes the like when it already exists.
func ToggleLike(ctx *gin.Context) {
	userID, community, post, ok := findPost(ctx)

	if !ok || !canViewFeed(ctx, community, userID) {
		return
	}

	liked := false
	delta := -1

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ?", post.ID, userID).Delete(&models.PostLike{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			if err := tx.Create(&models.PostLike{PostID: post.ID, UserID: userID}).Error; err != nil {
				return err
			}
			delta = 1
			liked = true
		}

		return tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
	})

	if err != nil {
		zap.L().Error("Failed to toggle like", zap.Uint("post_id", post.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update like"})
		return
	}

	broadcastPosts(community.ID)

	ctx.JSON(http.StatusOK, gin.H{"liked": liked, "likes": post.Likes + delta})
}

func CreateComment(ctx *gin.Context) {
	userID, community, post, ok := findPost(ctx)

	if !ok || !canViewFeed(ctx, community, userID) {
		return
	}

	var body types.CreateCommentRequest

	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}

	comment := models.Comment{
		PostID:  post.ID,
		UserID:  userID,
		Content: strings.TrimSpace(body.Content),
	}

	if err := db.DB.Create(&comment).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}

	if err := db.DB.Preload("User").First(&comment, comment.ID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve comment"})
		return
	}

	broadcastPosts(community.ID)

	ctx.JSON(http.StatusCreated, commentResponse(comment))
}

// canViewFeed answers 403 when the community is private and userID is not
// a member.
func canViewFeed(ctx *gin.Context, community *models.Community, userID uint) bool {
	if !community.IsPrivate || isMember(db.DB, community.ID, userID) {
		return true
	}

	ctx.JSON(http.StatusForbidden, gin.H{"error": "Join the community to see its posts"})
	return false
}

func findPost(ctx *gin.Context) (uint, *models.Community, *models.Post, bool) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return 0, nil, nil, false
	}

	postID, err := utils.GetPostID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, nil, nil, false
	}

	var post models.Post

	if err := db.DB.Where("id = ? AND community_id = ?", postID, community.ID).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve post"})
		}
		return 0, nil, nil, false
	}

	return userID, community, &post, true
}

// listPosts renders the feed newest first. viewerID decides isLiked.
func listPosts(communityID, viewerID uint) ([]types.PostResponse, error) {
	var posts []models.Post

	err := db.DB.Where("community_id = ?", communityID).
		Preload("User").
		Preload("Comments", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }).
		Preload("Comments.User").
		Preload("PostLikes").
		Order("created_at DESC").
		Find(&posts).Error

	if err != nil {
		return nil, err
	}

	response := make([]types.PostResponse, 0, len(posts))

	for _, post := range posts {
		response = append(response, postResponse(post, post.Comments, viewerID))
	}

	return response, nil
}

func broadcastPosts(communityID uint) {
	posts, err := listPosts(communityID, 0)

	if err != nil {
		zap.L().Warn("Failed to load posts for broadcast", zap.Uint("community_id", communityID), zap.Error(err))
		return
	}

	realtime.Publish(realtime.PostsTopic(communityID), posts)
}

func postResponse(post models.Post, comments []models.Comment, viewerID uint) types.PostResponse {
	response := types.PostResponse{
		ID:          post.ID,
		CommunityID: post.CommunityID,
		Author:      authorResponse(post.User),
		Content:     post.Content,
		ImageURL:    post.ImageURL,
		Likes:       post.Likes,
		LikedBy:     make([]uint, 0, len(post.PostLikes)),
		Comments:    make([]types.CommentResponse, 0, len(comments)),
		CreatedAt:   post.CreatedAt,
	}

	for _, like := range post.PostLikes {
		response.LikedBy = append(response.LikedBy, like.UserID)

		if viewerID != 0 && like.UserID == viewerID {
			response.IsLiked = true
		}
	}

	for _, comment := range comments {
		response.Comments = append(response.Comments, commentResponse(comment))
	}

	return response
}

func commentResponse(comment models.Comment) types.CommentResponse {
	return types.CommentResponse{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Author:    authorResponse(comment.User),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

func authorResponse(user models.User) types.AuthorResponse {
	return types.AuthorResponse{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.DisplayName,
	}
}

package handlers

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var defaultCommunityCovers = []string{
	"https://images.unsplash.com/photo-1463320726281-696a485928c7?auto=format&fit=crop&w=800&q=80",
	"https://images.unsplash.com/photo-1459416493396-b6b9372901c0?auto=format&fit=crop&w=800&q=80",
}

var errAlreadyMember = errors.New("already a member")

func CreateCommunity(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body types.CreateCommunityRequest

	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	community := models.Community{
		Name:        strings.TrimSpace(body.Name),
		Description: strings.TrimSpace(body.Description),
		ImageURL:    strings.TrimSpace(body.ImageURL),
		Members:     1,
		CreatedBy:   userID,
		Admins:      datatypes.JSONSlice[uint]{userID},
		IsPrivate:   body.IsPrivate,
		Tags:        datatypes.JSONSlice[string](body.ParseTags()),
	}

	if community.ImageURL == "" {
		community.ImageURL = defaultCommunityCovers[rand.IntN(len(defaultCommunityCovers))]
	}

	if community.IsPrivate {
		if community.JoinCode, err = utils.GenerateJoinCode(); err != nil {
			zap.L().Error("Failed to generate join code", zap.Error(err))
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&community).Error; err != nil {
			return err
		}

		return tx.Create(&models.CommunityMember{
			CommunityID: community.ID,
			UserID:      userID,
			JoinedAt:    time.Now(),
		}).Error
	})

	if err != nil {
		zap.L().Error("Failed to create community", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create community"})
		return
	}

	broadcastCommunities()

	ctx.JSON(http.StatusCreated, communityResponse(community, userID, true))
}

func ListCommunities(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	communities, err := listCommunities(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve communities"})
		return
	}

	ctx.JSON(http.StatusOK, communities)
}

func GetCommunity(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, communityResponse(*community, userID, isMember(db.DB, community.ID, userID)))
}

func JoinCommunity(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return
	}

	var body types.JoinCommunityRequest

	// the body is optional for public communities
	_ = ctx.ShouldBindJSON(&body)

	if community.IsPrivate && !strings.EqualFold(strings.TrimSpace(body.JoinCode), community.JoinCode) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Invalid join code"})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if isMember(tx, community.ID, userID) {
			return errAlreadyMember
		}

		member := models.CommunityMember{
			CommunityID: community.ID,
			UserID:      userID,
			JoinedAt:    time.Now(),
		}

		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		return tx.Model(&models.Community{}).
			Where("id = ?", community.ID).
			UpdateColumn("members", gorm.Expr("members + ?", 1)).Error
	})

	if err != nil && !errors.Is(err, errAlreadyMember) {
		zap.L().Error("Failed to join community", zap.Uint("community_id", community.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join community"})
		return
	}

	if err == nil {
		broadcastCommunities()
	}

	respondWithCommunity(ctx, community.ID, userID)
}

func LeaveCommunity(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("community_id = ? AND user_id = ?", community.ID, userID).Delete(&models.CommunityMember{})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		admins := datatypes.JSONSlice[uint]{}
		for _, admin := range community.Admins {
			if admin != userID {
				admins = append(admins, admin)
			}
		}

		return tx.Model(&models.Community{}).
			Where("id = ?", community.ID).
			UpdateColumns(map[string]interface{}{
				"members": gorm.Expr("CASE WHEN members > 0 THEN members - 1 ELSE 0 END"),
				"admins":  admins,
			}).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Not a member of this community"})
			return
		}
		zap.L().Error("Failed to leave community", zap.Uint("community_id", community.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to leave community"})
		return
	}

	broadcastCommunities()

	respondWithCommunity(ctx, community.ID, userID)
}

func DeleteCommunity(ctx *gin.Context) {
	userID, community, ok := findCommunity(ctx)

	if !ok {
		return
	}

	if !community.IsAdmin(userID) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only admins can delete a community"})
		return
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		return deleteCommunities(tx, community.ID)
	}); err != nil {
		zap.L().Error("Failed to delete community", zap.Uint("community_id", community.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete community"})
		return
	}

	broadcastCommunities()

	ctx.Status(http.StatusNoContent)
}

// WipeAllCommunities removes every community with its members, posts and
// comments, returning how many communities were removed.
func WipeAllCommunities() (int64, error) {
	var ids []uint

	if err := db.DB.Model(&models.Community{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	if len(ids) == 0 {
		return 0, nil
	}

	if err := db.DB.Transaction(func(tx *gorm.DB) error {
		return deleteCommunities(tx, ids...)
	}); err != nil {
		return 0, err
	}

	broadcastCommunities()

	return int64(len(ids)), nil
}

func deleteCommunities(tx *gorm.DB, ids ...uint) error {
	postIDs := tx.Model(&models.Post{}).Unscoped().Select("id").Where("community_id IN ?", ids)

	if err := tx.Unscoped().Where("post_id IN (?)", postIDs).Delete(&models.Comment{}).Error; err != nil {
		return err
	}

	if err := tx.Where("post_id IN (?)", postIDs).Delete(&models.PostLike{}).Error; err != nil {
		return err
	}

	if err := tx.Unscoped().Where("community_id IN ?", ids).Delete(&models.Post{}).Error; err != nil {
		return err
	}

	if err := tx.Where("community_id IN ?", ids).Delete(&models.CommunityMember{}).Error; err != nil {
		return err
	}

	return tx.Unscoped().Where("id IN ?", ids).Delete(&models.Community{}).Error
}

func findCommunity(ctx *gin.Context) (uint, *models.Community, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, nil, false
	}

	communityID, err := utils.GetCommunityID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, nil, false
	}

	var community models.Community

	if err := db.DB.First(&community, communityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Community not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve community"})
		}
		return 0, nil, false
	}

	return userID, &community, true
}

func respondWithCommunity(ctx *gin.Context, communityID, userID uint) {
	var community models.Community

	if err := db.DB.First(&community, communityID).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve community"})
		return
	}

	ctx.JSON(http.StatusOK, communityResponse(community, userID, isMember(db.DB, community.ID, userID)))
}

func isMember(tx *gorm.DB, communityID, userID uint) bool {
	var count int64
	tx.Model(&models.CommunityMember{}).Where("community_id = ? AND user_id = ?", communityID, userID).Count(&count)
	return count > 0
}

// listCommunities renders every community as seen by viewerID. A zero
// viewer sees no join codes and no memberships.
func listCommunities(viewerID uint) ([]types.CommunityResponse, error) {
	var communities []models.Community

	if err := db.DB.Order("created_at DESC").Find(&communities).Error; err != nil {
		return nil, err
	}

	memberOf := map[uint]bool{}

	if viewerID != 0 {
		var ids []uint
		if err := db.DB.Model(&models.CommunityMember{}).Where("user_id = ?", viewerID).Pluck("community_id", &ids).Error; err != nil {
			return nil, err
		}
		for _, id := range ids {
			memberOf[id] = true
		}
	}

	response := make([]types.CommunityResponse, 0, len(communities))

	for _, community := range communities {
		response = append(response, communityResponse(community, viewerID, memberOf[community.ID]))
	}

	return response, nil
}

func broadcastCommunities() {
	communities, err := listCommunities(0)

	if err != nil {
		zap.L().Warn("Failed to load communities for broadcast", zap.Error(err))
		return
	}

	realtime.Publish(realtime.CommunitiesTopic, communities)
}

func communityResponse(c models.Community, viewerID uint, member bool) types.CommunityResponse {
	response := types.CommunityResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Members:     c.Members,
		CreatedBy:   c.CreatedBy,
		Admins:      []uint(c.Admins),
		IsPrivate:   c.IsPrivate,
		Tags:        []string(c.Tags),
		IsMember:    member,
		CreatedAt:   c.CreatedAt,
	}

	if response.Admins == nil {
		response.Admins = []uint{}
	}

	if response.Tags == nil {
		response.Tags = []string{}
	}

	if viewerID != 0 && c.IsAdmin(viewerID) {
		response.JoinCode = c.JoinCode
	}

	return response
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
)

type UploadController struct {
	Images *services.ImageStore
}

func NewUploadController(images *services.ImageStore) *UploadController {
	return &UploadController{Images: images}
}

func (c *UploadController) UploadPlantImage(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body types.UploadPlantImageRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if !ownsPot(userID, body.PotID) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Pot not found"})
		return
	}

	url, err := c.Images.UploadPlantImage(ctx.Request.Context(), userID, body.PotID, body.ImageBase64)
	c.respond(ctx, url, err)
}

func (c *UploadController) UploadCommunityImage(ctx *gin.Context) {
	var body types.UploadCommunityImageRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	url, err := c.Images.UploadCommunityImage(ctx.Request.Context(), body.CommunityName, body.ImageBase64)
	c.respond(ctx, url, err)
}

func (c *UploadController) respond(ctx *gin.Context, url string, err error) {
	switch {
	case errors.Is(err, services.ErrStorageDisabled):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image uploads are not configured"})
	case err != nil:
		zap.L().Error("Image upload failed", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusCreated, gin.H{"url": url})
	}
}

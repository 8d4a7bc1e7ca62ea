package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greengenius/greengenius/internal/dashboard"
	"github.com/greengenius/greengenius/internal/services"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
)

type IdentifyController struct {
	Identifier services.Identifier
	Images     *services.ImageStore
	Publisher  services.Publisher
}

func NewIdentifyController(identifier services.Identifier, images *services.ImageStore, publisher services.Publisher) *IdentifyController {
	if publisher == nil {
		publisher = services.NopPublisher{}
	}

	return &IdentifyController{Identifier: identifier, Images: images, Publisher: publisher}
}

type identifyResult struct {
	*types.IdentifyResponse
	State dashboard.IdentificationState `json:"state"`
}

func (c *IdentifyController) Identify(ctx *gin.Context) {
	var body types.IdentifyRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"detail": "image_base64 is required"})
		return
	}

	resp, err := c.Identifier.Identify(ctx.Request.Context(), utils.StripDataURI(body.ImageBase64))

	if err != nil {
		zap.L().Error("Plant identification failed", zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	// unauthenticated legacy callers get no upload
	userID, _ := utils.GetCurrentUserID(ctx)

	if resp.Identification != nil && userID != 0 && body.PotID != "" && c.Images.Enabled() && ownsPot(userID, body.PotID) {
		url, err := c.Images.UploadPlantImage(ctx.Request.Context(), userID, body.PotID, body.ImageBase64)

		if err != nil {
			zap.L().Warn("Failed to upload plant image (non-critical)", zap.String("pot_id", body.PotID), zap.Error(err))
		} else {
			resp.ImageURL = url
		}
	}

	if resp.Identification != nil {
		event := services.NewEvent(services.EventPlantIdentified, userID, body.PotID, resp.Identification)

		if err := c.Publisher.Publish(ctx.Request.Context(), event); err != nil {
			zap.L().Warn("Failed to publish event", zap.String("type", event.Type), zap.Error(err))
		}
	}

	ctx.JSON(http.StatusOK, identifyResult{
		IdentifyResponse: resp,
		State:            dashboard.ClassifyIdentification(resp, time.Now),
	})
}

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/greengenius/greengenius/db"
	"github.com/greengenius/greengenius/internal/models"
	"github.com/greengenius/greengenius/internal/realtime"
	"github.com/greengenius/greengenius/internal/scheduler"
	"github.com/greengenius/greengenius/internal/types"
	"github.com/greengenius/greengenius/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func SavePot(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body types.SavePotRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	potID := strings.TrimSpace(body.ID)

	if potID == "" {
		potID = uuid.NewString()
	}

	var pot models.Pot
	status := http.StatusOK

	err = db.DB.Where("id = ?", potID).First(&pot).Error

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		pot = models.Pot{ID: potID, UserID: userID}
		status = http.StatusCreated
	case err != nil:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pot"})
		return
	case pot.UserID != userID:
		ctx.JSON(http.StatusConflict, gin.H{"error": "Pot ID already in use"})
		return
	}

	pot.Name = strings.TrimSpace(body.Name)

	if err := pot.SetPlantData(body.PlantData); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant data"})
		return
	}

	if err := db.DB.Save(&pot).Error; err != nil {
		zap.L().Error("Failed to save pot", zap.String("pot_id", potID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save pot"})
		return
	}

	scheduler.UpdatePot(pot)
	broadcastPots(userID)

	ctx.JSON(status, potResponse(pot))
}

func ListPots(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	pots, err := listPots(userID)

	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pots"})
		return
	}

	ctx.JSON(http.StatusOK, pots)
}

func GetPot(ctx *gin.Context) {
	_, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, potResponse(*pot))
}

func UpdatePotPlant(ctx *gin.Context) {
	userID, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	var body types.UpdatePotPlantRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := pot.SetPlantData(body.PlantData); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid plant data"})
		return
	}

	if err := db.DB.Model(pot).Update("plant", pot.Plant).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pot"})
		return
	}

	scheduler.UpdatePot(*pot)
	broadcastPots(userID)

	ctx.JSON(http.StatusOK, potResponse(*pot))
}

func RenamePot(ctx *gin.Context) {
	userID, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	var body types.RenamePotRequest

	if err := ctx.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Name) == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	pot.Name = strings.TrimSpace(body.Name)

	if err := db.DB.Model(pot).Update("name", pot.Name).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pot"})
		return
	}

	broadcastPots(userID)

	ctx.JSON(http.StatusOK, potResponse(*pot))
}

func DeletePot(ctx *gin.Context) {
	userID, pot, ok := findPot(ctx)

	if !ok {
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pot_id = ?", pot.ID).Delete(&models.SensorReading{}).Error; err != nil {
			return err
		}

		if err := tx.Where("pot_id = ?", pot.ID).Delete(&models.GrowthEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(pot).Error
	})

	if err != nil {
		zap.L().Error("Failed to delete pot", zap.String("pot_id", pot.ID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pot"})
		return
	}

	scheduler.RemovePot(pot.ID)
	broadcastPots(userID)

	ctx.Status(http.StatusNoContent)
}

// findPot loads the pot named in the path for the current user, writing the
// error response when it cannot.
func findPot(ctx *gin.Context) (uint, *models.Pot, bool) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, nil, false
	}

	potID, err := utils.GetPotID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, nil, false
	}

	var pot models.Pot

	if err := db.DB.Where("id = ? AND user_id = ?", potID, userID).First(&pot).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Pot not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve pot"})
		}
		return 0, nil, false
	}

	return userID, &pot, true
}

func ownsPot(userID uint, potID string) bool {
	var count int64
	db.DB.Model(&models.Pot{}).Where("id = ? AND user_id = ?", potID, userID).Count(&count)
	return count > 0
}

func listPots(userID uint) ([]types.PotResponse, error) {
	var pots []models.Pot

	if err := db.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&pots).Error; err != nil {
		return nil, err
	}

	response := make([]types.PotResponse, 0, len(pots))

	for _, pot := range pots {
		response = append(response, potResponse(pot))
	}

	return response, nil
}

func broadcastPots(userID uint) {
	pots, err := listPots(userID)

	if err != nil {
		zap.L().Warn("Failed to load pots for broadcast", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	realtime.Publish(realtime.PotsTopic(userID), pots)
}

func potResponse(pot models.Pot) types.PotResponse {
	plant, err := pot.PlantData()

	if err != nil {
		zap.L().Warn("Stored plant data is invalid", zap.String("pot_id", pot.ID), zap.Error(err))
	}

	return types.PotResponse{
		ID:        pot.ID,
		Name:      pot.Name,
		PlantData: plant,
		CreatedAt: pot.CreatedAt,
		UpdatedAt: pot.UpdatedAt,
	}
}

package utils

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

func GetPotID(ctx *gin.Context) (string, error) {
	potID := strings.TrimSpace(ctx.Param("pot_id"))

	if potID == "" {
		return "", errors.New("Pot ID not found")
	}

	return potID, nil
}

func GetCommunityID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "community_id", "Community")
}

func GetPostID(ctx *gin.Context) (uint, error) {
	return getUintParam(ctx, "post_id", "Post")
}

// GetLimit reads the "limit" query parameter, falling back to def for
// missing or non-positive values.
func GetLimit(ctx *gin.Context, def int) int {
	raw := ctx.Query("limit")

	if raw == "" {
		return def
	}

	limit, err := strconv.Atoi(raw)

	if err != nil || limit <= 0 {
		return def
	}

	return limit
}

func getUintParam(ctx *gin.Context, name, label string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, errors.New(label + " ID not found")
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil {
		return 0, errors.New("Invalid " + label + " ID")
	}

	return uint(id), nil
}

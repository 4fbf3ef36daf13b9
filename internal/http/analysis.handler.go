package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/dataset"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func CreateAnalysis(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		type createAnalysisRequest struct {
			DatasetID   uuid.UUID              `json:"dataset_id" binding:"required"`
			QueryText   string                 `json:"query_text"`
			QueryIntent map[string]interface{} `json:"query_intent"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var request createAnalysisRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		// The referenced dataset must belong to the caller; a foreign
		// dataset id reads as not found.
		if _, err := datasets.Get(c.Request.Context(), userID, request.DatasetID); err != nil {
			if errors.Is(err, dataset.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
				return
			}
			ctx.Logger.Error("Failed to get dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dataset"})
			return
		}

		analysis := entity.AnalysisHistory{
			UserID:      userID,
			DatasetID:   request.DatasetID,
			QueryText:   request.QueryText,
			QueryIntent: datatypes.JSONMap(request.QueryIntent),
			Status:      entity.AnalysisStatusPending,
		}
		if err := ctx.DB.Create(&analysis).Error; err != nil {
			ctx.Logger.Error("Failed to create analysis", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analysis"})
			return
		}

		c.JSON(http.StatusCreated, analysis)
	}
}

func ListAnalyses(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		analyses := []entity.AnalysisHistory{}
		if err := ctx.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&analyses).Error; err != nil {
			ctx.Logger.Error("Failed to list analyses", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
			return
		}

		c.JSON(http.StatusOK, analyses)
	}
}

func GetAnalysis(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("analysisID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}

		var analysis entity.AnalysisHistory
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&analysis).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get analysis", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
			return
		}

		c.JSON(http.StatusOK, analysis)
	}
}

func DeleteAnalysis(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("analysisID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}

		var analysis entity.AnalysisHistory
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&analysis).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get analysis", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get analysis"})
			return
		}

		if err := ctx.DB.Delete(&analysis).Error; err != nil {
			ctx.Logger.Error("Failed to delete analysis", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

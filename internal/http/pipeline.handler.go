package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func CreatePipeline(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type createPipelineRequest struct {
			Name           string                 `json:"name" binding:"required"`
			Description    string                 `json:"description"`
			Steps          []interface{}          `json:"steps"`
			SourceDatasets []uuid.UUID            `json:"source_datasets"`
			TargetSchema   map[string]interface{} `json:"target_schema"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var request createPipelineRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		pipeline := entity.TransformationPipeline{
			UserID:       userID,
			Name:         request.Name,
			Description:  request.Description,
			TargetSchema: datatypes.JSONMap(request.TargetSchema),
			Status:       entity.PipelineStatusDraft,
		}
		if request.Steps != nil {
			raw, err := json.Marshal(request.Steps)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid steps"})
				return
			}
			pipeline.Steps = datatypes.JSON(raw)
		}
		if request.SourceDatasets != nil {
			raw, err := json.Marshal(request.SourceDatasets)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source datasets"})
				return
			}
			pipeline.SourceDatasets = datatypes.JSON(raw)
		}

		if err := ctx.DB.Create(&pipeline).Error; err != nil {
			ctx.Logger.Error("Failed to create pipeline", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create pipeline"})
			return
		}

		c.JSON(http.StatusCreated, pipeline)
	}
}

func ListPipelines(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		pipelines := []entity.TransformationPipeline{}
		if err := ctx.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&pipelines).Error; err != nil {
			ctx.Logger.Error("Failed to list pipelines", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list pipelines"})
			return
		}

		c.JSON(http.StatusOK, pipelines)
	}
}

func GetPipeline(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("pipelineID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}

		var pipeline entity.TransformationPipeline
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&pipeline).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get pipeline", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pipeline"})
			return
		}

		c.JSON(http.StatusOK, pipeline)
	}
}

func UpdatePipeline(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type updatePipelineRequest struct {
			Name           *string                `json:"name"`
			Description    *string                `json:"description"`
			Steps          []interface{}          `json:"steps"`
			SourceDatasets []uuid.UUID            `json:"source_datasets"`
			TargetSchema   map[string]interface{} `json:"target_schema"`
			Status         *entity.PipelineStatus `json:"status"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("pipelineID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}

		var request updatePipelineRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		if request.Status != nil && !request.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid pipeline status"})
			return
		}

		var pipeline entity.TransformationPipeline
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&pipeline).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get pipeline", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get pipeline"})
			return
		}

		if request.Name != nil {
			pipeline.Name = *request.Name
		}
		if request.Description != nil {
			pipeline.Description = *request.Description
		}
		if request.Steps != nil {
			raw, err := json.Marshal(request.Steps)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid steps"})
				return
			}
			pipeline.Steps = datatypes.JSON(raw)
		}
		if request.SourceDatasets != nil {
			raw, err := json.Marshal(request.SourceDatasets)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source datasets"})
				return
			}
			pipeline.SourceDatasets = datatypes.JSON(raw)
		}
		if request.TargetSchema != nil {
			pipeline.TargetSchema = datatypes.JSONMap(request.TargetSchema)
		}
		if request.Status != nil {
			pipeline.Status = *request.Status
		}

		if err := ctx.DB.Save(&pipeline).Error; err != nil {
			ctx.Logger.Error("Failed to update pipeline", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pipeline"})
			return
		}

		c.JSON(http.StatusOK, pipeline)
	}
}

func DeletePipeline(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("pipelineID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}

		result := ctx.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.TransformationPipeline{})
		if result.Error != nil {
			ctx.Logger.Error("Failed to delete pipeline", zap.Error(result.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pipeline"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pipeline not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

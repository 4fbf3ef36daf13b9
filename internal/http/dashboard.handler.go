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
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func CreateDashboard(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type createDashboardRequest struct {
			Name        string                 `json:"name" binding:"required"`
			Description string                 `json:"description"`
			Config      map[string]interface{} `json:"config"`
			Layout      map[string]interface{} `json:"layout"`
			IsPublic    bool                   `json:"is_public"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var request createDashboardRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		dashboard := entity.Dashboard{
			UserID:      userID,
			Name:        request.Name,
			Description: request.Description,
			Config:      datatypes.JSONMap(request.Config),
			Layout:      datatypes.JSONMap(request.Layout),
			IsPublic:    request.IsPublic,
		}
		if err := ctx.DB.Create(&dashboard).Error; err != nil {
			ctx.Logger.Error("Failed to create dashboard", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dashboard"})
			return
		}

		c.JSON(http.StatusCreated, dashboard)
	}
}

func ListDashboards(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		dashboards := []entity.Dashboard{}
		if err := ctx.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&dashboards).Error; err != nil {
			ctx.Logger.Error("Failed to list dashboards", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list dashboards"})
			return
		}

		c.JSON(http.StatusOK, dashboards)
	}
}

func GetDashboard(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("dashboardID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}

		var dashboard entity.Dashboard
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&dashboard).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get dashboard", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard"})
			return
		}

		c.JSON(http.StatusOK, dashboard)
	}
}

func UpdateDashboard(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type updateDashboardRequest struct {
			Name        *string                `json:"name"`
			Description *string                `json:"description"`
			Config      map[string]interface{} `json:"config"`
			Layout      map[string]interface{} `json:"layout"`
			IsPublic    *bool                  `json:"is_public"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("dashboardID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}

		var request updateDashboardRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		var dashboard entity.Dashboard
		err = ctx.DB.Where("id = ? AND user_id = ?", id, userID).First(&dashboard).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get dashboard", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dashboard"})
			return
		}

		if request.Name != nil {
			dashboard.Name = *request.Name
		}
		if request.Description != nil {
			dashboard.Description = *request.Description
		}
		if request.Config != nil {
			dashboard.Config = datatypes.JSONMap(request.Config)
		}
		if request.Layout != nil {
			dashboard.Layout = datatypes.JSONMap(request.Layout)
		}
		if request.IsPublic != nil {
			dashboard.IsPublic = *request.IsPublic
		}

		if err := ctx.DB.Save(&dashboard).Error; err != nil {
			ctx.Logger.Error("Failed to update dashboard", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dashboard"})
			return
		}

		c.JSON(http.StatusOK, dashboard)
	}
}

func DeleteDashboard(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("dashboardID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}

		result := ctx.DB.Where("id = ? AND user_id = ?", id, userID).Delete(&entity.Dashboard{})
		if result.Error != nil {
			ctx.Logger.Error("Failed to delete dashboard", zap.Error(result.Error))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dashboard"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dashboard not found"})
			return
		}

		c.Status(http.StatusNoContent)
	}
}

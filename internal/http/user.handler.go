package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func CreateUser(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type createUserRequest struct {
			Email       string                 `json:"email" binding:"required,email"`
			Password    string                 `json:"password" binding:"required,min=8"`
			SkillLevel  entity.SkillLevel      `json:"skill_level"`
			Preferences map[string]interface{} `json:"preferences"`
		}

		var request createUserRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		if request.SkillLevel != "" && !request.SkillLevel.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill level"})
			return
		}

		var existing entity.User
		if err := ctx.DB.Where("email = ?", request.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
			return
		}

		hash, err := utils.HashPassword(request.Password)
		if err != nil {
			ctx.Logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		user := entity.User{
			Email:        request.Email,
			PasswordHash: hash,
			SkillLevel:   request.SkillLevel,
			Preferences:  datatypes.JSONMap(request.Preferences),
			IsActive:     true,
		}
		if err := ctx.DB.Create(&user).Error; err != nil {
			ctx.Logger.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

func GetUserProfile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var user entity.User
		if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
			ctx.Logger.Error("Failed to find user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func UpdateUserProfile(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type updateProfileRequest struct {
			Email       *string                `json:"email"`
			SkillLevel  *entity.SkillLevel     `json:"skill_level"`
			Preferences map[string]interface{} `json:"preferences"`
			IsActive    *bool                  `json:"is_active"`
		}

		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var request updateProfileRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		if request.SkillLevel != nil && !request.SkillLevel.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid skill level"})
			return
		}

		var user entity.User
		if err := ctx.DB.First(&user, "id = ?", userID).Error; err != nil {
			ctx.Logger.Error("Failed to find user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find user"})
			return
		}

		// Only fields present in the request body are applied.
		if request.Email != nil {
			user.Email = *request.Email
		}
		if request.SkillLevel != nil {
			user.SkillLevel = *request.SkillLevel
		}
		if request.Preferences != nil {
			user.Preferences = datatypes.JSONMap(request.Preferences)
		}
		if request.IsActive != nil {
			user.IsActive = *request.IsActive
		}

		if err := ctx.DB.Save(&user).Error; err != nil {
			ctx.Logger.Error("Failed to update user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func Login(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type loginRequest struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}

		var request loginRequest
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		var user entity.User
		if err := ctx.DB.Where("email = ?", request.Email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		if !user.IsActive || !utils.CheckPassword(user.PasswordHash, request.Password) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
			return
		}

		expiry := time.Duration(ctx.Config.JWTExpireMinutes) * time.Minute
		tokenString, err := utils.GenerateJWT([]byte(ctx.Config.JWTSecret), user.ID.String(), expiry)
		if err != nil {
			ctx.Logger.Error("Failed to generate JWT token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"access_token": tokenString,
			"token_type":   "bearer",
			"expires_in":   int(expiry.Seconds()),
		})
	}
}

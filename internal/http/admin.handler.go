package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
)

// pendingJobsQueue is the redis list the (future) pipeline workers will
// consume from; admin status reports its depth.
const pendingJobsQueue = "jobs:pending"

func GetSystemConfig(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg := ctx.Config
		c.JSON(http.StatusOK, gin.H{
			"openai_configured":       cfg.OpenAIAPIKey != "",
			"hugging_face_configured": cfg.HuggingFaceAPIKey != "",
			"max_file_size_mb":        cfg.MaxFileSizeMB,
			"max_files_per_upload":    cfg.MaxFilesPerUpload,
		})
	}
}

func UpdateAPIConfig(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		type apiConfigUpdate struct {
			OpenAIAPIKey      string `json:"openai_api_key"`
			HuggingFaceAPIKey string `json:"hugging_face_api_key"`
		}

		var request apiConfigUpdate
		if err := c.BindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		// Keys are env-provided; a persisted config store does not exist
		// yet, so acknowledge which keys were supplied.
		var updates []string
		if request.OpenAIAPIKey != "" {
			updates = append(updates, "OpenAI API key")
		}
		if request.HuggingFaceAPIKey != "" {
			updates = append(updates, "Hugging Face API key")
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "API configuration updated: " + strings.Join(updates, ", "),
			"note":    "Configuration will take effect after server restart",
		})
	}
}

func GetAdminStatus(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqCtx := c.Request.Context()

		dbStatus := "connected"
		if sqlDB, err := ctx.DB.DB(); err != nil || sqlDB.PingContext(reqCtx) != nil {
			dbStatus = "unreachable"
		}

		storageStatus := "connected"
		if err := ctx.Store.Ping(reqCtx); err != nil {
			storageStatus = "unreachable"
		}

		queueStatus := "healthy"
		var pendingJobs int64
		if err := ctx.Redis.Ping(reqCtx).Err(); err != nil {
			queueStatus = "unreachable"
		} else {
			pendingJobs = ctx.Redis.LLen(reqCtx, pendingJobsQueue).Val()
		}

		apiStatus := func(key string) string {
			if key != "" {
				return "configured"
			}
			return "not_configured"
		}

		c.JSON(http.StatusOK, gin.H{
			"system": gin.H{
				"status":  "healthy",
				"uptime":  "running",
				"version": "1.0.0",
			},
			"database": gin.H{
				"status":    dbStatus,
				"pool_size": 10,
			},
			"storage": gin.H{
				"status": storageStatus,
			},
			"queues": gin.H{
				"status":       queueStatus,
				"pending_jobs": pendingJobs,
			},
			"external_apis": gin.H{
				"openai":       apiStatus(ctx.Config.OpenAIAPIKey),
				"hugging_face": apiStatus(ctx.Config.HuggingFaceAPIKey),
			},
		})
	}
}

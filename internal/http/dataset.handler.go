package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/dataset"
	"github.com/atjgmj/data-intelligence-platform/internal/ingest"
	"github.com/atjgmj/data-intelligence-platform/internal/storage"
	"github.com/atjgmj/data-intelligence-platform/internal/utils"
)

func UploadDataset(ctx *appcontext.Context, ingestSvc *ingest.Service, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get file from request"})
			return
		}

		name := c.PostForm("name")
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing dataset name"})
			return
		}
		description := c.PostForm("description")

		// The size limit is enforced before ingestion so an oversized
		// upload never reaches the object store.
		if file.Size > ctx.Config.MaxFileSizeBytes() {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "File size exceeds maximum limit",
			})
			return
		}

		src, err := file.Open()
		if err != nil {
			ctx.Logger.Error("Failed to open uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open uploaded file"})
			return
		}
		defer src.Close()

		content, err := io.ReadAll(src)
		if err != nil {
			ctx.Logger.Error("Failed to read uploaded file", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read uploaded file"})
			return
		}

		declaredType := file.Header.Get("Content-Type")
		result, err := ingestSvc.Ingest(c.Request.Context(), content, file.Filename, declaredType, userID)
		if err != nil {
			ctx.Logger.Error("Failed to save file to object store", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
			return
		}

		ds, err := datasets.Create(c.Request.Context(), userID, name, description, result)
		if err != nil {
			ctx.Logger.Error("Failed to create dataset record", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create dataset"})
			return
		}

		if ctx.Search != nil {
			if err := ctx.Search.Index(ds); err != nil {
				ctx.Logger.Error("Failed to index dataset", zap.Error(err))
			}
		}

		c.JSON(http.StatusCreated, ds)
	}
}

func ListDatasets(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		list, err := datasets.List(c.Request.Context(), userID)
		if err != nil {
			ctx.Logger.Error("Failed to list datasets", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list datasets"})
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetDataset(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}

		ds, err := datasets.Get(c.Request.Context(), userID, id)
		if errors.Is(err, dataset.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dataset"})
			return
		}

		c.JSON(http.StatusOK, ds)
	}
}

func DownloadDataset(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}

		ds, err := datasets.Get(c.Request.Context(), userID, id)
		if errors.Is(err, dataset.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to get dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get dataset"})
			return
		}

		content, err := ctx.Store.Get(c.Request.Context(), ctx.Config.DatasetsBucket, ds.FilePath)
		if errors.Is(err, storage.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to fetch file from object store", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file"})
			return
		}

		contentType := "application/octet-stream"
		if v, ok := ds.Metadata["detected_type"].(string); ok && v != "" {
			contentType = v
		}
		c.Data(http.StatusOK, contentType, content)
	}
}

func UpdateDataset(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}

		var patch dataset.Patch
		if err := c.BindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to bind request"})
			return
		}

		if patch.Status != nil && !patch.Status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dataset status"})
			return
		}

		ds, err := datasets.Update(c.Request.Context(), userID, id, patch)
		if errors.Is(err, dataset.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to update dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update dataset"})
			return
		}

		if ctx.Search != nil {
			if err := ctx.Search.Index(ds); err != nil {
				ctx.Logger.Error("Failed to index dataset", zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, ds)
	}
}

func DeleteDataset(ctx *appcontext.Context, datasets *dataset.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		id, err := uuid.Parse(c.Param("datasetID"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}

		err = datasets.Delete(c.Request.Context(), userID, id)
		if errors.Is(err, dataset.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dataset not found"})
			return
		}
		if err != nil {
			ctx.Logger.Error("Failed to delete dataset", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete dataset"})
			return
		}

		if ctx.Search != nil {
			if err := ctx.Search.Remove(id); err != nil {
				ctx.Logger.Error("Failed to remove dataset from index", zap.Error(err))
			}
		}

		c.Status(http.StatusNoContent)
	}
}

func SearchDatasets(ctx *appcontext.Context) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := utils.GetUserIDFromClaims(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
			return
		}

		if ctx.Search == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
			return
		}

		hits, err := ctx.Search.Search(userID, query)
		if err != nil {
			ctx.Logger.Error("Failed to perform search", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform search"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": hits})
	}
}

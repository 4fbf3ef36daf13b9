package http

import (
	"github.com/gin-gonic/gin"

	"github.com/atjgmj/data-intelligence-platform/internal/appcontext"
	"github.com/atjgmj/data-intelligence-platform/internal/dataset"
	"github.com/atjgmj/data-intelligence-platform/internal/http/middleware"
	"github.com/atjgmj/data-intelligence-platform/internal/ingest"
)

type APIService struct {
	engine   *gin.Engine
	context  *appcontext.Context
	ingest   *ingest.Service
	datasets *dataset.Manager
}

func NewHTTPService(ctx *appcontext.Context) *APIService {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.TrustedHostMiddleware(ctx.Config))
	engine.Use(middleware.CORSMiddleware(ctx.Config))

	service := &APIService{
		engine:   engine,
		context:  ctx,
		ingest:   ingest.NewService(ctx.Store, ctx.Config.DatasetsBucket),
		datasets: dataset.NewManager(ctx.DB),
	}
	service.setupRoutes()
	return service
}

func (h *APIService) Engine() *gin.Engine {
	return h.engine
}

func (h *APIService) setupRoutes() {
	h.setupAuthRoutes()
	h.setupUserRoutes()
	h.setupDatasetRoutes()
	h.setupAnalysisRoutes()
	h.setupPipelineRoutes()
	h.setupDashboardRoutes()
	h.setupAdminRoutes()

	h.engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}

func (h *APIService) setupAuthRoutes() {
	auth := h.engine.Group("/auth")

	auth.POST("/login", Login(h.context))
}

func (h *APIService) setupUserRoutes() {
	users := h.engine.Group("/users")

	users.POST("/", CreateUser(h.context))
	users.GET("/profile", middleware.JWTAuthMiddleware(h.context), GetUserProfile(h.context))
	users.PUT("/profile", middleware.JWTAuthMiddleware(h.context), UpdateUserProfile(h.context))
}

func (h *APIService) setupDatasetRoutes() {
	datasets := h.engine.Group("/datasets")
	datasets.Use(middleware.JWTAuthMiddleware(h.context))

	datasets.POST("/upload", UploadDataset(h.context, h.ingest, h.datasets))
	datasets.GET("/", ListDatasets(h.context, h.datasets))
	datasets.GET("/search", SearchDatasets(h.context))
	datasets.GET("/:datasetID", GetDataset(h.context, h.datasets))
	datasets.GET("/:datasetID/download", DownloadDataset(h.context, h.datasets))
	datasets.PUT("/:datasetID", UpdateDataset(h.context, h.datasets))
	datasets.DELETE("/:datasetID", DeleteDataset(h.context, h.datasets))
}

func (h *APIService) setupAnalysisRoutes() {
	analyses := h.engine.Group("/analyses")
	analyses.Use(middleware.JWTAuthMiddleware(h.context))

	analyses.POST("/", CreateAnalysis(h.context, h.datasets))
	analyses.GET("/", ListAnalyses(h.context))
	analyses.GET("/:analysisID", GetAnalysis(h.context))
	analyses.DELETE("/:analysisID", DeleteAnalysis(h.context))
}

func (h *APIService) setupPipelineRoutes() {
	pipelines := h.engine.Group("/pipelines")
	pipelines.Use(middleware.JWTAuthMiddleware(h.context))

	pipelines.POST("/", CreatePipeline(h.context))
	pipelines.GET("/", ListPipelines(h.context))
	pipelines.GET("/:pipelineID", GetPipeline(h.context))
	pipelines.PUT("/:pipelineID", UpdatePipeline(h.context))
	pipelines.DELETE("/:pipelineID", DeletePipeline(h.context))
}

func (h *APIService) setupDashboardRoutes() {
	dashboards := h.engine.Group("/dashboards")
	dashboards.Use(middleware.JWTAuthMiddleware(h.context))

	dashboards.POST("/", CreateDashboard(h.context))
	dashboards.GET("/", ListDashboards(h.context))
	dashboards.GET("/:dashboardID", GetDashboard(h.context))
	dashboards.PUT("/:dashboardID", UpdateDashboard(h.context))
	dashboards.DELETE("/:dashboardID", DeleteDashboard(h.context))
}

func (h *APIService) setupAdminRoutes() {
	admin := h.engine.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(h.context), middleware.RequireAdmin(h.context))

	admin.GET("/config", GetSystemConfig(h.context))
	admin.POST("/config/apis", UpdateAPIConfig(h.context))
	admin.GET("/status", GetAdminStatus(h.context))
}

package appcontext

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/atjgmj/data-intelligence-platform/internal/config"
	"github.com/atjgmj/data-intelligence-platform/internal/entity"
	"github.com/atjgmj/data-intelligence-platform/internal/search"
	"github.com/atjgmj/data-intelligence-platform/internal/storage"
)

// Init builds the application context: configuration, logger, database,
// object store, redis and the optional search index.
func Init() (*Context, error) {
	if err := godotenv.Load(); err != nil {
		zap.L().Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := InitLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := InitDB(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.NewMinioStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	store.EnsureBuckets(context.Background())

	redisClient, err := InitRedis(cfg)
	if err != nil {
		return nil, err
	}

	var index *search.DatasetIndex
	if cfg.MeilisearchHost != "" {
		index, err = search.NewDatasetIndex(cfg.MeilisearchHost, cfg.MeilisearchAPIKey)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Warn("MEILISEARCH_HOST not set, dataset search is disabled")
	}

	return &Context{
		DB:     db,
		Logger: logger,
		Config: cfg,
		Store:  store,
		Redis:  redisClient,
		Search: index,
	}, nil
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&entity.User{},
		&entity.Dataset{},
		&entity.AnalysisHistory{},
		&entity.TransformationPipeline{},
		&entity.Dashboard{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func InitLogger(cfg *config.Config) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func InitRedis(cfg *config.Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opt), nil
}

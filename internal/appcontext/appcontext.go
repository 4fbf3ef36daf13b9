package appcontext

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/atjgmj/data-intelligence-platform/internal/config"
	"github.com/atjgmj/data-intelligence-platform/internal/search"
	"github.com/atjgmj/data-intelligence-platform/internal/storage"
)

// Context carries every process-wide dependency, constructed once in
// config.InitContext and passed down explicitly.
type Context struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Config *config.Config

	Store storage.ObjectStore
	Redis *redis.Client

	// Search is nil when MEILISEARCH_HOST is not configured.
	Search *search.DatasetIndex
}

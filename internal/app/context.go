package app

import (
	"log/slog"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-realtime/internal/cache"
	"github.com/oggyb/muzz-realtime/internal/config"
	"github.com/oggyb/muzz-realtime/internal/repository"
)

// AppContext holds shared dependencies (Config, DB, Redis, Logger, Store).
type AppContext struct {
	Config     *config.Config
	DB         *gorm.DB
	Store      *repository.Store
	RedisCache *cache.RedisCache
	Logger     *slog.Logger
}

// New creates a new AppContext. The Store is built on top of db.
func New(cfg *config.Config, db *gorm.DB, rdb *cache.RedisCache, logger *slog.Logger) *AppContext {
	return &AppContext{
		Config:     cfg,
		DB:         db,
		Store:      repository.NewStore(db),
		RedisCache: rdb,
		Logger:     logger,
	}
}

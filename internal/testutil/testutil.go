// Package testutil wires throwaway infrastructure for package tests:
// an isolated in-memory SQLite database, a miniredis instance and a silent logger.
package testutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-realtime/internal/cache"
	"github.com/oggyb/muzz-realtime/internal/config"
	"github.com/oggyb/muzz-realtime/internal/db"
)

var dbSeq atomic.Int64

// NewDB returns a migrated in-memory SQLite database private to the test.
//
// The pool is pinned to a single connection: SQLite allows one writer, and
// concurrent tests would otherwise see "database table is locked" instead of
// exercising the code under test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc:                db.Now,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Migrate(database))
	return database
}

// NewRedis starts a miniredis server and returns a cache bound to it.
func NewRedis(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.Password = ""
	cfg.Redis.DB = 0
	rc := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = rc.Client.Close() })
	return rc, mr
}

// Logger discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Profile is a shorthand used by seeds in tests.
func Profile(username string, interests ...string) db.Profile {
	return db.Profile{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: "x",
		Interests:    interests,
	}
}

// SeedProfiles inserts minimal profiles for the given usernames.
func SeedProfiles(t *testing.T, database *gorm.DB, usernames ...string) {
	t.Helper()
	for _, u := range usernames {
		p := Profile(u)
		require.NoError(t, database.Create(&p).Error)
	}
}

package postgres

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/social-service/internal/cache"
	"github.com/SAP-F-2025/social-service/internal/models"
)

type testEnv struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	cache *cache.CacheManager
	repo  *PostgreSQLRepository
}

// newTestEnv opens an isolated in-memory database with the production schema
// and a miniredis-backed cache.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cm := cache.NewCacheManager(rdb)
	return &testEnv{
		db:    db,
		mr:    mr,
		cache: cm,
		repo:  newRepository(db, rdb, cm, nil),
	}
}

func (e *testEnv) seedProfile(t *testing.T, id, name string) *models.Profile {
	t.Helper()
	p := &models.Profile{ID: id, DisplayName: name, Email: id + "@nova.dev"}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) seedPost(t *testing.T, slug, authorID string) *models.Post {
	t.Helper()
	p := &models.Post{Slug: slug, AuthorID: authorID, Title: slug}
	require.NoError(t, e.db.Create(p).Error)
	return p
}

func (e *testEnv) seedComment(t *testing.T, postID uint, userID, content string, at time.Time) *models.Comment {
	t.Helper()
	c := &models.Comment{PostID: postID, UserID: userID, Content: content, CreatedAt: at}
	require.NoError(t, e.db.Omit("Author").Create(c).Error)
	return c
}

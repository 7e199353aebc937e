package repository

import (
	"fmt"
	"testing"

	"blogonspot/internal/cache"
	"blogonspot/internal/database"
	"blogonspot/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory SQLite database with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// setupTestCache attaches a miniredis-backed cache for the duration of the
// test. Most repository tests run cache-less; the read-through paths need the
// real round-trip.
func setupTestCache(t *testing.T) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
		IsActive: true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, authorID uint, title string, published, public bool) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:       title,
		Content:     "content for " + title,
		AuthorID:    authorID,
		IsPublished: published,
		IsPublic:    public,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

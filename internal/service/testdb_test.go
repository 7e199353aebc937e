package service

import (
	"context"
	"fmt"
	"testing"

	"blogonspot/internal/database"
	"blogonspot/internal/models"
	"blogonspot/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires real repositories over an in-memory SQLite database so the
// services are exercised against actual SQL semantics.
type testEnv struct {
	db     *gorm.DB
	users  repository.UserRepository
	posts  repository.PostRepository
	subs   repository.SubscriptionRepository
	access *AccessPolicy

	userSvc  *UserService
	postSvc  *PostService
	subSvc   *SubscriptionService
	adminSvc *AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	users := repository.NewUserRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)
	subs := repository.NewSubscriptionRepository(db)
	access := NewAccessPolicy(subs)

	postSvc := NewPostService(posts, comments, subs, access)

	return &testEnv{
		db:       db,
		users:    users,
		posts:    posts,
		subs:     subs,
		access:   access,
		userSvc:  NewUserService(users, posts, follows, subs),
		postSvc:  postSvc,
		subSvc:   NewSubscriptionService(subs, users, posts),
		adminSvc: NewAdminService(users, posts, comments, subs, postSvc),
	}
}

func (e *testEnv) createUser(t *testing.T, username string, role models.Role) *models.User {
	t.Helper()

	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.users.Create(context.Background(), user))
	return user
}

func (e *testEnv) createPost(t *testing.T, authorID uint, title string, published, public bool) *models.Post {
	t.Helper()

	post := &models.Post{
		Title:       title,
		Content:     "content of " + title,
		AuthorID:    authorID,
		IsPublished: published,
		IsPublic:    public,
	}
	require.NoError(t, e.db.Create(post).Error)
	return post
}

func viewerOf(u *models.User) Viewer {
	return Viewer{ID: u.ID, Role: u.Role}
}

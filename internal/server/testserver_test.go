package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"blogonspot/internal/ai"
	"blogonspot/internal/config"
	"blogonspot/internal/database"
	"blogonspot/internal/models"
	"blogonspot/internal/repository"
	"blogonspot/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestServer builds a Server over an in-memory database with all routes
// registered. The prometheus middleware is left nil so repeated setups do not
// re-register collectors.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret: "test_secret",
		AdminKey:  "test-admin-key",
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	access := service.NewAccessPolicy(subRepo)
	postSvc := service.NewPostService(postRepo, commentRepo, subRepo, access)

	s := &Server{
		config:      cfg,
		db:          db,
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
		subRepo:     subRepo,
		access:      access,
		userSvc:     service.NewUserService(userRepo, postRepo, followRepo, subRepo),
		postSvc:     postSvc,
		subSvc:      service.NewSubscriptionService(subRepo, userRepo, postRepo),
		adminSvc:    service.NewAdminService(userRepo, postRepo, commentRepo, subRepo, postSvc),
		aiClient:    ai.NewClient(""),
	}

	app := fiber.New()
	s.SetupRoutes(app)
	return s, app
}

// createTestUser inserts a user with a bcrypt password of "password123" and
// returns the record plus a valid bearer token.
func createTestUser(t *testing.T, s *Server, username string, role models.Role) (*models.User, string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, s.userRepo.Create(t.Context(), user))

	token, err := s.generateToken(user)
	require.NoError(t, err)
	return user, token
}

// createTestPost inserts a post directly through the repository.
func createTestPost(t *testing.T, s *Server, authorID uint, title string, isPublic, isPublished bool) *models.Post {
	t.Helper()

	post := &models.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "content of " + title,
		IsPublic:    isPublic,
		IsPublished: isPublished,
	}
	require.NoError(t, s.postRepo.Create(t.Context(), post))
	return post
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decodeBody unmarshals the response body into a generic map.
func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// Package server contains the HTTP layer: route wiring, auth middleware and
// request handlers.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"blogonspot/internal/ai"
	"blogonspot/internal/cache"
	"blogonspot/internal/config"
	"blogonspot/internal/database"
	"blogonspot/internal/middleware"
	"blogonspot/internal/models"
	"blogonspot/internal/repository"
	"blogonspot/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	tokenIssuer   = "blogonspot-api"
	tokenAudience = "blogonspot-client"
	tokenTTL      = 24 * time.Hour
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
	subRepo     repository.SubscriptionRepository

	access   *service.AccessPolicy
	userSvc  *service.UserService
	postSvc  *service.PostService
	subSvc   *service.SubscriptionService
	adminSvc *service.AdminService

	aiClient *ai.Client
}

// NewServer creates a server instance, establishing the database and Redis
// connections itself.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient(), ai.NewClient(cfg.GeminiAPIKey)), nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests and bootstrap layers use this to inject their own DB, Redis and AI
// client.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, aiClient *ai.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	followRepo := repository.NewFollowRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	access := service.NewAccessPolicy(subRepo)
	postSvc := service.NewPostService(postRepo, commentRepo, subRepo, access)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("blogonspot-api"),
		userRepo:       userRepo,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		followRepo:     followRepo,
		subRepo:        subRepo,
		access:         access,
		userSvc:        service.NewUserService(userRepo, postRepo, followRepo, subRepo),
		postSvc:        postSvc,
		subSvc:         service.NewSubscriptionService(subRepo, userRepo, postRepo),
		adminSvc:       service.NewAdminService(userRepo, postRepo, commentRepo, subRepo, postSvc),
		aiClient:       aiClient,
	}
	return s
}

// SetupMiddleware configures the middleware stack for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())
	app.Use(middleware.TracingMiddleware())

	// CORS before anything that can short-circuit so error responses still
	// carry CORS headers.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global per-IP rate limit.
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes. Paths are part of the public contract
// and must stay stable.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// User routes: auth, profiles and per-user actions.
	user := api.Group("/user")
	user.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	user.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	user.Get("/profile/:id", s.GetProfile)
	user.Put("/edit/:id", s.AuthRequired(), s.EditProfile)
	user.Post("/post", s.AuthRequired(), s.CreatePost)
	user.Post("/like/:postId", s.AuthRequired(), s.LikePost)
	user.Delete("/like/:postId", s.AuthRequired(), s.UnlikePost)
	user.Get("/bookmarks", s.AuthRequired(), s.GetBookmarks)
	user.Post("/bookmarks/:postId", s.AuthRequired(), s.AddBookmark)
	user.Delete("/bookmarks/:postId", s.AuthRequired(), s.RemoveBookmark)
	user.Post("/comment/:postId", s.AuthRequired(), s.AddComment)
	user.Delete("/comment/:postId/:commentId", s.AuthRequired(), s.DeleteComment)
	user.Post("/follow/:targetUserId", s.AuthRequired(), s.FollowUser)
	user.Post("/unfollow/:targetUserId", s.AuthRequired(), s.UnfollowUser)

	// Public user search.
	api.Get("/users", s.SearchUsers)

	// Public post browsing. Specific routes before the generic /:id.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(s.redis, 10, time.Minute, "search"), s.SearchPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	// Subscription routes.
	sub := api.Group("/subscription")
	sub.Get("/creators", s.GetCreators)
	sub.Post("/subscribe/:creatorId", s.AuthRequired(), s.Subscribe)
	sub.Delete("/unsubscribe/:creatorId", s.AuthRequired(), s.Unsubscribe)
	sub.Get("/content", s.AuthRequired(), s.GetContentFeed)
	sub.Get("/my-subscriptions", s.AuthRequired(), s.GetMySubscriptions)
	sub.Get("/creator/:creatorId/content", s.AuthRequired(), s.GetCreatorContent)
	sub.Put("/update-creator-profile", s.AuthRequired(), s.UpdateCreatorProfile)

	// Admin routes.
	admin := api.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.Get("/dashboard", s.AdminDashboard)
	admin.Get("/users", s.AdminListUsers)
	admin.Put("/users/:id/ban", s.BanUser)
	admin.Put("/users/:id/unban", s.UnbanUser)
	admin.Delete("/posts/:id", s.AdminDeletePost)
	admin.Delete("/deletecomment/:blogId/:commentId", s.AdminDeleteComment)
	admin.Get("/create-content", s.AdminListContent)
	admin.Post("/create-content", s.AdminCreateContent)
	admin.Put("/verify-creator/:userId", s.VerifyCreator)
	admin.Put("/unverify-creator/:userId", s.UnverifyCreator)
	admin.Get("/creators", s.AdminListCreators)

	// Plagiarism and AI routes; unauthenticated but rate limited.
	plag := api.Group("/plagiarism")
	plag.Post("/check", middleware.RateLimit(s.redis, 10, time.Minute, "plagiarism_check"), s.PlagiarismCheck)
	plag.Post("/assess", middleware.RateLimit(s.redis, 5, time.Minute, "plagiarism_assess"), s.AssessOriginality)

	api.Post("/summarize", middleware.RateLimit(s.redis, 10, time.Minute, "summarize"), s.Summarize)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports database and Redis health.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app degrades without Redis (no cache, no per-endpoint rate
		// limits) but stays functional.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired validates the bearer token and re-resolves the account on
// every request, so a ban takes effect immediately regardless of outstanding
// tokens.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := bearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid or expired token"))
		}

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return respondError(c, err)
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Account is disabled"))
		}

		c.Locals("userID", user.ID)
		c.Locals("userRole", user.Role)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired rejects non-admin callers. Must run after AuthRequired.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("userRole").(models.Role)
		if role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Access denied. Admins only."))
		}
		return c.Next()
	}
}

// viewer returns the authenticated caller's identity from locals.
func (s *Server) viewer(c *fiber.Ctx) service.Viewer {
	id, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("userRole").(models.Role)
	return service.Viewer{ID: id, Role: role}
}

// optionalViewer resolves the caller on endpoints where auth is optional. A
// missing or invalid token yields the anonymous viewer; a valid token for a
// disabled account is rejected.
func (s *Server) optionalViewer(c *fiber.Ctx) (service.Viewer, error) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return service.Viewer{}, nil
	}

	userID, err := s.parseToken(tokenString)
	if err != nil {
		return service.Viewer{}, nil
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return service.Viewer{}, nil
	}
	if !user.IsActive {
		return service.Viewer{}, models.NewForbiddenError("Account is disabled")
	}
	return service.Viewer{ID: user.ID, Role: user.Role}, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// parseToken validates signature, expiry, issuer and audience and returns
// the subject user ID.
func (s *Server) parseToken(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return []byte(s.config.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithAudience(tokenAudience))
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return uint(userID), nil
}

// generateToken issues a signed bearer token for the user.
func (s *Server) generateToken(user *models.User) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(user.ID), 10),
		"role": string(user.Role),
		"iss":  tokenIssuer,
		"aud":  tokenAudience,
		"exp":  now.Add(tokenTTL).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// Start runs the HTTP server until Shutdown.
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "BlogOnSpot API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	middleware.Logger.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully stops the server and closes connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			middleware.Logger.Error("error shutting down HTTP server", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			middleware.Logger.Error("error closing redis", "error", rerr)
		}
	}

	middleware.Logger.Info("server shutdown complete")
	return nil
}

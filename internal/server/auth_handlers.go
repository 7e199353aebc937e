package server

import (
	"strings"
	"time"

	"blogonspot/internal/middleware"
	"blogonspot/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// SignupRequest represents the signup request body.
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	AdminKey string `json:"adminKey"`
}

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the shared response shape for signup and login.
type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

// Signup handles user registration. An admin account additionally requires
// the server's admin key in the request body.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email and password are required"))
	}
	if len(req.Username) > 30 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username too long (max 30 characters)"))
	}
	if !strings.Contains(req.Email, "@") {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid email address"))
	}
	if len(req.Password) < 6 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Password must be at least 6 characters"))
	}

	role := models.RoleUser
	if req.Role == string(models.RoleAdmin) {
		if req.AdminKey == "" || req.AdminKey != s.config.AdminKey {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Invalid admin key"))
		}
		role = models.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
		LastLogin: time.Now(),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user registered",
		"user_id", user.ID, "role", user.Role)

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Message: "Signup successful",
		Token:   token,
		User:    user,
	})
}

// Login authenticates by email and password. Wrong email and wrong password
// produce the same response so the endpoint does not leak which emails exist.
func (s *Server) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return respondError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid email or password"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid email or password"))
	}
	if !user.IsActive {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Account is disabled"))
	}

	user.LastLogin = time.Now()
	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondError(c, err)
	}

	token, err := s.generateToken(user)
	if err != nil {
		return respondError(c, models.NewInternalError(err))
	}

	middleware.Logger.InfoContext(c.UserContext(), "user logged in", "user_id", user.ID)

	user.Password = ""
	return c.JSON(AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

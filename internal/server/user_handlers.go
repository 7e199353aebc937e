package server

import (
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile returns a user's public profile with the derived relationship
// sets. No auth required.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userSvc.GetProfile(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// EditProfileRequest represents the profile update body. All fields are
// optional; empty values leave the current value unchanged.
type EditProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

// EditProfile updates the caller's profile. Admins may edit any profile.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req EditProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userSvc.UpdateProfile(c.Context(), service.UpdateProfileInput{
		Viewer:   s.viewer(c),
		TargetID: targetID,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondError(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    user,
	})
}

// FollowUser adds the caller as a follower of the target user.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetUserId")
	if err != nil {
		return nil
	}

	if err := s.userSvc.Follow(c.Context(), s.viewer(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Followed successfully"})
}

// UnfollowUser removes the caller from the target user's followers.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "targetUserId")
	if err != nil {
		return nil
	}

	if err := s.userSvc.Unfollow(c.Context(), s.viewer(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed successfully"})
}

// SearchUsers finds active accounts by username or email fragment.
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("search"))
	if query == "" {
		query = strings.TrimSpace(c.Query("q"))
	}
	p := parsePagination(c, 20)

	users, err := s.userSvc.SearchUsers(c.Context(), query, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{"users": users})
}

// GetBookmarks returns the caller's bookmarked posts, filtered to those the
// caller may still view.
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	posts, err := s.postSvc.Bookmarks(c.Context(), s.viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarks": posts})
}

// AddBookmark adds a post to the caller's bookmark set. Idempotent.
func (s *Server) AddBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postSvc.Bookmark(c.Context(), s.viewer(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Post bookmarked"})
}

// RemoveBookmark removes a post from the caller's bookmark set. Idempotent.
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	if err := s.postSvc.Unbookmark(c.Context(), s.viewer(c), postID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Bookmark removed"})
}

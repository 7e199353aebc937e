package server

import (
	"strings"

	"blogonspot/internal/middleware"
	"blogonspot/internal/models"
	"blogonspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AdminDashboard returns platform-wide counts plus recent signups and posts.
func (s *Server) AdminDashboard(c *fiber.Ctx) error {
	stats, err := s.adminSvc.Dashboard(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}

// AdminListUsers lists all accounts, paginated.
func (s *Server) AdminListUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	users, err := s.adminSvc.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(fiber.Map{"users": users})
}

// BanUser disables an account. Existing tokens stop working on the next
// request since auth re-resolves the account.
func (s *Server) BanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.adminSvc.BanUser(c.Context(), targetID)
	if err != nil {
		return respondError(c, err)
	}

	adminID, _ := c.Locals("userID").(uint)
	middleware.Logger.InfoContext(c.UserContext(), "user banned",
		"admin_id", adminID, "user_id", user.ID)

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "User banned",
		"user":    user,
	})
}

// UnbanUser re-enables a disabled account.
func (s *Server) UnbanUser(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.adminSvc.UnbanUser(c.Context(), targetID)
	if err != nil {
		return respondError(c, err)
	}

	adminID, _ := c.Locals("userID").(uint)
	middleware.Logger.InfoContext(c.UserContext(), "user unbanned",
		"admin_id", adminID, "user_id", user.ID)

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "User unbanned",
		"user":    user,
	})
}

// AdminDeletePost removes a post and its comments, likes and bookmarks.
func (s *Server) AdminDeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.adminSvc.DeletePost(c.Context(), postID); err != nil {
		return respondError(c, err)
	}

	adminID, _ := c.Locals("userID").(uint)
	middleware.Logger.InfoContext(c.UserContext(), "post deleted by admin",
		"admin_id", adminID, "post_id", postID)

	return c.JSON(fiber.Map{"message": "Post deleted"})
}

// AdminDeleteComment removes any comment from a post.
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "blogId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.adminSvc.DeleteComment(c.Context(), postID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

// AdminListContent lists recent published posts across all creators.
func (s *Server) AdminListContent(c *fiber.Ctx) error {
	p := parsePagination(c, 50)

	posts, err := s.adminSvc.AdminContent(c.Context(), p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// AdminCreateContent publishes a post authored by the calling admin.
func (s *Server) AdminCreateContent(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	adminID, _ := c.Locals("userID").(uint)
	post, err := s.adminSvc.CreateContent(c.Context(), adminID, service.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Content created",
		"post":    post,
	})
}

// VerifyCreator marks a creator as verified.
func (s *Server) VerifyCreator(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.adminSvc.VerifyCreator(c.Context(), targetID)
	if err != nil {
		return respondError(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Creator verified",
		"user":    user,
	})
}

// UnverifyCreator removes a creator's verified badge.
func (s *Server) UnverifyCreator(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	user, err := s.adminSvc.UnverifyCreator(c.Context(), targetID)
	if err != nil {
		return respondError(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Creator verification removed",
		"user":    user,
	})
}

// AdminListCreators lists creators for moderation, with subscriber counts.
func (s *Server) AdminListCreators(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("search"))
	p := parsePagination(c, 50)

	creators, err := s.adminSvc.ListCreators(c.Context(), query, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"creators": creators})
}

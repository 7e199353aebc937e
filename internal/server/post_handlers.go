package server

import (
	"strconv"
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest represents the post creation body.
type CreatePostRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	IsPublic *bool    `json:"is_public"`
}

// CreatePost publishes a new post for the authenticated caller.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := c.Locals("userID").(uint)
	post, err := s.postSvc.CreatePost(c.Context(), service.CreatePostInput{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Post created",
		"post":    post,
	})
}

// GetPosts lists published public posts, newest first. ?author= and
// ?search= narrow the listing but never widen it past public posts.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	var authorID uint
	if raw := c.Query("author"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid author ID"))
		}
		authorID = uint(id)
	}

	posts, err := s.postSvc.ListPosts(c.Context(), service.ListPostsInput{
		AuthorID: authorID,
		Search:   strings.TrimSpace(c.Query("search")),
		Limit:    p.Limit,
		Offset:   p.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// SearchPosts searches published public posts by title, content or tags.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = strings.TrimSpace(c.Query("search"))
	}
	p := parsePagination(c, 20)

	posts, err := s.postSvc.SearchPosts(c.Context(), query, p.Limit, p.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetPost returns a single post. Auth is optional; it only matters for
// subscriber-only posts, which need an active subscription (or authorship).
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewer, err := s.optionalViewer(c)
	if err != nil {
		return respondError(c, err)
	}

	post, err := s.postSvc.GetPost(c.Context(), postID, viewer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetComments lists a post's comments, oldest first. Visibility follows the
// post itself.
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	viewer, err := s.optionalViewer(c)
	if err != nil {
		return respondError(c, err)
	}

	comments, err := s.postSvc.Comments(c.Context(), viewer, postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// LikePost records the caller's like on a post. Liking twice is a no-op.
func (s *Server) LikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postSvc.Like(c.Context(), s.viewer(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Post liked",
		"post":    post,
	})
}

// UnlikePost removes the caller's like. Removing an absent like is a no-op.
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	post, err := s.postSvc.Unlike(c.Context(), s.viewer(c), postID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Like removed",
		"post":    post,
	})
}

// CommentRequest represents the comment creation body.
type CommentRequest struct {
	Content string `json:"content"`
}

// AddComment adds a comment to a post the caller can view.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}

	var req CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.postSvc.AddComment(c.Context(), s.viewer(c), postID, req.Content)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Comment added",
		"comment": comment,
	})
}

// DeleteComment removes the caller's own comment. Admins may remove any
// comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "postId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.postSvc.DeleteComment(c.Context(), s.viewer(c), postID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Comment deleted"})
}

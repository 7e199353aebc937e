package server

import (
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Subscribe creates (or reactivates) the caller's subscription to a creator.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	creatorID, err := s.parseID(c, "creatorId")
	if err != nil {
		return nil
	}

	sub, err := s.subSvc.Subscribe(c.Context(), s.viewer(c), creatorID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":      "Subscribed successfully",
		"subscription": sub,
	})
}

// Unsubscribe deactivates the caller's subscription to a creator. The row is
// kept so a later resubscribe reuses it.
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	creatorID, err := s.parseID(c, "creatorId")
	if err != nil {
		return nil
	}

	if err := s.subSvc.Unsubscribe(c.Context(), s.viewer(c), creatorID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unsubscribed successfully"})
}

// GetContentFeed returns the caller's paginated feed: all public posts plus
// subscriber-only posts from creators they subscribe to.
func (s *Server) GetContentFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	feed, err := s.subSvc.ContentFeed(c.Context(), s.viewer(c), page, limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(feed)
}

// GetMySubscriptions lists the caller's active subscriptions with creator
// details.
func (s *Server) GetMySubscriptions(c *fiber.Ctx) error {
	subs, err := s.subSvc.MySubscriptions(c.Context(), s.viewer(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

// GetCreatorContent lists a creator's published posts. Subscriber-only posts
// are included only for the creator, admins and active subscribers.
func (s *Server) GetCreatorContent(c *fiber.Ctx) error {
	creatorID, err := s.parseID(c, "creatorId")
	if err != nil {
		return nil
	}

	posts, err := s.subSvc.CreatorContent(c.Context(), s.viewer(c), creatorID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// GetCreators lists creators with subscriber counts. Public.
func (s *Server) GetCreators(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("search"))
	p := parsePagination(c, 20)

	creators, err := s.subSvc.Creators(c.Context(), query, p.Limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"creators": creators})
}

// UpdateCreatorProfileRequest represents the creator profile update body.
type UpdateCreatorProfileRequest struct {
	CreatorBio      string `json:"creator_bio"`
	CreatorCategory string `json:"creator_category"`
}

// UpdateCreatorProfile updates the caller's creator bio and category.
func (s *Server) UpdateCreatorProfile(c *fiber.Ctx) error {
	var req UpdateCreatorProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	userID, _ := c.Locals("userID").(uint)
	user, err := s.subSvc.UpdateCreatorProfile(c.Context(), service.UpdateCreatorProfileInput{
		UserID:          userID,
		CreatorBio:      req.CreatorBio,
		CreatorCategory: req.CreatorCategory,
	})
	if err != nil {
		return respondError(c, err)
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"message": "Creator profile updated",
		"user":    user,
	})
}

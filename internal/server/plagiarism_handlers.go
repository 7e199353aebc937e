package server

import (
	"blogonspot/internal/ai"
	"blogonspot/internal/models"
	"blogonspot/internal/plagiarism"

	"github.com/gofiber/fiber/v2"
)

// ContentRequest is the shared body for the text analysis endpoints.
type ContentRequest struct {
	Content string `json:"content"`
}

// PlagiarismCheck scores the submitted text against recently published posts
// using TF cosine similarity. Pure computation, no external calls.
func (s *Server) PlagiarismCheck(c *fiber.Ctx) error {
	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := ai.ValidateAssessInput(req.Content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content must be a non-empty string of at least 30 characters."))
	}

	posts, err := s.postRepo.RecentPublished(c.Context(), plagiarism.MaxCandidates)
	if err != nil {
		return respondError(c, err)
	}

	candidates := make([]plagiarism.Candidate, 0, len(posts))
	for _, p := range posts {
		candidates = append(candidates, plagiarism.Candidate{
			ID:        p.ID,
			Title:     p.Title,
			Content:   p.Content,
			AuthorID:  p.AuthorID,
			CreatedAt: p.CreatedAt,
		})
	}

	return c.JSON(plagiarism.Check(content, candidates))
}

// AssessOriginality asks the language model for an originality judgment on
// the submitted text.
func (s *Server) AssessOriginality(c *fiber.Ctx) error {
	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := ai.ValidateAssessInput(req.Content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Content must be a non-empty string of at least 30 characters."))
	}

	assessment, err := s.aiClient.AssessOriginality(c.Context(), content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(assessment)
}

// Summarize produces a short model-generated summary of the submitted text.
func (s *Server) Summarize(c *fiber.Ctx) error {
	var req ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	content, err := ai.ValidateSummarizeInput(req.Content)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	summary, err := s.aiClient.Summarize(c.Context(), content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(summary)
}

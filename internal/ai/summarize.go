package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	minSummarizeLen = 10
	maxSummarizeLen = 10000
	minAssessLen    = 30
)

// Summary is the result of a summarization request.
type Summary struct {
	Summary string `json:"summary"`
	Model   string `json:"model"`
}

// Assessment is the model's originality opinion on a piece of content.
type Assessment struct {
	OriginalityScore  float64 `json:"originality_score"`
	LikelyAIGenerated bool    `json:"likely_ai_generated"`
	Rationale         string  `json:"rationale"`
}

// ValidateSummarizeInput sanitizes the content and enforces the length
// bounds. The returned string is what should be sent to the model.
func ValidateSummarizeInput(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minSummarizeLen {
		return "", fmt.Errorf("content must be at least %d characters long", minSummarizeLen)
	}
	if len(trimmed) > maxSummarizeLen {
		return "", fmt.Errorf("content must be less than %d characters", maxSummarizeLen)
	}
	return SanitizeContent(trimmed), nil
}

// ValidateAssessInput enforces the minimum length for originality checks.
func ValidateAssessInput(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if len(trimmed) < minAssessLen {
		return "", fmt.Errorf("content must be a non-empty string of at least %d characters", minAssessLen)
	}
	return SanitizeContent(trimmed), nil
}

// Summarize produces a 1-2 sentence summary of sanitized content.
func (c *Client) Summarize(ctx context.Context, sanitized string) (*Summary, error) {
	prompt := "Summarize the following text in a concise manner (1-2 sentences maximum):\n\n" + sanitized

	text, model, err := c.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return &Summary{Summary: text, Model: model}, nil
}

const assessPrompt = `You are an originality and plagiarism assessment assistant.
Analyze the following blog content and return a strict JSON with keys:
- originality_score: number (0-100, higher is more original)
- likely_ai_generated: boolean
- rationale: short string explaining the assessment (<= 300 chars)
If you are unsure, estimate conservatively.
Content:

`

// AssessOriginality asks the model for a strict-JSON originality verdict.
// Replies that fail to parse fall back to conservative defaults with the raw
// text as rationale.
func (c *Client) AssessOriginality(ctx context.Context, sanitized string) (*Assessment, error) {
	text, _, err := c.Generate(ctx, assessPrompt+sanitized)
	if err != nil {
		return nil, err
	}

	assessment := parseAssessment(text)
	return &assessment, nil
}

func parseAssessment(text string) Assessment {
	fallback := Assessment{
		OriginalityScore:  50,
		LikelyAIGenerated: false,
		Rationale:         truncate(text, 300),
	}

	// Models often wrap JSON in markdown fences.
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var parsed struct {
		OriginalityScore  *float64 `json:"originality_score"`
		LikelyAIGenerated *bool    `json:"likely_ai_generated"`
		Rationale         *string  `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &parsed); err != nil {
		return fallback
	}

	result := fallback
	result.Rationale = "Assessment generated."
	if parsed.OriginalityScore != nil {
		result.OriginalityScore = *parsed.OriginalityScore
	}
	if parsed.LikelyAIGenerated != nil {
		result.LikelyAIGenerated = *parsed.LikelyAIGenerated
	}
	if parsed.Rationale != nil {
		result.Rationale = *parsed.Rationale
	}
	return result
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

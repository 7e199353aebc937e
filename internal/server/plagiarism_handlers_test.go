package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"blogonspot/internal/ai"
	"blogonspot/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const checkText = "The quick brown fox jumps over the lazy dog while the sun sets behind the mountains"

func TestPlagiarismCheck(t *testing.T) {
	s, app := newTestServer(t)
	creator, _ := createTestUser(t, s, "plagcreator", models.RoleUser)

	original := &models.Post{
		AuthorID:    creator.ID,
		Title:       "Fox story",
		Content:     checkText,
		IsPublic:    true,
		IsPublished: true,
	}
	require.NoError(t, s.postRepo.Create(t.Context(), original))
	createTestPost(t, s, creator.ID, "unrelated", true, true)

	t.Run("exact copy scores 100", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/plagiarism/check",
			map[string]any{"content": checkText}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, float64(100), body["score"])
		assert.Equal(t, float64(2), body["total_compared"])

		matches := body["matches"].([]any)
		require.NotEmpty(t, matches)
		assert.Equal(t, "Fox story", matches[0].(map[string]any)["title"])
	})

	t.Run("novel text scores low", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/plagiarism/check",
			map[string]any{"content": "Completely different subject matter regarding quantum entanglement experiments"}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Less(t, body["score"].(float64), float64(50))
	})

	t.Run("short content rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/plagiarism/check",
			map[string]any{"content": "too short"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

// fakeGemini returns a minimal generateContent response with the given text.
func fakeGemini(t *testing.T, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":` + text + `}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSummarizeEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	srv := fakeGemini(t, `"A short summary."`)
	s.aiClient = ai.NewClient("test-key", ai.WithBaseURL(srv.URL))

	resp := doJSON(t, app, http.MethodPost, "/api/summarize",
		map[string]any{"content": "This is a long enough piece of text to summarize properly."}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "A short summary.", body["summary"])
	assert.NotEmpty(t, body["model"])

	t.Run("too short", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/summarize",
			map[string]any{"content": "tiny"}, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("not configured", func(t *testing.T) {
		s.aiClient = ai.NewClient("")
		resp := doJSON(t, app, http.MethodPost, "/api/summarize",
			map[string]any{"content": "This is a long enough piece of text to summarize properly."}, "")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestAssessOriginalityEndpoint(t *testing.T) {
	s, app := newTestServer(t)
	srv := fakeGemini(t, `"{\"originality_score\": 82, \"likely_ai_generated\": false, \"rationale\": \"Distinct voice.\"}"`)
	s.aiClient = ai.NewClient("test-key", ai.WithBaseURL(srv.URL))

	resp := doJSON(t, app, http.MethodPost, "/api/plagiarism/assess",
		map[string]any{"content": checkText}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(82), body["originality_score"])
	assert.Equal(t, false, body["likely_ai_generated"])
	assert.Equal(t, "Distinct voice.", body["rationale"])
}

func TestAssessOriginality_UpstreamQuota(t *testing.T) {
	s, app := newTestServer(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED","message":"quota"}}`))
	}))
	t.Cleanup(srv.Close)
	s.aiClient = ai.NewClient("test-key", ai.WithBaseURL(srv.URL))

	resp := doJSON(t, app, http.MethodPost, "/api/plagiarism/assess",
		map[string]any{"content": checkText}, "")
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestSummarize_StripsScriptTags(t *testing.T) {
	var seen string
	s, app := newTestServer(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1<<16)
		n, _ := r.Body.Read(buf)
		seen = string(buf[:n])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	s.aiClient = ai.NewClient("test-key", ai.WithBaseURL(srv.URL))

	resp := doJSON(t, app, http.MethodPost, "/api/summarize",
		map[string]any{"content": "Here is some writing <script>alert(1)</script> with markup inside it."}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	assert.NotContains(t, seen, "alert(1)")
	assert.True(t, strings.Contains(seen, "with markup"))
}

func TestViewer_FromFiber(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Get("/v", func(c *fiber.Ctx) error {
		v := s.viewer(c)
		return c.JSON(fiber.Map{"id": v.ID, "admin": v.Admin()})
	})

	req := httptest.NewRequest(http.MethodGet, "/v", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(0), body["id"])
	assert.Equal(t, false, body["admin"])
}

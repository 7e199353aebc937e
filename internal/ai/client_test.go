package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelReply(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]string{{"text": text}}}},
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts = append([]Option{WithBaseURL(srv.URL), WithModels([]string{"test-model"})}, opts...)
	return NewClient("test-key", opts...)
}

func TestClient_Summarize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "test-model:generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		fmt.Fprint(w, modelReply("A short summary."))
	})

	summary, err := client.Summarize(context.Background(), "long enough content to summarize")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", summary.Summary)
	assert.Equal(t, "test-model", summary.Model)
}

func TestClient_NotConfigured(t *testing.T) {
	client := NewClient("")

	_, err := client.Summarize(context.Background(), "some valid content here")
	require.Error(t, err)

	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, KindNotConfigured, aiErr.Kind)
}

func TestClient_ModelFallback(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.URL.Path)
		if strings.Contains(r.URL.Path, "primary") {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":404,"message":"model not found","status":"NOT_FOUND"}}`)
			return
		}
		fmt.Fprint(w, modelReply("fallback answer"))
	}, WithModels([]string{"primary", "secondary"}))

	text, model, err := client.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "fallback answer", text)
	assert.Equal(t, "secondary", model)
	assert.Len(t, calls, 2)
}

func TestClient_ErrorClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
	}{
		{"invalid key", 400, `{"error":{"code":400,"message":"API_KEY_INVALID","status":"INVALID_ARGUMENT"}}`, KindInvalidKey},
		{"quota", 429, `{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`, KindQuotaExceeded},
		{"permission", 403, `{"error":{"code":403,"message":"denied","status":"PERMISSION_DENIED"}}`, KindPermissionDenied},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			})

			_, _, err := client.Generate(context.Background(), "prompt")
			require.Error(t, err)

			var aiErr *Error
			require.ErrorAs(t, err, &aiErr)
			assert.Equal(t, tc.kind, aiErr.Kind)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, modelReply("too late"))
	}, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))

	_, _, err := client.Generate(context.Background(), "prompt")
	require.Error(t, err)

	var aiErr *Error
	require.ErrorAs(t, err, &aiErr)
	assert.Equal(t, KindTimeout, aiErr.Kind)
}

func TestClient_AssessOriginality_StrictJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply(`{"originality_score": 87, "likely_ai_generated": false, "rationale": "distinct voice"}`))
	})

	assessment, err := client.AssessOriginality(context.Background(), "a sufficiently long piece of content")
	require.NoError(t, err)
	assert.Equal(t, 87.0, assessment.OriginalityScore)
	assert.False(t, assessment.LikelyAIGenerated)
	assert.Equal(t, "distinct voice", assessment.Rationale)
}

func TestClient_AssessOriginality_FencedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply("```json\n{\"originality_score\": 42, \"likely_ai_generated\": true, \"rationale\": \"templated\"}\n```"))
	})

	assessment, err := client.AssessOriginality(context.Background(), "a sufficiently long piece of content")
	require.NoError(t, err)
	assert.Equal(t, 42.0, assessment.OriginalityScore)
	assert.True(t, assessment.LikelyAIGenerated)
}

func TestClient_AssessOriginality_FallbackOnProse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, modelReply("This content seems fairly original to me."))
	})

	assessment, err := client.AssessOriginality(context.Background(), "a sufficiently long piece of content")
	require.NoError(t, err)
	assert.Equal(t, 50.0, assessment.OriginalityScore)
	assert.False(t, assessment.LikelyAIGenerated)
	assert.Equal(t, "This content seems fairly original to me.", assessment.Rationale)
}

func TestValidateSummarizeInput(t *testing.T) {
	_, err := ValidateSummarizeInput("short")
	assert.Error(t, err)

	_, err = ValidateSummarizeInput(strings.Repeat("x", 10001))
	assert.Error(t, err)

	sanitized, err := ValidateSummarizeInput("  hello <script>alert(1)</script> world of blogging  ")
	require.NoError(t, err)
	assert.Equal(t, "hello  world of blogging", sanitized)
	assert.NotContains(t, sanitized, "script")
}

func TestValidateAssessInput(t *testing.T) {
	_, err := ValidateAssessInput("too short for assessment")
	assert.Error(t, err)

	sanitized, err := ValidateAssessInput("this content is definitely longer than thirty characters total")
	require.NoError(t, err)
	assert.NotEmpty(t, sanitized)
}

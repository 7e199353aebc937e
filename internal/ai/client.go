// Package ai is a minimal client for the Gemini generateContent REST API,
// used for post summarization and originality assessment. The provider is
// treated as an opaque remote call with a hard wall-clock timeout.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrorKind classifies upstream failures so handlers can map them to the
// right status code.
type ErrorKind int

const (
	KindUpstream ErrorKind = iota
	KindTimeout
	KindInvalidKey
	KindQuotaExceeded
	KindPermissionDenied
	KindNotConfigured
)

// Error is a classified upstream failure.
type Error struct {
	Kind ErrorKind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

// defaultModels is tried in order; a model rejected by the provider falls
// through to the next.
var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	"gemini-pro",
}

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	requestTimeout = 30 * time.Second
)

// Client calls the Gemini API. The zero value is unusable; use NewClient.
type Client struct {
	apiKey  string
	baseURL string
	models  []string
	httpc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API host (tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithModels overrides the model fallback list.
func WithModels(models []string) Option {
	return func(c *Client) { c.models = models }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// NewClient builds a Gemini client. An empty API key yields a client whose
// calls all fail with KindNotConfigured, so callers need no nil checks.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		models:  defaultModels,
		httpc:   &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// generate runs one prompt against one model and returns the concatenated
// text of the first candidate.
func (c *Client) generate(ctx context.Context, model, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", &Error{Kind: KindUpstream, msg: "encoding request", err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &Error{Kind: KindUpstream, msg: "building request", err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return "", &Error{Kind: KindTimeout, msg: "request timeout", err: err}
		}
		return "", &Error{Kind: KindUpstream, msg: "calling model API", err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &Error{Kind: KindUpstream, msg: "reading response", err: err}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", &Error{Kind: KindUpstream, msg: "decoding response", err: err}
	}

	if resp.StatusCode != http.StatusOK || parsed.Error != nil {
		message := string(raw)
		if parsed.Error != nil {
			message = parsed.Error.Message + " " + parsed.Error.Status
		}
		return "", classify(resp.StatusCode, message)
	}

	var sb strings.Builder
	for _, cand := range parsed.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		break
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", &Error{Kind: KindUpstream, msg: "empty response from model"}
	}
	return text, nil
}

// Generate tries the model fallback list in order and returns the first
// answer, together with the model that produced it.
func (c *Client) Generate(ctx context.Context, prompt string) (text, model string, err error) {
	if !c.Configured() {
		return "", "", &Error{Kind: KindNotConfigured, msg: "API key not configured"}
	}

	var last error
	for _, m := range c.models {
		text, err := c.generate(ctx, m, prompt)
		if err == nil {
			return text, m, nil
		}
		last = err

		// A missing model is worth retrying with the next name; key, quota
		// and timeout failures will not get better by switching models.
		var aiErr *Error
		if errors.As(err, &aiErr) && aiErr.Kind != KindUpstream {
			return "", "", err
		}
	}
	return "", "", last
}

// classify maps provider error payloads onto the error taxonomy by status
// code and well-known message substrings.
func classify(status int, message string) *Error {
	switch {
	case strings.Contains(message, "API_KEY_INVALID"):
		return &Error{Kind: KindInvalidKey, msg: "invalid API key"}
	case status == http.StatusTooManyRequests || strings.Contains(message, "QUOTA_EXCEEDED") || strings.Contains(message, "RESOURCE_EXHAUSTED"):
		return &Error{Kind: KindQuotaExceeded, msg: "API quota exceeded"}
	case status == http.StatusForbidden || strings.Contains(message, "PERMISSION_DENIED"):
		return &Error{Kind: KindPermissionDenied, msg: "API access denied"}
	default:
		return &Error{Kind: KindUpstream, msg: fmt.Sprintf("model API error (status %d): %s", status, message)}
	}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

var scriptTagRe = regexp.MustCompile(`(?is)<script\b.*?</script>`)

// SanitizeContent trims the input and strips script tags before it is
// embedded into a prompt.
func SanitizeContent(content string) string {
	return strings.TrimSpace(scriptTagRe.ReplaceAllString(content, ""))
}

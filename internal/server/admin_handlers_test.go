package server

import (
	"fmt"
	"net/http"
	"testing"

	"blogonspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	s, app := newTestServer(t)
	_, userToken := createTestUser(t, s, "plainuser", models.RoleUser)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPut, "/api/admin/users/1/ban"},
		{http.MethodDelete, "/api/admin/posts/1"},
		{http.MethodGet, "/api/admin/creators"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp := doJSON(t, app, p.method, p.path, nil, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			_ = resp.Body.Close()

			resp = doJSON(t, app, p.method, p.path, nil, userToken)
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			_ = resp.Body.Close()
		})
	}
}

func TestAdminDashboard(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "dashadmin", models.RoleAdmin)
	creator, _ := createTestUser(t, s, "dashcreator", models.RoleUser)
	_, fanToken := createTestUser(t, s, "dashfan", models.RoleUser)

	createTestPost(t, s, creator.ID, "published", true, true)
	createTestPost(t, s, creator.ID, "draft", true, false)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/subscription/subscribe/%d", creator.ID), nil, fanToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/admin/dashboard", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, float64(3), body["total_users"])
	assert.Equal(t, float64(2), body["total_posts"])
	assert.Equal(t, float64(1), body["published_posts"])
	assert.Equal(t, float64(1), body["active_subscriptions"])
	assert.NotEmpty(t, body["recent_users"])
}

func TestBanUnbanUser(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "banadmin", models.RoleAdmin)
	target, targetToken := createTestUser(t, s, "bantarget", models.RoleUser)

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/ban", target.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["user"].(map[string]any)["is_active"])

	// The banned user's existing token no longer works.
	resp = doJSON(t, app, http.MethodGet, "/api/user/bookmarks", nil, targetToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/admin/users/%d/unban", target.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, true, body["user"].(map[string]any)["is_active"])

	resp = doJSON(t, app, http.MethodGet, "/api/user/bookmarks", nil, targetToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/admin/users/9999/ban", nil, adminToken)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestAdminDeletePost(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "deladmin", models.RoleAdmin)
	creator, _ := createTestUser(t, s, "delcreator", models.RoleUser)
	post := createTestPost(t, s, creator.ID, "removable", true, true)

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", post.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("already gone", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/admin/posts/%d", post.ID), nil, adminToken)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestAdminDeleteComment(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "cdadmin", models.RoleAdmin)
	creator, _ := createTestUser(t, s, "cdcreator", models.RoleUser)
	_, commenterToken := createTestUser(t, s, "cdcommenter", models.RoleUser)
	post := createTestPost(t, s, creator.ID, "moderated", true, true)

	resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/comment/%d", post.ID),
		map[string]any{"content": "spam"}, commenterToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	commentID := uint(body["comment"].(map[string]any)["id"].(float64))

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/admin/deletecomment/%d/%d", post.ID, commentID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d/comments", post.ID), nil, "")
	body = decodeBody(t, resp)
	assert.Empty(t, body["comments"])
}

func TestAdminCreateContent(t *testing.T) {
	s, app := newTestServer(t)
	admin, adminToken := createTestUser(t, s, "contentadmin", models.RoleAdmin)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/create-content", map[string]any{
		"title":   "Platform news",
		"content": "We shipped a thing",
	}, adminToken)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	post := body["post"].(map[string]any)
	assert.Equal(t, float64(admin.ID), post["author_id"])
	assert.Equal(t, true, post["is_published"])

	resp = doJSON(t, app, http.MethodGet, "/api/admin/create-content", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Len(t, body["posts"].([]any), 1)
}

func TestVerifyCreator(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "verifyadmin", models.RoleAdmin)
	creator, _ := createTestUser(t, s, "verifyme", models.RoleUser)

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/admin/verify-creator/%d", creator.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["user"].(map[string]any)["is_verified_creator"])

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/admin/unverify-creator/%d", creator.ID), nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, false, body["user"].(map[string]any)["is_verified_creator"])
}

func TestAdminListUsers(t *testing.T) {
	s, app := newTestServer(t)
	_, adminToken := createTestUser(t, s, "listadmin", models.RoleAdmin)
	createTestUser(t, s, "listed1", models.RoleUser)
	createTestUser(t, s, "listed2", models.RoleUser)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/users", nil, adminToken)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	users := body["users"].([]any)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotContains(t, u.(map[string]any), "password")
	}
}

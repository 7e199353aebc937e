package server

import (
	"fmt"
	"net/http"
	"testing"

	"blogonspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGetProfile(t *testing.T) {
	s, app := newTestServer(t)
	user, _ := createTestUser(t, s, "profiled", models.RoleUser)
	post := createTestPost(t, s, user.ID, "my post", true, true)

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/profile/%d", user.ID), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "profiled", body["username"])
	assert.NotContains(t, body, "password")

	postIDs := body["post_ids"].([]any)
	require.Len(t, postIDs, 1)
	assert.Equal(t, float64(post.ID), postIDs[0])

	t.Run("unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/profile/9999", nil, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("invalid id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/user/profile/abc", nil, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestEditProfile(t *testing.T) {
	s, app := newTestServer(t)
	user, token := createTestUser(t, s, "editable", models.RoleUser)
	_, otherToken := createTestUser(t, s, "noteditable", models.RoleUser)
	_, adminToken := createTestUser(t, s, "editadmin", models.RoleAdmin)

	path := fmt.Sprintf("/api/user/edit/%d", user.ID)

	t.Run("owner updates fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, map[string]any{
			"username": "renamed",
			"bio":      "new bio",
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		updated := body["user"].(map[string]any)
		assert.Equal(t, "renamed", updated["username"])
		assert.Equal(t, "new bio", updated["bio"])
	})

	t.Run("password change rehashes", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, map[string]any{
			"password": "newpassword",
		}, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		stored, err := s.userRepo.GetByID(t.Context(), user.ID)
		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpassword")))
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, map[string]any{"bio": "hijack"}, otherToken)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("admin may edit anyone", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, map[string]any{"bio": "moderated"}, adminToken)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("requires auth", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, path, map[string]any{"bio": "x"}, "")
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestFollowUnfollow(t *testing.T) {
	s, app := newTestServer(t)
	follower, token := createTestUser(t, s, "follower", models.RoleUser)
	target, _ := createTestUser(t, s, "target", models.RoleUser)

	followPath := fmt.Sprintf("/api/user/follow/%d", target.ID)
	unfollowPath := fmt.Sprintf("/api/user/unfollow/%d", target.ID)

	resp := doJSON(t, app, http.MethodPost, followPath, nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	t.Run("reflected on both profiles", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/profile/%d", target.ID), nil, "")
		body := decodeBody(t, resp)
		require.Len(t, body["followers"].([]any), 1)
		assert.Equal(t, float64(follower.ID), body["followers"].([]any)[0])

		resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/user/profile/%d", follower.ID), nil, "")
		body = decodeBody(t, resp)
		require.Len(t, body["following"].([]any), 1)
		assert.Equal(t, float64(target.ID), body["following"].([]any)[0])
	})

	t.Run("duplicate follow rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, followPath, nil, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Already following", body["error"])
	})

	t.Run("self follow rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/user/follow/%d", follower.ID), nil, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("unfollow", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, unfollowPath, nil, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		_ = resp.Body.Close()

		resp = doJSON(t, app, http.MethodPost, unfollowPath, nil, token)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		_ = resp.Body.Close()
	})

	t.Run("unknown target", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/user/follow/9999", nil, token)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		_ = resp.Body.Close()
	})
}

func TestSearchUsers(t *testing.T) {
	s, app := newTestServer(t)
	createTestUser(t, s, "findme", models.RoleUser)
	createTestUser(t, s, "hidden", models.RoleUser)

	resp := doJSON(t, app, http.MethodGet, "/api/users?search=findme", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	users := body["users"].([]any)
	require.Len(t, users, 1)
	found := users[0].(map[string]any)
	assert.Equal(t, "findme", found["username"])
	assert.NotContains(t, found, "password")
}

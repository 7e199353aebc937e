package service

import (
	"context"
	"testing"

	"blogonspot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Dashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", models.RoleUser)
	fan := env.createUser(t, "fan", models.RoleUser)
	env.createPost(t, author.ID, "Published", true, true)
	env.createPost(t, author.ID, "Draft", false, true)

	_, err := env.subSvc.Subscribe(ctx, viewerOf(fan), author.ID)
	require.NoError(t, err)

	stats, err := env.adminSvc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.PublishedPosts)
	assert.Equal(t, int64(1), stats.ActiveSubscriptions)
	assert.Len(t, stats.RecentUsers, 2)
	assert.Len(t, stats.RecentPosts, 2)
}

func TestAdminService_BanUnban(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	target := env.createUser(t, "target", models.RoleUser)

	banned, err := env.adminSvc.BanUser(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, banned.IsActive)

	restored, err := env.adminSvc.UnbanUser(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)
}

func TestAdminService_DeletePost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", models.RoleUser)
	post := env.createPost(t, author.ID, "Doomed", true, true)

	require.NoError(t, env.adminSvc.DeletePost(ctx, post.ID))

	_, err := env.postSvc.GetPost(ctx, post.ID, Viewer{})
	requireAppError(t, err, "NOT_FOUND")

	// The author's post index shrinks with the delete.
	profile, err := env.userSvc.GetProfile(ctx, author.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.PostIDs)
}

func TestAdminService_DeletePost_Missing(t *testing.T) {
	env := newTestEnv(t)

	err := env.adminSvc.DeletePost(context.Background(), 777)
	requireAppError(t, err, "NOT_FOUND")
}

func TestAdminService_CreateContent_Defaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	admin := env.createUser(t, "admin", models.RoleAdmin)

	post, err := env.adminSvc.CreateContent(ctx, admin.ID, CreatePostInput{
		Title:   "Announcement",
		Content: "Platform news",
	})
	require.NoError(t, err)
	assert.True(t, post.IsPublished)
	assert.True(t, post.IsPublic)
}

func TestAdminService_VerifyCreator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	creator := env.createUser(t, "creator", models.RoleUser)

	verified, err := env.adminSvc.VerifyCreator(ctx, creator.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerifiedCreator)

	unverified, err := env.adminSvc.UnverifyCreator(ctx, creator.ID)
	require.NoError(t, err)
	assert.False(t, unverified.IsVerifiedCreator)
}

func TestAdminService_DeleteComment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	author := env.createUser(t, "author", models.RoleUser)
	reader := env.createUser(t, "reader", models.RoleUser)
	post := env.createPost(t, author.ID, "Discussed", true, true)

	comment, err := env.postSvc.AddComment(ctx, viewerOf(reader), post.ID, "spam")
	require.NoError(t, err)

	require.NoError(t, env.adminSvc.DeleteComment(ctx, post.ID, comment.ID))

	comments, err := env.postSvc.Comments(ctx, viewerOf(reader), post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

// Package service contains the application's domain logic, sitting between
// the HTTP handlers and the repositories.
package service

import (
	"context"

	"blogonspot/internal/models"
	"blogonspot/internal/repository"
)

// Viewer identifies the caller of a read or mutation. The zero value is an
// anonymous viewer.
type Viewer struct {
	ID   uint
	Role models.Role
}

// Anonymous reports whether the viewer carries no identity.
func (v Viewer) Anonymous() bool {
	return v.ID == 0
}

// Admin reports whether the viewer holds the admin role.
func (v Viewer) Admin() bool {
	return v.Role == models.RoleAdmin
}

// AccessPolicy decides, for a (viewer, post) pair, whether the post's full
// content may be shown. The decision is a pure function of the post's
// visibility state, the viewer's identity and role, and the viewer's active
// subscription to the author.
type AccessPolicy struct {
	subRepo repository.SubscriptionRepository
}

// NewAccessPolicy returns the content access policy.
func NewAccessPolicy(subRepo repository.SubscriptionRepository) *AccessPolicy {
	return &AccessPolicy{subRepo: subRepo}
}

// CheckView returns nil when the viewer may read the post, a 404 for drafts
// and a 403 for subscriber-only posts the viewer has no access to. Drafts are
// hidden from everyone on the read path; restricted posts acknowledge their
// existence but withhold content.
func (p *AccessPolicy) CheckView(ctx context.Context, viewer Viewer, post *models.Post) error {
	switch post.Visibility() {
	case models.VisibilityDraft:
		return models.NewNotFoundMessageError("Post not found")
	case models.VisibilityPublic:
		return nil
	}

	// Subscriber-only from here on.
	if viewer.Anonymous() {
		return models.NewForbiddenError("This post is subscriber-only")
	}
	if viewer.ID == post.AuthorID || viewer.Admin() {
		return nil
	}

	subscribed, err := p.subRepo.IsActivePair(ctx, viewer.ID, post.AuthorID)
	if err != nil {
		return err
	}
	if !subscribed {
		return models.NewForbiddenError("This post is subscriber-only")
	}
	return nil
}

// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// PostVisibility is the explicit state derived from the is_published and
// is_public flags. Modeling the state keeps the access decision table
// exhaustive instead of re-deriving boolean combinations per call site.
type PostVisibility string

const (
	// VisibilityDraft is an unpublished post, exposed to no read endpoint.
	VisibilityDraft PostVisibility = "draft"
	// VisibilityPublic is a published post anyone can read.
	VisibilityPublic PostVisibility = "public"
	// VisibilitySubscriberOnly is a published post readable by the author,
	// admins and active subscribers of the author.
	VisibilitySubscriberOnly PostVisibility = "subscriber_only"
)

// Post represents a blog post.
type Post struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	Title    string   `gorm:"not null" json:"title"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	AuthorID uint     `gorm:"not null;index" json:"author_id"`
	Author   User     `gorm:"foreignKey:AuthorID" json:"author"`
	Tags     []string `gorm:"serializer:json" json:"tags"`

	IsPublished bool `gorm:"not null;default:false;index" json:"is_published"`
	// IsPublic true = open to everyone, false = subscribers only.
	IsPublic bool `gorm:"not null;default:true" json:"is_public"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Visibility returns the enumerated visibility state of the post.
func (p *Post) Visibility() PostVisibility {
	switch {
	case !p.IsPublished:
		return VisibilityDraft
	case p.IsPublic:
		return VisibilityPublic
	default:
		return VisibilitySubscriberOnly
	}
}

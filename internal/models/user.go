// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role identifies the privilege level of a user account.
type Role string

const (
	// RoleUser is a regular authenticated account.
	RoleUser Role = "user"
	// RoleAdmin can moderate users, posts and creators.
	RoleAdmin Role = "admin"
)

// User represents an account on the platform. Relationship sets the original
// data model kept as denormalized arrays (following, followers, subscriptions,
// subscribers, bookmarks, posts) live in their own relation tables here and
// are attached as computed views when a profile is assembled.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
	Role     Role   `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`

	// Creator profile
	CreatorBio        string `json:"creator_bio"`
	CreatorCategory   string `json:"creator_category"`
	IsVerifiedCreator bool   `gorm:"not null;default:false" json:"is_verified_creator"`

	LastLogin time.Time      `json:"last_login"`
	CreatedAt time.Time      `json:"since"`
	UpdatedAt time.Time      `json:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Posts []Post `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public view of a user: the account record minus the password
// plus the relationship sets computed from the relation tables.
type Profile struct {
	User
	Following     []uint `json:"following"`
	Followers     []uint `json:"followers"`
	Subscriptions []uint `json:"subscriptions"`
	Subscribers   []uint `json:"subscribers"`
	Bookmarks     []uint `json:"bookmarks"`
	PostIDs       []uint `json:"post_ids"`
}

// CreatorSummary is the trimmed-down user view returned by creator listings.
type CreatorSummary struct {
	ID                uint      `json:"id"`
	Username          string    `json:"username"`
	Avatar            string    `json:"avatar"`
	CreatorBio        string    `json:"creator_bio"`
	CreatorCategory   string    `json:"creator_category"`
	IsVerifiedCreator bool      `json:"is_verified_creator"`
	SubscriberCount   int64     `json:"subscriber_count"`
	Since             time.Time `json:"since"`
}

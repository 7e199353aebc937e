// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"blogonspot/internal/cache"
	"blogonspot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListPostsOptions narrows a published-posts listing.
type ListPostsOptions struct {
	AuthorID   uint   // 0 = any author
	AuthorIDs  []uint // optional author set (admin content feed)
	Search     string // title/content/tags substring match
	PublicOnly bool
	Limit      int
	Offset     int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error)
	ListPublished(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, authorID uint, includeRestricted bool, currentUserID uint) ([]*models.Post, error)
	ListFeed(ctx context.Context, subscribedCreatorIDs []uint, currentUserID uint, limit, offset int) ([]*models.Post, error)
	CountFeed(ctx context.Context, subscribedCreatorIDs []uint) (int64, error)
	RecentPublished(ctx context.Context, limit int) ([]*models.Post, error)
	IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error)
	Delete(ctx context.Context, id uint) error
	Like(ctx context.Context, userID, postID uint) error
	Unlike(ctx context.Context, userID, postID uint) error
	Bookmark(ctx context.Context, userID, postID uint) error
	Unbookmark(ctx context.Context, userID, postID uint) error
	BookmarkedPostIDs(ctx context.Context, userID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
	CountPublished(ctx context.Context) (int64, error)
	Recent(ctx context.Context, limit int) ([]*models.Post, error)
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a single query.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Post, error) {
	var post models.Post

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.PostKey(id), &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("Author").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
			Preload("Author").
			First(&post, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundMessageError("Post not found")
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

func (r *postRepository) ListPublished(ctx context.Context, opts ListPostsOptions) ([]*models.Post, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	db := r.applyPostDetails(r.db.WithContext(ctx), 0).
		Preload("Author").
		Where("posts.is_published = ?", true)

	if opts.AuthorID != 0 {
		db = db.Where("posts.author_id = ?", opts.AuthorID)
	}
	if len(opts.AuthorIDs) > 0 {
		db = db.Where("posts.author_id IN ?", opts.AuthorIDs)
	}
	if opts.PublicOnly {
		db = db.Where("posts.is_public = ?", true)
	}
	if q := strings.TrimSpace(opts.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		db = db.Where("LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ? OR LOWER(posts.tags) LIKE ?", like, like, like)
	}

	var posts []*models.Post
	if err := db.Order("posts.created_at DESC").Limit(limit).Offset(opts.Offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, includeRestricted bool, currentUserID uint) ([]*models.Post, error) {
	db := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).
		Preload("Author").
		Where("posts.author_id = ? AND posts.is_published = ?", authorID, true)
	if !includeRestricted {
		db = db.Where("posts.is_public = ?", true)
	}

	var posts []*models.Post
	if err := db.Order("posts.created_at DESC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// feedConditions is the published union of public posts and restricted posts
// from the viewer's subscribed creators.
func (r *postRepository) feedConditions(db *gorm.DB, subscribedCreatorIDs []uint) *gorm.DB {
	db = db.Where("posts.is_published = ?", true)
	if len(subscribedCreatorIDs) == 0 {
		return db.Where("posts.is_public = ?", true)
	}
	return db.Where("posts.is_public = ? OR (posts.is_public = ? AND posts.author_id IN ?)",
		true, false, subscribedCreatorIDs)
}

func (r *postRepository) ListFeed(ctx context.Context, subscribedCreatorIDs []uint, currentUserID uint, limit, offset int) ([]*models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	db := r.applyPostDetails(r.db.WithContext(ctx), currentUserID).Preload("Author")
	db = r.feedConditions(db, subscribedCreatorIDs)

	var posts []*models.Post
	if err := db.Order("posts.created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) CountFeed(ctx context.Context, subscribedCreatorIDs []uint) (int64, error) {
	db := r.db.WithContext(ctx).Model(&models.Post{})
	db = r.feedConditions(db, subscribedCreatorIDs)

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// RecentPublished returns the newest published posts with just the columns
// the similarity scorer needs. The bound caps scan cost, not correctness.
func (r *postRepository) RecentPublished(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 {
		limit = 500
	}

	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Select("id", "title", "content", "author_id", "created_at").
		Where("is_published = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) IDsByAuthor(ctx context.Context, authorID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Pluck("id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

// Delete hard-deletes the post with its comments, likes and bookmarks in one
// transaction. The author's post index is a view over posts.author_id, so it
// shrinks atomically with the delete.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Bookmark{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, id)
	return nil
}

func (r *postRepository) Like(ctx context.Context, userID, postID uint) error {
	// The unique (user_id, post_id) index plus DO NOTHING makes the insert
	// atomic: a concurrent duplicate cannot slip past the membership pre-check.
	like := models.Like{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Unlike(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	return nil
}

func (r *postRepository) Bookmark(ctx context.Context, userID, postID uint) error {
	bookmark := models.Bookmark{UserID: userID, PostID: postID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&bookmark).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Unbookmark(ctx context.Context, userID, postID uint) error {
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Bookmark{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) BookmarkedPostIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Bookmark{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) CountPublished(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("is_published = ?", true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *postRepository) Recent(ctx context.Context, limit int) ([]*models.Post, error) {
	var posts []*models.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

package service

import (
	"context"
	"errors"
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/repository"
)

// PostService handles post creation, reads under the access policy, likes,
// bookmarks and comments.
type PostService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	subRepo     repository.SubscriptionRepository
	access      *AccessPolicy
}

type CreatePostInput struct {
	AuthorID uint
	Title    string
	Content  string
	Tags     []string
	// IsPublic defaults to true when the request omits it.
	IsPublic *bool
}

type ListPostsInput struct {
	AuthorID uint
	Search   string
	Limit    int
	Offset   int
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	subRepo repository.SubscriptionRepository,
	access *AccessPolicy,
) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		subRepo:     subRepo,
		access:      access,
	}
}

const (
	maxTitleLen   = 300
	maxContentLen = 50000
)

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	post := &models.Post{
		Title:       title,
		Content:     in.Content,
		AuthorID:    in.AuthorID,
		Tags:        in.Tags,
		IsPublished: true,
		IsPublic:    isPublic,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.AuthorID)
}

// GetPost fetches a single post and applies the content access policy.
func (s *PostService) GetPost(ctx context.Context, postID uint, viewer Viewer) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewer.ID)
	if err != nil {
		return nil, err
	}
	if err := s.access.CheckView(ctx, viewer, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns published posts. An author filter exposes that author's
// full published set; a search always restricts to public posts.
// ListPosts is the unauthenticated listing. It never includes subscriber-only
// posts; those are reachable only through the subscription feed and the
// access-checked detail route.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.ListPublished(ctx, repository.ListPostsOptions{
		AuthorID:   in.AuthorID,
		Search:     in.Search,
		PublicOnly: true,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
}

func (s *PostService) SearchPosts(ctx context.Context, query string, limit, offset int) ([]*models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.postRepo.ListPublished(ctx, repository.ListPostsOptions{
		Search:     query,
		PublicOnly: true,
		Limit:      limit,
		Offset:     offset,
	})
}

// Like records the viewer's like. Liking twice is a no-op: the write path is
// an atomic conflict-ignoring insert.
func (s *PostService) Like(ctx context.Context, viewer Viewer, postID uint) (*models.Post, error) {
	post, err := s.GetPost(ctx, postID, viewer)
	if err != nil {
		return nil, err
	}
	if err := s.postRepo.Like(ctx, viewer.ID, post.ID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, viewer.ID)
}

func (s *PostService) Unlike(ctx context.Context, viewer Viewer, postID uint) (*models.Post, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, viewer.ID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Unlike(ctx, viewer.ID, postID); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, postID, viewer.ID)
}

func (s *PostService) Bookmark(ctx context.Context, viewer Viewer, postID uint) error {
	if _, err := s.GetPost(ctx, postID, viewer); err != nil {
		return err
	}
	return s.postRepo.Bookmark(ctx, viewer.ID, postID)
}

func (s *PostService) Unbookmark(ctx context.Context, viewer Viewer, postID uint) error {
	return s.postRepo.Unbookmark(ctx, viewer.ID, postID)
}

// Bookmarks resolves the viewer's saved posts, filtered by what the viewer is
// still allowed to read.
func (s *PostService) Bookmarks(ctx context.Context, viewer Viewer) ([]*models.Post, error) {
	ids, err := s.postRepo.BookmarkedPostIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	posts := make([]*models.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.GetPost(ctx, id, viewer)
		if err != nil {
			// A bookmark may point at a post that got deleted, unpublished
			// or locked behind a lapsed subscription. Skip it.
			var appErr *models.AppError
			if errors.As(err, &appErr) && (appErr.Code == "FORBIDDEN" || appErr.Code == "NOT_FOUND") {
				continue
			}
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

const maxCommentLen = 2000

func (s *PostService) AddComment(ctx context.Context, viewer Viewer, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment text is required")
	}
	if len(content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 2000 characters)")
	}

	if _, err := s.GetPost(ctx, postID, viewer); err != nil {
		return nil, err
	}

	comment := &models.Comment{Content: content, UserID: viewer.ID, PostID: postID}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. Only the comment's owner or an admin may
// delete it.
func (s *PostService) DeleteComment(ctx context.Context, viewer Viewer, postID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundMessageError("Comment not found")
	}
	if comment.UserID != viewer.ID && !viewer.Admin() {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	return s.commentRepo.Delete(ctx, comment.ID)
}

func (s *PostService) Comments(ctx context.Context, viewer Viewer, postID uint) ([]*models.Comment, error) {
	if _, err := s.GetPost(ctx, postID, viewer); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

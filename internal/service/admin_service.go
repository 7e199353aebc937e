package service

import (
	"context"

	"blogonspot/internal/models"
	"blogonspot/internal/repository"
)

// AdminService handles moderation and platform administration.
type AdminService struct {
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	subRepo     repository.SubscriptionRepository
	posts       *PostService
}

// DashboardStats aggregates platform counts for the admin dashboard.
type DashboardStats struct {
	TotalUsers          int64          `json:"total_users"`
	TotalPosts          int64          `json:"total_posts"`
	PublishedPosts      int64          `json:"published_posts"`
	ActiveSubscriptions int64          `json:"active_subscriptions"`
	RecentUsers         []models.User  `json:"recent_users"`
	RecentPosts         []*models.Post `json:"recent_posts"`
}

func NewAdminService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	subRepo repository.SubscriptionRepository,
	posts *PostService,
) *AdminService {
	return &AdminService{
		userRepo:    userRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		subRepo:     subRepo,
		posts:       posts,
	}
}

func (s *AdminService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalPosts, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PublishedPosts, err = s.postRepo.CountPublished(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveSubscriptions, err = s.subRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.RecentUsers, err = s.userRepo.Recent(ctx, 5); err != nil {
		return nil, err
	}
	if stats.RecentPosts, err = s.postRepo.Recent(ctx, 5); err != nil {
		return nil, err
	}
	return stats, nil
}

// BanUser soft-disables an account. The auth middleware re-checks the flag on
// every request, so outstanding tokens stop working immediately.
func (s *AdminService) BanUser(ctx context.Context, targetID uint) (*models.User, error) {
	return s.userRepo.SetActive(ctx, targetID, false)
}

func (s *AdminService) UnbanUser(ctx context.Context, targetID uint) (*models.User, error) {
	return s.userRepo.SetActive(ctx, targetID, true)
}

// DeletePost hard-deletes a post with its comments, likes and bookmarks.
func (s *AdminService) DeletePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

// DeleteComment removes any comment from a post, regardless of owner.
func (s *AdminService) DeleteComment(ctx context.Context, postID, commentID uint) error {
	return s.commentRepo.DeleteFromPost(ctx, postID, commentID)
}

// CreateContent publishes a post on behalf of an admin. Visibility defaults
// to public when the request omits it.
func (s *AdminService) CreateContent(ctx context.Context, adminID uint, in CreatePostInput) (*models.Post, error) {
	in.AuthorID = adminID
	return s.posts.CreatePost(ctx, in)
}

func (s *AdminService) VerifyCreator(ctx context.Context, targetID uint) (*models.User, error) {
	return s.userRepo.SetCreatorVerified(ctx, targetID, true)
}

func (s *AdminService) UnverifyCreator(ctx context.Context, targetID uint) (*models.User, error) {
	return s.userRepo.SetCreatorVerified(ctx, targetID, false)
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.userRepo.List(ctx, limit, offset)
}

func (s *AdminService) ListCreators(ctx context.Context, query string, limit int) ([]models.CreatorSummary, error) {
	return s.userRepo.SearchCreators(ctx, query, limit)
}

// AdminContent lists all posts for moderation, newest first, drafts included.
func (s *AdminService) AdminContent(ctx context.Context, limit int) ([]*models.Post, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.postRepo.Recent(ctx, limit)
}

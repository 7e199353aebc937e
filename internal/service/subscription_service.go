package service

import (
	"context"
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/repository"
)

// SubscriptionService handles the subscriber/creator relation and the
// personalized content feed built on top of it.
type SubscriptionService struct {
	subRepo  repository.SubscriptionRepository
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

// ContentPage is one page of the personalized feed.
type ContentPage struct {
	Posts      []*models.Post `json:"posts"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	Total      int64          `json:"total"`
	TotalPages int            `json:"total_pages"`
}

type UpdateCreatorProfileInput struct {
	UserID          uint
	CreatorBio      string
	CreatorCategory string
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
) *SubscriptionService {
	return &SubscriptionService{
		subRepo:  subRepo,
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// Subscribe creates or reactivates the (subscriber, creator) record. The
// unique pair index means at most one row ever exists; an already-active pair
// is a conflict, an inactive one is reactivated.
func (s *SubscriptionService) Subscribe(ctx context.Context, viewer Viewer, creatorID uint) (*models.Subscription, error) {
	if viewer.ID == creatorID {
		return nil, models.NewValidationError("You cannot subscribe to yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	existing, err := s.subRepo.GetPair(ctx, viewer.ID, creatorID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.IsActive {
			return nil, models.NewConflictError("Already subscribed to this creator")
		}
		if err := s.subRepo.Reactivate(ctx, existing); err != nil {
			return nil, err
		}
		return s.subRepo.GetPair(ctx, viewer.ID, creatorID)
	}

	sub := &models.Subscription{SubscriberID: viewer.ID, CreatorID: creatorID, IsActive: true}
	// Create maps a unique violation to the same conflict as the pre-check,
	// covering the race between two concurrent subscribes.
	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// Unsubscribe deactivates the pair. The record itself is never deleted.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, viewer Viewer, creatorID uint) error {
	return s.subRepo.Deactivate(ctx, viewer.ID, creatorID)
}

// ContentFeed returns the viewer's paginated feed: published public posts
// plus published subscriber-only posts from creators the viewer actively
// subscribes to.
func (s *SubscriptionService) ContentFeed(ctx context.Context, viewer Viewer, page, limit int) (*ContentPage, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	creatorIDs, err := s.subRepo.ActiveCreatorIDs(ctx, viewer.ID)
	if err != nil {
		return nil, err
	}

	total, err := s.postRepo.CountFeed(ctx, creatorIDs)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListFeed(ctx, creatorIDs, viewer.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ContentPage{
		Posts:      posts,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// MySubscriptions lists the viewer's active subscriptions with creator info.
func (s *SubscriptionService) MySubscriptions(ctx context.Context, viewer Viewer) ([]*models.Subscription, error) {
	return s.subRepo.ListActiveBySubscriber(ctx, viewer.ID)
}

// CreatorContent lists one creator's published posts. Subscribers, the
// creator and admins see the full set; everyone else sees public posts only.
func (s *SubscriptionService) CreatorContent(ctx context.Context, viewer Viewer, creatorID uint) ([]*models.Post, error) {
	if _, err := s.userRepo.GetByID(ctx, creatorID); err != nil {
		return nil, err
	}

	includeRestricted := viewer.ID == creatorID || viewer.Admin()
	if !includeRestricted && !viewer.Anonymous() {
		subscribed, err := s.subRepo.IsActivePair(ctx, viewer.ID, creatorID)
		if err != nil {
			return nil, err
		}
		includeRestricted = subscribed
	}

	return s.postRepo.ListByAuthor(ctx, creatorID, includeRestricted, viewer.ID)
}

// Creators lists creator accounts with their active subscriber counts.
func (s *SubscriptionService) Creators(ctx context.Context, query string, limit int) ([]models.CreatorSummary, error) {
	return s.userRepo.SearchCreators(ctx, query, limit)
}

// UpdateCreatorProfile sets the viewer's own creator bio and category.
func (s *SubscriptionService) UpdateCreatorProfile(ctx context.Context, in UpdateCreatorProfileInput) (*models.User, error) {
	const maxCreatorBioLen = 1000
	const maxCategoryLen = 50

	bio := strings.TrimSpace(in.CreatorBio)
	category := strings.TrimSpace(in.CreatorCategory)
	if bio == "" && category == "" {
		return nil, models.NewValidationError("Nothing to update")
	}
	if len(bio) > maxCreatorBioLen {
		return nil, models.NewValidationError("Creator bio too long (max 1000 characters)")
	}
	if len(category) > maxCategoryLen {
		return nil, models.NewValidationError("Creator category too long (max 50 characters)")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if bio != "" {
		user.CreatorBio = bio
	}
	if category != "" {
		user.CreatorCategory = category
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

package service

import (
	"context"
	"strings"

	"blogonspot/internal/models"
	"blogonspot/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles profiles, profile edits and the follow relation.
type UserService struct {
	userRepo   repository.UserRepository
	postRepo   repository.PostRepository
	followRepo repository.FollowRepository
	subRepo    repository.SubscriptionRepository
}

type UpdateProfileInput struct {
	Viewer   Viewer
	TargetID uint
	Username string
	Email    string
	Password string
	Bio      string
	Avatar   string
}

func NewUserService(
	userRepo repository.UserRepository,
	postRepo repository.PostRepository,
	followRepo repository.FollowRepository,
	subRepo repository.SubscriptionRepository,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		postRepo:   postRepo,
		followRepo: followRepo,
		subRepo:    subRepo,
	}
}

// GetProfile assembles the public profile: the user record plus the
// relationship sets derived from the relation tables. The arrays cannot
// diverge from the underlying relations because they are computed from them
// on every read.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{User: *user}
	profile.Password = ""

	if profile.Following, err = s.followRepo.FollowingIDs(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Followers, err = s.followRepo.FollowerIDs(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Subscriptions, err = s.subRepo.ActiveCreatorIDs(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Subscribers, err = s.subRepo.ActiveSubscriberIDs(ctx, userID); err != nil {
		return nil, err
	}
	if profile.Bookmarks, err = s.postRepo.BookmarkedPostIDs(ctx, userID); err != nil {
		return nil, err
	}
	if profile.PostIDs, err = s.postRepo.IDsByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	return profile, nil
}

// UpdateProfile edits a profile. Only the owner or an admin may edit.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	if in.Viewer.ID != in.TargetID && !in.Viewer.Admin() {
		return nil, models.NewForbiddenError("You can only edit your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}

	const maxUsernameLen = 30
	const maxBioLen = 500

	if username := strings.TrimSpace(in.Username); username != "" {
		if len(username) > maxUsernameLen {
			return nil, models.NewValidationError("Username too long (max 30 characters)")
		}
		user.Username = username
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if email := strings.TrimSpace(strings.ToLower(in.Email)); email != "" {
		if !strings.Contains(email, "@") {
			return nil, models.NewValidationError("Invalid email address")
		}
		user.Email = email
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, models.NewValidationError("Password must be at least 6 characters")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Follow adds the viewer as a follower of the target. Self-follow is always
// rejected; a duplicate follow surfaces as a distinct conflict.
func (s *UserService) Follow(ctx context.Context, viewer Viewer, targetID uint) error {
	if viewer.ID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Follow(ctx, viewer.ID, targetID)
}

func (s *UserService) Unfollow(ctx context.Context, viewer Viewer, targetID uint) error {
	if viewer.ID == targetID {
		return models.NewValidationError("You cannot unfollow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Unfollow(ctx, viewer.ID, targetID)
}

// SearchUsers finds active accounts matching the query.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit int) ([]models.User, error) {
	return s.userRepo.Search(ctx, query, limit)
}

package repository

import (
	"context"
	"errors"

	"blogonspot/internal/models"

	"gorm.io/gorm"
)

// SubscriptionRepository defines the interface for subscription data operations
type SubscriptionRepository interface {
	GetPair(ctx context.Context, subscriberID, creatorID uint) (*models.Subscription, error)
	Create(ctx context.Context, sub *models.Subscription) error
	Reactivate(ctx context.Context, sub *models.Subscription) error
	Deactivate(ctx context.Context, subscriberID, creatorID uint) error
	IsActivePair(ctx context.Context, subscriberID, creatorID uint) (bool, error)
	ActiveCreatorIDs(ctx context.Context, subscriberID uint) ([]uint, error)
	ActiveSubscriberIDs(ctx context.Context, creatorID uint) ([]uint, error)
	ListActiveBySubscriber(ctx context.Context, subscriberID uint) ([]*models.Subscription, error)
	CountActiveForCreator(ctx context.Context, creatorID uint) (int64, error)
	CountActive(ctx context.Context) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetPair returns the subscription row for the pair, active or not, or
// (nil, nil) when none exists.
func (r *subscriptionRepository) GetPair(ctx context.Context, subscriberID, creatorID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("subscriber_id = ? AND creator_id = ?", subscriberID, creatorID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &sub, nil
}

func (r *subscriptionRepository) Create(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Already subscribed to this creator")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Reactivate flips an inactive pair back to active and restarts the clock.
func (r *subscriptionRepository) Reactivate(ctx context.Context, sub *models.Subscription) error {
	if err := r.db.WithContext(ctx).
		Model(sub).
		Updates(map[string]interface{}{
			"is_active":  true,
			"start_date": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *subscriptionRepository) Deactivate(ctx context.Context, subscriberID, creatorID uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND creator_id = ? AND is_active = ?", subscriberID, creatorID, true).
		Update("is_active", false)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundMessageError("Subscription not found")
	}
	return nil
}

func (r *subscriptionRepository) IsActivePair(ctx context.Context, subscriberID, creatorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND creator_id = ? AND is_active = ?", subscriberID, creatorID, true).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *subscriptionRepository) ActiveCreatorIDs(ctx context.Context, subscriberID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("subscriber_id = ? AND is_active = ?", subscriberID, true).
		Pluck("creator_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *subscriptionRepository) ActiveSubscriberIDs(ctx context.Context, creatorID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("creator_id = ? AND is_active = ?", creatorID, true).
		Pluck("subscriber_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *subscriptionRepository) ListActiveBySubscriber(ctx context.Context, subscriberID uint) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("subscriber_id = ? AND is_active = ?", subscriberID, true).
		Order("start_date DESC").
		Find(&subs).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return subs, nil
}

func (r *subscriptionRepository) CountActiveForCreator(ctx context.Context, creatorID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("creator_id = ? AND is_active = ?", creatorID, true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *subscriptionRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("is_active = ?", true).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

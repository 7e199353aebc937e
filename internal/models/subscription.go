package models

import (
	"time"

	"gorm.io/gorm"
)

// Subscription is the durable record of a subscriber/creator pair. At most
// one row ever exists per pair: unsubscribing flips IsActive to false instead
// of deleting, which preserves the unique index and gives resubscribes a row
// to reactivate.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscription_pair" json:"subscriber_id"`
	CreatorID    uint      `gorm:"not null;uniqueIndex:idx_subscription_pair" json:"creator_id"`
	IsActive     bool      `gorm:"not null;default:true;index" json:"is_active"`
	StartDate    time.Time `json:"start_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Subscriber User `gorm:"foreignKey:SubscriberID" json:"subscriber,omitempty"`
	Creator    User `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
}

// TableName specifies the table name for GORM.
func (Subscription) TableName() string {
	return "subscriptions"
}

// BeforeCreate stamps the start date on first subscription.
func (s *Subscription) BeforeCreate(_ *gorm.DB) error {
	if s.StartDate.IsZero() {
		s.StartDate = time.Now()
	}
	return nil
}

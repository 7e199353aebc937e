// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"blogonspot/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var categories = []string{
	"tech", "food", "travel", "fitness", "music",
	"gaming", "books", "finance", "art", "science",
}

var tagPool = []string{
	"golang", "webdev", "tutorial", "opinion", "review",
	"recipe", "guide", "news", "deep-dive", "beginner",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db  *gorm.DB
	rng *rand.Rand
}

// NewFactory creates a Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:  db,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a sample user. All seeded accounts share the password
// "password123". Optional overrides may modify the user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Bio:      gofakeit.Sentence(10),
		Avatar:   fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Role:     models.RoleUser,
		IsActive: true,
	}

	// Roughly a third of accounts look like active creators.
	if f.rng.Intn(3) == 0 {
		user.CreatorBio = gofakeit.Sentence(12)
		user.CreatorCategory = categories[f.rng.Intn(len(categories))]
		user.IsVerifiedCreator = f.rng.Intn(4) == 0
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a sample post for the given author. Most seeded posts
// are public; some are subscriber-only so the access tiers have data.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	nTags := 1 + f.rng.Intn(3)
	tags := make([]string, 0, nTags)
	for _, i := range f.rng.Perm(len(tagPool))[:nTags] {
		tags = append(tags, tagPool[i])
	}

	post := &models.Post{
		AuthorID:    author.ID,
		Title:       gofakeit.Sentence(5),
		Content:     gofakeit.Paragraph(2, 4, 8, "\n\n"),
		Tags:        tags,
		IsPublished: true,
		IsPublic:    f.rng.Intn(4) != 0,
	}

	// Spread creation times over the last 90 days.
	daysBack := f.rng.Intn(90)
	hoursBack := f.rng.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a sample comment by the user on the post.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		PostID:  post.ID,
		UserID:  user.ID,
		Content: gofakeit.Sentence(8 + f.rng.Intn(12)),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like, ignoring duplicates.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{PostID: post.ID, UserID: user.ID}
	return f.db.Where(like).FirstOrCreate(like).Error
}

// CreateBookmark records a bookmark, ignoring duplicates.
func (f *Factory) CreateBookmark(user *models.User, post *models.Post) error {
	bm := &models.Bookmark{PostID: post.ID, UserID: user.ID}
	return f.db.Where(bm).FirstOrCreate(bm).Error
}

// CreateFollow records a follow edge, ignoring duplicates.
func (f *Factory) CreateFollow(follower, target *models.User) error {
	if follower.ID == target.ID {
		return nil
	}
	edge := &models.Follow{FollowerID: follower.ID, FolloweeID: target.ID}
	return f.db.Where(edge).FirstOrCreate(edge).Error
}

// CreateSubscription records an active subscription, ignoring duplicates.
func (f *Factory) CreateSubscription(subscriber, creator *models.User) error {
	if subscriber.ID == creator.ID {
		return nil
	}
	sub := &models.Subscription{
		SubscriberID: subscriber.ID,
		CreatorID:    creator.ID,
		IsActive:     true,
	}
	return f.db.Where(&models.Subscription{
		SubscriberID: subscriber.ID,
		CreatorID:    creator.ID,
	}).FirstOrCreate(sub).Error
}

package seed

import (
	"fmt"
	"log"

	"blogonspot/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options configures a seeding run.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the given database.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll removes all seedable data. Relation tables go first so foreign
// keys never dangle mid-run.
func (s *Seeder) ClearAll() error {
	tables := []any{
		&models.Subscription{},
		&models.Follow{},
		&models.Bookmark{},
		&models.Like{},
		&models.Comment{},
		&models.Post{},
		&models.User{},
	}
	for _, table := range tables {
		if err := s.db.Unscoped().Where("1 = 1").Delete(table).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", table, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run seeds users, posts and the engagement mesh (comments, likes,
// bookmarks, follows, subscriptions). It always creates one admin account
// with the credentials admin@blogonspot.dev / password123.
func (s *Seeder) Run(opts Options) error {
	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			return err
		}
	}

	if err := s.createAdmin(); err != nil {
		return err
	}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("created %d users", len(users))

	if len(users) == 0 {
		return nil
	}

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[s.factory.rng.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return fmt.Errorf("creating post: %w", err)
		}
		posts = append(posts, post)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.seedEngagement(users, posts); err != nil {
		return err
	}

	log.Println("seeding complete, all accounts use the password password123")
	return nil
}

func (s *Seeder) createAdmin() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username: "admin",
		Email:    "admin@blogonspot.dev",
		Password: string(hashed),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	return s.db.Where(&models.User{Email: admin.Email}).FirstOrCreate(admin).Error
}

// seedEngagement wires the social mesh: every user comments, likes and
// bookmarks a few random posts, follows a few users and subscribes to a few
// creators.
func (s *Seeder) seedEngagement(users []*models.User, posts []*models.Post) error {
	rng := s.factory.rng

	var comments, likes, bookmarks, follows, subs int
	for _, user := range users {
		for i := 0; i < rng.Intn(5); i++ {
			post := posts[rng.Intn(len(posts))]
			if _, err := s.factory.CreateComment(user, post); err != nil {
				return fmt.Errorf("creating comment: %w", err)
			}
			comments++
		}

		for i := 0; i < rng.Intn(8); i++ {
			if err := s.factory.CreateLike(user, posts[rng.Intn(len(posts))]); err != nil {
				return fmt.Errorf("creating like: %w", err)
			}
			likes++
		}

		for i := 0; i < rng.Intn(4); i++ {
			if err := s.factory.CreateBookmark(user, posts[rng.Intn(len(posts))]); err != nil {
				return fmt.Errorf("creating bookmark: %w", err)
			}
			bookmarks++
		}

		for i := 0; i < rng.Intn(6); i++ {
			if err := s.factory.CreateFollow(user, users[rng.Intn(len(users))]); err != nil {
				return fmt.Errorf("creating follow: %w", err)
			}
			follows++
		}

		for i := 0; i < rng.Intn(3); i++ {
			if err := s.factory.CreateSubscription(user, users[rng.Intn(len(users))]); err != nil {
				return fmt.Errorf("creating subscription: %w", err)
			}
			subs++
		}
	}

	log.Printf("engagement: %d comments, %d likes, %d bookmarks, %d follows, %d subscriptions",
		comments, likes, bookmarks, follows, subs)
	return nil
}

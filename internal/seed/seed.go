package seed

import (
	"context"
	"fmt"
	"log"

	"snapshare/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	NumPosts           int
	MaxLikesPerPost    int
	MaxCommentsPerPost int
	FollowsPerUser     int
	MaxDays            int
	ShouldClean        bool
	DryRun             bool
	SkipBcrypt         bool
	RandomSeed         int64
}

// DefaultOptions is a small but well connected data set.
func DefaultOptions() Options {
	return Options{
		NumUsers:           25,
		NumPosts:           120,
		MaxLikesPerPost:    12,
		MaxCommentsPerPost: 5,
		FollowsPerUser:     6,
		MaxDays:            60,
	}
}

// Summary counts the rows a seeding run wrote.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Likes    int
	Follows  int
}

func (s Summary) String() string {
	return fmt.Sprintf("%d users, %d posts, %d comments, %d likes, %d follows",
		s.Users, s.Posts, s.Comments, s.Likes, s.Follows)
}

var baseUsers = []struct{ Name, Email string }{
	{"Demo User", "demo@example.com"},
	{"Test User", "test@example.com"},
}

// Seed populates the database with a random social graph.
func Seed(ctx context.Context, db *gorm.DB, opts Options) (*Summary, error) {
	log.Printf("🌱 Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearAll(ctx, db); err != nil {
			return nil, fmt.Errorf("clear existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	summary := &Summary{}

	users, err := createUsers(ctx, f, opts.NumUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to create users: %w", err)
	}
	summary.Users = len(users)
	log.Printf("✓ %d users created", summary.Users)
	if len(users) == 0 {
		return summary, nil
	}

	for i := 0; i < opts.NumPosts; i++ {
		author := users[f.rng.Intn(len(users))]
		post, err := f.CreatePost(ctx, author)
		if err != nil {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		summary.Posts++

		for _, liker := range pickUsers(f, users, opts.MaxLikesPerPost) {
			if err := f.CreateLike(ctx, post, liker); err != nil {
				return nil, fmt.Errorf("failed to like post %d: %w", post.ID, err)
			}
			summary.Likes++
		}

		if opts.MaxCommentsPerPost > 0 {
			for n := f.rng.Intn(opts.MaxCommentsPerPost + 1); n > 0; n-- {
				commenter := users[f.rng.Intn(len(users))]
				if _, err := f.CreateComment(ctx, post, commenter); err != nil {
					return nil, fmt.Errorf("failed to comment on post %d: %w", post.ID, err)
				}
				summary.Comments++
			}
		}
	}
	log.Printf("✓ %d posts created with %d likes and %d comments", summary.Posts, summary.Likes, summary.Comments)

	for _, follower := range users {
		for _, target := range pickUsers(f, users, opts.FollowsPerUser) {
			created, err := f.CreateFollow(ctx, follower, target)
			if err != nil {
				return nil, fmt.Errorf("failed to follow user %d: %w", target.ID, err)
			}
			if created {
				summary.Follows++
			}
		}
	}
	log.Printf("✓ %d follow edges created", summary.Follows)

	log.Println("🎉 Database seeding completed successfully!")
	return summary, nil
}

func createUsers(ctx context.Context, f *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)
	for i := 0; i < count; i++ {
		var override func(*models.User)
		if i < len(baseUsers) {
			base := baseUsers[i]
			override = func(u *models.User) {
				u.Name = base.Name
				u.Email = base.Email
			}
		} else {
			n := i
			override = func(u *models.User) {
				// The index keeps generated addresses unique.
				u.Email = fmt.Sprintf("user%d.%s", n, u.Email)
			}
		}

		user, err := f.CreateUser(ctx, override)
		if err != nil {
			return nil, err
		}
		users = append(users, user)

		if i > 0 && i%100 == 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

// pickUsers returns up to limit distinct users chosen at random.
func pickUsers(f *Factory, users []*models.User, limit int) []*models.User {
	if limit <= 0 {
		return nil
	}
	n := f.rng.Intn(limit + 1)
	if n > len(users) {
		n = len(users)
	}
	picked := make([]*models.User, 0, n)
	for _, idx := range f.rng.Perm(len(users))[:n] {
		picked = append(picked, users[idx])
	}
	return picked
}

// ClearAll removes every seeded row. Postgres tables are truncated and their
// identities reset.
func ClearAll(ctx context.Context, db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.WithContext(ctx).
			Exec(`TRUNCATE TABLE comments, likes, subscriptions, posts, users RESTART IDENTITY CASCADE`).Error
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&models.Comment{}, &models.Like{}, &models.Subscription{}, &models.Post{}, &models.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

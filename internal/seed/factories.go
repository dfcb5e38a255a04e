// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"snapshare/internal/auth"
	"snapshare/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPassword is the password every seeded account signs in with.
const DefaultPassword = "password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by Seed, ApplyScenario and tests.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	rng   *rand.Rand

	passwordHash string
	// synthetic ID counter when running in DryRun mode
	nextID uint
}

// NewFactory creates a new Factory bound to the provided Gorm DB. A zero
// opts.RandomSeed seeds from the clock.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{
		db:     db,
		opts:   opts,
		faker:  gofakeit.New(seed),
		rng:    rand.New(rand.NewSource(seed)), //nolint:gosec // weak randomness is fine for seeding
		nextID: 1000,
	}
}

func (f *Factory) hashedPassword() (string, error) {
	if f.passwordHash != "" {
		return f.passwordHash, nil
	}
	if f.opts.SkipBcrypt {
		f.passwordHash = DefaultPassword
		return f.passwordHash, nil
	}
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return "", err
	}
	f.passwordHash = hash
	return hash, nil
}

// pastTime returns a moment within the last MaxDays days.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*models.User)) (*models.User, error) {
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), f.faker.Number(100, 9999)),
		Bio:   f.faker.Sentence(10),
	}
	user.Image = fmt.Sprintf("https://i.pravatar.cc/150?u=%s", f.faker.UUID())

	hash, err := f.hashedPassword()
	if err != nil {
		return nil, err
	}
	user.Password = hash

	for _, override := range overrides {
		override(user)
	}
	user.Email = models.NormalizeEmail(user.Email)

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: id=%d email=%s", user.ID, user.Email)
		return user, nil
	}

	if err := f.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildPost constructs a post for author without persisting it. Roughly
// three out of five posts carry an image.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.Post)) *models.Post {
	post := &models.Post{
		Caption:   f.faker.Sentence(f.faker.Number(3, 14)),
		UserID:    author.ID,
		CreatedAt: f.pastTime(),
	}
	if f.rng.Float32() < 0.6 {
		post.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/800/800", f.faker.UUID())
	}

	for _, override := range overrides {
		override(post)
	}
	post.UpdatedAt = post.CreatedAt
	return post
}

// CreatePost constructs and persists a sample `models.Post` for the given user.
func (f *Factory) CreatePost(ctx context.Context, author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := f.BuildPost(author, overrides...)

	if f.opts.DryRun {
		f.nextID++
		post.ID = f.nextID
		log.Printf("[dry-run] CreatePost: user=%d caption=%q", post.UserID, post.Caption)
		return post, nil
	}

	if err := f.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment appends a comment by author to post. The comment is dated
// after the post.
func (f *Factory) CreateComment(ctx context.Context, post *models.Post, author *models.User, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Text:   f.faker.Sentence(f.faker.Number(2, 12)),
		UserID: author.ID,
		PostID: post.ID,
	}
	since := time.Since(post.CreatedAt)
	if since > time.Minute {
		comment.CreatedAt = post.CreatedAt.Add(time.Duration(f.rng.Int63n(int64(since))))
	} else {
		comment.CreatedAt = time.Now()
	}

	for _, override := range overrides {
		override(comment)
	}

	if f.opts.DryRun {
		f.nextID++
		comment.ID = f.nextID
		return comment, nil
	}

	if err := f.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike adds user to the post's like set. Repeated calls leave one row.
func (f *Factory) CreateLike(ctx context.Context, post *models.Post, user *models.User) error {
	if f.opts.DryRun {
		return nil
	}
	like := &models.Like{UserID: user.ID, PostID: post.ID, CreatedAt: time.Now()}
	return f.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error
}

// CreateFollow records follower -> following. Self edges are skipped and
// repeated calls leave one row. It reports whether an edge was written.
func (f *Factory) CreateFollow(ctx context.Context, follower, following *models.User) (bool, error) {
	if follower.ID == following.ID {
		return false, nil
	}
	if f.opts.DryRun {
		return true, nil
	}
	sub := &models.Subscription{FollowerID: follower.ID, FollowingID: following.ID}
	result := f.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(sub)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

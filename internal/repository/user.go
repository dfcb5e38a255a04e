// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"
	"strings"

	"snapshare/internal/cache"
	"snapshare/internal/models"

	"gorm.io/gorm"
)

const (
	defaultUserListLimit = 20
	maxUserListLimit     = 100
	SearchLimit          = 10
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error)
	Search(ctx context.Context, prefix string, limit int) ([]models.User, error)
	List(ctx context.Context, limit, offset int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
			return wrapNotFound(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByIDWithPosts loads the user with their posts, newest first, each with
// the likes and comments the feed shows.
func (r *userRepository) GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.ProfileKey(id), &user, cache.ProfileTTL, func() error {
		db := r.db.WithContext(ctx).
			Preload("Posts", func(db *gorm.DB) *gorm.DB {
				return db.Order("created_at DESC, id DESC")
			})
		err := preloadPostDetails(db, "Posts.").First(&user, id).Error
		if err != nil {
			return wrapNotFound(err, "User", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail returns (nil, nil) when no account uses the address.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = models.NormalizeEmail(user.Email)
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Email already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).
		Model(user).
		Select("Name", "Bio", "Image").
		Updates(user).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// UpsertByEmail returns the account for user.Email, creating it from user
// when absent. A concurrent creator winning the unique index is resolved by
// reading its row.
func (r *userRepository) UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	existing, err := r.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	err = r.Create(ctx, user)
	if err == nil {
		return user, nil
	}
	if !models.HasCode(err, models.CodeConflict) {
		return nil, err
	}

	existing, err = r.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, models.NewInternalError(errors.New("user vanished after unique violation"))
	}
	return existing, nil
}

// Search matches names starting with prefix, ignoring case.
func (r *userRepository) Search(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []models.User{}, nil
	}
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%").
		Order("name ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	if limit <= 0 {
		limit = defaultUserListLimit
	}
	if limit > maxUserListLimit {
		limit = maxUserListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var users []models.User
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&users).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return users, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

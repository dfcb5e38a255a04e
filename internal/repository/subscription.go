package repository

import (
	"context"

	"snapshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SubscriptionRepository stores directed follow edges.
type SubscriptionRepository interface {
	Toggle(ctx context.Context, followerID, followingID uint) (bool, error)
	Exists(ctx context.Context, followerID, followingID uint) (bool, error)
	CountFollowers(ctx context.Context, userID uint) (int64, error)
	CountFollowing(ctx context.Context, userID uint) (int64, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// Toggle deletes the edge if present, otherwise creates it, and reports
// whether the edge exists afterwards.
func (r *subscriptionRepository) Toggle(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == followingID {
		return false, models.NewValidationError("You cannot follow yourself")
	}

	db := r.db.WithContext(ctx)
	res := db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	sub := models.Subscription{FollowerID: followerID, FollowingID: followingID}
	err := db.Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(&sub).Error
	if err != nil {
		if isForeignKeyError(err) {
			return false, models.NewNotFoundError("User", followingID)
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

func (r *subscriptionRepository) Exists(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Subscription{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// CountFollowers counts edges pointing at userID.
func (r *subscriptionRepository) CountFollowers(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "following_id = ?", userID)
}

// CountFollowing counts edges leaving userID.
func (r *subscriptionRepository) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return r.count(ctx, "follower_id = ?", userID)
}

func (r *subscriptionRepository) count(ctx context.Context, where string, userID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Subscription{}).Where(where, userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

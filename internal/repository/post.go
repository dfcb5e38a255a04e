package repository

import (
	"context"
	"errors"

	"snapshare/internal/cache"
	"snapshare/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	GetOwnerID(ctx context.Context, id uint) (uint, error)
	List(ctx context.Context) ([]*models.Post, error)
	ToggleLike(ctx context.Context, postID, userID uint) (bool, error)
	AppendComment(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post. A post without caption and image is never stored.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if !post.HasContent() {
		return models.NewValidationError("Either a non-empty caption or image is required")
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("User", post.UserID)
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.ProfileKey(post.UserID))
	return nil
}

// withDetails preloads everything the view assembler expands.
func withDetails(db *gorm.DB) *gorm.DB {
	return preloadPostDetails(db, "")
}

// preloadPostDetails preloads likes, comments and comment authors of the
// posts reached through prefix ("" for posts themselves, "Posts." from a user).
func preloadPostDetails(db *gorm.DB, prefix string) *gorm.DB {
	return db.
		Preload(prefix+"User").
		Preload(prefix+"Likes", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, user_id ASC")
		}).
		Preload(prefix+"Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		}).
		Preload(prefix + "Comments.User")
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withDetails(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, wrapNotFound(err, "Post", id)
	}
	return &post, nil
}

// GetOwnerID reads only the immutable owner column.
func (r *postRepository) GetOwnerID(ctx context.Context, id uint) (uint, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Select("id", "user_id").First(&post, id).Error; err != nil {
		return 0, wrapNotFound(err, "Post", id)
	}
	return post.UserID, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	var posts []*models.Post
	err := withDetails(r.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// ToggleLike flips userID's membership in the post's like set and reports
// whether the user likes the post afterwards. Both branches are single
// statements, so concurrent toggles by other users are never overwritten.
func (r *postRepository) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	ownerID, err := r.GetOwnerID(ctx, postID)
	if err != nil {
		return false, err
	}
	defer cache.Invalidate(ctx, cache.ProfileKey(ownerID))

	db := r.db.WithContext(ctx)
	res := db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
	if res.Error != nil {
		return false, models.NewInternalError(res.Error)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	like := models.Like{UserID: userID, PostID: postID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		if isForeignKeyError(err) {
			return false, models.NewNotFoundError("Post", postID)
		}
		return false, models.NewInternalError(err)
	}
	return true, nil
}

// AppendComment inserts one comment row. Existing comments are never
// rewritten.
func (r *postRepository) AppendComment(ctx context.Context, comment *models.Comment) error {
	ownerID, err := r.GetOwnerID(ctx, comment.PostID)
	if err != nil {
		return err
	}
	defer cache.Invalidate(ctx, cache.ProfileKey(ownerID))

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error; err != nil {
		if isForeignKeyError(err) {
			return models.NewNotFoundError("Post", comment.PostID)
		}
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the post together with its likes and comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	var ownerID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Select("id", "user_id").First(&post, id).Error; err != nil {
			return err
		}
		ownerID = post.UserID

		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}

	cache.Invalidate(ctx, cache.ProfileKey(ownerID))
	return nil
}

package service

import (
	"context"

	"snapshare/internal/models"
	"snapshare/internal/observability"
	"snapshare/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

type FollowService struct {
	subs  repository.SubscriptionRepository
	users repository.UserRepository
}

func NewFollowService(subs repository.SubscriptionRepository, users repository.UserRepository) *FollowService {
	return &FollowService{subs: subs, users: users}
}

// ToggleFollow creates or removes the follower -> following edge.
func (s *FollowService) ToggleFollow(ctx context.Context, followerID, followingID uint) (status *models.FollowStatus, err error) {
	ctx, end := observability.StartSpan(ctx, "FollowService.ToggleFollow",
		attribute.Int64("follower.id", int64(followerID)),
		attribute.Int64("following.id", int64(followingID)),
	)
	defer func() { end(err) }()

	if followerID == followingID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	exists, err := s.users.Exists(ctx, followingID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("User", followingID)
	}

	followed, err := s.subs.Toggle(ctx, followerID, followingID)
	observability.RecordMutation("toggle_follow", err)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, followed, followerID, followingID)
}

// Status reports whether followerID follows followingID with live counts.
func (s *FollowService) Status(ctx context.Context, followerID, followingID uint) (*models.FollowStatus, error) {
	followed, err := s.subs.Exists(ctx, followerID, followingID)
	if err != nil {
		return nil, err
	}
	return s.withCounts(ctx, followed, followerID, followingID)
}

func (s *FollowService) withCounts(ctx context.Context, followed bool, followerID, followingID uint) (*models.FollowStatus, error) {
	followers, err := s.subs.CountFollowers(ctx, followingID)
	if err != nil {
		return nil, err
	}
	following, err := s.subs.CountFollowing(ctx, followerID)
	if err != nil {
		return nil, err
	}
	return &models.FollowStatus{
		Followed:       followed,
		FollowerCount:  followers,
		FollowingCount: following,
	}, nil
}

package service

import (
	"context"

	"snapshare/internal/models"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	getOwnerIDFn    func(context.Context, uint) (uint, error)
	listFn          func(context.Context) ([]*models.Post, error)
	toggleLikeFn    func(context.Context, uint, uint) (bool, error)
	appendCommentFn func(context.Context, *models.Comment) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) GetOwnerID(ctx context.Context, id uint) (uint, error) {
	return s.getOwnerIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]*models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, postID, userID uint) (bool, error) {
	return s.toggleLikeFn(ctx, postID, userID)
}
func (s *postRepoStub) AppendComment(ctx context.Context, comment *models.Comment) error {
	return s.appendCommentFn(ctx, comment)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, p *models.Post) error {
			p.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Caption: "stub"}, nil
		},
		getOwnerIDFn:    func(_ context.Context, _ uint) (uint, error) { return 0, nil },
		listFn:          func(_ context.Context) ([]*models.Post, error) { return nil, nil },
		toggleLikeFn:    func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		appendCommentFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn          func(context.Context, uint) (*models.User, error)
	getByIDWithPostsFn func(context.Context, uint) (*models.User, error)
	getByEmailFn       func(context.Context, string) (*models.User, error)
	existsFn           func(context.Context, uint) (bool, error)
	createFn           func(context.Context, *models.User) error
	updateFn           func(context.Context, *models.User) error
	upsertByEmailFn    func(context.Context, *models.User) (*models.User, error)
	searchFn           func(context.Context, string, int) ([]models.User, error)
	listFn             func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByIDWithPosts(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDWithPostsFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) UpsertByEmail(ctx context.Context, user *models.User) (*models.User, error) {
	return s.upsertByEmailFn(ctx, user)
}
func (s *userRepoStub) Search(ctx context.Context, prefix string, limit int) ([]models.User, error) {
	return s.searchFn(ctx, prefix, limit)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

// subRepoStub is an in-memory repository.SubscriptionRepository.
type subRepoStub struct {
	edges map[[2]uint]bool
}

func newSubRepoStub() *subRepoStub {
	return &subRepoStub{edges: map[[2]uint]bool{}}
}

func (s *subRepoStub) Toggle(_ context.Context, followerID, followingID uint) (bool, error) {
	key := [2]uint{followerID, followingID}
	if s.edges[key] {
		delete(s.edges, key)
		return false, nil
	}
	s.edges[key] = true
	return true, nil
}

func (s *subRepoStub) Exists(_ context.Context, followerID, followingID uint) (bool, error) {
	return s.edges[[2]uint{followerID, followingID}], nil
}

func (s *subRepoStub) CountFollowers(_ context.Context, userID uint) (int64, error) {
	var n int64
	for k := range s.edges {
		if k[1] == userID {
			n++
		}
	}
	return n, nil
}

func (s *subRepoStub) CountFollowing(_ context.Context, userID uint) (int64, error) {
	var n int64
	for k := range s.edges {
		if k[0] == userID {
			n++
		}
	}
	return n, nil
}

type uploaderStub struct {
	url   string
	err   error
	calls int
}

func (u *uploaderStub) Upload(_ context.Context, _ []byte) (string, error) {
	u.calls++
	return u.url, u.err
}

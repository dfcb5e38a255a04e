package service

import (
	"context"
	"testing"

	"snapshare/internal/models"
	"snapshare/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_UpdateProfile_OnlySelf(t *testing.T) {
	repo := &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			t.Fatal("no lookup for a foreign profile")
			return nil, nil
		},
	}
	svc := NewUserService(repo, nil)
	name := "Mallory"

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ActorID: 1, UserID: 2, Name: &name})
	require.Error(t, err)
	assert.True(t, models.HasCode(err, models.CodeForbidden))
}

func TestUserService_UpdateProfile_AppliesFields(t *testing.T) {
	stored := &models.User{ID: 4, Name: "Old", Bio: "old bio", Email: "me@example.com"}
	uploader := &uploaderStub{url: "/media/h/master.jpg"}
	repo := &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			cp := *stored
			return &cp, nil
		},
		updateFn: func(_ context.Context, u *models.User) error {
			stored = u
			return nil
		},
		getByIDWithPostsFn: func(context.Context, uint) (*models.User, error) {
			return stored, nil
		},
	}
	svc := NewUserService(repo, uploader)
	name := "  New Name "

	view, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{
		ActorID: 4,
		UserID:  4,
		Name:    &name,
		Image:   testutil.PNGDataURI(t, 2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, "New Name", view.Name)
	assert.Equal(t, "old bio", view.Bio, "nil bio leaves the field unchanged")
	assert.Equal(t, "/media/h/master.jpg", view.Image)
	assert.Equal(t, "me@example.com", view.Email)
	assert.Equal(t, 1, uploader.calls)
}

func TestUserService_UpdateProfile_RejectsEmptyName(t *testing.T) {
	repo := &userRepoStub{
		getByIDFn: func(context.Context, uint) (*models.User, error) {
			return &models.User{ID: 4, Name: "Old"}, nil
		},
		updateFn: func(context.Context, *models.User) error {
			t.Fatal("invalid update must not be stored")
			return nil
		},
	}
	svc := NewUserService(repo, nil)
	blank := "   "

	_, err := svc.UpdateProfile(context.Background(), UpdateProfileInput{ActorID: 4, UserID: 4, Name: &blank})
	assert.True(t, models.HasCode(err, models.CodeValidation))
}

func TestUserService_GetProfile_HidesEmailFromOthers(t *testing.T) {
	repo := &userRepoStub{
		getByIDWithPostsFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id, Name: "Ana", Email: "ana@example.com", Posts: []models.Post{{ID: 3, UserID: id}}}, nil
		},
	}
	svc := NewUserService(repo, nil)

	view, err := svc.GetProfile(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Empty(t, view.Email)
	require.Len(t, view.Posts, 1)
	assert.Equal(t, "Ana", view.Posts[0].User.Name)
}

func TestUserService_SearchUsers(t *testing.T) {
	var gotLimit int
	repo := &userRepoStub{
		searchFn: func(_ context.Context, prefix string, limit int) ([]models.User, error) {
			gotLimit = limit
			return []models.User{{ID: 1, Name: "Anna", Image: "/a.jpg"}}, nil
		},
	}
	svc := NewUserService(repo, nil)

	_, err := svc.SearchUsers(context.Background(), "  ")
	assert.True(t, models.HasCode(err, models.CodeValidation))

	refs, err := svc.SearchUsers(context.Background(), "an")
	require.NoError(t, err)
	assert.Equal(t, 10, gotLimit)
	assert.Equal(t, []models.UserRef{{ID: 1, Name: "Anna", Avatar: "/a.jpg"}}, refs)
}

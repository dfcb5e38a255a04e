package service

import (
	"context"
	"strings"

	"snapshare/internal/models"
	"snapshare/internal/repository"
	"snapshare/internal/storage"
	"snapshare/internal/validation"
)

type UserService struct {
	userRepo repository.UserRepository
	uploader storage.Uploader
}

// UpdateProfileInput carries optional fields; nil leaves a field unchanged.
type UpdateProfileInput struct {
	ActorID uint
	UserID  uint
	Name    *string
	Bio     *string
	Image   string
}

func NewUserService(userRepo repository.UserRepository, uploader storage.Uploader) *UserService {
	return &UserService{userRepo: userRepo, uploader: uploader}
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.UserRef, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return userRefs(users), nil
}

func (s *UserService) GetProfile(ctx context.Context, id, viewerID uint) (*models.ProfileView, error) {
	user, err := s.userRepo.GetByIDWithPosts(ctx, id)
	if err != nil {
		return nil, err
	}
	view := models.NewProfileView(user, viewerID)
	return &view, nil
}

// SearchUsers matches a case-insensitive name prefix.
func (s *UserService) SearchUsers(ctx context.Context, prefix string) ([]models.UserRef, error) {
	if strings.TrimSpace(prefix) == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, err := s.userRepo.Search(ctx, prefix, repository.SearchLimit)
	if err != nil {
		return nil, err
	}
	return userRefs(users), nil
}

func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.ProfileView, error) {
	if in.ActorID != in.UserID {
		return nil, models.NewForbiddenError("Forbidden: You can only edit your own profile")
	}

	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validation.ValidateName(name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Name = name
	}
	if in.Bio != nil {
		bio := strings.TrimSpace(*in.Bio)
		if err := validation.ValidateBio(bio); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Bio = bio
	}
	if strings.TrimSpace(in.Image) != "" {
		data, err := storage.DecodePayload(in.Image)
		if err != nil {
			return nil, err
		}
		url, err := storage.UploadImage(ctx, s.uploader, data)
		if err != nil {
			return nil, err
		}
		user.Image = url
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.GetProfile(ctx, user.ID, in.ActorID)
}

func userRefs(users []models.User) []models.UserRef {
	refs := make([]models.UserRef, 0, len(users))
	for _, u := range users {
		refs = append(refs, models.NewUserRef(u))
	}
	return refs
}

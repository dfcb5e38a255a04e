// Package service implements the graph mutations and read paths on top of
// the repositories.
package service

import (
	"context"
	"strings"

	"snapshare/internal/models"
	"snapshare/internal/observability"
	"snapshare/internal/repository"
	"snapshare/internal/storage"
	"snapshare/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	postRepo repository.PostRepository
	uploader storage.Uploader
}

type CreatePostInput struct {
	UserID  uint
	Caption string
	// Image is a base64 data URI or bare base64; empty means no image.
	Image string
}

type AddCommentInput struct {
	UserID uint
	PostID uint
	Text   string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

// ToggleLikeResult is the post after the toggle plus the caller's new membership.
type ToggleLikeResult struct {
	Post  models.PostView
	Liked bool
}

func NewPostService(postRepo repository.PostRepository, uploader storage.Uploader) *PostService {
	return &PostService{postRepo: postRepo, uploader: uploader}
}

// CreatePost uploads the image first; an upload failure aborts creation.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (view *models.PostView, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.CreatePost", attribute.Int64("user.id", int64(in.UserID)))
	defer func() { end(err) }()

	caption := strings.TrimSpace(in.Caption)
	if err := validation.ValidateCaption(caption); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var imageData []byte
	if strings.TrimSpace(in.Image) != "" {
		imageData, err = storage.DecodePayload(in.Image)
		if err != nil {
			return nil, err
		}
	}
	if caption == "" && len(imageData) == 0 {
		return nil, models.NewValidationError("Either a non-empty caption or image is required")
	}

	post := &models.Post{UserID: in.UserID, Caption: caption}
	if len(imageData) > 0 {
		url, err := storage.UploadImage(ctx, s.uploader, imageData)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	err = s.postRepo.Create(ctx, post)
	observability.RecordMutation("create_post", err)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, post.ID, in.UserID)
}

// ListPosts returns every post newest first. An empty store is NOT_FOUND.
func (s *PostService) ListPosts(ctx context.Context, viewerID uint) ([]models.PostView, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, models.NewNotFoundMessage("No post found")
	}
	return models.NewPostViews(posts, viewerID), nil
}

func (s *PostService) GetPost(ctx context.Context, id, viewerID uint) (*models.PostView, error) {
	return s.assemble(ctx, id, viewerID)
}

// ToggleLike flips the caller's like and returns the re-read post.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (res *ToggleLikeResult, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.ToggleLike",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int64("post.id", int64(postID)),
	)
	defer func() { end(err) }()

	liked, err := s.postRepo.ToggleLike(ctx, postID, userID)
	observability.RecordMutation("toggle_like", err)
	if err != nil {
		return nil, err
	}

	view, err := s.assemble(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	return &ToggleLikeResult{Post: *view, Liked: liked}, nil
}

func (s *PostService) AddComment(ctx context.Context, in AddCommentInput) (view *models.PostView, err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.AddComment",
		attribute.Int64("user.id", int64(in.UserID)),
		attribute.Int64("post.id", int64(in.PostID)),
	)
	defer func() { end(err) }()

	text := strings.TrimSpace(in.Text)
	if err := validation.ValidateCommentText(text); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	err = s.postRepo.AppendComment(ctx, &models.Comment{PostID: in.PostID, UserID: in.UserID, Text: text})
	observability.RecordMutation("add_comment", err)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, in.PostID, in.UserID)
}

// DeletePost removes a post owned by the caller.
func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	ctx, end := observability.StartSpan(ctx, "PostService.DeletePost",
		attribute.Int64("user.id", int64(in.UserID)),
		attribute.Int64("post.id", int64(in.PostID)),
	)
	defer func() {
		observability.RecordMutation("delete_post", err)
		end(err)
	}()

	ownerID, err := s.postRepo.GetOwnerID(ctx, in.PostID)
	if err != nil {
		return err
	}
	if ownerID != in.UserID {
		return models.NewForbiddenError("Forbidden: You cannot delete this post")
	}
	return s.postRepo.Delete(ctx, in.PostID)
}

func (s *PostService) assemble(ctx context.Context, postID, viewerID uint) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	view := models.NewPostView(post, viewerID)
	return &view, nil
}

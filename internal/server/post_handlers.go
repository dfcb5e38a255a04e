package server

import (
	"snapshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Caption string `json:"caption"`
	// Image is a base64 data URI or bare base64 string.
	Image string `json:"image"`
}

type commentRequest struct {
	Text string `json:"text"`
}

// CreatePost handles POST /api/post/create
// @Summary Create a post
// @Description Creates a post with a caption, an image, or both. The image is uploaded before the post is stored.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "Post"
// @Success 201 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /post/create [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	view, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		Caption: req.Caption,
		Image:   req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(c.UserContext(), EventPostCreated, fiber.Map{"post": view})

	return c.Status(fiber.StatusCreated).JSON(view)
}

// ListPosts handles GET /api/post/read
// @Summary List posts
// @Description Every post newest first, with owner, likes and comments expanded.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PostView
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/read [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	views, err := s.postService.ListPosts(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(views)
}

// GetPost handles GET /api/post/read/:id
// @Summary Get a post
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/read/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	view, err := s.postService.GetPost(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(view)
}

// ToggleLike handles PUT /api/post/:id
// @Summary Like or unlike a post
// @Description Adds the caller to the post's likes, or removes them if already present.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [put]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.postService.ToggleLike(c.UserContext(), userID, postID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(c.UserContext(), EventPostLiked, fiber.Map{
		"postId":     postID,
		"userId":     userID,
		"liked":      res.Liked,
		"likesCount": res.Post.LikesCount,
	})

	return c.JSON(res.Post)
}

// AddComment handles POST /api/post/:id
// @Summary Comment on a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body commentRequest true "Comment"
// @Success 200 {object} models.PostView
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	view, err := s.postService.AddComment(c.UserContext(), service.AddCommentInput{
		UserID: userID,
		PostID: postID,
		Text:   req.Text,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	payload := fiber.Map{"postId": postID}
	if n := len(view.Comments); n > 0 {
		payload["comment"] = view.Comments[n-1]
	}
	s.publishBroadcastEvent(c.UserContext(), EventCommentAdded, payload)

	return c.JSON(view)
}

// DeletePost handles DELETE /api/post/:id
// @Summary Delete a post
// @Description Only the owner may delete a post. Its likes and comments go with it.
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /post/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := currentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: userID,
		PostID: postID,
	}); err != nil {
		return respondServiceError(c, err)
	}

	s.publishBroadcastEvent(c.UserContext(), EventPostDeleted, fiber.Map{"postId": postID})

	return c.JSON(fiber.Map{"message": "Post deleted successfully"})
}

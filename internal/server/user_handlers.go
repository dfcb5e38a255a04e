package server

import (
	"snapshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

const defaultUserPageSize = 20

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Bio   *string `json:"bio"`
	Image string  `json:"image"`
}

// ListUsers handles GET /api/user
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.UserRef
// @Failure 401 {object} models.ErrorResponse
// @Router /user [get]
func (s *Server) ListUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultUserPageSize)
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	users, err := s.userService.ListUsers(c.UserContext(), limit, offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// SearchUsers handles GET /api/user/search?name=
// @Summary Search users by name prefix
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param name query string true "Name prefix"
// @Success 200 {array} models.UserRef
// @Failure 400 {object} models.ErrorResponse
// @Router /user/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	users, err := s.userService.SearchUsers(c.UserContext(), c.Query("name"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/user/:id
// @Summary Get a user profile
// @Description The user with their posts, newest first.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.ProfileView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

// UpdateProfile handles POST /api/user/:id
// @Summary Update own profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body updateProfileRequest true "Fields to change"
// @Success 200 {object} models.ProfileView
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /user/{id} [post]
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	profile, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		ActorID: currentUserID(c),
		UserID:  id,
		Name:    req.Name,
		Bio:     req.Bio,
		Image:   req.Image,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(profile)
}

package server

import (
	"github.com/gofiber/fiber/v2"
)

// ToggleFollow handles POST /api/user/follow/:id
// @Summary Follow or unfollow a user
// @Description Creates the caller -> target follow edge, or removes it if present. Responds 201 when the edge was created and 200 when it was removed.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID to follow"
// @Success 200 {object} models.FollowStatus
// @Success 201 {object} models.FollowStatus
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /user/follow/{id} [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	followerID := currentUserID(c)
	followingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	status, err := s.followService.ToggleFollow(c.UserContext(), followerID, followingID)
	if err != nil {
		return respondServiceError(c, err)
	}

	s.publishUserEvent(c.UserContext(), followingID, EventFollowChanged, fiber.Map{
		"followerId":    followerID,
		"followed":      status.Followed,
		"followerCount": status.FollowerCount,
	})

	code := fiber.StatusOK
	if status.Followed {
		code = fiber.StatusCreated
	}
	return c.Status(code).JSON(status)
}

// FollowStatus handles GET /api/user/follow/:id
// @Summary Follow status
// @Description Whether the caller follows the user, the user's follower count and the caller's following count.
// @Tags follows
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.FollowStatus
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /user/follow/{id} [get]
func (s *Server) FollowStatus(c *fiber.Ctx) error {
	followingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	status, err := s.followService.Status(c.UserContext(), currentUserID(c), followingID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(status)
}

package server

import (
	"snapshare/internal/middleware"
	"snapshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type providerLoginRequest struct {
	Provider    string `json:"provider"`
	AccessToken string `json:"accessToken"`
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Creates a password account and returns a session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} service.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := s.authService.Register(c.UserContext(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

// Login handles POST /api/auth/login
// @Summary Password login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} service.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := s.authService.Authenticate(c.UserContext(), service.PasswordCredential{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// ProviderLogin handles POST /api/auth/oauth
// @Summary Identity provider login
// @Description Exchanges a provider access token for a session. The account is matched by email and created on first use.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body providerLoginRequest true "Provider token"
// @Success 200 {object} service.Session
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /auth/oauth [post]
func (s *Server) ProviderLogin(c *fiber.Ctx) error {
	var req providerLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	session, err := s.authService.Authenticate(c.UserContext(), service.ProviderCredential{
		Provider:    req.Provider,
		AccessToken: req.AccessToken,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(session)
}

// Me handles GET /api/auth/me
// @Summary Current identity
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{identity=auth.Identity,user=models.User}
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/me [get]
func (s *Server) Me(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return respondServiceError(c, errUnauthenticated)
	}

	user, err := s.authService.Me(c.UserContext(), identity.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"identity": identity,
		"user":     user,
	})
}

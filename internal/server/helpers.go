package server

import (
	"context"
	"errors"
	"log/slog"

	"snapshare/internal/middleware"
	"snapshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

var errUnauthenticated = models.NewUnauthenticatedError("Authorization required")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps an error from the service layer to the error
// taxonomy. Anything that is not an AppError is logged and reported as an
// internal error.
func respondServiceError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		if appErr.Status() >= fiber.StatusInternalServerError {
			middleware.Logger.ErrorContext(c.UserContext(), "request failed",
				slog.String("code", appErr.Code), slog.String("error", appErr.Error()))
		}
		return models.RespondWithError(c, appErr.Status(), appErr)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		middleware.Logger.WarnContext(c.UserContext(), "request timed out", slog.String("error", err.Error()))
	} else {
		middleware.Logger.ErrorContext(c.UserContext(), "unexpected error", slog.String("error", err.Error()))
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

func invalidBody(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid request body"))
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusUnauthorized:
		return models.CodeUnauthenticated
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusConflict:
		return models.CodeConflict
	}
	if status >= fiber.StatusBadRequest && status < fiber.StatusInternalServerError {
		return models.CodeValidation
	}
	return models.CodeInternal
}

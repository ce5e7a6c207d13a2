package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/example/bozor/internal/logger"
	"github.com/example/bozor/internal/services"
)

// ErrorHandler renders every error as {"success": false, "error": msg}.
// Anything that is not a *fiber.Error is reported as a 500 and logged.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		logger.FromCtx(c).Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// fromService converts a domain error into the matching HTTP error.
func fromService(err error) error {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		return err
	}

	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrMismatch),
		errors.Is(err, services.ErrInvalidCredential):
		return fiber.NewError(fiber.StatusBadRequest, svcErr.Msg)
	case errors.Is(err, services.ErrDuplicate):
		return fiber.NewError(fiber.StatusConflict, svcErr.Msg)
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, svcErr.Msg)
	default:
		return err
	}
}

package handlers

import (
	"errors"

	"rise-platform/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalErrorMessage = "internal server error"

// respondError writes err as {"error": msg} with the status its kind maps to.
// Unclassified errors are logged and hidden behind a generic 500.
func respondError(c *fiber.Ctx, logger *zap.Logger, err error) error {
	var se *services.ServiceError
	switch {
	case errors.As(err, &se):
		return c.Status(statusFor(se.Kind)).JSON(fiber.Map{"error": se.Message})
	case errors.Is(err, services.ErrStorageDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	default:
		logger.Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": internalErrorMessage})
	}
}

func statusFor(kind error) int {
	switch {
	case errors.Is(kind, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(kind, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(kind, services.ErrBadRequest):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler is the app-wide fallback for errors that escape a handler,
// such as unknown routes or panics turned into errors by the recover middleware.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return respondError(c, logger, err)
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
}

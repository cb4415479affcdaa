package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vigil-vms/vigil/internal/auth"
	"github.com/vigil-vms/vigil/internal/service"
)

// Detail is the body of every error response.
type Detail struct {
	Detail string `json:"detail"`
}

// ErrorHandler maps errors returned by handlers to status codes and {"detail": ...} bodies.
// Unknown errors are logged and answered with a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var (
		domain     *service.Error
		fiberErr   *fiber.Error
		validation validator.ValidationErrors
	)

	switch {
	case errors.As(err, &domain):
		return c.Status(statusOf(domain.Kind)).JSON(Detail{Detail: domain.Error()})

	case errors.Is(err, auth.ErrUserAccountDisabled):
		return c.Status(fiber.StatusForbidden).JSON(Detail{Detail: "Inactive user"})

	case errors.Is(err, auth.ErrUnauthorized):
		log.Debug().Err(err).Str("path", c.Path()).Msg("unauthorized request")

		return auth.Unauthorized(c)

	case errors.Is(err, auth.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(Detail{Detail: "Not enough permissions"})

	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(Detail{Detail: validationMessage(validation)})

	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(Detail{Detail: fiberErr.Message})
	}

	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")

	return c.Status(fiber.StatusInternalServerError).JSON(Detail{Detail: msgInternal})
}

func statusOf(kind service.Kind) int {
	switch kind {
	case service.KindNotFound:
		return fiber.StatusNotFound
	case service.KindValidation:
		return fiber.StatusBadRequest
	case service.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := fe.Field() + " failed on " + fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}

		parts = append(parts, msg)
	}

	return strings.Join(parts, "; ")
}

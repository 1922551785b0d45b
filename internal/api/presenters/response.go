package presenters

import (
	"Food-Inventory-Backend/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse renders a failed request. Server-side causes are logged and
// replaced by the internal error kind so driver details stay private.
func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
		if statusCode >= fiber.StatusInternalServerError {
			log.Errorw(message, "method", c.Method(), "path", c.Path(), "error", err)
			res.Error = domain.ErrInternal.Error()
		}
	}
	return c.Status(statusCode).JSON(res)
}

// ErrorStatus maps a domain error kind to its HTTP status code.
func ErrorStatus(err error) int {
	var validationErrs validator.ValidationErrors
	switch {
	case err == nil:
		return fiber.StatusOK
	case errors.As(err, &validationErrs), errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// DomainErrorResponse renders err with the status code of its kind.
func DomainErrorResponse(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, ErrorStatus(err), message, err)
}

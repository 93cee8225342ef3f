package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// APIError is a structured error response.
type APIError struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`    // Error code: bad_request, not_found, provider_error, etc.
	Message   string `json:"message"` // Human-readable message
	Provider  string `json:"provider,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errUnauthorized returns a 401 error.
func errUnauthorized(c *fiber.Ctx, msg string) error {
	return newError(c, 401, "unauthorized", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// respondError maps domain errors onto HTTP statuses. Provider API errors
// keep their upstream status; transport kinds become gateway statuses.
func respondError(c *fiber.Ctx, err error) error {
	var unsupported *domain.UnsupportedProviderError
	if errors.As(err, &unsupported) {
		return newError(c, 404, "unsupported_provider", unsupported.Error())
	}

	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		reqID, _ := c.Locals("requestid").(string)
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = 502
		}
		return c.Status(status).JSON(APIError{
			Status:    status,
			Code:      "provider_error",
			Message:   apiErr.Message,
			Provider:  string(apiErr.Provider),
			RequestID: reqID,
		})
	}

	switch {
	case errors.Is(err, domain.ErrTokenExchangeFailed),
		errors.Is(err, domain.ErrNoRefreshToken),
		errors.Is(err, domain.ErrRefreshFailed):
		return errUnauthorized(c, err.Error())
	case errors.Is(err, domain.ErrTimeout):
		return newError(c, 504, "upstream_timeout", err.Error())
	case errors.Is(err, domain.ErrNetwork):
		return newError(c, 502, "upstream_unreachable", err.Error())
	default:
		return errInternal(c, err.Error())
	}
}

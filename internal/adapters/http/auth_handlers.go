package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthorizeHandler returns the provider's consent URL plus the CSRF state the
// client must persist for the callback comparison.
func AuthorizeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var scopes []string
		if raw := c.Query("scopes"); raw != "" {
			scopes = strings.Fields(strings.ReplaceAll(raw, ",", " "))
		}

		authz, err := deps.Auth.GetAuthorizationURL(providerParam(c), scopes, c.Query("state"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(authz)
	}
}

type tokenRequest struct {
	Code         string `json:"code"`
	RefreshToken string `json:"refresh_token"`
}

// TokenHandler swaps an authorization code for tokens. The response carries
// the organization-connection state discovered during the exchange; when no
// organization is connected yet the client redirects the user through
// connections_url and polls the organizations endpoint.
func TokenHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Code == "" {
			return errBadRequest(c, "code is required")
		}

		exchange, err := deps.Auth.ExchangeCodeForTokens(c.UserContext(), providerParam(c), req.Code)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(exchange)
	}
}

// RefreshHandler exchanges a refresh token for a fresh access token. The
// returned refresh_token replaces the caller's stored one when it differs.
func RefreshHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.RefreshToken == "" {
			return errBadRequest(c, "refresh_token is required")
		}

		refresh, err := deps.Auth.RefreshAccessToken(c.UserContext(), providerParam(c), req.RefreshToken)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(refresh)
	}
}

// RevokeHandler disconnects the caller's provider account. Revoking an
// already-dead token still reports success.
func RevokeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req tokenRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.RefreshToken == "" {
			return errBadRequest(c, "refresh_token is required")
		}

		if err := deps.Auth.RevokeToken(c.UserContext(), providerParam(c), req.RefreshToken); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"revoked": true})
	}
}

// OrganizationsHandler polls the connection state: which organizations are
// connected, which still need the user to finish the provider's consent step,
// and where to send them for it.
func OrganizationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		refreshToken := c.Get("X-Refresh-Token")
		if refreshToken == "" {
			return errUnauthorized(c, "X-Refresh-Token header is required")
		}

		state, err := deps.Auth.GetConnectedOrganizations(c.UserContext(), providerParam(c), refreshToken)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(state)
	}
}

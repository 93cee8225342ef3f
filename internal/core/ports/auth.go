package ports

import (
	"context"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// AuthorizationURL is the redirect target for starting the OAuth flow plus
// the CSRF state the caller must persist and compare on callback.
type AuthorizationURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// TokenExchange is the result of swapping an authorization code for tokens.
// Organizations and ConnectionsURL come from the post-exchange organization
// check; OrganizationsPartial marks the degraded path where that check failed
// and organization visibility is best-effort empty.
type TokenExchange struct {
	AccessToken          string                `json:"access_token"`
	RefreshToken         string                `json:"refresh_token"`
	TokenType            string                `json:"token_type"`
	ExpiresIn            int                   `json:"expires_in"`
	Scope                string                `json:"scope,omitempty"`
	Organizations        []domain.Organization `json:"organizations"`
	ConnectionsURL       string                `json:"connections_url,omitempty"`
	OrganizationsPartial bool                  `json:"organizations_partial,omitempty"`
}

// TokenRefresh is the result of a refresh grant. RefreshToken is the rotated
// token when the provider issued one, otherwise the caller's original token
// echoed back.
type TokenRefresh struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// ConnectionState partitions the user's organizations by connection status.
// ConnectionsURL is ready to redirect through while any organization is still
// pending. Partial marks the degraded path where the organization fetch
// failed and both partitions are best-effort empty.
type ConnectionState struct {
	ConnectedOrganizations []domain.Organization `json:"connected_organizations"`
	PendingOrganizations   []domain.Organization `json:"pending_organizations"`
	ConnectionsURL         string                `json:"connections_url,omitempty"`
	RefreshToken           string                `json:"refresh_token"`
	Partial                bool                  `json:"partial,omitempty"`
}

// RefreshTokenRotated is invoked whenever a provider issues a new refresh
// token. Persistence is the caller's job; the core only signals.
type RefreshTokenRotated func(ctx context.Context, provider domain.Provider, refreshToken string)

// AuthProvider is the per-provider OAuth2 contract: authorization URL
// generation, code exchange, organization-connection discovery, refresh, and
// revocation. Implementations return token facts only and never persist them.
type AuthProvider interface {
	GetAuthorizationURL(scopes []string, state string) (AuthorizationURL, error)
	ExchangeCodeForTokens(ctx context.Context, code string) (*TokenExchange, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*TokenRefresh, error)
	RevokeToken(ctx context.Context, refreshToken string) error
	GetConnectedOrganizations(ctx context.Context, refreshToken string) (*ConnectionState, error)
}

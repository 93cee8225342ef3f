package usecases

import (
	"context"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/core/registry"
)

// AuthService dispatches OAuth operations to the provider's AuthProvider.
// Token persistence stays with the caller; this layer only routes.
type AuthService struct {
	registry *registry.Registry
}

// NewAuthService creates a new AuthService.
func NewAuthService(r *registry.Registry) *AuthService {
	return &AuthService{registry: r}
}

// GetAuthorizationURL builds the provider's consent URL. An empty state asks
// the provider implementation to generate one.
func (s *AuthService) GetAuthorizationURL(p domain.Provider, scopes []string, state string) (ports.AuthorizationURL, error) {
	auth, err := s.registry.Auth(p)
	if err != nil {
		return ports.AuthorizationURL{}, err
	}
	return auth.GetAuthorizationURL(scopes, state)
}

// ExchangeCodeForTokens swaps an authorization code for tokens and reports
// the organization-connection state discovered during the exchange.
func (s *AuthService) ExchangeCodeForTokens(ctx context.Context, p domain.Provider, code string) (*ports.TokenExchange, error) {
	auth, err := s.registry.Auth(p)
	if err != nil {
		return nil, err
	}
	return auth.ExchangeCodeForTokens(ctx, code)
}

// RefreshAccessToken obtains a fresh access token from a refresh token.
func (s *AuthService) RefreshAccessToken(ctx context.Context, p domain.Provider, refreshToken string) (*ports.TokenRefresh, error) {
	auth, err := s.registry.Auth(p)
	if err != nil {
		return nil, err
	}
	return auth.RefreshAccessToken(ctx, refreshToken)
}

// RevokeToken invalidates a refresh token at the provider.
func (s *AuthService) RevokeToken(ctx context.Context, p domain.Provider, refreshToken string) error {
	auth, err := s.registry.Auth(p)
	if err != nil {
		return err
	}
	return auth.RevokeToken(ctx, refreshToken)
}

// GetConnectedOrganizations refreshes and partitions the user's organizations
// by connection status.
func (s *AuthService) GetConnectedOrganizations(ctx context.Context, p domain.Provider, refreshToken string) (*ports.ConnectionState, error) {
	auth, err := s.registry.Auth(p)
	if err != nil {
		return nil, err
	}
	return auth.GetConnectedOrganizations(ctx, refreshToken)
}

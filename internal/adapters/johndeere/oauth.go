package johndeere

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
)

// Production endpoints. Overridable through Config for sandbox and tests.
const (
	DefaultAuthorizeURL = "https://signin.johndeere.com/oauth2/aus78tnlaysMraFhC1t7/v1/authorize"
	DefaultTokenURL     = "https://signin.johndeere.com/oauth2/aus78tnlaysMraFhC1t7/v1/token"
	DefaultRevokeURL    = "https://signin.johndeere.com/oauth2/aus78tnlaysMraFhC1t7/v1/revoke"
	DefaultAPIBaseURL   = "https://sandboxapi.deere.com/platform"

	// Fallback connections-dialog template used when the user has no visible
	// organizations yet; the application id is appended.
	DefaultConnectionsTemplate = "https://connections.deere.com/connections/%s/select-organizations"
)

// Config carries the OAuth application settings.
type Config struct {
	ClientID      string
	ClientSecret  string
	RedirectURI   string
	ApplicationID string

	AuthorizeURL        string
	TokenURL            string
	RevokeURL           string
	APIBaseURL          string
	ConnectionsTemplate string
}

func (c Config) withDefaults() Config {
	if c.AuthorizeURL == "" {
		c.AuthorizeURL = DefaultAuthorizeURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.RevokeURL == "" {
		c.RevokeURL = DefaultRevokeURL
	}
	if c.APIBaseURL == "" {
		c.APIBaseURL = DefaultAPIBaseURL
	}
	if c.ConnectionsTemplate == "" {
		c.ConnectionsTemplate = DefaultConnectionsTemplate
	}
	return c
}

// OAuthManager implements ports.AuthProvider for the platform. Token refresh
// is deliberately not mutex-guarded: two concurrent refreshes of one refresh
// token may both succeed and each receive a different rotated token. The
// rotation callback fires for each; de-duplication belongs to the caller.
type OAuthManager struct {
	cfg        Config
	httpClient *http.Client
	onRotated  ports.RefreshTokenRotated
	log        *slog.Logger
}

// NewOAuthManager builds the manager. onRotated may be nil.
func NewOAuthManager(cfg Config, onRotated ports.RefreshTokenRotated) *OAuthManager {
	return &OAuthManager{
		cfg:        cfg.withDefaults(),
		httpClient: &http.Client{Timeout: defaultTimeout},
		onRotated:  onRotated,
		log:        slog.Default().With("provider", domain.ProviderJohnDeere),
	}
}

// GetAuthorizationURL builds the authorization redirect. When state is empty
// a fresh 32-byte cryptographically random hex state is generated; the caller
// must persist it and compare on callback (CSRF binding).
func (m *OAuthManager) GetAuthorizationURL(scopes []string, state string) (ports.AuthorizationURL, error) {
	if state == "" {
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return ports.AuthorizationURL{}, fmt.Errorf("generate state: %w", err)
		}
		state = hex.EncodeToString(buf)
	}

	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", m.cfg.ClientID)
	q.Set("redirect_uri", m.cfg.RedirectURI)
	q.Set("scope", strings.Join(scopes, " "))
	q.Set("state", state)

	return ports.AuthorizationURL{
		URL:   m.cfg.AuthorizeURL + "?" + q.Encode(),
		State: state,
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// ExchangeCodeForTokens swaps an authorization code for tokens and runs the
// organization-connection check with the fresh access token. Missing access
// token fails with ErrTokenExchangeFailed; missing refresh token with
// ErrNoRefreshToken (the offline/refresh scope was not granted). A failed
// organization check is not fatal: the exchange degrades to zero
// organizations plus the fallback connections URL.
func (m *OAuthManager) ExchangeCodeForTokens(ctx context.Context, code string) (*ports.TokenExchange, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", m.cfg.RedirectURI)

	tok, err := m.postTokenForm(ctx, m.cfg.TokenURL, form)
	if err != nil {
		metrics.OAuthExchanges.WithLabelValues("error").Inc()
		return nil, err
	}
	if tok.AccessToken == "" {
		metrics.OAuthExchanges.WithLabelValues("error").Inc()
		return nil, domain.ErrTokenExchangeFailed
	}
	if tok.RefreshToken == "" {
		metrics.OAuthExchanges.WithLabelValues("error").Inc()
		return nil, domain.ErrNoRefreshToken
	}
	metrics.OAuthExchanges.WithLabelValues("ok").Inc()

	orgs, connectionsURL, partial := m.checkOrganizationConnections(ctx, tok.AccessToken)

	return &ports.TokenExchange{
		AccessToken:          tok.AccessToken,
		RefreshToken:         tok.RefreshToken,
		TokenType:            tok.TokenType,
		ExpiresIn:            tok.ExpiresIn,
		Scope:                tok.Scope,
		Organizations:        orgs,
		ConnectionsURL:       connectionsURL,
		OrganizationsPartial: partial,
	}, nil
}

// RefreshAccessToken posts a refresh grant. When the provider rotates the
// refresh token the new one is returned (and the rotation callback fires);
// otherwise the original token is echoed back unchanged.
func (m *OAuthManager) RefreshAccessToken(ctx context.Context, refreshToken string) (*ports.TokenRefresh, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	tok, err := m.postTokenForm(ctx, m.cfg.TokenURL, form)
	if err != nil {
		metrics.OAuthRefreshes.WithLabelValues("error").Inc()
		return nil, err
	}
	if tok.AccessToken == "" {
		metrics.OAuthRefreshes.WithLabelValues("error").Inc()
		return nil, domain.ErrRefreshFailed
	}
	metrics.OAuthRefreshes.WithLabelValues("ok").Inc()

	out := &ports.TokenRefresh{
		AccessToken:  tok.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
	}
	if tok.RefreshToken != "" && tok.RefreshToken != refreshToken {
		out.RefreshToken = tok.RefreshToken
		if m.onRotated != nil {
			m.onRotated(ctx, domain.ProviderJohnDeere, tok.RefreshToken)
		}
	}
	return out, nil
}

// RevokeToken revokes a refresh token. The provider's invalid_token and
// invalid_grant error codes mean the token is already dead, which is the
// outcome we wanted; those are treated as success.
func (m *OAuthManager) RevokeToken(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("token", refreshToken)
	form.Set("token_type_hint", "refresh_token")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.RevokeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build revoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(m.cfg.ClientID, m.cfg.ClientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	var tok tokenResponse
	_ = json.Unmarshal(body, &tok)
	if tok.Error == "invalid_token" || tok.Error == "invalid_grant" {
		return nil
	}
	return apiErrorFromResponse(resp, body)
}

// GetConnectedOrganizations derives a fresh access token from the refresh
// token, re-fetches the organization list, and partitions it into connected
// and pending. This is the polling operation used after sending the user
// through the connections page.
func (m *OAuthManager) GetConnectedOrganizations(ctx context.Context, refreshToken string) (*ports.ConnectionState, error) {
	refreshed, err := m.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	orgs, connectionsURL, partial := m.checkOrganizationConnections(ctx, refreshed.AccessToken)

	state := &ports.ConnectionState{
		ConnectedOrganizations: []domain.Organization{},
		PendingOrganizations:   []domain.Organization{},
		RefreshToken:           refreshed.RefreshToken,
		Partial:                partial,
	}
	for _, org := range orgs {
		if org.Connected {
			state.ConnectedOrganizations = append(state.ConnectedOrganizations, org)
		} else {
			state.PendingOrganizations = append(state.PendingOrganizations, org)
		}
	}
	if len(state.PendingOrganizations) > 0 || len(orgs) == 0 {
		state.ConnectionsURL = connectionsURL
	}
	return state, nil
}

func (m *OAuthManager) postTokenForm(ctx context.Context, endpoint string, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(m.cfg.ClientID, m.cfg.ClientSecret)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromResponse(resp, body)
	}

	var tok tokenResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &tok); err != nil {
			return nil, fmt.Errorf("decode token response: %w", err)
		}
	}
	return &tok, nil
}

// checkOrganizationConnections fetches the organization list and inspects
// each entry for a "connections" relation link; its presence means the
// organization still needs the end user's consent. The returned URL is the
// first such link with redirect_uri guaranteed present, or the fallback
// template when the user has no visible organizations yet. Organization
// visibility is best-effort: a failed fetch degrades to zero organizations
// plus the fallback URL instead of propagating the error.
func (m *OAuthManager) checkOrganizationConnections(ctx context.Context, accessToken string) (orgs []domain.Organization, connectionsURL string, partial bool) {
	client := NewClient(m.cfg.APIBaseURL, accessToken)

	values, err := client.getCollection(ctx, client.resourceURL("/organizations"))
	if err != nil {
		m.log.Warn("organization check failed, degrading to empty list", "error", err)
		return nil, m.fallbackConnectionsURL(), true
	}

	for _, raw := range values {
		var org rawOrganization
		if err := json.Unmarshal(raw, &org); err != nil {
			continue
		}
		connLink := findLink(org.Links, relConnections)
		orgs = append(orgs, domain.Organization{
			ID:        org.ID,
			Name:      org.Name,
			Type:      org.Type,
			Member:    org.Member,
			Provider:  domain.ProviderJohnDeere,
			Connected: connLink == "",
		})
		if connLink != "" && connectionsURL == "" {
			connectionsURL = m.ensureRedirectURI(connLink)
		}
	}

	if len(orgs) == 0 && connectionsURL == "" {
		connectionsURL = m.fallbackConnectionsURL()
	}
	return orgs, connectionsURL, false
}

// ensureRedirectURI adds a redirect_uri query parameter when absent.
func (m *OAuthManager) ensureRedirectURI(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("redirect_uri") == "" {
		q.Set("redirect_uri", m.cfg.RedirectURI)
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (m *OAuthManager) fallbackConnectionsURL() string {
	if m.cfg.ApplicationID == "" {
		return ""
	}
	return m.ensureRedirectURI(fmt.Sprintf(m.cfg.ConnectionsTemplate, m.cfg.ApplicationID))
}

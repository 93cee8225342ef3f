package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel error kinds. Token-lifecycle errors are fatal to the calling flow;
// see the per-operation docs for which paths degrade instead of failing.
var (
	ErrTokenExchangeFailed = errors.New("token exchange returned no access token")
	ErrNoRefreshToken      = errors.New("token exchange returned no refresh token")
	ErrRefreshFailed       = errors.New("token refresh returned no access token")
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
	ErrTimeout             = errors.New("request timed out")
	ErrNetwork             = errors.New("network error")
	ErrUnknown             = errors.New("unknown error")
)

// UnsupportedProviderError reports a registry lookup for a provider that has
// no registered adapter. Known enumerates the providers that are registered.
type UnsupportedProviderError struct {
	Provider Provider
	Known    []Provider
}

func (e *UnsupportedProviderError) Error() string {
	known := make([]string, len(e.Known))
	for i, p := range e.Known {
		known[i] = string(p)
	}
	return fmt.Sprintf("unsupported provider %q (known providers: %s)",
		e.Provider, strings.Join(known, ", "))
}

// APIError is a provider API failure with the original status code and any
// structured error body preserved for diagnostics.
type APIError struct {
	Provider Provider       `json:"provider,omitempty"`
	Code     string         `json:"code,omitempty"`
	Status   int            `json:"status"`
	Message  string         `json:"message"`
	Details  map[string]any `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("provider API error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("provider API error %d: %s", e.Status, e.Message)
}

// Package johndeere implements the provider adapter set for the MyJohnDeere
// operations platform: OAuth manager, paginated API client, and the mapping
// from axiom-v3 resources onto the unified schema.
package johndeere

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
)

const (
	// Axiom v3 is the platform's JSON variant; both Accept and Content-Type
	// use it for API calls.
	mediaTypeAxiom = "application/vnd.deere.axiom.v3+json"

	// Unit-of-measure preference attached to every request. The platform
	// historically defaults measurements to the imperial ("English")
	// convention; we send the header explicitly rather than relying on it.
	uomHeader  = "Accept-UOM"
	uomDefault = "ENGLISH"

	defaultTimeout = 30 * time.Second
)

// Client issues authenticated requests against the platform and aggregates
// hypermedia-paginated collections. A client is built per request from the
// caller's credentials; it holds no shared mutable state.
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

// NewClient builds an API client bound to one access token.
func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
}

// resourceURL joins a path onto the API base.
func (c *Client) resourceURL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// get fetches a single resource into target. Empty and non-JSON bodies are
// treated as an empty object rather than a parse error.
func (c *Client) get(ctx context.Context, rawURL string, target any) error {
	body, err := c.do(ctx, rawURL)
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, target)
}

func (c *Client) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", mediaTypeAxiom)
	req.Header.Set(uomHeader, uomDefault)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.ProviderRequestDuration.WithLabelValues(string(domain.ProviderJohnDeere)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderRequestErrors.WithLabelValues(string(domain.ProviderJohnDeere)).Inc()
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	metrics.ProviderRequests.WithLabelValues(
		string(domain.ProviderJohnDeere), fmt.Sprintf("%d", resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiErrorFromResponse(resp, body)
	}

	if !jsonCompatible(resp.Header.Get("Content-Type"), body) {
		return nil, nil
	}
	return body, nil
}

// classifyTransportError maps transport failures onto the unified error
// kinds: cancellation/deadline to Timeout, anything else to NetworkError.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrUnknown, err)
}

// apiErrorFromResponse parses the structured error body; when that fails the
// message degrades to "HTTP <status>: <statusText>".
func apiErrorFromResponse(resp *http.Response, body []byte) error {
	apiErr := &domain.APIError{
		Provider: domain.ProviderJohnDeere,
		Status:   resp.StatusCode,
		Message:  fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}

	var parsed rawError
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Fault.Code != "" || parsed.Fault.Message != "":
			apiErr.Code = parsed.Fault.Code
			if parsed.Fault.Message != "" {
				apiErr.Message = parsed.Fault.Message
			}
		case parsed.Code != "" || parsed.Message != "":
			apiErr.Code = parsed.Code
			if parsed.Message != "" {
				apiErr.Message = parsed.Message
			}
		case len(parsed.Errors) > 0:
			apiErr.Code = parsed.Errors[0].Code
			if parsed.Errors[0].Message != "" {
				apiErr.Message = parsed.Errors[0].Message
			}
		}
	}
	if len(body) > 0 {
		var details map[string]any
		if json.Unmarshal(body, &details) == nil {
			apiErr.Details = details
		}
	}
	return apiErr
}

// jsonCompatible reports whether a response body should be decoded as JSON.
func jsonCompatible(contentType string, body []byte) bool {
	if len(bytes.TrimSpace(body)) == 0 {
		return false
	}
	ct := strings.ToLower(contentType)
	return ct == "" || strings.Contains(ct, "json")
}

// getCollection aggregates a paginated collection starting at rawURL. The
// platform sometimes returns a bare array (single, final page) and sometimes
// a {values, links} envelope whose nextPage link points at the next page;
// both shapes flow through the same loop. The loop honors ctx cancellation
// between page fetches.
func (c *Client) getCollection(ctx context.Context, rawURL string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	next := rawURL

	for next != "" {
		if err := ctx.Err(); err != nil {
			return nil, classifyTransportError(err)
		}

		body, err := c.do(ctx, next)
		if err != nil {
			return nil, err
		}
		metrics.ProviderPagesFetched.WithLabelValues(string(domain.ProviderJohnDeere)).Inc()

		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 {
			return all, nil
		}

		// Unwrapped array: the final (only) page.
		if trimmed[0] == '[' {
			var page []json.RawMessage
			if err := json.Unmarshal(trimmed, &page); err != nil {
				return nil, fmt.Errorf("decode collection page: %w", err)
			}
			return append(all, page...), nil
		}

		var envelope collectionEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, fmt.Errorf("decode collection page: %w", err)
		}
		all = append(all, envelope.Values...)

		next = ""
		for _, link := range envelope.Links {
			if link.Rel == relNextPage {
				next = link.URI
				break
			}
		}
	}
	return all, nil
}

// findLink returns the URI of the first link with the given rel, or "".
func findLink(links []Link, rel string) string {
	for _, l := range links {
		if l.Rel == rel {
			return l.URI
		}
	}
	return ""
}

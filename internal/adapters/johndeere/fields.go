package johndeere

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// FieldAdapter implements ports.FieldAdapter against the platform.
type FieldAdapter struct {
	cfg Config
	log *slog.Logger
}

// NewFieldAdapter builds the adapter.
func NewFieldAdapter(cfg Config) *FieldAdapter {
	return &FieldAdapter{
		cfg: cfg.withDefaults(),
		log: slog.Default().With("provider", domain.ProviderJohnDeere, "resource", "fields"),
	}
}

// statusFilterParam translates the unified status filter into the provider's
// record filter vocabulary.
func statusFilterParam(s domain.StatusFilter) string {
	switch s {
	case domain.FilterArchived:
		return "ARCHIVED"
	case domain.FilterAll:
		return "ALL"
	default:
		return "AVAILABLE"
	}
}

// List fetches the organization's full filtered field collection, applies
// the client-side filters the provider cannot push down, and paginates the
// materialized result. A pagination or network failure is fatal: a partial
// page is never returned as complete.
func (a *FieldAdapter) List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedField], error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	q := url.Values{}
	q.Set("recordFilter", statusFilterParam(opts.Status))
	if opts.IncludeGeometry {
		q.Set("embed", "boundaries")
	}
	listURL := client.resourceURL(fmt.Sprintf("/organizations/%s/fields", opts.OrganizationID)) +
		"?" + q.Encode()

	values, err := client.getCollection(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	geo := listGeometryOptions(opts)
	fields := make([]domain.UnifiedField, 0, len(values))
	for _, raw := range values {
		var rf rawField
		if err := json.Unmarshal(raw, &rf); err != nil {
			return nil, fmt.Errorf("decode field: %w", err)
		}
		mapped := mapField(rf, opts.OrganizationID, geo)

		if opts.NameContains != "" &&
			!strings.Contains(strings.ToLower(mapped.Name), strings.ToLower(opts.NameContains)) {
			continue
		}
		if opts.FarmID != "" && mapped.FarmID != opts.FarmID {
			continue
		}
		fields = append(fields, mapped)
	}

	page := domain.Paginate(fields, opts.Page, opts.PageSize)
	return &page, nil
}

// Get fetches one field. When geometry was requested but the primary fetch
// did not include it, a secondary boundary fetch attaches the matching active
// boundary; any failure there is swallowed and the geometry-less field is
// returned, because geometry is enhancement, not a hard requirement.
func (a *FieldAdapter) Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedField, error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	getURL := client.resourceURL(fmt.Sprintf("/organizations/%s/fields/%s", opts.OrganizationID, opts.ID))
	if opts.IncludeGeometry {
		getURL += "?embed=boundaries"
	}

	var raw rawField
	if err := client.get(ctx, getURL, &raw); err != nil {
		return nil, fmt.Errorf("get field: %w", err)
	}

	geo := getGeometryOptions(opts)
	field := mapField(raw, opts.OrganizationID, geo)

	if opts.IncludeGeometry && field.Boundary == nil {
		if boundary := a.attachBoundary(ctx, client, opts); boundary != nil {
			field.Boundary = boundary
			field.Area = boundary.Area
		}
	}
	return &field, nil
}

// attachBoundary re-lists the field's boundaries with geometry embedded and
// picks the active one. Best-effort: every failure path returns nil.
func (a *FieldAdapter) attachBoundary(ctx context.Context, client *Client, opts domain.GetOptions) *domain.UnifiedBoundary {
	listURL := client.resourceURL(
		fmt.Sprintf("/organizations/%s/fields/%s/boundaries", opts.OrganizationID, opts.ID))

	values, err := client.getCollection(ctx, listURL)
	if err != nil {
		a.log.Warn("boundary attachment failed, returning field without geometry",
			"field_id", opts.ID, "error", err)
		return nil
	}

	geo := getGeometryOptions(opts)
	var fallback *domain.UnifiedBoundary
	for _, raw := range values {
		var rb rawBoundary
		if err := json.Unmarshal(raw, &rb); err != nil {
			continue
		}
		mapped := mapBoundary(rb, geo)
		if mapped.IsActive {
			return &mapped
		}
		if fallback == nil {
			fallback = &mapped
		}
	}
	return fallback
}

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

// BoundaryAdapter implements ports.BoundaryAdapter against the platform.
type BoundaryAdapter struct {
	cfg Config
	log *slog.Logger
}

// NewBoundaryAdapter builds the adapter.
func NewBoundaryAdapter(cfg Config) *BoundaryAdapter {
	return &BoundaryAdapter{
		cfg: cfg.withDefaults(),
		log: slog.Default().With("provider", domain.ProviderJohnDeere, "resource", "boundaries"),
	}
}

// List fetches boundaries for an organization, or for one field when
// opts.FieldID is set. The record-status filter is applied client-side (the
// boundary collection does not support pushing it down), then the
// materialized list is paginated.
func (a *BoundaryAdapter) List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedBoundary], error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	path := fmt.Sprintf("/organizations/%s/boundaries", opts.OrganizationID)
	if opts.FieldID != "" {
		path = fmt.Sprintf("/organizations/%s/fields/%s/boundaries", opts.OrganizationID, opts.FieldID)
	}
	q := url.Values{}
	if !opts.IncludeGeometry {
		// Trim polygon payloads we would only throw away.
		q.Set("simple", "true")
	}
	listURL := client.resourceURL(path)
	if len(q) > 0 {
		listURL += "?" + q.Encode()
	}

	values, err := client.getCollection(ctx, listURL)
	if err != nil {
		return nil, fmt.Errorf("list boundaries: %w", err)
	}

	geo := listGeometryOptions(opts)
	boundaries := make([]domain.UnifiedBoundary, 0, len(values))
	for _, raw := range values {
		var rb rawBoundary
		if err := json.Unmarshal(raw, &rb); err != nil {
			return nil, fmt.Errorf("decode boundary: %w", err)
		}
		mapped := mapBoundary(rb, geo)

		switch opts.Status {
		case domain.FilterArchived:
			if mapped.Status != domain.StatusArchived {
				continue
			}
		case domain.FilterAll:
		default:
			if mapped.Status != domain.StatusActive {
				continue
			}
		}
		if opts.NameContains != "" &&
			!strings.Contains(strings.ToLower(mapped.Name), strings.ToLower(opts.NameContains)) {
			continue
		}
		boundaries = append(boundaries, mapped)
	}

	page := domain.Paginate(boundaries, opts.Page, opts.PageSize)
	return &page, nil
}

// Get fetches one boundary. When geometry was requested but the resource
// came back without polygon data, the field's boundary list is re-fetched
// with geometry and the matching entry substituted; failures in that
// secondary fetch are swallowed.
func (a *BoundaryAdapter) Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedBoundary, error) {
	client := NewClient(a.cfg.APIBaseURL, creds.AccessToken)

	getURL := client.resourceURL(
		fmt.Sprintf("/organizations/%s/boundaries/%s", opts.OrganizationID, opts.ID))

	var raw rawBoundary
	if err := client.get(ctx, getURL, &raw); err != nil {
		return nil, fmt.Errorf("get boundary: %w", err)
	}

	geo := getGeometryOptions(opts)
	boundary := mapBoundary(raw, geo)

	if opts.IncludeGeometry && boundary.Geometry == nil &&
		boundary.GeometryWKT == "" && len(boundary.Coordinates) == 0 {
		if enriched := a.refetchWithGeometry(ctx, client, boundary.FieldID, boundary.ID, geo); enriched != nil {
			return enriched, nil
		}
	}
	return &boundary, nil
}

// refetchWithGeometry looks the boundary up again through its field's
// boundary collection, which always embeds polygon data. Best-effort.
func (a *BoundaryAdapter) refetchWithGeometry(ctx context.Context, client *Client, fieldID, boundaryID string, geo geometryOptions) *domain.UnifiedBoundary {
	if fieldID == "" {
		return nil
	}
	listURL := client.resourceURL(fmt.Sprintf("/fields/%s/boundaries", fieldID))

	values, err := client.getCollection(ctx, listURL)
	if err != nil {
		a.log.Warn("geometry refetch failed, returning boundary without geometry",
			"boundary_id", boundaryID, "error", err)
		return nil
	}
	for _, raw := range values {
		var rb rawBoundary
		if err := json.Unmarshal(raw, &rb); err != nil {
			continue
		}
		if rb.ID == boundaryID && len(rb.MultiPolygons) > 0 {
			mapped := mapBoundary(rb, geo)
			return &mapped
		}
	}
	return nil
}

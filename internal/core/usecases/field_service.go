package usecases

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/core/registry"
	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
)

const listCacheTTLSeconds = 300

// FieldService is the unified entry point for field operations. It resolves
// the provider adapter through the registry, caches list payloads, and
// orchestrates concurrent boundary attachment.
type FieldService struct {
	registry *registry.Registry
	cache    ports.CacheService
}

// NewFieldService creates a new FieldService. cache may be nil.
func NewFieldService(r *registry.Registry, cache ports.CacheService) *FieldService {
	return &FieldService{registry: r, cache: cache}
}

// credsFingerprint scopes cache keys to one credential set without storing
// the token itself.
func credsFingerprint(creds domain.Credentials) string {
	sum := sha256.Sum256([]byte(creds.AccessToken))
	return hex.EncodeToString(sum[:8])
}

func listCacheKey(resource string, p domain.Provider, creds domain.Credentials, opts domain.ListOptions) string {
	return fmt.Sprintf("%s:list:%s:%s:%s:%d:%d:%s:%s:%s:%s:%d:%s:%t:%s",
		resource, p, credsFingerprint(creds), opts.OrganizationID,
		opts.Page, opts.PageSize, opts.Status, opts.NameContains, opts.FarmID,
		opts.FieldID, opts.Year, opts.WorkType, opts.IncludeGeometry, opts.GeometryFormat)
}

func normalizeListOptions(opts *domain.ListOptions) error {
	if opts.OrganizationID == "" {
		return fmt.Errorf("organization id is required")
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize <= 0 || opts.PageSize > domain.MaxPageSize {
		opts.PageSize = domain.DefaultPageSize
	}
	if opts.Status == "" {
		opts.Status = domain.FilterActive
	}
	if opts.AreaUnit == "" {
		opts.AreaUnit = domain.DefaultAreaUnit
	}
	return nil
}

// List returns one page of unified fields from the given provider.
func (s *FieldService) List(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedField], error) {
	adapter, err := s.registry.Fields(p)
	if err != nil {
		return nil, err
	}
	if err := normalizeListOptions(&opts); err != nil {
		return nil, err
	}

	cacheKey := listCacheKey("fields", p, creds, opts)
	if s.cache != nil && !opts.BypassCache {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached domain.PaginatedResult[domain.UnifiedField]
			if json.Unmarshal(data, &cached) == nil {
				metrics.CacheHits.WithLabelValues("fields:list").Inc()
				return &cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("fields:list").Inc()
	}

	page, err := adapter.List(ctx, creds, opts)
	if err != nil {
		return nil, err
	}

	if opts.IncludeGeometry {
		s.attachBoundaries(ctx, p, creds, opts, page.Data)
	}

	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, listCacheTTLSeconds)
		}
	}
	return page, nil
}

// attachBoundaries fills in boundaries for fields whose list response did
// not embed one. The per-field fetches run concurrently; a failed branch
// leaves its field without a boundary instead of failing the page.
func (s *FieldService) attachBoundaries(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.ListOptions, fields []domain.UnifiedField) {
	boundaries, err := s.registry.Boundaries(p)
	if err != nil {
		return
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, 4)
	for i := range fields {
		if fields[i].Boundary != nil {
			continue
		}
		wg.Add(1)
		go func(f *domain.UnifiedField) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			page, err := boundaries.List(ctx, creds, domain.ListOptions{
				OrganizationID:    opts.OrganizationID,
				FieldID:           f.ProviderID,
				Page:              1,
				PageSize:          domain.DefaultPageSize,
				Status:            domain.FilterActive,
				IncludeGeometry:   true,
				GeometryFormat:    opts.GeometryFormat,
				SimplifyTolerance: opts.SimplifyTolerance,
				AreaUnit:          opts.AreaUnit,
			})
			if err != nil {
				slog.Default().Warn("boundary attachment failed",
					"provider", p, "field_id", f.ProviderID, "error", err)
				return
			}
			for j := range page.Data {
				if page.Data[j].IsActive {
					f.Boundary = &page.Data[j]
					if f.Area == nil {
						f.Area = page.Data[j].Area
					}
					return
				}
			}
		}(&fields[i])
	}
	wg.Wait()
}

// Get returns a single unified field.
func (s *FieldService) Get(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedField, error) {
	adapter, err := s.registry.Fields(p)
	if err != nil {
		return nil, err
	}
	if opts.OrganizationID == "" || opts.ID == "" {
		return nil, fmt.Errorf("organization id and field id are required")
	}
	if opts.AreaUnit == "" {
		opts.AreaUnit = domain.DefaultAreaUnit
	}
	return adapter.Get(ctx, creds, opts)
}

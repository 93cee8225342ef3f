package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/core/registry"
	"github.com/acreblitz/fieldgate/internal/pkg/metrics"
)

// BoundaryService is the unified entry point for boundary operations.
type BoundaryService struct {
	registry *registry.Registry
	cache    ports.CacheService
}

// NewBoundaryService creates a new BoundaryService. cache may be nil.
func NewBoundaryService(r *registry.Registry, cache ports.CacheService) *BoundaryService {
	return &BoundaryService{registry: r, cache: cache}
}

// List returns one page of unified boundaries, scoped to the organization
// or, when opts.FieldID is set, to a single field.
func (s *BoundaryService) List(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedBoundary], error) {
	adapter, err := s.registry.Boundaries(p)
	if err != nil {
		return nil, err
	}
	if err := normalizeListOptions(&opts); err != nil {
		return nil, err
	}

	cacheKey := listCacheKey("boundaries", p, creds, opts)
	if s.cache != nil && !opts.BypassCache {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached domain.PaginatedResult[domain.UnifiedBoundary]
			if json.Unmarshal(data, &cached) == nil {
				metrics.CacheHits.WithLabelValues("boundaries:list").Inc()
				return &cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("boundaries:list").Inc()
	}

	page, err := adapter.List(ctx, creds, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(page); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, listCacheTTLSeconds)
		}
	}
	return page, nil
}

// Get returns a single unified boundary.
func (s *BoundaryService) Get(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedBoundary, error) {
	adapter, err := s.registry.Boundaries(p)
	if err != nil {
		return nil, err
	}
	if opts.OrganizationID == "" || opts.ID == "" {
		return nil, fmt.Errorf("organization id and boundary id are required")
	}
	if opts.AreaUnit == "" {
		opts.AreaUnit = domain.DefaultAreaUnit
	}
	return adapter.Get(ctx, creds, opts)
}

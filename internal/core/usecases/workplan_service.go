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

// WorkPlanService is the unified entry point for work-plan operations.
type WorkPlanService struct {
	registry *registry.Registry
	cache    ports.CacheService
}

// NewWorkPlanService creates a new WorkPlanService. cache may be nil.
func NewWorkPlanService(r *registry.Registry, cache ports.CacheService) *WorkPlanService {
	return &WorkPlanService{registry: r, cache: cache}
}

// List returns one page of unified work plans.
func (s *WorkPlanService) List(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedWorkPlan], error) {
	adapter, err := s.registry.WorkPlans(p)
	if err != nil {
		return nil, err
	}
	if err := normalizeListOptions(&opts); err != nil {
		return nil, err
	}

	cacheKey := listCacheKey("workplans", p, creds, opts)
	if s.cache != nil && !opts.BypassCache {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached domain.PaginatedResult[domain.UnifiedWorkPlan]
			if json.Unmarshal(data, &cached) == nil {
				metrics.CacheHits.WithLabelValues("workplans:list").Inc()
				return &cached, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("workplans:list").Inc()
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

// Get returns a single unified work plan.
func (s *WorkPlanService) Get(ctx context.Context, p domain.Provider, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedWorkPlan, error) {
	adapter, err := s.registry.WorkPlans(p)
	if err != nil {
		return nil, err
	}
	if opts.OrganizationID == "" || opts.ID == "" {
		return nil, fmt.Errorf("organization id and work plan id are required")
	}
	return adapter.Get(ctx, creds, opts)
}

// Package ports defines the contracts between the unified core and provider
// adapters. Every provider implements the same list/get surface per resource
// type; the registry resolves a provider identifier to these interfaces.
package ports

import (
	"context"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// FieldAdapter lists and fetches fields for one provider.
type FieldAdapter interface {
	List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedField], error)
	Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedField, error)
}

// BoundaryAdapter lists and fetches field boundaries for one provider.
type BoundaryAdapter interface {
	List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedBoundary], error)
	Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedBoundary, error)
}

// WorkPlanAdapter lists and fetches work plans for one provider.
type WorkPlanAdapter interface {
	List(ctx context.Context, creds domain.Credentials, opts domain.ListOptions) (*domain.PaginatedResult[domain.UnifiedWorkPlan], error)
	Get(ctx context.Context, creds domain.Credentials, opts domain.GetOptions) (*domain.UnifiedWorkPlan, error)
}

package johndeere

import (
	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/core/ports"
	"github.com/acreblitz/fieldgate/internal/core/registry"
)

// Register wires the full John Deere adapter set into a registry. onRotated
// receives rotated refresh tokens; nil disables the callback.
func Register(r *registry.Registry, cfg Config, onRotated ports.RefreshTokenRotated) {
	r.Register(domain.ProviderJohnDeere, registry.ProviderAdapters{
		Fields:     NewFieldAdapter(cfg),
		Boundaries: NewBoundaryAdapter(cfg),
		WorkPlans:  NewWorkPlanAdapter(cfg),
		Auth:       NewOAuthManager(cfg, onRotated),
	})
}

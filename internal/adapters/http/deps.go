package http

import (
	"github.com/acreblitz/fieldgate/internal/adapters/valkey"
	"github.com/acreblitz/fieldgate/internal/adapters/weather"
	"github.com/acreblitz/fieldgate/internal/core/registry"
	"github.com/acreblitz/fieldgate/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Registry   *registry.Registry
	Auth       *usecases.AuthService
	Fields     *usecases.FieldService
	Boundaries *usecases.BoundaryService
	WorkPlans  *usecases.WorkPlanService
	Weather    *weather.Client
	Cache      *valkey.Cache
}

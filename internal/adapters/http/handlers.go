package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

// ListFieldsHandler returns one page of unified fields for an organization.
func ListFieldsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := listOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		page, err := deps.Fields.List(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// GetFieldHandler returns a single unified field.
func GetFieldHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := getOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		field, err := deps.Fields.Get(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(field)
	}
}

// ListBoundariesHandler returns one page of boundaries, organization-wide or
// narrowed to one field through the field_id query parameter.
func ListBoundariesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := listOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		page, err := deps.Boundaries.List(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// GetBoundaryHandler returns a single unified boundary.
func GetBoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := getOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		boundary, err := deps.Boundaries.Get(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(boundary)
	}
}

// ListWorkPlansHandler returns one page of unified work plans.
func ListWorkPlansHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := listOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		page, err := deps.WorkPlans.List(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(page)
	}
}

// GetWorkPlanHandler returns a single unified work plan.
func GetWorkPlanHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := getOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		plan, err := deps.WorkPlans.Get(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(plan)
	}
}

// ProvidersHandler lists the registered providers and whether each carries
// the full field+boundary adapter set.
func ProvidersHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		type providerInfo struct {
			Provider       string `json:"provider"`
			FullySupported bool   `json:"fully_supported"`
		}
		known := deps.Registry.Known()
		out := make([]providerInfo, 0, len(known))
		for _, p := range known {
			out = append(out, providerInfo{
				Provider:       string(p),
				FullySupported: deps.Registry.IsProviderFullySupported(p),
			})
		}
		return c.JSON(fiber.Map{"providers": out})
	}
}

// WeatherForecastHandler proxies the NWS forecast for a coordinate.
func WeatherForecastHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lat := c.QueryFloat("lat", 0)
		lon := c.QueryFloat("lon", 0)
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 || (lat == 0 && lon == 0) {
			return errBadRequest(c, "lat and lon are required and must be valid coordinates")
		}

		forecast, err := deps.Weather.GetForecast(c.UserContext(), lat, lon)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(forecast)
	}
}

// FieldWeatherHandler fetches a field's boundary, locates its centroid, and
// returns the forecast there. Fields without geometry cannot be located.
func FieldWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		creds, err := credentialsFromHeaders(c)
		if err != nil {
			return errUnauthorized(c, err.Error())
		}
		opts, err := getOptionsFromQuery(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		opts.IncludeGeometry = true
		opts.GeometryFormat = domain.FormatGeoJSON

		field, err := deps.Fields.Get(c.UserContext(), providerParam(c), creds, opts)
		if err != nil {
			return respondError(c, err)
		}
		if field.Boundary == nil || field.Boundary.Geometry == nil {
			return errNotFound(c, "field has no boundary geometry to locate")
		}

		lat, lon := geospatial.Centroid(geospatial.FlattenCoordinates(field.Boundary.Geometry))
		if lat == 0 && lon == 0 {
			return errNotFound(c, "field geometry is degenerate")
		}

		forecast, err := deps.Weather.GetForecast(c.UserContext(), lat, lon)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"field_id": field.ID,
			"centroid": fiber.Map{"lat": lat, "lon": lon},
			"forecast": forecast,
		})
	}
}

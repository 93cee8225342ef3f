package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

// providerParam resolves the :provider path segment. Validation happens later
// at registry lookup, which knows the registered set.
func providerParam(c *fiber.Ctx) domain.Provider {
	return domain.Provider(strings.ToLower(c.Params("provider")))
}

// credentialsFromHeaders pulls the caller's tokens: access token from the
// Authorization bearer header, refresh token from X-Refresh-Token.
func credentialsFromHeaders(c *fiber.Ctx) (domain.Credentials, error) {
	authz := c.Get(fiber.HeaderAuthorization)
	if authz == "" {
		return domain.Credentials{}, fmt.Errorf("missing Authorization header")
	}
	token, ok := strings.CutPrefix(authz, "Bearer ")
	if !ok || token == "" {
		return domain.Credentials{}, fmt.Errorf("Authorization header must be a bearer token")
	}
	return domain.Credentials{
		AccessToken:  token,
		RefreshToken: c.Get("X-Refresh-Token"),
	}, nil
}

func parseStatusFilter(s string) (domain.StatusFilter, error) {
	switch strings.ToLower(s) {
	case "", "active":
		return domain.FilterActive, nil
	case "archived":
		return domain.FilterArchived, nil
	case "all":
		return domain.FilterAll, nil
	default:
		return "", fmt.Errorf("status must be active, archived, or all")
	}
}

func parseGeometryFormat(s string) (domain.GeometryFormat, error) {
	switch strings.ToLower(s) {
	case "", "geojson":
		return domain.FormatGeoJSON, nil
	case "wkt":
		return domain.FormatWKT, nil
	case "coordinates":
		return domain.FormatCoordinates, nil
	default:
		return "", fmt.Errorf("geometry_format must be geojson, wkt, or coordinates")
	}
}

// listOptionsFromQuery builds ListOptions from the common query parameters.
// Either page or an opaque cursor selects the page; the cursor wins.
func listOptionsFromQuery(c *fiber.Ctx) (domain.ListOptions, error) {
	opts := domain.ListOptions{
		OrganizationID: c.Query("organization_id"),
		Page:           c.QueryInt("page", 1),
		PageSize:       c.QueryInt("page_size", domain.DefaultPageSize),
		NameContains:   c.Query("name"),
		FarmID:         c.Query("farm_id"),
		FieldID:        c.Query("field_id"),
		Year:           c.QueryInt("year", 0),
	}
	if opts.OrganizationID == "" {
		return opts, fmt.Errorf("organization_id query parameter is required")
	}

	if cursor := c.Query("cursor"); cursor != "" {
		page, err := domain.DecodePageCursor(cursor)
		if err != nil {
			return opts, fmt.Errorf("invalid cursor")
		}
		opts.Page = page
	}

	status, err := parseStatusFilter(c.Query("status"))
	if err != nil {
		return opts, err
	}
	opts.Status = status

	if wt := c.Query("work_type"); wt != "" {
		opts.WorkType = domain.WorkType(strings.ToLower(wt))
	}

	opts.IncludeGeometry = c.QueryBool("include_geometry", false)
	format, err := parseGeometryFormat(c.Query("geometry_format"))
	if err != nil {
		return opts, err
	}
	opts.GeometryFormat = format

	opts.SimplifyTolerance = c.QueryFloat("simplify_tolerance", 0)
	if opts.SimplifyTolerance < 0 {
		return opts, fmt.Errorf("simplify_tolerance must be non-negative")
	}

	opts.AreaUnit = geospatial.ParseAreaUnit(c.Query("area_unit"))
	opts.BypassCache = strings.Contains(c.Get(fiber.HeaderCacheControl), "no-cache")
	return opts, nil
}

// getOptionsFromQuery builds GetOptions for single-resource fetches.
func getOptionsFromQuery(c *fiber.Ctx) (domain.GetOptions, error) {
	opts := domain.GetOptions{
		OrganizationID: c.Query("organization_id"),
		ID:             c.Params("id"),
	}
	if opts.OrganizationID == "" {
		return opts, fmt.Errorf("organization_id query parameter is required")
	}

	opts.IncludeGeometry = c.QueryBool("include_geometry", false)
	format, err := parseGeometryFormat(c.Query("geometry_format"))
	if err != nil {
		return opts, err
	}
	opts.GeometryFormat = format

	opts.SimplifyTolerance = c.QueryFloat("simplify_tolerance", 0)
	if opts.SimplifyTolerance < 0 {
		return opts, fmt.Errorf("simplify_tolerance must be non-negative")
	}

	opts.AreaUnit = geospatial.ParseAreaUnit(c.Query("area_unit"))
	return opts, nil
}

package domain

// Credentials are the caller-owned OAuth tokens for one provider. The core
// never persists them; rotation is signalled back to the caller.
type Credentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// StatusFilter narrows a list to active, archived, or all records.
type StatusFilter string

const (
	FilterActive   StatusFilter = "active"
	FilterArchived StatusFilter = "archived"
	FilterAll      StatusFilter = "all"
)

// ListOptions are the common filter and shaping options for unified list
// operations. Server-side filters are pushed to the provider where supported;
// the rest are applied client-side before pagination.
type ListOptions struct {
	OrganizationID string
	Page           int
	PageSize       int
	Status         StatusFilter
	NameContains   string
	FarmID         string
	FieldID        string

	// Work-plan specific.
	Year     int
	WorkType WorkType

	// Geometry shaping.
	IncludeGeometry   bool
	GeometryFormat    GeometryFormat
	SimplifyTolerance float64 // meters; 0 disables simplification

	// Area unit for converted measurements; empty means DefaultAreaUnit.
	AreaUnit AreaUnit

	// BypassCache skips the cached response for this request. The fresh
	// result is still written back.
	BypassCache bool
}

// GetOptions shape a unified get operation.
type GetOptions struct {
	OrganizationID string
	ID             string

	IncludeGeometry   bool
	GeometryFormat    GeometryFormat
	SimplifyTolerance float64
	AreaUnit          AreaUnit
}

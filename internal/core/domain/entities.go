package domain

import "time"

// Provider identifies an external agricultural-operations platform.
type Provider string

const (
	ProviderJohnDeere Provider = "johndeere"
)

// RecordStatus is the unified active/archived flag. Provider "archived"
// booleans are always collapsed into one of these two values.
type RecordStatus string

const (
	StatusActive   RecordStatus = "active"
	StatusArchived RecordStatus = "archived"
)

// UnifiedField is the provider-agnostic representation of a field.
type UnifiedField struct {
	ID             string           `json:"id"`
	ProviderID     string           `json:"provider_id"`
	Provider       Provider         `json:"provider"`
	Name           string           `json:"name"`
	OrganizationID string           `json:"organization_id,omitempty"`
	FarmID         string           `json:"farm_id,omitempty"`
	Area           *AreaMeasurement `json:"area,omitempty"`
	Status         RecordStatus     `json:"status"`
	Boundary       *UnifiedBoundary `json:"boundary,omitempty"`
}

// UnifiedBoundary is the provider-agnostic representation of a field boundary.
// Geometry is always held as GeoJSON; GeometryWKT and Coordinates are derived
// views populated only when that output format was requested.
type UnifiedBoundary struct {
	ID             string           `json:"id"`
	ProviderID     string           `json:"provider_id"`
	Provider       Provider         `json:"provider"`
	FieldID        string           `json:"field_id,omitempty"`
	Name           string           `json:"name,omitempty"`
	IsActive       bool             `json:"is_active"`
	Area           *AreaMeasurement `json:"area,omitempty"`
	WorkableArea   *AreaMeasurement `json:"workable_area,omitempty"`
	Geometry       *Geometry        `json:"geometry,omitempty"`
	GeometryFormat GeometryFormat   `json:"geometry_format,omitempty"`
	GeometryWKT    string           `json:"geometry_wkt,omitempty"`
	Coordinates    [][]float64      `json:"coordinates,omitempty"`
	Status         RecordStatus     `json:"status"`
	SourceType     string           `json:"source_type,omitempty"`
	SignalType     string           `json:"signal_type,omitempty"`
	Irrigated      *bool            `json:"irrigated,omitempty"`
	CreatedAt      *time.Time       `json:"created_at,omitempty"`
	ModifiedAt     *time.Time       `json:"modified_at,omitempty"`
}

// WorkType classifies a work plan. Unrecognized provider values collapse to
// WorkTypeTillage; the raw string survives in UnifiedWorkPlan.ProviderWorkType.
type WorkType string

const (
	WorkTypeTillage     WorkType = "tillage"
	WorkTypeSeeding     WorkType = "seeding"
	WorkTypeApplication WorkType = "application"
	WorkTypeHarvest     WorkType = "harvest"
)

// WorkStatus is the unified work-plan status. Unrecognized provider values
// collapse to WorkStatusPlanned.
type WorkStatus string

const (
	WorkStatusPlanned    WorkStatus = "planned"
	WorkStatusInProgress WorkStatus = "in_progress"
	WorkStatusCompleted  WorkStatus = "completed"
	WorkStatusCancelled  WorkStatus = "cancelled"
)

// UnifiedWorkPlan is the provider-agnostic representation of a planned piece
// of field work.
type UnifiedWorkPlan struct {
	ID                 string            `json:"id"`
	ProviderID         string            `json:"provider_id"`
	Provider           Provider          `json:"provider"`
	OrganizationID     string            `json:"organization_id"`
	FieldID            string            `json:"field_id,omitempty"`
	WorkType           WorkType          `json:"work_type"`
	ProviderWorkType   string            `json:"provider_work_type,omitempty"`
	WorkStatus         WorkStatus        `json:"work_status"`
	ProviderWorkStatus string            `json:"provider_work_status,omitempty"`
	Year               int               `json:"year"`
	Operations         []WorkOperation   `json:"operations"`
	Assignments        []WorkAssignment  `json:"assignments"`
	GuidanceSettings   *GuidanceSettings `json:"guidance_settings,omitempty"`
	SequenceNumber     *int              `json:"sequence_number,omitempty"`
}

// WorkOperation is one operation inside a work plan.
type WorkOperation struct {
	ProviderID string           `json:"provider_id,omitempty"`
	Inputs     []OperationInput `json:"inputs"`
}

// OperationInput is a product applied by an operation, optionally under a
// prescription.
type OperationInput struct {
	Product      ProductRef    `json:"product"`
	Prescription *Prescription `json:"prescription,omitempty"`
}

// ProductRef identifies a product referenced by an operation input.
type ProductRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// PrescriptionKind discriminates the prescription union.
type PrescriptionKind string

const (
	PrescriptionFixedRate    PrescriptionKind = "fixed_rate"
	PrescriptionVariableRate PrescriptionKind = "variable_rate"
)

// Prescription is a closed union: exactly one of FixedRate or VariableRate is
// non-nil, matching Kind.
type Prescription struct {
	Kind         PrescriptionKind          `json:"kind"`
	FixedRate    *FixedRatePrescription    `json:"fixed_rate,omitempty"`
	VariableRate *VariableRatePrescription `json:"variable_rate,omitempty"`
}

// FixedRatePrescription applies a single rate across the field.
type FixedRatePrescription struct {
	Rate float64 `json:"rate"`
	Unit string  `json:"unit,omitempty"`
}

// VariableRatePrescription references a provider-hosted prescription map.
type VariableRatePrescription struct {
	PrescriptionID string `json:"prescription_id"`
	Name           string `json:"name,omitempty"`
}

// WorkAssignment pairs equipment, an operator, and an optional implement for
// a work plan. Identifiers are mined from provider link URIs.
type WorkAssignment struct {
	EquipmentID string `json:"equipment_id,omitempty"`
	OperatorID  string `json:"operator_id,omitempty"`
	ImplementID string `json:"implement_id,omitempty"`
}

// GuidanceEntityKind discriminates the guidance-entity union.
type GuidanceEntityKind string

const (
	GuidanceLine            GuidanceEntityKind = "line"
	GuidancePlan            GuidanceEntityKind = "plan"
	GuidanceSourceOperation GuidanceEntityKind = "source_operation"
)

// GuidanceEntity is a typed reference to a guidance line, guidance plan, or
// source operation.
type GuidanceEntity struct {
	Kind GuidanceEntityKind `json:"kind"`
	ID   string             `json:"id"`
}

// GuidanceSettings carries a work plan's guidance preference.
type GuidanceSettings struct {
	PreferenceMode  string           `json:"preference_mode,omitempty"`
	PreferredEntity *GuidanceEntity  `json:"preferred_entity,omitempty"`
	Included        []GuidanceEntity `json:"included,omitempty"`
}

// Organization is a provider organization visible to the authenticated user.
// Connected reports whether the organization has completed the provider's
// connection (consent) step.
type Organization struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type,omitempty"`
	Member    bool     `json:"member"`
	Provider  Provider `json:"provider"`
	Connected bool     `json:"connected"`
}

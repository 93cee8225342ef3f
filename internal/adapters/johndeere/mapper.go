package johndeere

import (
	"regexp"
	"time"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

// Every provider-specific enum table, unit convention, and id-extraction rule
// lives here. The tables are total: unrecognized provider values collapse to
// a fixed default so the unified enums are always populated, and the raw
// string is preserved on the entity so nothing is silently lost.

var workTypeTable = map[string]domain.WorkType{
	"dtiTillage":     domain.WorkTypeTillage,
	"dtiSeeding":     domain.WorkTypeSeeding,
	"dtiApplication": domain.WorkTypeApplication,
	"dtiHarvest":     domain.WorkTypeHarvest,
}

var workStatusTable = map[string]domain.WorkStatus{
	"planned":    domain.WorkStatusPlanned,
	"inProgress": domain.WorkStatusInProgress,
	"completed":  domain.WorkStatusCompleted,
	"cancelled":  domain.WorkStatusCancelled,
}

func mapWorkType(s string) domain.WorkType {
	if t, ok := workTypeTable[s]; ok {
		return t
	}
	return domain.WorkTypeTillage
}

func mapWorkStatus(s string) domain.WorkStatus {
	if t, ok := workStatusTable[s]; ok {
		return t
	}
	return domain.WorkStatusPlanned
}

func mapRecordStatus(archived bool) domain.RecordStatus {
	if archived {
		return domain.StatusArchived
	}
	return domain.StatusActive
}

// Foreign keys only exist as path segments inside hypermedia link URIs, so
// the extraction patterns are part of the provider contract.
var (
	fieldIDPattern        = regexp.MustCompile(`/fields/([^/?#]+)`)
	organizationIDPattern = regexp.MustCompile(`/organizations/([^/?#]+)`)
	farmIDPattern         = regexp.MustCompile(`/farms/([^/?#]+)`)
	equipmentIDPattern    = regexp.MustCompile(`/equipment/([^/?#]+)`)
	operatorIDPattern     = regexp.MustCompile(`/operators/([^/?#]+)`)
	implementIDPattern    = regexp.MustCompile(`/implements/([^/?#]+)`)
)

// Guidance entities can point at one of several resource shapes; they are
// tried in this fixed order and the first match wins.
var guidancePatterns = []struct {
	kind    domain.GuidanceEntityKind
	pattern *regexp.Regexp
}{
	{domain.GuidanceLine, regexp.MustCompile(`/guidanceLines/([^/?#]+)`)},
	{domain.GuidancePlan, regexp.MustCompile(`/guidancePlans/([^/?#]+)`)},
	{domain.GuidanceSourceOperation, regexp.MustCompile(`/sourceOperations/([^/?#]+)`)},
}

func mineID(pattern *regexp.Regexp, uri string) string {
	if uri == "" {
		return ""
	}
	if m := pattern.FindStringSubmatch(uri); m != nil {
		return m[1]
	}
	return ""
}

// mineAnyLink scans all links for the first URI matching the pattern,
// regardless of rel. Some resources tag the same relation differently across
// API versions.
func mineAnyLink(links []Link, pattern *regexp.Regexp) string {
	for _, l := range links {
		if id := mineID(pattern, l.URI); id != "" {
			return id
		}
	}
	return ""
}

func mapArea(m *rawMeasurement, target domain.AreaUnit) *domain.AreaMeasurement {
	if m == nil {
		return nil
	}
	if target == "" {
		target = domain.DefaultAreaUnit
	}
	converted := geospatial.ConvertMeasurement(domain.AreaMeasurement{
		Value: m.ValueAsDouble,
		Unit:  geospatial.ParseAreaUnit(m.Unit),
	}, target)
	return &converted
}

func parseProviderTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// geometryOptions are the shaping knobs shared by list and get mapping.
type geometryOptions struct {
	include   bool
	format    domain.GeometryFormat
	tolerance float64
	areaUnit  domain.AreaUnit
}

func listGeometryOptions(opts domain.ListOptions) geometryOptions {
	return geometryOptions{
		include:   opts.IncludeGeometry,
		format:    opts.GeometryFormat,
		tolerance: opts.SimplifyTolerance,
		areaUnit:  opts.AreaUnit,
	}
}

func getGeometryOptions(opts domain.GetOptions) geometryOptions {
	return geometryOptions{
		include:   opts.IncludeGeometry,
		format:    opts.GeometryFormat,
		tolerance: opts.SimplifyTolerance,
		areaUnit:  opts.AreaUnit,
	}
}

// mapField translates a raw field. The embedded active boundary (when the
// list was fetched with the boundary embed flag) rides along as the unified
// boundary, geometry included only if requested.
func mapField(raw rawField, orgID string, geo geometryOptions) domain.UnifiedField {
	field := domain.UnifiedField{
		ID:             raw.ID,
		ProviderID:     raw.ID,
		Provider:       domain.ProviderJohnDeere,
		Name:           raw.Name,
		OrganizationID: orgID,
		FarmID:         mineAnyLink(raw.Links, farmIDPattern),
		Status:         mapRecordStatus(raw.Archived),
	}
	if field.OrganizationID == "" {
		field.OrganizationID = mineAnyLink(raw.Links, organizationIDPattern)
	}

	for i := range raw.Boundaries {
		if !raw.Boundaries[i].Active {
			continue
		}
		b := mapBoundary(raw.Boundaries[i], geo)
		field.Boundary = &b
		field.Area = b.Area
		break
	}
	if field.Boundary == nil && len(raw.Boundaries) > 0 {
		b := mapBoundary(raw.Boundaries[0], geo)
		field.Boundary = &b
		field.Area = b.Area
	}
	return field
}

// mapBoundary translates a raw boundary. Geometry is populated only when the
// caller asked for it and the raw resource actually carries polygon data;
// otherwise it stays nil rather than an empty geometry.
func mapBoundary(raw rawBoundary, geo geometryOptions) domain.UnifiedBoundary {
	b := domain.UnifiedBoundary{
		ID:           raw.ID,
		ProviderID:   raw.ID,
		Provider:     domain.ProviderJohnDeere,
		FieldID:      mineAnyLink(raw.Links, fieldIDPattern),
		Name:         raw.Name,
		IsActive:     raw.Active,
		Area:         mapArea(raw.Area, geo.areaUnit),
		WorkableArea: mapArea(raw.WorkableArea, geo.areaUnit),
		Status:       mapRecordStatus(raw.Archived),
		SourceType:   raw.SourceType,
		SignalType:   raw.SignalType,
		Irrigated:    raw.Irrigated,
		CreatedAt:    parseProviderTime(raw.CreatedTime),
		ModifiedAt:   parseProviderTime(raw.ModifiedTime),
	}

	if !geo.include || len(raw.MultiPolygons) == 0 {
		return b
	}

	polygons := make([][][]geospatial.LatLon, 0, len(raw.MultiPolygons))
	for _, poly := range raw.MultiPolygons {
		rings := make([][]geospatial.LatLon, 0, len(poly.Rings))
		for _, ring := range poly.Rings {
			pts := make([]geospatial.LatLon, 0, len(ring.Points))
			for _, p := range ring.Points {
				pts = append(pts, geospatial.LatLon{Lat: p.Lat, Lon: p.Lon})
			}
			rings = append(rings, pts)
		}
		polygons = append(polygons, rings)
	}

	geometry := geospatial.FromNativePolygons(polygons)
	if geometry == nil {
		return b
	}
	if geo.tolerance > 0 {
		geometry = geospatial.Simplify(geometry, geo.tolerance)
	}

	formatted, err := geospatial.ConvertFormat(geometry, geo.format)
	if err != nil {
		// Geometry is enhancement, not a hard requirement: keep canonical.
		b.Geometry = geometry
		b.GeometryFormat = domain.FormatGeoJSON
		return b
	}
	b.GeometryFormat = formatted.Format
	switch formatted.Format {
	case domain.FormatWKT:
		b.GeometryWKT = formatted.WKT
	case domain.FormatCoordinates:
		b.Coordinates = formatted.Coordinates
	default:
		b.Geometry = formatted.GeoJSON
	}
	return b
}

// mapWorkPlan translates a raw work plan, restructuring operations, input
// prescriptions, assignment references, and guidance settings.
func mapWorkPlan(raw rawWorkPlan, orgID string) domain.UnifiedWorkPlan {
	plan := domain.UnifiedWorkPlan{
		ID:                 raw.ID,
		ProviderID:         raw.ID,
		Provider:           domain.ProviderJohnDeere,
		OrganizationID:     orgID,
		FieldID:            mineAnyLink(raw.Links, fieldIDPattern),
		WorkType:           mapWorkType(raw.WorkType),
		ProviderWorkType:   raw.WorkType,
		WorkStatus:         mapWorkStatus(raw.Status),
		ProviderWorkStatus: raw.Status,
		Year:               raw.Year,
		SequenceNumber:     raw.SequenceNumber,
		Operations:         []domain.WorkOperation{},
		Assignments:        []domain.WorkAssignment{},
	}
	if plan.OrganizationID == "" {
		plan.OrganizationID = mineAnyLink(raw.Links, organizationIDPattern)
	}

	for _, op := range raw.Operations {
		mapped := domain.WorkOperation{ProviderID: op.ID, Inputs: []domain.OperationInput{}}
		for _, input := range op.Inputs {
			mapped.Inputs = append(mapped.Inputs, domain.OperationInput{
				Product: domain.ProductRef{
					ID:   input.Product.ID,
					Name: input.Product.Name,
				},
				Prescription: mapPrescription(input.Prescription),
			})
		}
		plan.Operations = append(plan.Operations, mapped)
	}

	for _, a := range raw.WorkAssignments {
		plan.Assignments = append(plan.Assignments, domain.WorkAssignment{
			EquipmentID: mineAnyLink(a.Links, equipmentIDPattern),
			OperatorID:  mineAnyLink(a.Links, operatorIDPattern),
			ImplementID: mineAnyLink(a.Links, implementIDPattern),
		})
	}

	if raw.Guidance != nil {
		settings := &domain.GuidanceSettings{
			PreferenceMode: raw.Guidance.PreferenceMode,
		}
		if raw.Guidance.Preferred != nil {
			settings.PreferredEntity = mapGuidanceEntity(raw.Guidance.Preferred.Links)
		}
		for _, ref := range raw.Guidance.Included {
			if entity := mapGuidanceEntity(ref.Links); entity != nil {
				settings.Included = append(settings.Included, *entity)
			}
		}
		plan.GuidanceSettings = settings
	}
	return plan
}

// mapPrescription resolves the fixed-rate vs variable-rate union: a rate
// means fixed, a prescription reference means variable, neither means no
// prescription.
func mapPrescription(raw *rawPrescription) *domain.Prescription {
	if raw == nil {
		return nil
	}
	if raw.Rate != nil {
		return &domain.Prescription{
			Kind: domain.PrescriptionFixedRate,
			FixedRate: &domain.FixedRatePrescription{
				Rate: *raw.Rate,
				Unit: raw.RateUnit,
			},
		}
	}
	if raw.PrescriptionID != "" {
		return &domain.Prescription{
			Kind: domain.PrescriptionVariableRate,
			VariableRate: &domain.VariableRatePrescription{
				PrescriptionID: raw.PrescriptionID,
				Name:           raw.Name,
			},
		}
	}
	return nil
}

// mapGuidanceEntity tries the guidance URI shapes in their fixed fallback
// order across all links of the reference.
func mapGuidanceEntity(links []Link) *domain.GuidanceEntity {
	for _, candidate := range guidancePatterns {
		if id := mineAnyLink(links, candidate.pattern); id != "" {
			return &domain.GuidanceEntity{Kind: candidate.kind, ID: id}
		}
	}
	return nil
}

package johndeere

import (
	"testing"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

func TestMapWorkTypeDefaults(t *testing.T) {
	cases := []struct {
		in   string
		want domain.WorkType
	}{
		{"dtiTillage", domain.WorkTypeTillage},
		{"dtiSeeding", domain.WorkTypeSeeding},
		{"dtiApplication", domain.WorkTypeApplication},
		{"dtiHarvest", domain.WorkTypeHarvest},
		{"dtiSomethingNew", domain.WorkTypeTillage},
		{"", domain.WorkTypeTillage},
	}
	for _, tc := range cases {
		if got := mapWorkType(tc.in); got != tc.want {
			t.Errorf("mapWorkType(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMapWorkStatusDefaults(t *testing.T) {
	if got := mapWorkStatus("inProgress"); got != domain.WorkStatusInProgress {
		t.Errorf("inProgress = %q", got)
	}
	if got := mapWorkStatus("somethingElse"); got != domain.WorkStatusPlanned {
		t.Errorf("unknown status = %q, want planned default", got)
	}
}

func TestMineIDFromLinkURIs(t *testing.T) {
	cases := []struct {
		uri  string
		want string
	}{
		{"https://api.example.com/platform/organizations/123/fields/f-9a8b", "f-9a8b"},
		{"https://api.example.com/platform/fields/f-1?itemLimit=10", "f-1"},
		{"https://api.example.com/platform/fields/f-2#frag", "f-2"},
		{"https://api.example.com/platform/organizations/123", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := mineID(fieldIDPattern, tc.uri); got != tc.want {
			t.Errorf("mineID(%q) = %q, want %q", tc.uri, got, tc.want)
		}
	}
}

func TestMapFieldPrefersActiveBoundary(t *testing.T) {
	raw := rawField{
		ID:   "f-1",
		Name: "North 40",
		Links: []Link{
			{Rel: "farms", URI: "https://api.example.com/platform/farms/farm-7"},
			{Rel: "organizations", URI: "https://api.example.com/platform/organizations/org-3"},
		},
		Boundaries: []rawBoundary{
			{ID: "b-old", Active: false, Area: &rawMeasurement{ValueAsDouble: 90, Unit: "ac"}},
			{ID: "b-new", Active: true, Area: &rawMeasurement{ValueAsDouble: 100, Unit: "ac"}},
		},
	}

	field := mapField(raw, "", geometryOptions{areaUnit: domain.UnitAcres})
	if field.OrganizationID != "org-3" {
		t.Errorf("organization id = %q, want org-3 mined from links", field.OrganizationID)
	}
	if field.FarmID != "farm-7" {
		t.Errorf("farm id = %q, want farm-7", field.FarmID)
	}
	if field.Boundary == nil || field.Boundary.ID != "b-new" {
		t.Fatalf("boundary = %+v, want the active one (b-new)", field.Boundary)
	}
	if field.Area == nil || field.Area.Value != 100 || field.Area.Unit != domain.UnitAcres {
		t.Errorf("area = %+v, want 100 ac from the active boundary", field.Area)
	}
	if field.Status != domain.StatusActive {
		t.Errorf("status = %q, want active", field.Status)
	}
}

func TestMapFieldFallsBackToFirstBoundary(t *testing.T) {
	raw := rawField{
		ID: "f-2",
		Boundaries: []rawBoundary{
			{ID: "b-1", Active: false},
			{ID: "b-2", Active: false},
		},
	}
	field := mapField(raw, "org-1", geometryOptions{})
	if field.Boundary == nil || field.Boundary.ID != "b-1" {
		t.Errorf("boundary = %+v, want first boundary when none is active", field.Boundary)
	}
}

func TestMapBoundaryGeometry(t *testing.T) {
	// Unclosed 4-point ring: mapping must close it.
	raw := rawBoundary{
		ID:     "b-1",
		Active: true,
		Area:   &rawMeasurement{ValueAsDouble: 10, Unit: "ac"},
		MultiPolygons: []rawPolygon{{
			Rings: []rawRing{{
				Points: []rawPoint{
					{Lat: 41.0, Lon: -93.0},
					{Lat: 41.0, Lon: -92.9},
					{Lat: 41.1, Lon: -92.9},
					{Lat: 41.1, Lon: -93.0},
				},
			}},
		}},
	}

	b := mapBoundary(raw, geometryOptions{include: true, areaUnit: domain.UnitHectares})
	if b.Geometry == nil {
		t.Fatal("geometry missing")
	}
	if b.Geometry.Type != domain.GeometryPolygon {
		t.Errorf("type = %q, want Polygon for single polygon", b.Geometry.Type)
	}
	ring := b.Geometry.Polygon[0]
	if len(ring) != 5 {
		t.Fatalf("ring has %d positions, want 5 (closed)", len(ring))
	}
	// GeoJSON positions are [lon, lat].
	if ring[0][0] != -93.0 || ring[0][1] != 41.0 {
		t.Errorf("first position = %v, want [-93 41]", ring[0])
	}
	if ring[0][0] != ring[4][0] || ring[0][1] != ring[4][1] {
		t.Error("ring is not closed")
	}

	// 10 ac -> ~4.0469 ha
	if b.Area == nil || b.Area.Unit != domain.UnitHectares {
		t.Fatalf("area = %+v, want hectares", b.Area)
	}
	if b.Area.Value < 4.04 || b.Area.Value > 4.05 {
		t.Errorf("area value = %f, want ~4.0469", b.Area.Value)
	}
}

func TestMapBoundaryGeometryOnlyWhenRequested(t *testing.T) {
	raw := rawBoundary{
		ID: "b-1",
		MultiPolygons: []rawPolygon{{
			Rings: []rawRing{{Points: []rawPoint{{Lat: 1, Lon: 2}, {Lat: 3, Lon: 4}, {Lat: 5, Lon: 6}}}},
		}},
	}
	b := mapBoundary(raw, geometryOptions{include: false})
	if b.Geometry != nil {
		t.Errorf("geometry = %+v, want nil when not requested", b.Geometry)
	}
}

func TestMapBoundaryWKTFormat(t *testing.T) {
	raw := rawBoundary{
		ID: "b-1",
		MultiPolygons: []rawPolygon{{
			Rings: []rawRing{{
				Points: []rawPoint{
					{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0},
				},
			}},
		}},
	}
	b := mapBoundary(raw, geometryOptions{include: true, format: domain.FormatWKT})
	if b.Geometry != nil {
		t.Errorf("canonical geometry should not ride along with WKT output, got %+v", b.Geometry)
	}
	if b.GeometryWKT == "" {
		t.Fatal("WKT missing")
	}
	if b.GeometryFormat != domain.FormatWKT {
		t.Errorf("format = %q, want wkt", b.GeometryFormat)
	}
}

func TestMapWorkPlan(t *testing.T) {
	fixedRate := 32.5
	raw := rawWorkPlan{
		ID:       "wp-1",
		WorkType: "dtiHarvest",
		Status:   "inProgress",
		Year:     2026,
		Links: []Link{
			{Rel: "field", URI: "https://api.example.com/platform/fields/f-1"},
		},
		Operations: []rawWorkOperation{{
			ID: "op-1",
			Inputs: []rawInput{
				{
					Product:      rawProduct{ID: "p-1", Name: "DKC62-89"},
					Prescription: &rawPrescription{Rate: &fixedRate, RateUnit: "seeds1ac-1"},
				},
				{
					Product:      rawProduct{ID: "p-2"},
					Prescription: &rawPrescription{PrescriptionID: "rx-9", Name: "VR Nitrogen"},
				},
				{
					Product: rawProduct{ID: "p-3"},
				},
			},
		}},
		WorkAssignments: []rawAssignment{{
			Links: []Link{
				{Rel: "equipment", URI: "https://api.example.com/platform/equipment/eq-5"},
				{Rel: "operator", URI: "https://api.example.com/platform/operators/u-2"},
			},
		}},
		Guidance: &rawGuidance{
			PreferenceMode: "automatic",
			Preferred: &rawGuidRef{Links: []Link{
				{Rel: "guidance", URI: "https://api.example.com/platform/guidancePlans/gp-1"},
			}},
			Included: []rawGuidRef{
				{Links: []Link{{Rel: "guidance", URI: "https://api.example.com/platform/guidanceLines/gl-1"}}},
				{Links: []Link{{Rel: "guidance", URI: "https://api.example.com/platform/sourceOperations/so-1"}}},
			},
		},
	}

	plan := mapWorkPlan(raw, "org-1")
	if plan.WorkType != domain.WorkTypeHarvest {
		t.Errorf("work type = %q, want harvest", plan.WorkType)
	}
	if plan.ProviderWorkType != "dtiHarvest" {
		t.Errorf("provider work type = %q, raw string must be preserved", plan.ProviderWorkType)
	}
	if plan.WorkStatus != domain.WorkStatusInProgress {
		t.Errorf("status = %q", plan.WorkStatus)
	}
	if plan.FieldID != "f-1" {
		t.Errorf("field id = %q, want f-1", plan.FieldID)
	}

	if len(plan.Operations) != 1 || len(plan.Operations[0].Inputs) != 3 {
		t.Fatalf("operations = %+v", plan.Operations)
	}
	inputs := plan.Operations[0].Inputs
	if inputs[0].Prescription == nil || inputs[0].Prescription.Kind != domain.PrescriptionFixedRate {
		t.Errorf("input 0 prescription = %+v, want fixed rate", inputs[0].Prescription)
	}
	if inputs[0].Prescription.FixedRate.Rate != 32.5 {
		t.Errorf("fixed rate = %f", inputs[0].Prescription.FixedRate.Rate)
	}
	if inputs[1].Prescription == nil || inputs[1].Prescription.Kind != domain.PrescriptionVariableRate {
		t.Errorf("input 1 prescription = %+v, want variable rate", inputs[1].Prescription)
	}
	if inputs[1].Prescription.VariableRate.PrescriptionID != "rx-9" {
		t.Errorf("variable rate id = %q", inputs[1].Prescription.VariableRate.PrescriptionID)
	}
	if inputs[2].Prescription != nil {
		t.Errorf("input 2 prescription = %+v, want nil", inputs[2].Prescription)
	}

	if len(plan.Assignments) != 1 {
		t.Fatalf("assignments = %+v", plan.Assignments)
	}
	if plan.Assignments[0].EquipmentID != "eq-5" || plan.Assignments[0].OperatorID != "u-2" {
		t.Errorf("assignment = %+v", plan.Assignments[0])
	}
	if plan.Assignments[0].ImplementID != "" {
		t.Errorf("implement id = %q, want empty", plan.Assignments[0].ImplementID)
	}

	g := plan.GuidanceSettings
	if g == nil {
		t.Fatal("guidance settings missing")
	}
	if g.PreferredEntity == nil || g.PreferredEntity.Kind != domain.GuidancePlan || g.PreferredEntity.ID != "gp-1" {
		t.Errorf("preferred entity = %+v", g.PreferredEntity)
	}
	if len(g.Included) != 2 {
		t.Fatalf("included = %+v", g.Included)
	}
	if g.Included[0].Kind != domain.GuidanceLine || g.Included[1].Kind != domain.GuidanceSourceOperation {
		t.Errorf("included kinds = %q, %q", g.Included[0].Kind, g.Included[1].Kind)
	}
}

func TestParseProviderTime(t *testing.T) {
	if got := parseProviderTime(""); got != nil {
		t.Errorf("empty time = %v, want nil", got)
	}
	if got := parseProviderTime("2026-04-01T12:30:00Z"); got == nil || got.Year() != 2026 {
		t.Errorf("parsed = %v", got)
	}
	if got := parseProviderTime("not-a-time"); got != nil {
		t.Errorf("garbage time = %v, want nil", got)
	}
}

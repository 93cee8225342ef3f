package geospatial_test

import (
	"math"
	"testing"

	"github.com/acreblitz/fieldgate/internal/core/domain"
	"github.com/acreblitz/fieldgate/internal/pkg/geospatial"
)

func TestConvertArea_AcresToHectares(t *testing.T) {
	got := geospatial.ConvertArea(10, domain.UnitAcres, domain.UnitHectares)
	if math.Abs(got-4.0469) > 0.001 {
		t.Errorf("10 acres = %f ha, want ~4.0469", got)
	}
}

func TestConvertArea_Identity(t *testing.T) {
	if got := geospatial.ConvertArea(123.456, domain.UnitHectares, domain.UnitHectares); got != 123.456 {
		t.Errorf("identity conversion changed value: %f", got)
	}
}

func TestConvertArea_RoundTripAllPairs(t *testing.T) {
	units := []domain.AreaUnit{
		domain.UnitSquareMeters,
		domain.UnitSquareFeet,
		domain.UnitHectares,
		domain.UnitAcres,
	}
	for _, from := range units {
		for _, to := range units {
			x := 42.5
			back := geospatial.ConvertArea(geospatial.ConvertArea(x, from, to), to, from)
			if math.Abs(back-x) > 1e-9 {
				t.Errorf("%s -> %s -> %s: got %v, want %v", from, to, from, back, x)
			}
		}
	}
}

func TestConvertMeasurement(t *testing.T) {
	m := geospatial.ConvertMeasurement(
		domain.AreaMeasurement{Value: 1, Unit: domain.UnitHectares},
		domain.UnitSquareMeters,
	)
	if m.Unit != domain.UnitSquareMeters || m.Value != 10000 {
		t.Errorf("got %+v, want 10000 sqm", m)
	}
}

func TestParseAreaUnit(t *testing.T) {
	tests := []struct {
		in   string
		want domain.AreaUnit
	}{
		{"ha", domain.UnitHectares},
		{"Hectares", domain.UnitHectares},
		{"acre", domain.UnitAcres},
		{"ACRES", domain.UnitAcres},
		{"m2", domain.UnitSquareMeters},
		{"m²", domain.UnitSquareMeters},
		{"ft2", domain.UnitSquareFeet},
		{"ft²", domain.UnitSquareFeet},
		{" sqft ", domain.UnitSquareFeet},
		// Unrecognized strings fall back to hectares.
		{"bushels", domain.UnitHectares},
		{"", domain.UnitHectares},
	}
	for _, tt := range tests {
		if got := geospatial.ParseAreaUnit(tt.in); got != tt.want {
			t.Errorf("ParseAreaUnit(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

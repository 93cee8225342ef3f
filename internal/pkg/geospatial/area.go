package geospatial

import (
	"strings"

	"github.com/acreblitz/fieldgate/internal/core/domain"
)

// Square meters per unit. Every conversion canonicalizes through square
// meters using this table.
var squareMetersPer = map[domain.AreaUnit]float64{
	domain.UnitSquareMeters: 1,
	domain.UnitSquareFeet:   0.092903,
	domain.UnitHectares:     10000,
	domain.UnitAcres:        4046.8564224,
}

// ConvertArea converts a value between area units via square meters.
// Identity conversions short-circuit without touching the value.
func ConvertArea(value float64, from, to domain.AreaUnit) float64 {
	if from == to {
		return value
	}
	sqm := value * squareMetersPer[from]
	return sqm / squareMetersPer[to]
}

// ConvertMeasurement converts an AreaMeasurement to the target unit,
// returning a fresh measurement carrying the new unit.
func ConvertMeasurement(m domain.AreaMeasurement, to domain.AreaUnit) domain.AreaMeasurement {
	return domain.AreaMeasurement{Value: ConvertArea(m.Value, m.Unit, to), Unit: to}
}

// ParseAreaUnit maps a provider unit string onto the closed AreaUnit set.
// Matching is case-insensitive and accepts common synonyms. Unrecognized
// strings fall back to hectares.
func ParseAreaUnit(s string) domain.AreaUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sqm", "m2", "m²", "squaremeters", "square_meters":
		return domain.UnitSquareMeters
	case "sqft", "ft2", "ft²", "squarefeet", "square_feet":
		return domain.UnitSquareFeet
	case "ha", "hectare", "hectares":
		return domain.UnitHectares
	case "ac", "acre", "acres":
		return domain.UnitAcres
	default:
		return domain.UnitHectares
	}
}

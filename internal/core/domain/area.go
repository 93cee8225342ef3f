package domain

// AreaUnit is a closed set of supported area units.
type AreaUnit string

const (
	UnitSquareMeters AreaUnit = "sqm"
	UnitSquareFeet   AreaUnit = "sqft"
	UnitHectares     AreaUnit = "ha"
	UnitAcres        AreaUnit = "ac"
)

// DefaultAreaUnit is the package-wide unit applied when a caller does not
// request one.
const DefaultAreaUnit = UnitHectares

// AreaMeasurement pairs a value with the unit it is expressed in. The value
// is never implicit: whoever builds an AreaMeasurement records the unit here.
type AreaMeasurement struct {
	Value float64  `json:"value"`
	Unit  AreaUnit `json:"unit"`
}

package johndeere

import "encoding/json"

// Raw wire types for the MyJohnDeere platform API (axiom v3 media type).
// Collections are HATEOAS: every resource carries a links array and related
// resources are discovered through rel tags, not constructed URLs.

// Link is a hypermedia relation on a resource or collection.
type Link struct {
	Type string `json:"@type,omitempty"`
	Rel  string `json:"rel"`
	URI  string `json:"uri"`
}

// Relation tags the client navigates by.
const (
	relNextPage    = "nextPage"
	relConnections = "connections"
)

// collectionEnvelope is the wrapped page shape: values plus links, where a
// nextPage link points at the following page. Values stay raw until the
// aggregator has collected every page.
type collectionEnvelope struct {
	Links  []Link            `json:"links"`
	Total  int               `json:"total"`
	Values []json.RawMessage `json:"values"`
}

// rawOrganization is an organization visible to the access token. A
// "connections" link means the organization still needs the end user to
// complete the connection step.
type rawOrganization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Member bool   `json:"member"`
	Links  []Link `json:"links"`
}

// rawMeasurement is the provider's value+unit pair.
type rawMeasurement struct {
	ValueAsDouble float64 `json:"valueAsDouble"`
	Unit          string  `json:"unit"`
}

// rawPoint is a provider-native coordinate in lat/lon order.
type rawPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type rawRing struct {
	Points []rawPoint `json:"points"`
	Type   string     `json:"type"`
}

type rawPolygon struct {
	Rings []rawRing `json:"rings"`
}

// rawField is a field resource. Boundary geometry arrives only when the list
// was requested with the boundary embed flag.
type rawField struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Archived   bool          `json:"archived"`
	Links      []Link        `json:"links"`
	Boundaries []rawBoundary `json:"boundaries,omitempty"`
}

// rawBoundary is a field boundary resource.
type rawBoundary struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Active        bool            `json:"active"`
	Archived      bool            `json:"archived"`
	Irrigated     *bool           `json:"irrigated,omitempty"`
	SourceType    string          `json:"sourceType,omitempty"`
	SignalType    string          `json:"signalType,omitempty"`
	CreatedTime   string          `json:"createdTime,omitempty"`
	ModifiedTime  string          `json:"modifiedTime,omitempty"`
	Area          *rawMeasurement `json:"area,omitempty"`
	WorkableArea  *rawMeasurement `json:"workableArea,omitempty"`
	MultiPolygons []rawPolygon    `json:"multipolygons,omitempty"`
	Links         []Link          `json:"links"`
}

// rawWorkPlan is a planned-work resource. Work types and statuses use the
// provider's dti-prefixed vocabulary.
type rawWorkPlan struct {
	ID              string             `json:"id"`
	WorkType        string             `json:"workType"`
	Status          string             `json:"status"`
	Year            int                `json:"year"`
	SequenceNumber  *int               `json:"sequenceNumber,omitempty"`
	Operations      []rawWorkOperation `json:"operations"`
	WorkAssignments []rawAssignment    `json:"workAssignments"`
	Guidance        *rawGuidance       `json:"guidance,omitempty"`
	Links           []Link             `json:"links"`
}

type rawWorkOperation struct {
	ID     string     `json:"id,omitempty"`
	Inputs []rawInput `json:"inputs"`
}

type rawInput struct {
	Product      rawProduct       `json:"product"`
	Prescription *rawPrescription `json:"prescription,omitempty"`
}

type rawProduct struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// rawPrescription is either a fixed rate (rate set) or a reference to a
// variable-rate prescription map (prescriptionId set).
type rawPrescription struct {
	Type           string   `json:"type,omitempty"`
	Rate           *float64 `json:"rate,omitempty"`
	RateUnit       string   `json:"rateUnit,omitempty"`
	PrescriptionID string   `json:"prescriptionId,omitempty"`
	Name           string   `json:"name,omitempty"`
}

type rawAssignment struct {
	Links []Link `json:"links"`
}

type rawGuidance struct {
	PreferenceMode string       `json:"preferenceMode,omitempty"`
	Preferred      *rawGuidRef  `json:"preferred,omitempty"`
	Included       []rawGuidRef `json:"included,omitempty"`
}

type rawGuidRef struct {
	Links []Link `json:"links"`
}

// rawError is the structured error body the platform returns on failures.
type rawError struct {
	Fault struct {
		Code    string `json:"code"`
		Message string `json:"faultstring"`
	} `json:"fault"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Errors  []rawErrorItem `json:"errors,omitempty"`
}

type rawErrorItem struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

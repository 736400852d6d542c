package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TriState represents an answer that can be yes, no, or not yet given.
// It marshals to JSON as true, false, or null so API clients see the same
// shape a radio-button pair produces.
type TriState int8

const (
	TriUnset TriState = iota
	TriNo
	TriYes
)

// IsSet returns true once the user has picked either answer.
func (t TriState) IsSet() bool {
	return t == TriNo || t == TriYes
}

// String returns the human-readable Spanish label used in generated documents.
func (t TriState) String() string {
	switch t {
	case TriYes:
		return "Sí"
	case TriNo:
		return "No"
	default:
		return "No especificado"
	}
}

// MarshalJSON encodes the tri-state as null/true/false.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case TriYes:
		return []byte("true"), nil
	case TriNo:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, true or false.
func (t *TriState) UnmarshalJSON(data []byte) error {
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = TriUnset
	case bytes.Equal(data, []byte("true")):
		*t = TriYes
	case bytes.Equal(data, []byte("false")):
		*t = TriNo
	default:
		return fmt.Errorf("invalid tri-state value: %s", data)
	}
	return nil
}

// TriStateFromJSON converts a decoded JSON value (nil or bool) to a TriState.
func TriStateFromJSON(v interface{}) (TriState, error) {
	switch b := v.(type) {
	case nil:
		return TriUnset, nil
	case bool:
		if b {
			return TriYes, nil
		}
		return TriNo, nil
	default:
		return TriUnset, fmt.Errorf("expected boolean or null, got %T", v)
	}
}

// OptionSet is an ordered collection of selected option labels. Membership is
// toggled, so duplicates cannot occur by construction.
type OptionSet []string

// Has reports whether the option is currently selected.
func (s OptionSet) Has(value string) bool {
	for _, v := range s {
		if v == value {
			return true
		}
	}
	return false
}

// Toggle returns the set with the value added if absent or removed if present.
func (s OptionSet) Toggle(value string) OptionSet {
	for i, v := range s {
		if v == value {
			return append(append(OptionSet{}, s[:i]...), s[i+1:]...)
		}
	}
	return append(append(OptionSet{}, s...), value)
}

// MarshalJSON always emits an array, never null.
func (s OptionSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}

// Contact holds the client identification and contact channel answers.
type Contact struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	OriginCity     string `json:"originCity"`
	ContactChannel string `json:"contactChannel"`
}

// Trip holds destination and date answers. Duration is derived, never edited
// directly.
type Trip struct {
	Destinations    string   `json:"destinations"`
	DepartureDate   string   `json:"departureDate"`
	ReturnDate      string   `json:"returnDate"`
	Duration        string   `json:"duration"`
	DateFlexibility TriState `json:"dateFlexibility"`
	TripReason      string   `json:"tripReason"`
}

// TravelerGroup describes who is traveling. Counts are kept as strings the way
// the form captures them; parsing happens at validation time.
type TravelerGroup struct {
	GroupType           string `json:"groupType"`
	TotalTravelers      string `json:"totalTravelers"`
	Adults              string `json:"adults"`
	Children            string `json:"children"`
	ChildrenAges        string `json:"childrenAges"`
	Seniors             string `json:"seniors"`
	SpecialRequirements string `json:"specialRequirements"`
}

// Experience holds travel-style preferences.
type Experience struct {
	TravelStyle  OptionSet `json:"travelStyle"`
	ComfortLevel string    `json:"comfortLevel"`
	Pace         string    `json:"pace"`
	Amenities    OptionSet `json:"amenities"`
}

// Lodging holds accommodation preferences.
type Lodging struct {
	AccommodationType     OptionSet `json:"accommodationType"`
	Category              string    `json:"category"`
	RoomType              string    `json:"roomType"`
	RoomCount             string    `json:"roomCount"`
	AdditionalPreferences OptionSet `json:"additionalPreferences"`
}

// Transport holds transport and logistics answers.
type Transport struct {
	TransportMode     string   `json:"transportMode"`
	TimePreference    string   `json:"timePreference"`
	InternalTransfers TriState `json:"internalTransfersNeeded"`
	DeparturePoint    string   `json:"departurePoint"`
	ArrivalPoint      string   `json:"arrivalPoint"`
}

// OperationalConditions holds priority and included-service answers.
type OperationalConditions struct {
	PriorityLevel     string    `json:"priorityLevel"`
	ServicesToInclude OptionSet `json:"servicesToInclude"`
}

// Deliverable holds the requested proposal format.
type Deliverable struct {
	ProposalFormat     string `json:"proposalFormat"`
	AdditionalComments string `json:"additionalComments"`
}

// TravelerProfile is the complete record of a traveler-profiling session.
// Every leaf is always initialized: strings start empty, tri-states unset and
// option sets empty. No field is ever absent.
type TravelerProfile struct {
	Contact               Contact               `json:"contact"`
	Trip                  Trip                  `json:"trip"`
	TravelerGroup         TravelerGroup         `json:"travelerGroup"`
	Experience            Experience            `json:"experience"`
	Lodging               Lodging               `json:"lodging"`
	Transport             Transport             `json:"transport"`
	OperationalConditions OperationalConditions `json:"operationalConditions"`
	Deliverable           Deliverable           `json:"deliverable"`
}

// NewTravelerProfile returns a profile with all answers at their defaults.
func NewTravelerProfile() *TravelerProfile {
	return &TravelerProfile{
		Experience: Experience{
			TravelStyle: OptionSet{},
			Amenities:   OptionSet{},
		},
		Lodging: Lodging{
			AccommodationType:     OptionSet{},
			AdditionalPreferences: OptionSet{},
		},
		OperationalConditions: OperationalConditions{
			ServicesToInclude: OptionSet{},
		},
	}
}

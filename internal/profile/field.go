// Package profile implements the traveler-profiling form: its state container,
// field addressing, duration derivation and submit validation.
package profile

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/reservat/storefront/internal/models"
)

// Section identifies one of the eight form sections.
type Section string

const (
	SectionContact               Section = "contact"
	SectionTrip                  Section = "trip"
	SectionTravelerGroup         Section = "travelerGroup"
	SectionExperience            Section = "experience"
	SectionLodging               Section = "lodging"
	SectionTransport             Section = "transport"
	SectionOperationalConditions Section = "operationalConditions"
	SectionDeliverable           Section = "deliverable"
)

// Field identifies a leaf within a section.
type Field string

// Kind is the value shape of a field.
type Kind int

const (
	KindText Kind = iota
	KindTriState
	KindSet
)

// FieldRef addresses a single form field as a typed (section, field) pair.
// Using a structured key instead of concatenated path strings means an
// unknown path fails at resolution, not silently at map lookup.
type FieldRef struct {
	Section Section
	Field   Field
}

func (r FieldRef) String() string {
	return string(r.Section) + "." + string(r.Field)
}

// Frequently referenced fields.
var (
	RefDepartureDate = FieldRef{SectionTrip, "departureDate"}
	RefReturnDate    = FieldRef{SectionTrip, "returnDate"}
	RefChildrenAges  = FieldRef{SectionTravelerGroup, "childrenAges"}
)

// registry declares every addressable field and its kind. trip.duration is
// deliberately absent: it is derived, never set by clients.
var registry = map[Section]map[Field]Kind{
	SectionContact: {
		"name":           KindText,
		"phone":          KindText,
		"email":          KindText,
		"originCity":     KindText,
		"contactChannel": KindText,
	},
	SectionTrip: {
		"destinations":    KindText,
		"departureDate":   KindText,
		"returnDate":      KindText,
		"dateFlexibility": KindTriState,
		"tripReason":      KindText,
	},
	SectionTravelerGroup: {
		"groupType":           KindText,
		"totalTravelers":      KindText,
		"adults":              KindText,
		"children":            KindText,
		"childrenAges":        KindText,
		"seniors":             KindText,
		"specialRequirements": KindText,
	},
	SectionExperience: {
		"travelStyle":  KindSet,
		"comfortLevel": KindText,
		"pace":         KindText,
		"amenities":    KindSet,
	},
	SectionLodging: {
		"accommodationType":     KindSet,
		"category":              KindText,
		"roomType":              KindText,
		"roomCount":             KindText,
		"additionalPreferences": KindSet,
	},
	SectionTransport: {
		"transportMode":           KindText,
		"timePreference":          KindText,
		"internalTransfersNeeded": KindTriState,
		"departurePoint":          KindText,
		"arrivalPoint":            KindText,
	},
	SectionOperationalConditions: {
		"priorityLevel":     KindText,
		"servicesToInclude": KindSet,
	},
	SectionDeliverable: {
		"proposalFormat":     KindText,
		"additionalComments": KindText,
	},
}

// Resolve maps raw section/field names to a typed reference.
func Resolve(section, field string) (FieldRef, Kind, error) {
	fields, ok := registry[Section(section)]
	if !ok {
		return FieldRef{}, 0, fmt.Errorf("unknown section: %s", section)
	}
	kind, ok := fields[Field(field)]
	if !ok {
		return FieldRef{}, 0, fmt.Errorf("unknown field: %s.%s", section, field)
	}
	return FieldRef{Section(section), Field(field)}, kind, nil
}

// KindOf returns the value kind of a known field reference.
func KindOf(ref FieldRef) (Kind, bool) {
	kind, ok := registry[ref.Section][ref.Field]
	return kind, ok
}

// ErrorMap maps invalid fields to human-readable messages. Absence of a key
// means the field is currently valid.
type ErrorMap map[FieldRef]string

// IsValid reports whether the map carries no errors.
func (m ErrorMap) IsValid() bool {
	return len(m) == 0
}

// Paths returns the flagged field paths in deterministic order.
func (m ErrorMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for ref := range m {
		paths = append(paths, ref.String())
	}
	sort.Strings(paths)
	return paths
}

// MarshalJSON encodes the map keyed by "section.field" paths.
func (m ErrorMap) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(m))
	for ref, msg := range m {
		out[ref.String()] = msg
	}
	return json.Marshal(out)
}

// textField returns a pointer to the string leaf addressed by ref.
func textField(p *models.TravelerProfile, ref FieldRef) *string {
	switch ref.Section {
	case SectionContact:
		c := &p.Contact
		switch ref.Field {
		case "name":
			return &c.Name
		case "phone":
			return &c.Phone
		case "email":
			return &c.Email
		case "originCity":
			return &c.OriginCity
		case "contactChannel":
			return &c.ContactChannel
		}
	case SectionTrip:
		t := &p.Trip
		switch ref.Field {
		case "destinations":
			return &t.Destinations
		case "departureDate":
			return &t.DepartureDate
		case "returnDate":
			return &t.ReturnDate
		case "tripReason":
			return &t.TripReason
		}
	case SectionTravelerGroup:
		g := &p.TravelerGroup
		switch ref.Field {
		case "groupType":
			return &g.GroupType
		case "totalTravelers":
			return &g.TotalTravelers
		case "adults":
			return &g.Adults
		case "children":
			return &g.Children
		case "childrenAges":
			return &g.ChildrenAges
		case "seniors":
			return &g.Seniors
		case "specialRequirements":
			return &g.SpecialRequirements
		}
	case SectionExperience:
		e := &p.Experience
		switch ref.Field {
		case "comfortLevel":
			return &e.ComfortLevel
		case "pace":
			return &e.Pace
		}
	case SectionLodging:
		l := &p.Lodging
		switch ref.Field {
		case "category":
			return &l.Category
		case "roomType":
			return &l.RoomType
		case "roomCount":
			return &l.RoomCount
		}
	case SectionTransport:
		tr := &p.Transport
		switch ref.Field {
		case "transportMode":
			return &tr.TransportMode
		case "timePreference":
			return &tr.TimePreference
		case "departurePoint":
			return &tr.DeparturePoint
		case "arrivalPoint":
			return &tr.ArrivalPoint
		}
	case SectionOperationalConditions:
		if ref.Field == "priorityLevel" {
			return &p.OperationalConditions.PriorityLevel
		}
	case SectionDeliverable:
		d := &p.Deliverable
		switch ref.Field {
		case "proposalFormat":
			return &d.ProposalFormat
		case "additionalComments":
			return &d.AdditionalComments
		}
	}
	return nil
}

// triField returns a pointer to the tri-state leaf addressed by ref.
func triField(p *models.TravelerProfile, ref FieldRef) *models.TriState {
	switch ref {
	case FieldRef{SectionTrip, "dateFlexibility"}:
		return &p.Trip.DateFlexibility
	case FieldRef{SectionTransport, "internalTransfersNeeded"}:
		return &p.Transport.InternalTransfers
	}
	return nil
}

// setField returns a pointer to the option-set leaf addressed by ref.
func setField(p *models.TravelerProfile, ref FieldRef) *models.OptionSet {
	switch ref {
	case FieldRef{SectionExperience, "travelStyle"}:
		return &p.Experience.TravelStyle
	case FieldRef{SectionExperience, "amenities"}:
		return &p.Experience.Amenities
	case FieldRef{SectionLodging, "accommodationType"}:
		return &p.Lodging.AccommodationType
	case FieldRef{SectionLodging, "additionalPreferences"}:
		return &p.Lodging.AdditionalPreferences
	case FieldRef{SectionOperationalConditions, "servicesToInclude"}:
		return &p.OperationalConditions.ServicesToInclude
	}
	return nil
}

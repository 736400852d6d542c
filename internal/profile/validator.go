package profile

import (
	"strconv"
	"time"

	"github.com/reservat/storefront/internal/models"
)

// requiredFields lists every field that must be answered before submission.
// children, childrenAges, seniors, specialRequirements, amenities,
// additionalPreferences, timePreference, servicesToInclude and
// additionalComments are intentionally optional.
var requiredFields = []FieldRef{
	{SectionContact, "name"},
	{SectionContact, "phone"},
	{SectionContact, "email"},
	{SectionContact, "originCity"},
	{SectionContact, "contactChannel"},
	{SectionTrip, "destinations"},
	{SectionTrip, "departureDate"},
	{SectionTrip, "returnDate"},
	{SectionTrip, "dateFlexibility"},
	{SectionTrip, "tripReason"},
	{SectionTravelerGroup, "groupType"},
	{SectionTravelerGroup, "totalTravelers"},
	{SectionTravelerGroup, "adults"},
	{SectionExperience, "travelStyle"},
	{SectionExperience, "comfortLevel"},
	{SectionExperience, "pace"},
	{SectionLodging, "accommodationType"},
	{SectionLodging, "category"},
	{SectionLodging, "roomType"},
	{SectionLodging, "roomCount"},
	{SectionTransport, "transportMode"},
	{SectionTransport, "internalTransfersNeeded"},
	{SectionTransport, "departurePoint"},
	{SectionTransport, "arrivalPoint"},
	{SectionOperationalConditions, "priorityLevel"},
	{SectionDeliverable, "proposalFormat"},
}

// Validate inspects the whole profile and returns the error map for it.
// The caller treats an empty map as a successful submission.
func Validate(p *models.TravelerProfile) ErrorMap {
	errs := ErrorMap{}

	for _, ref := range requiredFields {
		if fieldEmpty(p, ref) {
			errs[ref] = msgRequired
		}
	}

	// Children's ages become mandatory as soon as any children travel.
	if children, err := strconv.Atoi(p.TravelerGroup.Children); err == nil && children > 0 {
		if p.TravelerGroup.ChildrenAges == "" {
			errs[RefChildrenAges] = msgChildrenAges
		}
	}

	// Date ordering is also enforced at derivation time; re-checking here
	// keeps an out-of-order range from slipping through a direct submit.
	if p.Trip.DepartureDate != "" && p.Trip.ReturnDate != "" {
		start, err1 := time.Parse(dateLayout, p.Trip.DepartureDate)
		end, err2 := time.Parse(dateLayout, p.Trip.ReturnDate)
		if err1 == nil && err2 == nil && end.Before(start) {
			errs[RefReturnDate] = msgReturnBeforeDepart
		}
	}

	return errs
}

// fieldEmpty reports whether the addressed leaf still holds its zero answer.
func fieldEmpty(p *models.TravelerProfile, ref FieldRef) bool {
	kind, ok := KindOf(ref)
	if !ok {
		return false
	}
	switch kind {
	case KindText:
		return *textField(p, ref) == ""
	case KindTriState:
		return !triField(p, ref).IsSet()
	case KindSet:
		return len(*setField(p, ref)) == 0
	}
	return false
}

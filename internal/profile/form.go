package profile

import (
	"fmt"
	"time"

	"github.com/reservat/storefront/internal/models"
)

// Validation and derivation messages, in the storefront's language.
const (
	msgRequired           = "Este campo es requerido"
	msgChildrenAges       = "Debe indicar las edades de los niños"
	msgReturnBeforeDepart = "La fecha de regreso no puede ser anterior a la salida"
)

const dateLayout = "2006-01-02"

// Form owns a traveler profile and its error map. All mutation funnels
// through SetText, SetTriState and ToggleOption; editing a flagged field
// clears its error without re-validating.
type Form struct {
	profile *models.TravelerProfile
	errors  ErrorMap
}

// NewForm returns a form with a default profile and no errors.
func NewForm() *Form {
	return &Form{
		profile: models.NewTravelerProfile(),
		errors:  ErrorMap{},
	}
}

// Profile exposes the current answers.
func (f *Form) Profile() *models.TravelerProfile {
	return f.profile
}

// Errors exposes the current error map.
func (f *Form) Errors() ErrorMap {
	return f.errors
}

// SetText replaces a text leaf. Editing either trip date re-derives the
// estimated duration.
func (f *Form) SetText(ref FieldRef, value string) error {
	kind, ok := KindOf(ref)
	if !ok {
		return fmt.Errorf("unknown field: %s", ref)
	}
	if kind != KindText {
		return fmt.Errorf("field %s does not hold text", ref)
	}
	target := textField(f.profile, ref)
	if target == nil {
		return fmt.Errorf("unknown field: %s", ref)
	}
	*target = value
	delete(f.errors, ref)

	if ref == RefDepartureDate || ref == RefReturnDate {
		f.deriveDuration()
	}
	return nil
}

// SetTriState replaces a tri-state leaf.
func (f *Form) SetTriState(ref FieldRef, value models.TriState) error {
	target := triField(f.profile, ref)
	if target == nil {
		return fmt.Errorf("field %s does not hold a tri-state", ref)
	}
	*target = value
	delete(f.errors, ref)
	return nil
}

// ToggleOption adds the value to an option-set leaf, or removes it when
// already selected.
func (f *Form) ToggleOption(ref FieldRef, value string) error {
	target := setField(f.profile, ref)
	if target == nil {
		return fmt.Errorf("field %s does not hold options", ref)
	}
	*target = target.Toggle(value)
	delete(f.errors, ref)
	return nil
}

// Submit validates the whole profile, replacing the error map. It returns
// true when the profile is ready for proposal generation.
func (f *Form) Submit() bool {
	f.errors = Validate(f.profile)
	return f.errors.IsValid()
}

// Reset discards all answers and errors, restoring the initial record.
func (f *Form) Reset() {
	f.profile = models.NewTravelerProfile()
	f.errors = ErrorMap{}
}

// deriveDuration recomputes trip.duration from the two trip dates. Runs only
// when both dates are present; an inverted range flags the return date and
// clears the stale duration so the itinerary never acts on it.
func (f *Form) deriveDuration() {
	trip := &f.profile.Trip
	if trip.DepartureDate == "" || trip.ReturnDate == "" {
		return
	}
	start, err1 := time.Parse(dateLayout, trip.DepartureDate)
	end, err2 := time.Parse(dateLayout, trip.ReturnDate)
	if err1 != nil || err2 != nil {
		return
	}

	if end.Before(start) {
		f.errors[RefReturnDate] = msgReturnBeforeDepart
		trip.Duration = ""
		return
	}

	delete(f.errors, RefReturnDate)
	nights := int(end.Sub(start).Hours() / 24)
	days := nights + 1
	trip.Duration = fmt.Sprintf("%d días / %d noches", days, nights)
}

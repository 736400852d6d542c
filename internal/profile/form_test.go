package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservat/storefront/internal/models"
)

func TestDurationDerivedFromDates(t *testing.T) {
	f := NewForm()

	require.NoError(t, f.SetText(RefDepartureDate, "2026-10-01"))
	assert.Empty(t, f.Profile().Trip.Duration)

	require.NoError(t, f.SetText(RefReturnDate, "2026-10-05"))
	assert.Equal(t, "5 días / 4 noches", f.Profile().Trip.Duration)
}

func TestZeroLengthTripIsOneDay(t *testing.T) {
	f := NewForm()

	require.NoError(t, f.SetText(RefDepartureDate, "2026-10-01"))
	require.NoError(t, f.SetText(RefReturnDate, "2026-10-01"))

	assert.Equal(t, "1 días / 0 noches", f.Profile().Trip.Duration)
}

func TestInvertedRangeClearsDurationUntilFixed(t *testing.T) {
	f := NewForm()
	require.NoError(t, f.SetText(RefDepartureDate, "2026-10-10"))
	require.NoError(t, f.SetText(RefReturnDate, "2026-10-15"))
	require.Equal(t, "6 días / 5 noches", f.Profile().Trip.Duration)

	// Moving the return date before departure flags it and drops the
	// stale duration.
	require.NoError(t, f.SetText(RefReturnDate, "2026-10-05"))
	assert.Equal(t, msgReturnBeforeDepart, f.Errors()[RefReturnDate])
	assert.Empty(t, f.Profile().Trip.Duration)

	// Fixing either date clears the error and re-derives.
	require.NoError(t, f.SetText(RefDepartureDate, "2026-10-03"))
	assert.NotContains(t, f.Errors(), RefReturnDate)
	assert.Equal(t, "3 días / 2 noches", f.Profile().Trip.Duration)
}

func TestEditingClearsOnlyThatFieldError(t *testing.T) {
	f := NewForm()
	require.False(t, f.Submit())
	before := len(f.Errors())
	require.Greater(t, before, 1)

	nameRef := FieldRef{SectionContact, "name"}
	require.NoError(t, f.SetText(nameRef, "Laura Gómez"))

	assert.NotContains(t, f.Errors(), nameRef)
	assert.Len(t, f.Errors(), before-1)
}

func TestTriStateAnswerClearsItsError(t *testing.T) {
	f := NewForm()
	require.False(t, f.Submit())
	ref := FieldRef{SectionTrip, "dateFlexibility"}
	require.Contains(t, f.Errors(), ref)

	require.NoError(t, f.SetTriState(ref, models.TriYes))

	assert.NotContains(t, f.Errors(), ref)
	assert.Equal(t, models.TriYes, f.Profile().Trip.DateFlexibility)
}

func TestFieldKindsEnforced(t *testing.T) {
	f := NewForm()

	assert.Error(t, f.SetText(FieldRef{SectionTrip, "dateFlexibility"}, "Fechas exactas"))
	assert.Error(t, f.SetTriState(FieldRef{SectionContact, "name"}, models.TriYes))
	assert.Error(t, f.ToggleOption(FieldRef{SectionContact, "name"}, "x"))
}

func TestToggleOptionSelectsAndDeselects(t *testing.T) {
	f := NewForm()
	ref := FieldRef{SectionExperience, "travelStyle"}

	require.NoError(t, f.ToggleOption(ref, "Playa"))
	require.NoError(t, f.ToggleOption(ref, "Cultural"))
	assert.Equal(t, models.OptionSet{"Playa", "Cultural"}, f.Profile().Experience.TravelStyle)

	require.NoError(t, f.ToggleOption(ref, "Playa"))
	assert.Equal(t, models.OptionSet{"Cultural"}, f.Profile().Experience.TravelStyle)
}

func TestResetRestoresBlankForm(t *testing.T) {
	f := NewForm()
	fillComplete(t, f)
	require.True(t, f.Submit())

	f.Reset()

	assert.Empty(t, f.Profile().Contact.Name)
	assert.Empty(t, f.Profile().Trip.Duration)
	assert.Empty(t, f.Errors())
	assert.False(t, f.Profile().Trip.DateFlexibility.IsSet())
}

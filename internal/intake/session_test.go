package intake

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/profile"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/simulation"
	"github.com/reservat/storefront/internal/viewflow"
)

// testStages keeps the simulated processing short; the settle delay still
// applies on top.
var testStages = []simulation.Stage{
	{Duration: 30 * time.Millisecond, Headline: "Analizando", Subtext: "..."},
	{Duration: 30 * time.Millisecond, Headline: "Generando", Subtext: "..."},
}

func testRenderer() *proposal.Renderer {
	return proposal.NewRenderer(proposal.Config{
		AgencyName:   "Reservat",
		DocumentLogo: "ReservaT",
		Website:      "www.reservat.co",
		WhatsApp:     "+57 300 000 0000",
	})
}

func newTestSession(t *testing.T, hook ResultHook) *Session {
	t.Helper()
	return newSession("test-session", testRenderer(), testStages, hook, zap.NewNop())
}

// fillValid answers every required field through the session API.
func fillValid(t *testing.T, s *Session) {
	t.Helper()

	texts := []struct {
		path  string
		value string
	}{
		{"contact.name", "Carlos Ruiz"},
		{"contact.phone", "+57 301 555 9999"},
		{"contact.email", "carlos@example.com"},
		{"contact.originCity", "Medellín"},
		{"contact.contactChannel", "WhatsApp"},
		{"trip.destinations", "Eje Cafetero"},
		{"trip.departureDate", "2026-11-10"},
		{"trip.returnDate", "2026-11-14"},
		{"trip.tripReason", "Vacaciones"},
		{"travelerGroup.groupType", "Familia"},
		{"travelerGroup.totalTravelers", "4"},
		{"travelerGroup.adults", "2"},
		{"experience.comfortLevel", "Confort"},
		{"experience.pace", "Moderado"},
		{"lodging.category", "4 estrellas"},
		{"lodging.roomType", "Doble"},
		{"lodging.roomCount", "2"},
		{"transport.transportMode", "Aéreo"},
		{"transport.departurePoint", "Medellín"},
		{"transport.arrivalPoint", "Pereira"},
		{"operationalConditions.priorityLevel", "Precio"},
		{"deliverable.proposalFormat", "PDF"},
	}
	for _, tc := range texts {
		require.NoError(t, s.SetText(resolvePath(t, tc.path), tc.value))
	}

	require.NoError(t, s.ToggleOption(resolvePath(t, "experience.travelStyle"), "Naturaleza"))
	require.NoError(t, s.ToggleOption(resolvePath(t, "lodging.accommodationType"), "Hotel"))
	require.NoError(t, s.SetTriState(resolvePath(t, "trip.dateFlexibility"), models.TriNo))
	require.NoError(t, s.SetTriState(resolvePath(t, "transport.internalTransfersNeeded"), models.TriYes))
}

func resolvePath(t *testing.T, path string) profile.FieldRef {
	t.Helper()
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			ref, _, err := profile.Resolve(path[:i], path[i+1:])
			require.NoError(t, err)
			return ref
		}
	}
	t.Fatalf("bad path %q", path)
	return profile.FieldRef{}
}

func waitForState(t *testing.T, s *Session, want viewflow.State) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		if s.State() == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for state %s, still on %s", want, s.State())
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSessionStartsOnBlankForm(t *testing.T) {
	s := newTestSession(t, nil)

	assert.Equal(t, viewflow.StateForm, s.State())
	ov := s.Overview()
	assert.Equal(t, "", ov.Profile.Contact.Name)
	assert.Empty(t, ov.Errors)

	_, err := s.Progress()
	assert.ErrorIs(t, err, ErrNotSimulating)
	_, err = s.Proposal()
	assert.ErrorIs(t, err, ErrProposalNotReady)
}

func TestSubmitRejectsIncompleteProfile(t *testing.T) {
	s := newTestSession(t, nil)

	errs, err := s.Submit(context.Background())
	require.ErrorIs(t, err, viewflow.ErrGuardFailed)
	assert.NotEmpty(t, errs)
	assert.Equal(t, viewflow.StateForm, s.State())

	// A failed submit must not start any simulation.
	_, err = s.Progress()
	assert.ErrorIs(t, err, ErrNotSimulating)
}

func TestSubmitRunsSimulationAndRendersProposal(t *testing.T) {
	results := make(chan models.ProposalDocument, 1)
	s := newTestSession(t, func(id string, p models.TravelerProfile, doc models.ProposalDocument) {
		results <- doc
	})
	fillValid(t, s)

	errs, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Nil(t, errs)
	assert.Equal(t, viewflow.StateSimulating, s.State())

	// Editing is locked while the simulation runs.
	assert.ErrorIs(t, s.SetText(resolvePath(t, "contact.name"), "x"), ErrNotEditable)
	// A second submit is an invalid transition, not a guard failure.
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, viewflow.ErrInvalidTransition)

	waitForState(t, s, viewflow.StateResult)

	doc, err := s.Proposal()
	require.NoError(t, err)
	assert.Equal(t, "Carlos Ruiz", doc.Header.Recipient)
	assert.Len(t, doc.Itinerary, 5)

	select {
	case hooked := <-results:
		assert.Equal(t, doc.Header.Recipient, hooked.Header.Recipient)
	case <-time.After(time.Second):
		t.Fatal("result hook never fired")
	}

	// Progress keeps answering on the result screen, pinned at the end.
	snap, err := s.Progress()
	require.NoError(t, err)
	assert.True(t, snap.Done)
	assert.Equal(t, float64(100), snap.Percent)
}

func TestResetReturnsToBlankForm(t *testing.T) {
	s := newTestSession(t, nil)
	fillValid(t, s)

	_, err := s.Submit(context.Background())
	require.NoError(t, err)

	// Reset is not available mid-simulation.
	assert.ErrorIs(t, s.Reset(context.Background()), viewflow.ErrInvalidTransition)

	waitForState(t, s, viewflow.StateResult)
	require.NoError(t, s.Reset(context.Background()))

	assert.Equal(t, viewflow.StateForm, s.State())
	ov := s.Overview()
	assert.Equal(t, "", ov.Profile.Contact.Name)
	assert.Empty(t, ov.Errors)
	_, err = s.Proposal()
	assert.ErrorIs(t, err, ErrProposalNotReady)
	_, err = s.Progress()
	assert.ErrorIs(t, err, ErrNotSimulating)
}

func TestResetRequiresResultScreen(t *testing.T) {
	s := newTestSession(t, nil)
	assert.ErrorIs(t, s.Reset(context.Background()), viewflow.ErrInvalidTransition)
}

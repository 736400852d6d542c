// Package intake owns the lifecycle of a traveler-profiling session: the form
// being filled, the screen the client is on, the processing simulation and the
// rendered proposal. One session maps to one prospective traveler.
package intake

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/models"
	"github.com/reservat/storefront/internal/profile"
	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/simulation"
	"github.com/reservat/storefront/internal/viewflow"
)

var (
	// ErrSessionNotFound indicates an unknown or expired session ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrNotEditable indicates the profile can only change on the form screen.
	ErrNotEditable = errors.New("profile is not editable in the current screen")

	// ErrNotSimulating indicates progress was requested before any submission.
	ErrNotSimulating = errors.New("no simulation in progress")

	// ErrProposalNotReady indicates the proposal was requested before the
	// result screen was reached.
	ErrProposalNotReady = errors.New("proposal not ready")
)

// ResultHook runs after a session reaches the result screen. It receives
// copies and must not mutate session state.
type ResultHook func(sessionID string, p models.TravelerProfile, doc models.ProposalDocument)

// Session serializes all access to one traveler's form, screen flow,
// simulation and proposal behind a single mutex.
type Session struct {
	id       string
	logger   *zap.Logger
	renderer *proposal.Renderer
	stages   []simulation.Stage
	onResult ResultHook

	mu       sync.Mutex
	form     *profile.Form
	flow     viewflow.StateMachine
	sim      *simulation.Simulator
	doc      *models.ProposalDocument
	lastSeen time.Time
}

// Overview is the read model returned to clients polling session state.
type Overview struct {
	ID      string                 `json:"id"`
	State   viewflow.State         `json:"state"`
	Profile models.TravelerProfile `json:"profile"`
	Errors  profile.ErrorMap       `json:"errors"`
}

func newSession(id string, renderer *proposal.Renderer, stages []simulation.Stage, hook ResultHook, logger *zap.Logger) *Session {
	s := &Session{
		id:       id,
		logger:   logger.With(zap.String("session_id", id)),
		renderer: renderer,
		stages:   stages,
		onResult: hook,
		form:     profile.NewForm(),
		lastSeen: time.Now(),
	}
	s.flow = viewflow.NewProfileFlow(func(ctx context.Context) bool {
		return s.form.Submit()
	})
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the screen the session is currently on.
func (s *Session) State() viewflow.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flow.State()
}

// Overview snapshots the session for clients. The embedded profile is a copy;
// callers must treat the option slices as read-only.
func (s *Session) Overview() Overview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return Overview{
		ID:      s.id,
		State:   s.flow.State(),
		Profile: *s.form.Profile(),
		Errors:  s.form.Errors(),
	}
}

// SetText updates a text field. Only allowed on the form screen.
func (s *Session) SetText(ref profile.FieldRef, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.form.SetText(ref, value)
}

// SetTriState updates a yes/no field. Only allowed on the form screen.
func (s *Session) SetTriState(ref profile.FieldRef, value models.TriState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.form.SetTriState(ref, value)
}

// ToggleOption flips a multi-select option. Only allowed on the form screen.
func (s *Session) ToggleOption(ref profile.FieldRef, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return err
	}
	return s.form.ToggleOption(ref, value)
}

func (s *Session) editableLocked() error {
	s.lastSeen = time.Now()
	if s.flow.State() != viewflow.StateForm {
		return ErrNotEditable
	}
	return nil
}

// Submit validates the profile and, if it passes, moves to the simulating
// screen and starts the processing timeline. On validation failure the
// session stays on the form screen and the field errors are returned.
func (s *Session) Submit(ctx context.Context) (profile.ErrorMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	if err := s.flow.Fire(ctx, viewflow.TriggerSubmit); err != nil {
		if errors.Is(err, viewflow.ErrGuardFailed) {
			s.logger.Info("Submission rejected by validation",
				zap.Int("field_errors", len(s.form.Errors())))
			return s.form.Errors(), err
		}
		return nil, err
	}

	s.sim = simulation.New(s.stages, s.logger)
	s.sim.Start(s.completeSimulation)
	s.logger.Info("Submission accepted, simulation started")
	return nil, nil
}

// completeSimulation runs on the simulator goroutine once the timeline plus
// settle delay has elapsed.
func (s *Session) completeSimulation() {
	s.mu.Lock()
	if err := s.flow.Fire(context.Background(), viewflow.TriggerComplete); err != nil {
		// Reset raced the completion; the simulator was stopped but the
		// callback was already in flight.
		s.logger.Warn("Completion ignored", zap.Error(err))
		s.mu.Unlock()
		return
	}
	doc := s.renderer.Render(s.form.Profile())
	s.doc = &doc
	snapshot := *s.form.Profile()
	s.lastSeen = time.Now()
	s.mu.Unlock()

	s.logger.Info("Proposal rendered", zap.Int("itinerary_days", len(doc.Itinerary)))
	if s.onResult != nil {
		s.onResult(s.id, snapshot, doc)
	}
}

// Progress reports the simulation timeline. Valid once a submission was
// accepted; it keeps reporting the terminal snapshot on the result screen.
func (s *Session) Progress() (simulation.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if s.sim == nil {
		return simulation.Snapshot{}, ErrNotSimulating
	}
	return s.sim.Snapshot(), nil
}

// Proposal returns the rendered document once the result screen is reached.
func (s *Session) Proposal() (models.ProposalDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	if s.flow.State() != viewflow.StateResult || s.doc == nil {
		return models.ProposalDocument{}, ErrProposalNotReady
	}
	return *s.doc, nil
}

// Reset returns the session to a blank form. Only permitted from the result
// screen; there is no way to abandon a running simulation.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	if err := s.flow.Fire(ctx, viewflow.TriggerReset); err != nil {
		return err
	}
	if s.sim != nil {
		s.sim.Stop()
		s.sim = nil
	}
	s.doc = nil
	s.form.Reset()
	s.logger.Info("Session reset to blank form")
	return nil
}

// idleSince reports the last moment a client touched this session.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// teardown stops any running simulation. Called when the session is evicted.
func (s *Session) teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sim != nil {
		s.sim.Stop()
	}
}

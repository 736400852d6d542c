package intake

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reservat/storefront/internal/proposal"
	"github.com/reservat/storefront/internal/simulation"
)

const (
	defaultSessionTTL    = 30 * time.Minute
	defaultSweepInterval = time.Minute
)

// ManagerConfig tunes session eviction.
type ManagerConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// Manager keeps the live intake sessions in memory, keyed by UUID, and evicts
// the ones nobody has touched for the configured TTL.
type Manager struct {
	cfg      ManagerConfig
	renderer *proposal.Renderer
	stages   []simulation.Stage
	hook     ResultHook
	logger   *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts its eviction loop.
func NewManager(cfg ManagerConfig, renderer *proposal.Renderer, stages []simulation.Stage, hook ResultHook, logger *zap.Logger) *Manager {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	m := &Manager{
		cfg:      cfg,
		renderer: renderer,
		stages:   stages,
		hook:     hook,
		logger:   logger,
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}
	go m.sweepLoop()
	return m
}

// Create starts a new session on a blank form.
func (m *Manager) Create() *Session {
	s := newSession(uuid.New().String(), m.renderer, m.stages, m.hook, m.logger)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Info("Intake session created",
		zap.String("session_id", s.ID()),
		zap.Int("active_sessions", count))
	return s
}

// Get looks a session up by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete removes a session and stops its simulation if one is running.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		s.teardown()
		m.logger.Info("Intake session deleted", zap.String("session_id", id))
	}
}

// Close stops the eviction loop and tears every session down.
func (m *Manager) Close() {
	m.stopOnce.Do(func() { close(m.stopCh) })

	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.teardown()
	}
}

func (m *Manager) sweepLoop() {
	ticker := time.NewTicker(m.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.sweep(time.Now())
		}
	}
}

// sweep evicts sessions idle past the TTL.
func (m *Manager) sweep(now time.Time) {
	cutoff := now.Add(-m.cfg.SessionTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()

	for _, s := range expired {
		s.teardown()
	}
	if len(expired) > 0 {
		m.logger.Info("Evicted idle intake sessions",
			zap.Int("evicted", len(expired)),
			zap.Int("active_sessions", remaining))
	}
}

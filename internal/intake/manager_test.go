package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(ManagerConfig{
		SessionTTL:    time.Hour,
		SweepInterval: time.Hour,
	}, testRenderer(), testStages, nil, zap.NewNop())
	t.Cleanup(m.Close)
	return m
}

func TestManagerCreateAndGet(t *testing.T) {
	m := newTestManager(t)

	s := m.Create()
	require.NotEmpty(t, s.ID())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	_, err = m.Get("no-such-session")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestManagerSessionIDsAreUnique(t *testing.T) {
	m := newTestManager(t)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := m.Create().ID()
		require.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
}

func TestManagerDelete(t *testing.T) {
	m := newTestManager(t)

	s := m.Create()
	m.Delete(s.ID())

	_, err := m.Get(s.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is harmless.
	m.Delete(s.ID())
}

func TestManagerSweepEvictsIdleSessions(t *testing.T) {
	m := newTestManager(t)

	idle := m.Create()
	active := m.Create()

	time.Sleep(20 * time.Millisecond)
	active.Overview() // touches lastSeen

	// Anything untouched for 10ms is past its TTL now.
	m.cfg.SessionTTL = 10 * time.Millisecond
	m.sweep(time.Now())

	_, err := m.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

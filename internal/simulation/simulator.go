// Package simulation drives the staged "processing" screen shown between a
// valid submission and the rendered proposal. Progress percentage and stage
// index are both derived from a single elapsed-time source, so they reach
// their terminal values at the same moment regardless of how the stage table
// is edited.
package simulation

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	tickInterval = 50 * time.Millisecond
	settleDelay  = 500 * time.Millisecond
)

// Snapshot is a point-in-time view of the simulation.
type Snapshot struct {
	Percent    float64 `json:"percent"`
	StageIndex int     `json:"stage_index"`
	Stage      Stage   `json:"stage"`
	Completed  []Stage `json:"completed"`
	Done       bool    `json:"done"`
}

// Simulator runs a fixed stage timeline and signals completion exactly once.
// It is safe for concurrent use.
type Simulator struct {
	stages []Stage
	total  time.Duration
	logger *zap.Logger

	mu       sync.Mutex
	started  bool
	stopped  bool
	done     bool
	startAt  time.Time
	stopCh   chan struct{}
	complete sync.Once
}

// New creates a simulator over the given stage table.
func New(stages []Stage, logger *zap.Logger) *Simulator {
	var total time.Duration
	for _, s := range stages {
		total += s.Duration
	}
	return &Simulator{
		stages: stages,
		total:  total,
		logger: logger,
		stopCh: make(chan struct{}),
	}
}

// Start begins the timeline. onComplete fires once, after the full timeline
// plus a short settle delay, unless Stop is called first. Start is a no-op
// when already started.
func (s *Simulator) Start(onComplete func()) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.startAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Simulation started",
		zap.Int("stages", len(s.stages)),
		zap.Duration("total", s.total))

	go s.run(onComplete)
}

func (s *Simulator) run(onComplete func()) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			elapsed := time.Since(s.startAt)
			s.mu.Unlock()
			if elapsed < s.total {
				continue
			}
		}
		break
	}

	// Small transition delay before handing control back to the flow.
	select {
	case <-s.stopCh:
		return
	case <-time.After(settleDelay):
	}

	s.mu.Lock()
	s.done = true
	s.mu.Unlock()

	s.complete.Do(func() {
		s.logger.Info("Simulation completed", zap.Duration("total", s.total))
		onComplete()
	})
}

// Stop cancels the timeline. After Stop returns no completion callback will
// fire; tearing a session down mid-simulation must not mutate it later.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	// Claim the once so a concurrently finishing run cannot fire after Stop.
	s.complete.Do(func() {})
	close(s.stopCh)
	s.logger.Debug("Simulation stopped")
}

// Snapshot derives the current progress from elapsed time alone.
func (s *Simulator) Snapshot() Snapshot {
	s.mu.Lock()
	started, done, startAt := s.started, s.done, s.startAt
	s.mu.Unlock()

	if len(s.stages) == 0 {
		snap := Snapshot{Completed: []Stage{}, Done: done}
		if done {
			snap.Percent = 100
		}
		return snap
	}
	if !started {
		return Snapshot{Stage: s.stages[0], Completed: []Stage{}}
	}

	elapsed := time.Since(startAt)
	percent := float64(elapsed) / float64(s.total) * 100
	if percent > 100 {
		percent = 100
	}

	index := s.stageIndexAt(elapsed)
	displayIdx := index
	if displayIdx >= len(s.stages) {
		displayIdx = len(s.stages) - 1
	}
	completedCount := index
	if completedCount > len(s.stages) {
		completedCount = len(s.stages)
	}

	return Snapshot{
		Percent:    percent,
		StageIndex: displayIdx,
		Stage:      s.stages[displayIdx],
		Completed:  append([]Stage{}, s.stages[:completedCount]...),
		Done:       done,
	}
}

// stageIndexAt returns how many stages have fully elapsed.
func (s *Simulator) stageIndexAt(elapsed time.Duration) int {
	var cum time.Duration
	for i, stage := range s.stages {
		cum += stage.Duration
		if elapsed < cum {
			return i
		}
	}
	return len(s.stages)
}

// Total returns the timeline length excluding the settle delay.
func (s *Simulator) Total() time.Duration {
	return s.total
}

package systems

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/zeusync/foresight/internal/core/observability/log"
)

// Manager runs registered systems in priority order once per tick.
// Like the systems it drives, it is used from a single simulation goroutine.
type Manager struct {
	systems     []System
	initialized bool
	logger      log.Log
}

func NewManager(logger log.Log) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{logger: logger.With(log.String("component", "systems"))}
}

// Register adds a system. Systems with equal priority keep registration order.
func (m *Manager) Register(s System) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	if _, ok := m.Get(s.Name()); ok {
		return fmt.Errorf("%w: %s", ErrSystemExists, s.Name())
	}
	m.systems = append(m.systems, s)
	sort.SliceStable(m.systems, func(i, j int) bool {
		return m.systems[i].Priority() > m.systems[j].Priority()
	})
	return nil
}

func (m *Manager) Get(name string) (System, bool) {
	for _, s := range m.systems {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// ExecutionOrder lists system names in the order Update runs them.
func (m *Manager) ExecutionOrder() []string {
	names := make([]string, len(m.systems))
	for i, s := range m.systems {
		names[i] = s.Name()
	}
	return names
}

// Initialize initializes every system; the first failure aborts.
func (m *Manager) Initialize(ctx context.Context) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	for _, s := range m.systems {
		if err := s.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize %s: %w", s.Name(), err)
		}
	}
	m.initialized = true
	m.logger.Debug("Systems initialized", log.Int("count", len(m.systems)))
	return nil
}

// Update runs one tick. Every enabled system runs even if an earlier one
// fails; failures are joined.
func (m *Manager) Update(deltaTime float64) error {
	if !m.initialized {
		return ErrNotInitialized
	}
	var all error
	for _, s := range m.systems {
		if !s.IsEnabled() {
			continue
		}
		if err := s.Update(deltaTime); err != nil {
			all = errors.Join(all, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return all
}

// Shutdown shuts systems down in reverse execution order.
func (m *Manager) Shutdown(ctx context.Context) error {
	var all error
	for i := len(m.systems) - 1; i >= 0; i-- {
		if err := m.systems[i].Shutdown(ctx); err != nil {
			all = errors.Join(all, err)
		}
	}
	m.initialized = false
	return all
}

package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/systems"
)

// movementSystem integrates positions after the collision sweep.
//
// Fast entities cast a ray over this tick's travel distance before moving, so
// thin projectiles cannot tunnel through targets between samples. Guarded
// entities test the candidate move itself. Contacts found either way go
// through the same bus path as sweep contacts.
type movementSystem struct {
	world   *World
	enabled bool
	state   systems.StateIdentity
	metrics systems.Metrics
}

var _ systems.System = (*movementSystem)(nil)

func (m *movementSystem) Name() string               { return "movement" }
func (m *movementSystem) Priority() systems.Priority { return systems.PriorityNormal }

func (m *movementSystem) Initialize(context.Context) error {
	m.state = systems.StateRunning
	return nil
}

func (m *movementSystem) Shutdown(context.Context) error {
	m.state = systems.StateShutdown
	return nil
}

func (m *movementSystem) Update(dt float64) error {
	start := time.Now()
	w := m.world
	var moved uint64
	var all error

	for _, e := range w.entities {
		if !e.Active() || e.Velocity().IsZero() {
			continue
		}
		blocked := false
		for _, r := range w.scenario.Rules {
			if !e.Active() {
				break
			}
			if !e.InGroup(r.A) {
				continue
			}
			res, err := m.lookAhead(e, r.B, dt)
			if err != nil {
				all = errors.Join(all, fmt.Errorf("look ahead %s: %w", e.Name, err))
				continue
			}
			if res.WillCollide {
				blocked = blocked || e.Guarded
				w.publisher.HandlerFor(r.A, r.B)(e, res.Target, res)
			}
		}
		if e.Active() && !blocked {
			e.Advance(dt)
			moved++
		}
	}

	all = errors.Join(all, w.publisher.Err())
	w.publisher.Reset()
	m.metrics.Record(time.Since(start), moved, all)
	return all
}

func (m *movementSystem) lookAhead(e *Entity, group string, dt float64) (collision.Result, error) {
	engine := m.world.engine
	switch {
	case e.Fast:
		return engine.RaycastPrediction(e, e.Velocity(), e.Speed()*dt, group)
	case e.Guarded:
		return engine.PredictMovement(e, e.Velocity(), e.Speed(), dt, group)
	default:
		return collision.Result{}, nil
	}
}

func (m *movementSystem) IsEnabled() bool                 { return m.enabled }
func (m *movementSystem) SetEnabled(enabled bool)         { m.enabled = enabled }
func (m *movementSystem) GetState() systems.StateIdentity { return m.state }
func (m *movementSystem) GetMetrics() systems.Metrics     { return m.metrics }

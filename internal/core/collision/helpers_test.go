package collision

import (
	"testing"

	"github.com/zeusync/foresight/internal/core/systems/physics"
)

// prop is a stationary test collider.
type prop struct {
	pos      physics.Vec3
	ext      physics.Vec3
	inactive bool
	box      bool
	noShape  bool
}

func newProp(pos physics.Vec3, radius float64) *prop {
	return &prop{pos: pos, ext: physics.V3(radius, radius, radius)}
}

func (p *prop) Position() physics.Vec3 { return p.pos }
func (p *prop) Extent() physics.Vec3   { return p.ext }
func (p *prop) Active() bool           { return !p.inactive }

func (p *prop) Shape() physics.Shape {
	if p.noShape {
		return nil
	}
	if p.box {
		return physics.BoxFromCenter(p.pos, p.ext)
	}
	return physics.Sphere{Center: p.pos, Radius: p.ext.MaxComponent()}
}

// ship is a moving test collider.
type ship struct {
	prop
	vel physics.Vec3
}

func newShip(pos, vel physics.Vec3, radius float64) *ship {
	return &ship{prop: *newProp(pos, radius), vel: vel}
}

func (s *ship) Velocity() physics.Vec3 { return s.vel }

func mustEngine(t testing.TB, steps int, horizon float64) *Engine {
	t.Helper()
	e, err := New(Config{PredictionSteps: steps, PredictionTime: horizon})
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

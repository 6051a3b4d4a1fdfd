package sim

import (
	"github.com/google/uuid"
	"github.com/zeusync/foresight/internal/core/systems/physics"
)

// ShapeKind selects the exact geometry of an entity.
type ShapeKind string

const (
	ShapeSphere ShapeKind = "sphere"
	ShapeBox    ShapeKind = "box"
)

// Entity is the host-side object the simulation moves around.
// It satisfies collision.Collider and collision.Mover; stationary entities
// simply report a zero velocity.
type Entity struct {
	ID     uuid.UUID
	Name   string
	Groups []string
	// Fast entities use ray prediction instead of sampled movement checks.
	Fast bool
	// Guarded entities test each move before committing it and hold still on contact.
	Guarded bool

	position physics.Vec3
	velocity physics.Vec3
	half     physics.Vec3
	kind     ShapeKind
	active   bool
}

// NewSphere creates an active spherical entity.
func NewSphere(name string, position, velocity physics.Vec3, radius float64) *Entity {
	return &Entity{
		ID:       uuid.New(),
		Name:     name,
		position: position,
		velocity: velocity,
		half:     physics.V3(radius, radius, radius),
		kind:     ShapeSphere,
		active:   true,
	}
}

// NewBox creates an active axis-aligned box entity from its half extents.
func NewBox(name string, position, velocity, half physics.Vec3) *Entity {
	return &Entity{
		ID:       uuid.New(),
		Name:     name,
		position: position,
		velocity: velocity,
		half:     half.Abs(),
		kind:     ShapeBox,
		active:   true,
	}
}

func (e *Entity) Position() physics.Vec3 { return e.position }
func (e *Entity) Velocity() physics.Vec3 { return e.velocity }
func (e *Entity) Extent() physics.Vec3   { return e.half }
func (e *Entity) Active() bool           { return e.active }
func (e *Entity) Kind() ShapeKind        { return e.kind }

func (e *Entity) Shape() physics.Shape {
	if e.kind == ShapeBox {
		return physics.BoxFromCenter(e.position, e.half)
	}
	return physics.Sphere{Center: e.position, Radius: e.half.X}
}

func (e *Entity) SetActive(active bool)      { e.active = active }
func (e *Entity) SetVelocity(v physics.Vec3) { e.velocity = v }
func (e *Entity) SetPosition(p physics.Vec3) { e.position = p }

// Speed is the length of the current velocity.
func (e *Entity) Speed() float64 { return e.velocity.Len() }

// Advance integrates the position linearly over dt.
func (e *Entity) Advance(dt float64) {
	e.position = physics.Lerp(e.position, e.velocity, dt)
}

// InGroup reports whether the entity was declared in the named group.
func (e *Entity) InGroup(group string) bool {
	for _, g := range e.Groups {
		if g == group {
			return true
		}
	}
	return false
}

func (e *Entity) String() string { return e.Name }

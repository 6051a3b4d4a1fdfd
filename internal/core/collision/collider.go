package collision

import "github.com/zeusync/foresight/internal/core/systems/physics"

// Collider is the minimal capability set the engine reads from a host entity.
// The engine never mutates a collider and keeps only non-owning references.
// Colliders are compared by identity, so implementations must be comparable
// (pointer receivers in practice).
type Collider interface {
	// Position is the current world-space position.
	Position() physics.Vec3
	// Extent is the half size of the entity's axis-aligned bound.
	Extent() physics.Vec3
	// Active reports whether the entity takes part in queries right now.
	Active() bool
	// Shape is the exact world-space geometry used by overlap and ray tests.
	// A nil shape skips the overlap shortcut and is never hit by rays.
	Shape() physics.Shape
}

// Mover is implemented by colliders that move under their own dynamics.
// Colliders without it are treated as stationary.
type Mover interface {
	Velocity() physics.Vec3
}

// track binds a collider to its velocity source, resolved once at registration.
type track struct {
	c     Collider
	mover Mover
}

func newTrack(c Collider) track {
	m, _ := c.(Mover)
	return track{c: c, mover: m}
}

func (t track) velocity() physics.Vec3 {
	if t.mover == nil {
		return physics.Vec3{}
	}
	return t.mover.Velocity()
}

package collision

import "github.com/zeusync/foresight/internal/core/systems/physics"

// Result describes the outcome of a predictive query.
//
// Contact and Distance are only meaningful when WillCollide is true and are
// zero otherwise. For sampled queries Distance is the separation at the
// triggering sample (0 for an immediate overlap), not a time of impact.
// For raycasts it is the ray parameter of the closest hit.
type Result struct {
	WillCollide bool
	Contact     physics.Vec3
	Distance    float64
	// Step is the 1-based sample that triggered; 0 for overlaps and raycasts.
	Step int
	// Target is the entity that was hit.
	Target Collider
}

// CollisionHandler receives every predicted contact of a sweep, synchronously.
type CollisionHandler func(a, b Collider, r Result)

package collision

import (
	"math"

	"github.com/zeusync/foresight/internal/core/systems/physics"
)

// RaycastPrediction casts a ray from the entity's position along direction
// against the exact shapes of the other active members of checkGroup, for
// movers too fast or thin for sampled prediction.
//
// The closest hit strictly nearer than maxDistance wins; a hit at exactly
// maxDistance is not reported. Distance is the ray parameter of the hit and
// Contact its world-space point.
func (e *Engine) RaycastPrediction(entity Collider, direction physics.Vec3, maxDistance float64, checkGroup string) (Result, error) {
	if entity == nil {
		return Result{}, ErrNilCollider
	}
	if !(maxDistance > 0) || math.IsInf(maxDistance, 0) {
		return Result{}, ErrInvalidDistance
	}
	ray, ok := physics.NewRay(entity.Position(), direction)
	if !ok {
		return Result{}, ErrZeroDirection
	}
	e.stats.Queries++
	if !entity.Active() {
		return Result{}, nil
	}

	best := maxDistance
	var target Collider
	for _, o := range e.registry.tracks(checkGroup) {
		if o.c == entity || !o.c.Active() {
			continue
		}
		shape := o.c.Shape()
		if shape == nil {
			continue
		}
		e.stats.PairsTested++
		t, hit := shape.Raycast(ray, maxDistance)
		if hit && t < best {
			best = t
			target = o.c
		}
	}

	if target == nil {
		return Result{}, nil
	}
	e.stats.Hits++
	return Result{WillCollide: true, Contact: ray.At(best), Distance: best, Target: target}, nil
}

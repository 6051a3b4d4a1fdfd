package collision

import "github.com/zeusync/foresight/internal/core/systems/physics"

// CheckPredictiveCollisions tests every active pair (a in groupA, b in groupB)
// and calls onCollision for each predicted contact, in registration order.
// It returns the number of contacts found. Unknown groups yield no pairs.
//
// Cost is O(|groupA| x |groupB|) pair tests, each O(PredictionSteps).
// Contacts are not deduplicated across calls.
func (e *Engine) CheckPredictiveCollisions(groupA, groupB string, onCollision CollisionHandler) int {
	e.stats.Sweeps++
	as := e.registry.tracks(groupA)
	bs := e.registry.tracks(groupB)
	same := groupA == groupB
	policy := e.cfg.PairPolicy

	hits := 0
	for i, a := range as {
		for j, b := range bs {
			if same && policy == PairsUnique && j <= i {
				continue
			}
			if policy != PairsAll && a.c == b.c {
				continue
			}
			// re-read each time: callbacks may deactivate either side mid-sweep
			if !a.c.Active() {
				break
			}
			if !b.c.Active() {
				continue
			}
			r := e.predict(a, b)
			if !r.WillCollide {
				continue
			}
			hits++
			if onCollision != nil {
				onCollision(a.c, b.c, r)
			}
		}
	}
	return hits
}

// Predict runs the pairwise predictive test for a and b.
//
// An immediate overlap of the exact shapes wins with distance 0. Otherwise
// both entities are projected linearly at PredictionSteps evenly spaced
// instants up to PredictionTime, and the first instant whose separation is
// below the sum of contact radii is reported. Contacts that begin and end
// strictly between two samples are missed.
func (e *Engine) Predict(a, b Collider) Result {
	if a == nil || b == nil || !a.Active() || !b.Active() {
		return Result{}
	}
	return e.predict(newTrack(a), newTrack(b))
}

func (e *Engine) predict(a, b track) Result {
	e.stats.PairsTested++

	if physics.Overlap(a.c.Shape(), b.c.Shape()) {
		e.stats.Overlaps++
		e.stats.Hits++
		return Result{WillCollide: true, Contact: a.c.Position(), Distance: 0, Target: b.c}
	}

	threshold := ContactRadius(a.c) + ContactRadius(b.c)
	pa, va := a.c.Position(), a.velocity()
	pb, vb := b.c.Position(), b.velocity()
	steps := e.cfg.PredictionSteps

	for s := 1; s <= steps; s++ {
		e.stats.Samples++
		t := float64(s) / float64(steps) * e.cfg.PredictionTime
		fa := physics.Lerp(pa, va, t)
		fb := physics.Lerp(pb, vb, t)
		if d := physics.Distance(fa, fb); d < threshold {
			e.stats.Hits++
			return Result{WillCollide: true, Contact: fa, Distance: d, Step: s, Target: b.c}
		}
	}
	return Result{}
}

// PredictMovement tests a candidate move of entity before it is committed.
//
// The displacement is the normalized direction scaled by speed*deltaTime.
// The entity is sampled at PredictionSteps evenly spaced fractions of that
// displacement (PredictionTime is not used) against the current positions of
// the other active members of checkGroup. The first step/target pair under
// the radius-sum threshold is returned. The entity never collides with itself.
func (e *Engine) PredictMovement(entity Collider, direction physics.Vec3, speed, deltaTime float64, checkGroup string) (Result, error) {
	if entity == nil {
		return Result{}, ErrNilCollider
	}
	dir, ok := direction.Normalize()
	if !ok {
		return Result{}, ErrZeroDirection
	}
	e.stats.Queries++
	if !entity.Active() {
		return Result{}, nil
	}

	displacement := dir.Scale(speed * deltaTime)
	origin := entity.Position()
	radius := ContactRadius(entity)
	members := e.registry.tracks(checkGroup)
	steps := e.cfg.PredictionSteps

	for s := 1; s <= steps; s++ {
		e.stats.Samples++
		p := origin.Add(displacement.Scale(float64(s) / float64(steps)))
		for _, o := range members {
			if o.c == entity || !o.c.Active() {
				continue
			}
			e.stats.PairsTested++
			if d := physics.Distance(p, o.c.Position()); d < radius+ContactRadius(o.c) {
				e.stats.Hits++
				return Result{WillCollide: true, Contact: p, Distance: d, Step: s, Target: o.c}, nil
			}
		}
	}
	return Result{}, nil
}

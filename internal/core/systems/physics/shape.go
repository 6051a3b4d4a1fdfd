package physics

import "math"

// Shape is exact world-space geometry of an entity.
// Implementations are value types describing the current placement;
// hosts rebuild them from their transform on each call.
type Shape interface {
	// Bounds returns the axis-aligned box enclosing the shape.
	Bounds() AABB
	// Raycast returns the ray parameter of the first intersection in [0, maxDistance].
	// A ray starting inside the shape hits at t = 0.
	Raycast(r Ray, maxDistance float64) (t float64, ok bool)
}

// Sphere is a ball shape.
type Sphere struct {
	Center Vec3
	Radius float64
}

// AABB is an axis-aligned box shape.
type AABB struct {
	Min Vec3
	Max Vec3
}

var (
	_ Shape = Sphere{}
	_ Shape = AABB{}
)

// BoxFromCenter builds an AABB from its center and half extents.
func BoxFromCenter(center, half Vec3) AABB {
	half = half.Abs()
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

func (s Sphere) Bounds() AABB {
	return BoxFromCenter(s.Center, Vec3{s.Radius, s.Radius, s.Radius})
}

func (s Sphere) Raycast(r Ray, maxDistance float64) (float64, bool) {
	m := r.Origin.Sub(s.Center)
	b := m.Dot(r.Dir)
	c := m.LenSq() - s.Radius*s.Radius
	if c <= 0 {
		return 0, true
	}
	// origin outside and pointing away
	if b > 0 {
		return 0, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, false
	}
	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	if t > maxDistance {
		return 0, false
	}
	return t, true
}

func (a AABB) Bounds() AABB { return a }

// Center returns the midpoint of the box.
func (a AABB) Center() Vec3 { return a.Min.Add(a.Max).Scale(0.5) }

// HalfExtents returns half the size along each axis.
func (a AABB) HalfExtents() Vec3 { return a.Max.Sub(a.Min).Scale(0.5) }

// Contains reports whether p lies inside or on the box.
func (a AABB) Contains(p Vec3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

// Raycast uses the slab method.
func (a AABB) Raycast(r Ray, maxDistance float64) (float64, bool) {
	tMin, tMax := 0.0, maxDistance
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Dir.X, r.Dir.Y, r.Dir.Z}
	lo := [3]float64{a.Min.X, a.Min.Y, a.Min.Z}
	hi := [3]float64{a.Max.X, a.Max.Y, a.Max.Z}

	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < lo[i] || origin[i] > hi[i] {
				return 0, false
			}
			continue
		}
		inv := 1 / dir[i]
		t1 := (lo[i] - origin[i]) * inv
		t2 := (hi[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}

// Intersects checks if two boxes overlap. Touching faces count as overlap.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Overlap reports whether two shapes currently intersect.
// Unknown shape combinations fall back to comparing their bounds.
// A nil shape overlaps nothing.
func Overlap(a, b Shape) bool {
	if a == nil || b == nil {
		return false
	}
	switch sa := a.(type) {
	case Sphere:
		switch sb := b.(type) {
		case Sphere:
			return sphereSphere(sa, sb)
		case AABB:
			return sphereBox(sa, sb)
		}
	case AABB:
		switch sb := b.(type) {
		case Sphere:
			return sphereBox(sb, sa)
		case AABB:
			return sa.Intersects(sb)
		}
	}
	return a.Bounds().Intersects(b.Bounds())
}

func sphereSphere(a, b Sphere) bool {
	sum := a.Radius + b.Radius
	return DistanceSq(a.Center, b.Center) <= sum*sum
}

func sphereBox(s Sphere, box AABB) bool {
	// closest point on the box to the sphere center
	closest := Vec3{
		X: math.Max(box.Min.X, math.Min(s.Center.X, box.Max.X)),
		Y: math.Max(box.Min.Y, math.Min(s.Center.Y, box.Max.Y)),
		Z: math.Max(box.Min.Z, math.Min(s.Center.Z, box.Max.Z)),
	}
	return DistanceSq(s.Center, closest) <= s.Radius*s.Radius
}

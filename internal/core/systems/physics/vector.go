package physics

import "math"

// Lightweight vector math for collision queries.
// Kept dependency-free so that hosts can convert from their own engine types cheaply.

// Vec3 is a 3D point or direction.
type Vec3 struct{ X, Y, Z float64 }

// V3 is a shorthand constructor.
func V3(x, y, z float64) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Len returns the Euclidean length.
func (v Vec3) Len() float64 { return math.Sqrt(v.Dot(v)) }

// LenSq returns the squared length. Use it when comparing distances.
func (v Vec3) LenSq() float64 { return v.Dot(v) }

// IsZero reports whether all components are exactly zero.
func (v Vec3) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

// Normalize returns the unit vector in the direction of v.
// ok is false for a zero-length input, in which case the zero vector is returned.
func (v Vec3) Normalize() (n Vec3, ok bool) {
	l := v.Len()
	if l == 0 || math.IsNaN(l) || math.IsInf(l, 0) {
		return Vec3{}, false
	}
	return v.Scale(1 / l), true
}

// MaxComponent returns the largest of the three components.
func (v Vec3) MaxComponent() float64 { return math.Max(v.X, math.Max(v.Y, v.Z)) }

// Abs returns the component-wise absolute value.
func (v Vec3) Abs() Vec3 { return Vec3{math.Abs(v.X), math.Abs(v.Y), math.Abs(v.Z)} }

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec3) float64 { return b.Sub(a).Len() }

// DistanceSq computes squared distance between two points.
func DistanceSq(a, b Vec3) float64 { return b.Sub(a).LenSq() }

// Lerp projects p linearly along velocity v for elapsed time t.
func Lerp(p, v Vec3, t float64) Vec3 { return p.Add(v.Scale(t)) }

// Ray is a half-line. Dir is expected to be unit length; use NewRay to build one safely.
type Ray struct {
	Origin Vec3
	Dir    Vec3
}

// NewRay normalizes dir. ok is false when dir has zero length.
func NewRay(origin, dir Vec3) (Ray, bool) {
	n, ok := dir.Normalize()
	if !ok {
		return Ray{}, false
	}
	return Ray{Origin: origin, Dir: n}, true
}

// At returns the point at parameter t along the ray.
func (r Ray) At(t float64) Vec3 { return r.Origin.Add(r.Dir.Scale(t)) }

package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	n, ok := V3(3, 0, 4).Normalize()
	require.True(t, ok)
	assert.InDelta(t, 0.6, n.X, 1e-12)
	assert.InDelta(t, 0.8, n.Z, 1e-12)

	_, ok = Vec3{}.Normalize()
	assert.False(t, ok)
}

func TestMaxComponent(t *testing.T) {
	assert.Equal(t, 3.0, V3(1, 3, 2).MaxComponent())
	assert.Equal(t, -1.0, V3(-1, -2, -3).MaxComponent())
}

func TestOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
		want bool
	}{
		{"spheres apart", Sphere{V3(0, 0, 0), 1}, Sphere{V3(3, 0, 0), 1}, false},
		{"spheres touching", Sphere{V3(0, 0, 0), 1}, Sphere{V3(2, 0, 0), 1}, true},
		{"spheres overlapping", Sphere{V3(0, 0, 0), 1}, Sphere{V3(1, 1, 0), 1}, true},
		{"boxes apart", BoxFromCenter(V3(0, 0, 0), V3(1, 1, 1)), BoxFromCenter(V3(5, 0, 0), V3(1, 1, 1)), false},
		{"boxes overlapping", BoxFromCenter(V3(0, 0, 0), V3(1, 1, 1)), BoxFromCenter(V3(1.5, 0, 0), V3(1, 1, 1)), true},
		{"sphere near box corner", Sphere{V3(2, 2, 0), 1}, BoxFromCenter(V3(0, 0, 0), V3(1, 1, 1)), false},
		{"sphere on box face", BoxFromCenter(V3(0, 0, 0), V3(1, 1, 1)), Sphere{V3(1.5, 0, 0), 0.6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlap(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlap(tt.b, tt.a))
		})
	}
}

func TestOverlapNilShape(t *testing.T) {
	s := Sphere{Center: V3(0, 0, 0), Radius: 1}
	assert.False(t, Overlap(nil, s))
	assert.False(t, Overlap(s, nil))
	assert.False(t, Overlap(nil, nil))
}

func TestSphereRaycast(t *testing.T) {
	s := Sphere{Center: V3(10, 0, 0), Radius: 1}
	r, ok := NewRay(V3(0, 0, 0), V3(1, 0, 0))
	require.True(t, ok)

	d, hit := s.Raycast(r, 20)
	require.True(t, hit)
	assert.InDelta(t, 9, d, 1e-9)

	_, hit = s.Raycast(r, 8.5)
	assert.False(t, hit, "beyond max distance")

	back, _ := NewRay(V3(0, 0, 0), V3(-1, 0, 0))
	_, hit = s.Raycast(back, 20)
	assert.False(t, hit, "pointing away")

	inside, _ := NewRay(V3(10, 0, 0), V3(0, 1, 0))
	d, hit = s.Raycast(inside, 20)
	require.True(t, hit)
	assert.Equal(t, 0.0, d)
}

func TestBoxRaycast(t *testing.T) {
	box := BoxFromCenter(V3(5, 0, 0), V3(1, 1, 1))

	r, _ := NewRay(V3(0, 0, 0), V3(1, 0, 0))
	d, hit := box.Raycast(r, 20)
	require.True(t, hit)
	assert.InDelta(t, 4, d, 1e-9)

	miss, _ := NewRay(V3(0, 5, 0), V3(1, 0, 0))
	_, hit = box.Raycast(miss, 20)
	assert.False(t, hit)

	diag, _ := NewRay(V3(0, 3, 0), V3(1, -0.6, 0))
	_, hit = box.Raycast(diag, 20)
	assert.True(t, hit)
}

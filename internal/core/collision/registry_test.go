package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/foresight/internal/core/systems/physics"
)

func TestRegistryRegisterCreatesGroupLazily(t *testing.T) {
	r := NewRegistry()
	assert.False(t, r.Has("enemy"))
	assert.Empty(t, r.Members("enemy"))

	e := newProp(physics.V3(0, 0, 0), 1)
	require.NoError(t, r.Register("enemy", e))
	require.NoError(t, r.Register("enemy", e))

	assert.True(t, r.Has("enemy"))
	assert.Equal(t, 2, r.Len("enemy"), "duplicates are tolerated")
	assert.ErrorIs(t, r.Register("enemy", nil), ErrNilCollider)
}

func TestRegistryUnregisterRemovesFirstMatch(t *testing.T) {
	r := NewRegistry()
	a := newProp(physics.V3(0, 0, 0), 1)
	b := newProp(physics.V3(1, 0, 0), 1)
	require.NoError(t, r.Register("g", a))
	require.NoError(t, r.Register("g", b))
	require.NoError(t, r.Register("g", a))

	assert.True(t, r.Unregister("g", a))
	assert.Equal(t, []Collider{b, a}, r.Members("g"))

	assert.False(t, r.Unregister("g", newProp(physics.Vec3{}, 1)))
	assert.False(t, r.Unregister("missing", a))
}

func TestRegistryCleanup(t *testing.T) {
	r := NewRegistry()
	e := newProp(physics.V3(0, 0, 0), 1)
	other := newProp(physics.V3(5, 0, 0), 1)
	for _, g := range []string{"enemy", "all"} {
		require.NoError(t, r.Register(g, e))
		require.NoError(t, r.Register(g, other))
	}

	assert.Zero(t, r.Cleanup())
	assert.Equal(t, []Collider{e, other}, r.Members("enemy"))

	e.inactive = true
	assert.Equal(t, 2, r.Cleanup())
	assert.Equal(t, []Collider{other}, r.Members("enemy"))
	assert.Equal(t, []Collider{other}, r.Members("all"))

	other.inactive = true
	assert.Equal(t, 2, r.Cleanup())
	assert.True(t, r.Has("enemy"), "empty groups stay registered")
	assert.Zero(t, r.Len("enemy"))
}

func TestRegistryGroupsSorted(t *testing.T) {
	r := NewRegistry()
	for _, g := range []string{"walls", "enemies", "projectiles"} {
		require.NoError(t, r.Register(g, newProp(physics.Vec3{}, 1)))
	}
	assert.Equal(t, []string{"enemies", "projectiles", "walls"}, r.Groups())
}

func TestRegistrySnapshotIsIndependent(t *testing.T) {
	r := NewRegistry()
	a := newProp(physics.Vec3{}, 1)
	require.NoError(t, r.Register("g", a))

	snap := r.Members("g")
	r.Unregister("g", a)
	assert.Len(t, snap, 1)
	assert.Zero(t, r.Len("g"))
}

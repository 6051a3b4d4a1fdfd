package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/systems/physics"
)

const duel = `
name: duel
ticks: 10
delta_time: 0.01
rules:
  - {a: projectiles, b: targets, response: destroy_both}
entities:
  - {name: bolt, groups: [projectiles], velocity: [20, 0, 0], shape: {radius: 0.1}}
  - {name: dummy, groups: [targets], position: [2, 0, 0], shape: {radius: 0.5}}
  - {name: bystander, groups: [targets], position: [0, 10, 0], shape: {radius: 0.5}}
`

func run(t *testing.T, s *Scenario) (*World, Report) {
	t.Helper()
	w, err := NewWorld(context.Background(), s)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close(context.Background()) })

	r, err := w.Run(context.Background())
	require.NoError(t, err)
	return w, r
}

func TestWorldDestroyBoth(t *testing.T) {
	w, r := run(t, mustLoad(t, duel))

	assert.Equal(t, "duel", r.Scenario)
	assert.Equal(t, 10, r.Ticks)
	assert.Equal(t, uint64(1), r.Contacts)
	assert.Equal(t, 1, r.Survivors)
	assert.False(t, w.Entity("bolt").Active())
	assert.False(t, w.Entity("dummy").Active())
	assert.True(t, w.Entity("bystander").Active())
	assert.NotZero(t, r.Stats.Sweeps)
}

func TestWorldDigestIsDeterministic(t *testing.T) {
	_, first := run(t, mustLoad(t, duel))
	_, second := run(t, mustLoad(t, duel))

	assert.Equal(t, first.Digest, second.Digest)
	assert.NotEqual(t, NewDigest().Sum64(), first.Digest)

	moved := mustLoad(t, duel)
	moved.Entities[1].Position = [3]float64{3, 0, 0}
	_, third := run(t, moved)
	assert.NotEqual(t, first.Digest, third.Digest)
}

func TestWorldStopResponse(t *testing.T) {
	w, r := run(t, mustLoad(t, `
ticks: 40
delta_time: 0.1
rules:
  - {a: walkers, b: walls, response: stop}
entities:
  - {name: walker, groups: [walkers], velocity: [1, 0, 0], shape: {radius: 0.5}}
  - {name: wall, groups: [walls], position: [3, 0, 0], shape: {kind: box, half: [0.5, 0.5, 0.5]}}
`))

	walker := w.Entity("walker")
	assert.Equal(t, uint64(1), r.Contacts)
	assert.True(t, walker.Velocity().IsZero())
	assert.InDelta(t, 1.8, walker.Position().X, 1e-9)
	assert.Equal(t, 2, r.Survivors)
}

func TestWorldGuardedHoldsPosition(t *testing.T) {
	w, r := run(t, mustLoad(t, `
ticks: 40
delta_time: 0.1
rules:
  - {a: walkers, b: walls}
entities:
  - {name: walker, groups: [walkers], velocity: [1, 0, 0], shape: {radius: 0.5}, guarded: true}
  - {name: wall, groups: [walls], position: [3.05, 0, 0], shape: {radius: 0.5}}
`))

	walker := w.Entity("walker")
	assert.InDelta(t, 2.0, walker.Position().X, 1e-9)
	assert.False(t, walker.Velocity().IsZero(), "response none keeps velocity")
	assert.NotZero(t, r.Contacts)
}

func TestWorldFastEntitiesDoNotTunnel(t *testing.T) {
	const src = `
ticks: 5
delta_time: 0.01
rules:
  - {a: bullets, b: plates, response: destroy_both}
entities:
  - {name: bullet, groups: [bullets], velocity: [1000, 0, 0], shape: {radius: 0.05}}
  - {name: plate, groups: [plates], position: [5, 0, 0], shape: {kind: box, half: [0.05, 1, 1]}}
`
	slow := mustLoad(t, src)
	_, r := run(t, slow)
	assert.Zero(t, r.Contacts, "sampled prediction steps over the plate")
	assert.Equal(t, 2, r.Survivors)

	fast := mustLoad(t, src)
	fast.Entities[0].Fast = true
	w, r := run(t, fast)
	assert.Equal(t, uint64(1), r.Contacts)
	assert.Zero(t, r.Survivors)
	assert.InDelta(t, 0, w.Entity("bullet").Position().X, 1e-9, "destroyed before moving")
}

func TestWorldPublishesOnSharedBus(t *testing.T) {
	b := bus.New()
	var seen []collision.Contact
	_, err := b.SubscribeTopic(collision.Topic, collision.EventPredicted, func(ev bus.Event) error {
		c, ok := collision.ContactFromEvent(ev)
		require.True(t, ok)
		seen = append(seen, c)
		return nil
	})
	require.NoError(t, err)

	w, err := NewWorld(context.Background(), mustLoad(t, duel), WithBus(b))
	require.NoError(t, err)
	defer w.Close(context.Background())
	require.NoError(t, w.Step())

	require.Len(t, seen, 1)
	assert.Equal(t, "projectiles", seen[0].GroupA)
	assert.Equal(t, "targets", seen[0].GroupB)
	assert.Same(t, w.Entity("bolt"), seen[0].A)
	assert.Equal(t, 2, seen[0].Result.Step)
	assert.Equal(t, 1, w.Tick())
}

func TestWorldRejectsForeignColliders(t *testing.T) {
	w, err := NewWorld(context.Background(), mustLoad(t, duel))
	require.NoError(t, err)
	defer w.Close(context.Background())

	err = w.Bus().PublishToTopic(collision.Topic, bus.NewEvent(collision.EventPredicted, "test", collision.Contact{
		A: w.Entity("bolt"),
		B: foreign{},
	}, nil))
	assert.ErrorIs(t, err, ErrUnexpectedCollider)
}

type foreign struct{}

func (foreign) Position() physics.Vec3 { return physics.Vec3{} }
func (foreign) Extent() physics.Vec3   { return physics.Vec3{} }
func (foreign) Active() bool           { return true }
func (foreign) Shape() physics.Shape   { return physics.Sphere{} }

func TestWorldRunHonorsContext(t *testing.T) {
	w, err := NewWorld(context.Background(), mustLoad(t, duel))
	require.NoError(t, err)
	defer w.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, err := w.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, r.Ticks)
}

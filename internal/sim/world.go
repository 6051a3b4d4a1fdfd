package sim

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
	"github.com/zeusync/foresight/internal/core/systems"
	"github.com/zeusync/foresight/internal/core/systems/physics"
)

var ErrUnexpectedCollider = errors.New("sim: contact with a foreign collider")

type ruleKey struct{ a, b string }

// Report summarizes a finished run.
type Report struct {
	Scenario  string
	Ticks     int
	Contacts  uint64
	Survivors int
	Digest    uint64
	Elapsed   time.Duration
	Stats     collision.Stats
}

// World is one simulated scene: entities, an engine, the tick systems and
// the bus that carries contacts between them. A World is driven by a single
// goroutine.
type World struct {
	scenario  *Scenario
	engine    *collision.Engine
	bus       bus.EventBus
	manager   *systems.Manager
	collision *systems.CollisionSystem
	publisher *collision.Publisher
	sub       bus.Subscription

	entities []*Entity
	byName   map[string]*Entity
	rules    map[ruleKey]Response

	digest   *Digest
	contacts uint64
	tick     int
	logger   log.Log
}

type WorldOption func(*World)

func WithLogger(logger log.Log) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithBus publishes contacts on an existing bus, e.g. one a stream server listens on.
func WithBus(b bus.EventBus) WorldOption {
	return func(w *World) {
		if b != nil {
			w.bus = b
		}
	}
}

// NewWorld validates s, then builds and initializes a world from it.
func NewWorld(ctx context.Context, s *Scenario, opts ...WorldOption) (*World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	w := &World{
		scenario: s,
		byName:   make(map[string]*Entity, len(s.Entities)),
		rules:    make(map[ruleKey]Response, len(s.Rules)),
		digest:   NewDigest(),
		logger:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.bus == nil {
		w.bus = bus.New()
	}
	w.logger = w.logger.With(log.String("scenario", s.Name))

	engine, err := collision.New(s.Collision, collision.WithLogger(w.logger))
	if err != nil {
		return nil, err
	}
	w.engine = engine

	w.entities = s.BuildEntities()
	for _, e := range w.entities {
		w.byName[e.Name] = e
		for _, g := range e.Groups {
			if err = engine.Register(g, e); err != nil {
				return nil, err
			}
		}
	}

	sysRules := make([]systems.Rule, 0, len(s.Rules))
	for _, r := range s.Rules {
		w.rules[ruleKey{r.A, r.B}] = r.Response
		sysRules = append(sysRules, systems.Rule{A: r.A, B: r.B})
	}

	if err = w.bus.CreateTopic(collision.Topic); err != nil {
		return nil, err
	}
	w.sub, err = w.bus.SubscribeTopic(collision.Topic, collision.EventPredicted, w.onContact)
	if err != nil {
		return nil, err
	}
	w.publisher = collision.NewPublisher(w.bus, "movement")

	w.collision = systems.NewCollisionSystem(engine, w.bus, systems.CollisionConfig{
		Rules:        sysRules,
		CleanupEvery: s.CleanupEvery,
		Source:       s.Name,
	}, w.logger)
	w.manager = systems.NewManager(w.logger)
	if err = w.manager.Register(w.collision); err != nil {
		return nil, err
	}
	if err = w.manager.Register(&movementSystem{world: w, enabled: true}); err != nil {
		return nil, err
	}
	if err = w.manager.Initialize(ctx); err != nil {
		return nil, err
	}

	w.logger.Info("World created",
		log.Int("entities", len(w.entities)),
		log.Int("rules", len(s.Rules)),
		log.String("groups", fmt.Sprint(engine.Registry().Groups())))
	return w, nil
}

// Step advances the world by one tick: contacts are predicted first, then movement is integrated.
func (w *World) Step() error {
	if err := w.manager.Update(w.scenario.DeltaTime); err != nil {
		return fmt.Errorf("tick %d: %w", w.tick, err)
	}
	w.tick++
	return nil
}

// Run steps the world until the scenario's tick count or ctx ends.
func (w *World) Run(ctx context.Context) (Report, error) {
	start := time.Now()
	for w.tick < w.scenario.Ticks {
		if err := ctx.Err(); err != nil {
			return w.report(time.Since(start)), err
		}
		if err := w.Step(); err != nil {
			return w.report(time.Since(start)), err
		}
	}
	r := w.report(time.Since(start))
	w.logger.Info("Run finished",
		log.Int("ticks", r.Ticks),
		log.Uint64("contacts", r.Contacts),
		log.Int("survivors", r.Survivors),
		log.Uint64("digest", r.Digest),
		log.Duration("elapsed", r.Elapsed))
	return r, nil
}

// Close shuts the systems down and detaches from the bus.
func (w *World) Close(ctx context.Context) error {
	err := w.manager.Shutdown(ctx)
	return errors.Join(err, w.bus.Unsubscribe(w.sub))
}

func (w *World) Tick() int                      { return w.tick }
func (w *World) Engine() *collision.Engine      { return w.engine }
func (w *World) Bus() bus.EventBus              { return w.bus }
func (w *World) Entities() []*Entity            { return w.entities }
func (w *World) Entity(name string) *Entity     { return w.byName[name] }
func (w *World) Contacts() uint64               { return w.contacts }
func (w *World) Digest() uint64                 { return w.digest.Sum64() }
func (w *World) Scenario() *Scenario            { return w.scenario }
func (w *World) SystemMetrics() systems.Metrics { return w.collision.GetMetrics() }

func (w *World) report(elapsed time.Duration) Report {
	survivors := 0
	for _, e := range w.entities {
		if e.Active() {
			survivors++
		}
	}
	return Report{
		Scenario:  w.scenario.Name,
		Ticks:     w.tick,
		Contacts:  w.contacts,
		Survivors: survivors,
		Digest:    w.digest.Sum64(),
		Elapsed:   elapsed,
		Stats:     w.engine.Stats(),
	}
}

func (w *World) onContact(ev bus.Event) error {
	c, ok := collision.ContactFromEvent(ev)
	if !ok {
		return nil
	}
	a, okA := c.A.(*Entity)
	b, okB := c.B.(*Entity)
	if !okA || !okB {
		return fmt.Errorf("%w: %T, %T", ErrUnexpectedCollider, c.A, c.B)
	}

	w.contacts++
	w.digest.Add(w.tick, a.Name, b.Name, c.Result)

	resp := w.rules[ruleKey{c.GroupA, c.GroupB}]
	w.logger.Debug("Contact",
		log.Int("tick", w.tick),
		log.String("a", a.Name),
		log.String("b", b.Name),
		log.Int("step", c.Result.Step),
		log.Float64("distance", c.Result.Distance),
		log.String("response", string(resp)))

	switch resp {
	case ResponseStop:
		a.SetVelocity(physics.Vec3{})
	case ResponseDestroyA:
		a.SetActive(false)
	case ResponseDestroyB:
		b.SetActive(false)
	case ResponseDestroyBoth:
		a.SetActive(false)
		b.SetActive(false)
	}
	return nil
}

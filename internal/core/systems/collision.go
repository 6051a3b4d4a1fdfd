package systems

import (
	"context"
	"fmt"
	"time"

	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/events/bus"
	"github.com/zeusync/foresight/internal/core/observability/log"
)

const CollisionSystemName = "collision"

// Rule names a group pair swept every tick.
type Rule struct {
	A string `yaml:"a" json:"a"`
	B string `yaml:"b" json:"b"`
}

// CollisionConfig configures a CollisionSystem.
type CollisionConfig struct {
	Rules []Rule
	// CleanupEvery prunes inactive registry members every n ticks; 0 disables pruning.
	CleanupEvery int
	Source       string
}

// CollisionSystem sweeps the configured group pairs every tick and publishes
// each predicted contact on the bus under collision.Topic. It runs at high
// priority so that contacts are known before movement is integrated.
type CollisionSystem struct {
	engine    *collision.Engine
	publisher *collision.Publisher
	cfg       CollisionConfig

	ticks    uint64
	contacts uint64
	enabled  bool
	state    StateIdentity
	metrics  Metrics
	logger   log.Log
}

var _ System = (*CollisionSystem)(nil)

func NewCollisionSystem(engine *collision.Engine, eventBus bus.EventBus, cfg CollisionConfig, logger log.Log) *CollisionSystem {
	if logger == nil {
		logger = log.NewNop()
	}
	if cfg.Source == "" {
		cfg.Source = CollisionSystemName
	}
	return &CollisionSystem{
		engine:    engine,
		publisher: collision.NewPublisher(eventBus, cfg.Source),
		cfg:       cfg,
		enabled:   true,
		logger:    logger.With(log.String("system", CollisionSystemName)),
	}
}

func (s *CollisionSystem) Name() string       { return CollisionSystemName }
func (s *CollisionSystem) Priority() Priority { return PriorityHigh }

func (s *CollisionSystem) Initialize(_ context.Context) error {
	for _, r := range s.cfg.Rules {
		if r.A == "" || r.B == "" {
			s.state = StateFailed
			return fmt.Errorf("collision rule %q/%q: empty group name", r.A, r.B)
		}
	}
	s.state = StateRunning
	s.logger.Info("Collision system initialized",
		log.Int("rules", len(s.cfg.Rules)),
		log.Int("cleanup_every", s.cfg.CleanupEvery))
	return nil
}

func (s *CollisionSystem) Shutdown(_ context.Context) error {
	s.state = StateShutdown
	s.logger.Info("Collision system stopped",
		log.Uint64("ticks", s.ticks),
		log.Uint64("contacts", s.contacts))
	return nil
}

// Update runs every rule once. deltaTime is unused: the look-ahead horizon
// comes from the engine configuration.
func (s *CollisionSystem) Update(_ float64) error {
	start := time.Now()
	before := s.engine.Stats().PairsTested

	found := 0
	for _, r := range s.cfg.Rules {
		found += s.engine.CheckPredictiveCollisions(r.A, r.B, s.publisher.HandlerFor(r.A, r.B))
	}
	s.ticks++
	s.contacts += uint64(found)

	if n := uint64(s.cfg.CleanupEvery); n > 0 && s.ticks%n == 0 {
		s.engine.Cleanup()
	}

	err := s.publisher.Err()
	s.publisher.Reset()
	if err != nil {
		err = fmt.Errorf("publish contacts: %w", err)
		s.logger.Warn("Contact handlers failed", log.Uint64("tick", s.ticks), log.Error(err))
	}

	s.metrics.Record(time.Since(start), s.engine.Stats().PairsTested-before, err)
	if found > 0 {
		s.logger.Debug("Contacts predicted", log.Uint64("tick", s.ticks), log.Int("contacts", found))
	}
	return err
}

func (s *CollisionSystem) IsEnabled() bool { return s.enabled }

func (s *CollisionSystem) SetEnabled(enabled bool) {
	s.enabled = enabled
	if s.state == StateRunning || s.state == StateDisabled {
		if enabled {
			s.state = StateRunning
		} else {
			s.state = StateDisabled
		}
	}
}

func (s *CollisionSystem) GetState() StateIdentity { return s.state }
func (s *CollisionSystem) GetMetrics() Metrics     { return s.metrics }

// Ticks returns the number of completed updates.
func (s *CollisionSystem) Ticks() uint64 { return s.ticks }

// Contacts returns the number of contacts published since creation.
func (s *CollisionSystem) Contacts() uint64 { return s.contacts }

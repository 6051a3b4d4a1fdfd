package collision

import (
	"fmt"

	"github.com/zeusync/foresight/internal/core/observability/log"
)

// Engine answers predictive collision queries over a group registry.
//
// An Engine is single-threaded: all queries and registry changes must happen
// on the goroutine that drives the simulation. Queries only read entity state.
type Engine struct {
	cfg      Config
	registry *Registry
	logger   log.Log
	stats    Stats
}

// Stats counts work done by the engine since creation or the last ResetStats.
type Stats struct {
	Sweeps      uint64
	Queries     uint64
	PairsTested uint64
	Samples     uint64
	Overlaps    uint64
	Hits        uint64
}

type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger log.Log) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRegistry shares an existing registry instead of creating a new one.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// New validates cfg and builds an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	e := &Engine{
		cfg:      cfg,
		registry: NewRegistry(),
		logger:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(log.String("component", "collision"))
	e.logger.Debug("Engine created",
		log.Int("prediction_steps", cfg.PredictionSteps),
		log.Float64("prediction_time", cfg.PredictionTime),
		log.String("pair_policy", cfg.PairPolicy.String()))
	return e, nil
}

// Config returns the active configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetPrediction changes the sampling parameters for subsequent queries.
// Invalid values are rejected and the previous configuration is kept.
func (e *Engine) SetPrediction(steps int, horizon float64) error {
	next := e.cfg
	next.PredictionSteps = steps
	next.PredictionTime = horizon
	if err := next.Validate(); err != nil {
		e.logger.Warn("Rejected prediction settings",
			log.Int("prediction_steps", steps),
			log.Float64("prediction_time", horizon),
			log.Error(err))
		return err
	}
	e.cfg = next
	e.logger.Debug("Prediction settings changed",
		log.Int("prediction_steps", steps),
		log.Float64("prediction_time", horizon))
	return nil
}

// SetPairPolicy changes how same-group sweeps enumerate pairs.
func (e *Engine) SetPairPolicy(p PairPolicy) error {
	if p > PairsAll {
		return ErrInvalidPolicy
	}
	e.cfg.PairPolicy = p
	return nil
}

// Registry exposes the group registry backing the engine.
func (e *Engine) Registry() *Registry { return e.registry }

// Register adds c to group. See Registry.Register.
func (e *Engine) Register(group string, c Collider) error {
	return e.registry.Register(group, c)
}

// Unregister removes c from group. See Registry.Unregister.
func (e *Engine) Unregister(group string, c Collider) bool {
	return e.registry.Unregister(group, c)
}

// Cleanup purges inactive members from all groups. See Registry.Cleanup.
func (e *Engine) Cleanup() int {
	dropped := e.registry.Cleanup()
	if dropped > 0 {
		e.logger.Debug("Pruned inactive members", log.Int("dropped", dropped))
	}
	return dropped
}

func (e *Engine) Stats() Stats { return e.stats }

func (e *Engine) ResetStats() { e.stats = Stats{} }

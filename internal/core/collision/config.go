package collision

import (
	"fmt"
	"math"
)

// PairPolicy controls which pairs a sweep tests.
type PairPolicy uint8

const (
	// PairsUnique tests each unordered pair once when both groups are the
	// same group, and never pairs an entity with itself.
	PairsUnique PairPolicy = iota
	// PairsOrdered tests (a, b) and (b, a) but never an entity with itself.
	PairsOrdered
	// PairsAll tests every combination, reflexive ones included.
	PairsAll
)

func (p PairPolicy) String() string {
	switch p {
	case PairsUnique:
		return "unique"
	case PairsOrdered:
		return "ordered"
	case PairsAll:
		return "all"
	default:
		return fmt.Sprintf("PairPolicy(%d)", uint8(p))
	}
}

func (p PairPolicy) MarshalText() ([]byte, error) {
	if p > PairsAll {
		return nil, ErrInvalidPolicy
	}
	return []byte(p.String()), nil
}

func (p *PairPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "unique":
		*p = PairsUnique
	case "ordered":
		*p = PairsOrdered
	case "all":
		*p = PairsAll
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, text)
	}
	return nil
}

// Config holds the sweep parameters.
type Config struct {
	// PredictionSteps is the number of future samples checked per pair.
	PredictionSteps int `yaml:"prediction_steps" json:"prediction_steps"`
	// PredictionTime is the look-ahead horizon in simulation time units.
	PredictionTime float64    `yaml:"prediction_time" json:"prediction_time"`
	PairPolicy     PairPolicy `yaml:"pair_policy" json:"pair_policy"`
}

// DefaultConfig returns five samples over a quarter of a time unit.
func DefaultConfig() Config {
	return Config{
		PredictionSteps: 5,
		PredictionTime:  0.25,
		PairPolicy:      PairsUnique,
	}
}

// Validate rejects values for which the step-time computation degenerates.
func (c Config) Validate() error {
	if c.PredictionSteps <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidSteps, c.PredictionSteps)
	}
	if !(c.PredictionTime > 0) || math.IsInf(c.PredictionTime, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidHorizon, c.PredictionTime)
	}
	if c.PairPolicy > PairsAll {
		return ErrInvalidPolicy
	}
	return nil
}

package sim

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/zeusync/foresight/internal/core/collision"
	"github.com/zeusync/foresight/internal/core/systems/physics"
	"gopkg.in/yaml.v3"
)

// Response is what the host does with a predicted contact.
type Response string

const (
	ResponseNone        Response = "none"
	ResponseStop        Response = "stop"
	ResponseDestroyA    Response = "destroy_a"
	ResponseDestroyB    Response = "destroy_b"
	ResponseDestroyBoth Response = "destroy_both"
)

func (r Response) valid() bool {
	switch r {
	case ResponseNone, ResponseStop, ResponseDestroyA, ResponseDestroyB, ResponseDestroyBoth:
		return true
	}
	return false
}

var (
	ErrNoTicks         = errors.New("scenario: ticks must be positive")
	ErrBadDeltaTime    = errors.New("scenario: delta_time must be positive")
	ErrUnknownResponse = errors.New("scenario: unknown response")
	ErrUnknownShape    = errors.New("scenario: unknown shape kind")
	ErrDuplicateName   = errors.New("scenario: duplicate entity name")
	ErrEmptyGroup      = errors.New("scenario: empty group name")
	ErrDuplicateRule   = errors.New("scenario: duplicate rule")
)

// Scenario describes a world to simulate.
type Scenario struct {
	Name         string           `yaml:"name"`
	Ticks        int              `yaml:"ticks"`
	DeltaTime    float64          `yaml:"delta_time"`
	CleanupEvery int              `yaml:"cleanup_every"`
	LogLevel     string           `yaml:"log_level,omitempty"`
	Collision    collision.Config `yaml:"collision"`
	Rules        []RuleSpec       `yaml:"rules"`
	Entities     []EntitySpec     `yaml:"entities"`
}

// RuleSpec sweeps group A against group B every tick and applies Response to contacts.
type RuleSpec struct {
	A        string   `yaml:"a"`
	B        string   `yaml:"b"`
	Response Response `yaml:"response"`
}

type EntitySpec struct {
	Name     string     `yaml:"name"`
	Groups   []string   `yaml:"groups"`
	Position [3]float64 `yaml:"position"`
	Velocity [3]float64 `yaml:"velocity"`
	Shape    ShapeSpec  `yaml:"shape"`
	Fast     bool       `yaml:"fast,omitempty"`
	Guarded  bool       `yaml:"guarded,omitempty"`
	Inactive bool       `yaml:"inactive,omitempty"`
}

type ShapeSpec struct {
	Kind   ShapeKind  `yaml:"kind"`
	Radius float64    `yaml:"radius,omitempty"`
	Half   [3]float64 `yaml:"half,omitempty"`
}

// DefaultScenario returns the values applied to fields a scenario file omits.
func DefaultScenario() Scenario {
	return Scenario{
		Name:         "unnamed",
		Ticks:        60,
		DeltaTime:    1.0 / 60,
		CleanupEvery: 30,
		Collision:    collision.DefaultConfig(),
	}
}

// LoadYAML decodes and validates a scenario.
func LoadYAML(r io.Reader) (*Scenario, error) {
	s := DefaultScenario()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads a scenario from disk.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := LoadYAML(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Validate checks the scenario as a whole.
func (s *Scenario) Validate() error {
	if s.Ticks <= 0 {
		return ErrNoTicks
	}
	if !(s.DeltaTime > 0) {
		return ErrBadDeltaTime
	}
	if err := s.Collision.Validate(); err != nil {
		return err
	}
	pairs := make(map[[2]string]struct{}, len(s.Rules))
	for i, r := range s.Rules {
		if r.A == "" || r.B == "" {
			return fmt.Errorf("rule %d: %w", i, ErrEmptyGroup)
		}
		pair := [2]string{r.A, r.B}
		if _, dup := pairs[pair]; dup {
			return fmt.Errorf("rule %d: %w: %s/%s", i, ErrDuplicateRule, r.A, r.B)
		}
		pairs[pair] = struct{}{}
		if r.Response == "" {
			s.Rules[i].Response = ResponseNone
		} else if !r.Response.valid() {
			return fmt.Errorf("rule %d: %w: %q", i, ErrUnknownResponse, r.Response)
		}
	}
	names := make(map[string]struct{}, len(s.Entities))
	for i, e := range s.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity %d: name is required", i)
		}
		if _, dup := names[e.Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
		}
		names[e.Name] = struct{}{}
		for _, g := range e.Groups {
			if g == "" {
				return fmt.Errorf("entity %s: %w", e.Name, ErrEmptyGroup)
			}
		}
		switch e.Shape.Kind {
		case ShapeSphere, "":
			if e.Shape.Radius <= 0 {
				return fmt.Errorf("entity %s: sphere radius must be positive", e.Name)
			}
		case ShapeBox:
			if vec(e.Shape.Half).Abs().MaxComponent() <= 0 {
				return fmt.Errorf("entity %s: box half extents must be positive", e.Name)
			}
		default:
			return fmt.Errorf("entity %s: %w: %q", e.Name, ErrUnknownShape, e.Shape.Kind)
		}
	}
	return nil
}

// TickInterval is the wall-clock length of one tick for real-time playback,
// never shorter than a nanosecond.
func (s *Scenario) TickInterval() time.Duration {
	return max(time.Duration(s.DeltaTime*float64(time.Second)), time.Nanosecond)
}

// BuildEntities instantiates the declared entities in file order.
func (s *Scenario) BuildEntities() []*Entity {
	out := make([]*Entity, 0, len(s.Entities))
	for _, spec := range s.Entities {
		pos := vec(spec.Position)
		vel := vec(spec.Velocity)
		var e *Entity
		if spec.Shape.Kind == ShapeBox {
			e = NewBox(spec.Name, pos, vel, vec(spec.Shape.Half))
		} else {
			e = NewSphere(spec.Name, pos, vel, spec.Shape.Radius)
		}
		e.Groups = append([]string(nil), spec.Groups...)
		e.Fast = spec.Fast
		e.Guarded = spec.Guarded
		e.SetActive(!spec.Inactive)
		out = append(out, e)
	}
	return out
}

func vec(a [3]float64) physics.Vec3 { return physics.V3(a[0], a[1], a[2]) }

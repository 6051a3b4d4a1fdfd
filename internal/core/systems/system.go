package systems

import (
	"context"
	"time"
)

// System is a per-tick game logic processor driven by a Manager.
type System interface {
	// Identity

	Name() string
	Priority() Priority

	// Lifecycle

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Execution

	Update(deltaTime float64) error

	// State management

	IsEnabled() bool
	SetEnabled(bool)
	GetState() StateIdentity

	// Performance monitoring

	GetMetrics() Metrics
}

// Priority defines execution order; higher runs first within a tick.
type Priority uint16

const (
	PriorityLowest  Priority = 200
	PriorityLow     Priority = 500
	PriorityNormal  Priority = 600
	PriorityHigh    Priority = 1000
	PriorityHighest Priority = 1300
)

// StateIdentity represents the current state of a system
type StateIdentity uint8

const (
	StateUninitialized StateIdentity = iota
	StateRunning
	StateDisabled
	StateShutdown
	StateFailed
)

func (s StateIdentity) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateDisabled:
		return "disabled"
	case StateShutdown:
		return "shutdown"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
	EntitiesProcessed    uint64
}

// Record folds one execution into m.
func (m *Metrics) Record(elapsed time.Duration, processed uint64, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += elapsed
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if elapsed > m.MaxExecutionTime {
		m.MaxExecutionTime = elapsed
	}
	m.LastExecutionTime = time.Now()
	m.EntitiesProcessed += processed
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}

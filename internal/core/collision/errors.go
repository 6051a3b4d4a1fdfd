package collision

import "errors"

var (
	ErrInvalidSteps    = errors.New("collision: prediction steps must be positive")
	ErrInvalidHorizon  = errors.New("collision: prediction time must be positive")
	ErrInvalidPolicy   = errors.New("collision: unknown pair policy")
	ErrZeroDirection   = errors.New("collision: direction has zero length")
	ErrInvalidDistance = errors.New("collision: max distance must be positive")
	ErrNilCollider     = errors.New("collision: nil collider")
)

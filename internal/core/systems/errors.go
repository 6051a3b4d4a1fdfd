package systems

import "errors"

var (
	ErrSystemExists       = errors.New("system already registered")
	ErrNotInitialized     = errors.New("systems not initialized")
	ErrAlreadyInitialized = errors.New("systems already initialized")
)

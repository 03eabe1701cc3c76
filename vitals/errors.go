package vitals

import "errors"

// Sentinel errors returned by the control surface. None are fatal; callers
// are expected to inspect and, where appropriate, retry with corrected
// arguments. No internal recovery or retry is performed.
var (
	// ErrNotInitialized is returned by operations that require Init to have
	// run first.
	ErrNotInitialized = errors.New("vitals: pipeline not initialized")

	// ErrInvalidArg is returned for out-of-range configuration or malformed
	// call arguments.
	ErrInvalidArg = errors.New("vitals: invalid argument")

	// ErrInvalidCube is returned by ProcessFrame when the supplied radar
	// cube is nil or has no more than R_SEL range bins.
	ErrInvalidCube = errors.New("vitals: invalid radar cube")
)

package vitals

import "fmt"

// Configuration is the host-facing configuration record. It is immutable
// between resets and is replaced atomically by UpdateConfig.
type Configuration struct {
	Enabled            bool
	TrackerIntegration bool    // reserved: when true, TargetID/upstream tracker selects the hint bin
	TargetID           int     // [0,249] or 255 (nearest)
	RangeBinStart      int     // u16 in the wire record
	NumRangeBins       int     // [1, RSel]
	RangeResolution    float32 // meters/bin
}

// DefaultConfiguration returns a disabled configuration with a single range
// bin and no target selected: a safe, explicit starting point callers
// mutate before calling Init.
func DefaultConfiguration() Configuration {
	return Configuration{
		Enabled:            false,
		TrackerIntegration: false,
		TargetID:           255,
		RangeBinStart:      0,
		NumRangeBins:       1,
		RangeResolution:    0.044,
	}
}

// Validate checks cfg against the binding ranges in the data model. It
// returns ErrInvalidArg wrapped with the offending field when a check fails.
func (cfg Configuration) Validate() error {
	if cfg.TargetID != 255 && (cfg.TargetID < 0 || cfg.TargetID > 249) {
		return fmt.Errorf("%w: targetId %d out of range [0,249]+{255}", ErrInvalidArg, cfg.TargetID)
	}
	if cfg.RangeBinStart < 0 {
		return fmt.Errorf("%w: rangeBinStart %d must be >= 0", ErrInvalidArg, cfg.RangeBinStart)
	}
	if cfg.NumRangeBins < 1 || cfg.NumRangeBins > RSel {
		return fmt.Errorf("%w: numRangeBins %d out of range [1,%d]", ErrInvalidArg, cfg.NumRangeBins, RSel)
	}
	if cfg.RangeResolution <= 0 {
		return fmt.Errorf("%w: rangeResolution %v must be > 0", ErrInvalidArg, cfg.RangeResolution)
	}
	return nil
}

// hintBin resolves the range bin to center the ingest window on: the
// configured start when tracker integration is off, or the caller-supplied
// hint when it is on (trackerIntegration's downstream semantics beyond that
// are reserved -- see DESIGN.md open question).
func (cfg Configuration) hintBin(callerHint int) int {
	if cfg.TrackerIntegration {
		return callerHint
	}
	return cfg.RangeBinStart
}

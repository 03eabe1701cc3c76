// Package sim synthesizes sequences of vitals.Cube frames representing a
// single stationary person breathing and (optionally) a heartbeat, for
// pipeline regression testing without a physical radar.
package sim

import (
	"fmt"
	"math"
	"math/rand"

	approx "github.com/cwbudde/algo-approx"

	"github.com/cwbudde/algo-radar-vitals/geometry"
	"github.com/cwbudde/algo-radar-vitals/internal/numeric"
	"github.com/cwbudde/algo-radar-vitals/vitals"
)

// Config controls synthetic scenario generation.
type Config struct {
	FrameRateHz float64 // radar frame rate
	NumFrames   int

	TargetRangeBin int
	TargetRow      int // physical antenna row (0..geometry.NumRows-1) the target is broadside to
	TargetCol      int // physical antenna col (0..geometry.NumCols-1)

	BreathingHz        float64
	BreathingAmplitude float64 // radians of phase swing
	HeartHz            float64
	HeartAmplitude     float64 // radians of phase swing

	CarrierAmplitude float64 // Q15-scale amplitude of the per-antenna carrier
	NoiseFloor       float64 // Q15-scale stddev of additive noise

	AcquisitionTauS float64 // seconds for the target amplitude to ramp in via 1-exp(-t/tau)

	// TargetLossStartFrame and TargetLossFrames describe a span of frames
	// during which the target signal is replaced by pure noise, simulating
	// a subject leaving the sensed area.
	TargetLossStartFrame int
	TargetLossFrames     int

	NumRangeBins int
	Seed         int64
}

// DefaultConfig returns a config describing a single resting adult at 1m,
// breathing at 16 breaths/min with a 70 bpm heartbeat.
func DefaultConfig() Config {
	return Config{
		FrameRateHz:        20.0,
		NumFrames:          4096,
		TargetRangeBin:     20,
		TargetRow:          1,
		TargetCol:          2,
		BreathingHz:        16.0 / 60.0,
		BreathingAmplitude: 0.6,
		HeartHz:            70.0 / 60.0,
		HeartAmplitude:     0.05,
		CarrierAmplitude:   4000,
		NoiseFloor:         20,
		AcquisitionTauS:    2.0,
		NumRangeBins:       64,
		Seed:               1,
	}
}

// Validate checks cfg for internally-consistent values.
func (c *Config) Validate() error {
	if c.FrameRateHz <= 0 {
		return fmt.Errorf("sim: frame rate must be > 0")
	}
	if c.NumFrames < 1 {
		return fmt.Errorf("sim: num frames must be >= 1")
	}
	if c.TargetRangeBin < 0 || c.TargetRangeBin >= c.NumRangeBins {
		return fmt.Errorf("sim: target range bin %d out of bounds [0,%d)", c.TargetRangeBin, c.NumRangeBins)
	}
	geom := geometry.Default()
	if c.TargetRow < 0 || c.TargetRow >= geom.NumRows {
		return fmt.Errorf("sim: target row %d out of bounds [0,%d)", c.TargetRow, geom.NumRows)
	}
	if c.TargetCol < 0 || c.TargetCol >= geom.NumCols {
		return fmt.Errorf("sim: target col %d out of bounds [0,%d)", c.TargetCol, geom.NumCols)
	}
	if c.BreathingHz <= 0 {
		return fmt.Errorf("sim: breathing rate must be > 0")
	}
	if c.CarrierAmplitude <= 0 {
		return fmt.Errorf("sim: carrier amplitude must be > 0")
	}
	if c.NoiseFloor < 0 {
		return fmt.Errorf("sim: noise floor must be >= 0")
	}
	if c.AcquisitionTauS < 0 {
		return fmt.Errorf("sim: acquisition tau must be >= 0")
	}
	if c.NumRangeBins < 1 {
		return fmt.Errorf("sim: num range bins must be >= 1")
	}
	if c.TargetLossFrames < 0 || c.TargetLossStartFrame < 0 {
		return fmt.Errorf("sim: target loss span must be >= 0")
	}
	return nil
}

// Scenario is a validated Config paired with the RNG state needed to
// generate frames deterministically and reproducibly.
type Scenario struct {
	cfg Config
	rng *rand.Rand
}

// New validates cfg and returns a ready-to-generate Scenario.
func New(cfg Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scenario{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}, nil
}

// inTargetLoss reports whether frame index t falls inside the configured
// target-loss span.
func (s *Scenario) inTargetLoss(t int) bool {
	if s.cfg.TargetLossFrames <= 0 {
		return false
	}
	return t >= s.cfg.TargetLossStartFrame && t < s.cfg.TargetLossStartFrame+s.cfg.TargetLossFrames
}

// Frame generates the t-th synthetic radar cube: a carrier at TargetRangeBin
// phase-modulated by breathing and heart motion and steered across the
// virtual antenna array toward (TargetRow, TargetCol), plus Gaussian noise
// on every (range bin, antenna) cell. All other range bins carry pure noise.
func (s *Scenario) Frame(t int) *vitals.Cube {
	geom := geometry.Default()
	cube := &vitals.Cube{
		NumRangeBins: s.cfg.NumRangeBins,
		NumVA:        geom.NumVirtual(),
		Data:         make([]int16, s.cfg.NumRangeBins*geom.NumVirtual()*2),
	}

	timeS := float64(t) / s.cfg.FrameRateHz
	lossNow := s.inTargetLoss(t)

	// 1 - exp(-t/tau) acquisition ramp via the same fast approximate
	// exponential kernel used for other exponential envelope shaping.
	ramp := float64(1)
	if s.cfg.AcquisitionTauS > 0 {
		ramp = float64(1 - approx.FastExp(float32(-timeS/s.cfg.AcquisitionTauS)))
	}

	phase := s.cfg.BreathingAmplitude*ramp*math.Sin(2*math.Pi*s.cfg.BreathingHz*timeS) +
		s.cfg.HeartAmplitude*ramp*math.Sin(2*math.Pi*s.cfg.HeartHz*timeS)

	for rb := 0; rb < s.cfg.NumRangeBins; rb++ {
		for v := 0; v < geom.NumVirtual(); v++ {
			row, col := geom.RowCol(v)

			var re, im float64
			if rb == s.cfg.TargetRangeBin && !lossNow {
				steer := math.Pi * (float64(row-s.cfg.TargetRow) + float64(col-s.cfg.TargetCol)) / 4
				re = s.cfg.CarrierAmplitude * math.Cos(phase+steer)
				im = s.cfg.CarrierAmplitude * math.Sin(phase+steer)
			}

			re += s.rng.NormFloat64() * s.cfg.NoiseFloor
			im += s.rng.NormFloat64() * s.cfg.NoiseFloor

			base := (rb*geom.NumVirtual() + v) * 2
			cube.Data[base] = clampQ15(im)
			cube.Data[base+1] = clampQ15(re)
		}
	}

	return cube
}

func clampQ15(x float64) int16 {
	return int16(numeric.Clamp(math.Round(x), -32768, 32767))
}

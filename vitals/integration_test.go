package vitals_test

import (
	"testing"

	"github.com/cwbudde/algo-radar-vitals/sim"
	"github.com/cwbudde/algo-radar-vitals/vitals"
)

func runScenario(t *testing.T, cfg sim.Config) vitals.Result {
	t.Helper()
	scenario, err := sim.New(cfg)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}

	p := &vitals.Pipeline{}
	vcfg := vitals.DefaultConfiguration()
	vcfg.Enabled = true
	vcfg.RangeBinStart = cfg.TargetRangeBin
	vcfg.NumRangeBins = 1
	if err := p.Init(vcfg); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < cfg.NumFrames; i++ {
		cube := scenario.Frame(i)
		if err := p.ProcessFrame(cube, cfg.TargetRangeBin); err != nil {
			t.Fatalf("ProcessFrame(%d): %v", i, err)
		}
	}

	res, err := p.GetOutput()
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	return res
}

// TestScenarioWarmupGatesOutputInvalid asserts that before M_WARMUP
// refreshes have elapsed, the published result must be invalid.
func TestScenarioWarmupGatesOutputInvalid(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.NumFrames = vitals.MRefresh*vitals.MWarmup - 1
	res := runScenario(t, cfg)
	if res.Valid {
		t.Fatalf("expected output to remain invalid before warm-up completes")
	}
}

// TestScenarioBreathingProducesValidPhysiologicalOutput asserts that a
// long-running stationary-breathing scenario clears warm-up and reports a
// breathing rate within the plausible human range once valid.
func TestScenarioBreathingProducesValidPhysiologicalOutput(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.HeartAmplitude = 0 // isolate breathing
	cfg.NumFrames = vitals.NFrame * 6
	res := runScenario(t, cfg)

	if !res.Valid {
		t.Fatalf("expected valid output after a long warm-up run")
	}
	if res.BreathingRate <= 0 || res.BreathingRate > 60 {
		t.Fatalf("breathing rate outside plausible range: got=%v", res.BreathingRate)
	}
}

// TestScenarioHeartToneProducesValidPhysiologicalOutput asserts that a pure
// 1.2 Hz (~72 bpm) heart tone with no breathing component resolves to a
// heart-rate index near 82, within one K_BPM step of 82*K_BPM.
func TestScenarioHeartToneProducesValidPhysiologicalOutput(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.BreathingAmplitude = 0 // isolate heart tone
	cfg.HeartHz = 1.2
	cfg.NumFrames = vitals.NFrame * 6
	res := runScenario(t, cfg)

	if !res.Valid {
		t.Fatalf("expected valid output after a long warm-up run")
	}
	want := float64(82) * vitals.KBPM
	if diff := absF(float64(res.HeartRate) - want); diff > vitals.KBPM {
		t.Fatalf("heart rate %v too far from expected %v (diff=%v, tolerance=%v)", res.HeartRate, want, diff, vitals.KBPM)
	}
}

// TestScenarioTargetLossGatesOutputInvalid asserts that once the target is
// reported lost on T_PERSIST consecutive per-frame HandleTargetLoss calls,
// the next refresh publishes a result gated invalid.
func TestScenarioTargetLossGatesOutputInvalid(t *testing.T) {
	cfg := sim.DefaultConfig()
	cfg.TargetLossStartFrame = vitals.NFrame * 3 // a refresh-aligned offset (12 refreshes in)
	cfg.TargetLossFrames = vitals.TPersist + vitals.MRefresh
	// Stop processing one refresh after the persistence threshold trips, but
	// still inside the loss span -- the published result must reflect the
	// gated-invalid state and not yet have recovered.
	cfg.NumFrames = cfg.TargetLossStartFrame + cfg.TargetLossFrames - 1
	cfg.NoiseFloor = 1

	scenario, err := sim.New(cfg)
	if err != nil {
		t.Fatalf("sim.New: %v", err)
	}
	p := &vitals.Pipeline{}
	vcfg := vitals.DefaultConfiguration()
	vcfg.Enabled = true
	vcfg.RangeBinStart = cfg.TargetRangeBin
	vcfg.NumRangeBins = 1
	if err := p.Init(vcfg); err != nil {
		t.Fatalf("Init: %v", err)
	}

	lossStart := cfg.TargetLossStartFrame
	lossEnd := lossStart + cfg.TargetLossFrames
	for i := 0; i < cfg.NumFrames; i++ {
		cube := scenario.Frame(i)
		if err := p.ProcessFrame(cube, cfg.TargetRangeBin); err != nil {
			t.Fatalf("ProcessFrame(%d): %v", i, err)
		}
		lost := i >= lossStart && i < lossEnd
		p.HandleTargetLoss(lost)
	}

	res, err := p.GetOutput()
	if err != nil {
		t.Fatalf("GetOutput: %v", err)
	}
	if res.Valid {
		t.Fatalf("expected output gated invalid immediately after a sustained target-loss span")
	}
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

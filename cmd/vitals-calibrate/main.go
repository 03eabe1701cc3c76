// Command vitals-calibrate fits the decision stage's histogram tap weights
// against a synthetic reference scenario using a population-based optimizer.
// It is an offline diagnostic companion: the shipped pipeline always uses
// the literal unweighted 3-tap/5-tap windows (vitals.DecisionWeights is nil
// unless a caller opts in explicitly), so this tool's fitted weights are
// advisory, not a build input.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-radar-vitals/internal/numeric"
	"github.com/cwbudde/algo-radar-vitals/metrics"
	"github.com/cwbudde/algo-radar-vitals/sim"
	"github.com/cwbudde/algo-radar-vitals/vitals"
)

const (
	tapWeightMin = 0.2
	tapWeightMax = 2.0
	numKnobs     = 8 // 3 breathing taps + 5 heart taps
)

func main() {
	numFrames := flag.Int("frames", vitals.MRefresh*vitals.MWarmup*6, "synthetic frames to evaluate each candidate over")
	breathingBPM := flag.Float64("breathing-bpm", 16.0, "reference scenario breathing rate in breaths/min")
	heartBPM := flag.Float64("heart-bpm", 70.0, "reference scenario heart rate in beats/min")
	noiseFloor := flag.Float64("noise-floor", 20.0, "Q15-scale additive noise stddev")
	seed := flag.Int64("seed", 1, "RNG seed for the evaluation scenario")
	pop := flag.Int("pop", 20, "mayfly population size")
	iterations := flag.Int("iterations", 40, "mayfly iterations")
	flag.Parse()

	cfg := sim.DefaultConfig()
	cfg.NumFrames = *numFrames
	cfg.BreathingHz = *breathingBPM / 60.0
	cfg.HeartHz = *heartBPM / 60.0
	cfg.NoiseFloor = *noiseFloor
	cfg.Seed = *seed

	reference := buildReferenceTrace(cfg)

	start := vitals.DefaultDecisionWeights()
	startVals := []float64{
		start.BreathingTaps[0], start.BreathingTaps[1], start.BreathingTaps[2],
		start.HeartTaps[0], start.HeartTaps[1], start.HeartTaps[2], start.HeartTaps[3], start.HeartTaps[4],
	}
	startScore := evaluate(startVals, cfg, reference)
	fmt.Printf("Start (unit weights) score=%.4f\n", startScore)

	mayflyConfig := mayfly.NewDefaultConfig()
	mayflyConfig.ProblemSize = numKnobs
	mayflyConfig.LowerBound = 0.0
	mayflyConfig.UpperBound = 1.0
	mayflyConfig.MaxIterations = *iterations
	mayflyConfig.NPop = *pop
	mayflyConfig.NPopF = *pop
	mayflyConfig.NC = 2 * *pop
	mayflyConfig.NM = numeric.MaxInt(1, *pop/20)
	mayflyConfig.Rand = rand.New(rand.NewSource(*seed))

	bestScore := startScore
	bestVals := startVals
	mayflyConfig.ObjectiveFunc = func(pos []float64) float64 {
		vals := fromNormalized(pos)
		score := evaluate(vals, cfg, reference)
		if score < bestScore {
			bestScore = score
			bestVals = vals
			fmt.Printf("Improved score=%.4f weights=%v\n", bestScore, bestVals)
		}
		return score
	}

	if _, err := runMayfly(mayflyConfig); err != nil {
		fmt.Fprintf(os.Stderr, "vitals-calibrate: optimization failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Final fitted decision weights (advisory only, not used by the shipped pipeline):")
	fmt.Printf("  breathing 3-tap: [%.4f %.4f %.4f]\n", bestVals[0], bestVals[1], bestVals[2])
	fmt.Printf("  heart 5-tap:     [%.4f %.4f %.4f %.4f %.4f]\n", bestVals[3], bestVals[4], bestVals[5], bestVals[6], bestVals[7])
	fmt.Printf("  score=%.4f (lower is better, start=%.4f)\n", bestScore, startScore)
}

// buildReferenceTrace is the ground-truth per-refresh trace: the scenario's
// known constant breathing/heart rate, valid from the first post-warmup
// refresh onward. It is what a perfectly-tuned decision stage would report.
func buildReferenceTrace(cfg sim.Config) []vitals.Result {
	refreshes := cfg.NumFrames / vitals.MRefresh
	out := make([]vitals.Result, refreshes)
	for i := range out {
		valid := i >= vitals.MWarmup
		out[i] = vitals.Result{
			Valid:         valid,
			BreathingRate: float32(cfg.BreathingHz * 60.0),
			HeartRate:     float32(cfg.HeartHz * 60.0),
		}
	}
	return out
}

// evaluate runs the scenario through a freshly-initialized pipeline with the
// candidate tap weights installed and scores the resulting trace against
// reference via the trace-metrics distance.
func evaluate(vals []float64, cfg sim.Config, reference []vitals.Result) float64 {
	scenario, err := sim.New(cfg)
	if err != nil {
		return 1.0
	}

	pcfg := vitals.DefaultConfiguration()
	pcfg.Enabled = true
	pcfg.RangeBinStart = cfg.TargetRangeBin
	pcfg.NumRangeBins = vitals.RSel

	var p vitals.Pipeline
	if err := p.Init(pcfg); err != nil {
		return 1.0
	}
	weights := vitals.DecisionWeights{
		BreathingTaps: [3]float64{vals[0], vals[1], vals[2]},
		HeartTaps:     [5]float64{vals[3], vals[4], vals[5], vals[6], vals[7]},
	}
	p.SetDecisionWeights(&weights)

	candidate := make([]vitals.Result, 0, len(reference))
	for t := 0; t < cfg.NumFrames; t++ {
		cube := scenario.Frame(t)
		if err := p.ProcessFrame(cube, cfg.TargetRangeBin); err != nil {
			return 1.0
		}
		if (t+1)%vitals.MRefresh != 0 {
			continue
		}
		res, err := p.GetOutput()
		if err != nil {
			return 1.0
		}
		candidate = append(candidate, res)
	}

	trace := metrics.Compare(reference, candidate)
	return trace.Score
}

func fromNormalized(pos []float64) []float64 {
	vals := make([]float64, numKnobs)
	for i := range vals {
		x := 0.0
		if i < len(pos) {
			x = numeric.Clamp(pos[i], 0, 1)
		}
		vals[i] = tapWeightMin + x*(tapWeightMax-tapWeightMin)
	}
	return vals
}

func runMayfly(cfg *mayfly.Config) (_ *mayfly.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mayfly panic: %v", r)
		}
	}()
	return mayfly.Optimize(cfg)
}

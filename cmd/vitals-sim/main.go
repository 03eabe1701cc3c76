package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-radar-vitals/sim"
	"github.com/cwbudde/algo-radar-vitals/vitals"
)

func main() {
	numFrames := flag.Int("frames", 4096, "number of synthetic radar frames to generate")
	targetRangeBin := flag.Int("target-range-bin", 20, "range bin the synthetic target sits in")
	breathingBPM := flag.Float64("breathing-bpm", 16.0, "synthetic breathing rate in breaths/min")
	heartBPM := flag.Float64("heart-bpm", 70.0, "synthetic heart rate in beats/min")
	noiseFloor := flag.Float64("noise-floor", 20.0, "Q15-scale additive noise stddev")
	frameRateHz := flag.Float64("frame-rate", 20.0, "radar frame rate in Hz")
	seed := flag.Int64("seed", 1, "RNG seed for reproducible scenarios")
	rangeBinStart := flag.Int("range-bin-start", 20, "pipeline configuration: first ingested range bin")
	numRangeBins := flag.Int("num-range-bins", vitals.RSel, "pipeline configuration: number of ingested range bins")
	rangeResolution := flag.Float64("range-resolution", 0.044, "pipeline configuration: meters per range bin")
	flag.Parse()

	cfg := sim.DefaultConfig()
	cfg.NumFrames = *numFrames
	cfg.TargetRangeBin = *targetRangeBin
	cfg.BreathingHz = *breathingBPM / 60.0
	cfg.HeartHz = *heartBPM / 60.0
	cfg.NoiseFloor = *noiseFloor
	cfg.FrameRateHz = *frameRateHz
	cfg.Seed = *seed

	scenario, err := sim.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vitals-sim: invalid scenario: %v\n", err)
		os.Exit(1)
	}

	pcfg := vitals.DefaultConfiguration()
	pcfg.Enabled = true
	pcfg.RangeBinStart = *rangeBinStart
	pcfg.NumRangeBins = *numRangeBins
	pcfg.RangeResolution = float32(*rangeResolution)

	var p vitals.Pipeline
	if err := p.Init(pcfg); err != nil {
		fmt.Fprintf(os.Stderr, "vitals-sim: pipeline init failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Running %d frames (breathing %.1f bpm, heart %.1f bpm, target range bin %d)...\n",
		cfg.NumFrames, *breathingBPM, *heartBPM, cfg.TargetRangeBin)

	refreshes := 0
	for t := 0; t < cfg.NumFrames; t++ {
		cube := scenario.Frame(t)
		if err := p.ProcessFrame(cube, cfg.TargetRangeBin); err != nil {
			fmt.Fprintf(os.Stderr, "vitals-sim: frame %d: %v\n", t, err)
			os.Exit(1)
		}
		if (t+1)%vitals.MRefresh != 0 {
			continue
		}
		refreshes++
		res, err := p.GetOutput()
		if err != nil {
			fmt.Fprintf(os.Stderr, "vitals-sim: frame %d: %v\n", t, err)
			os.Exit(1)
		}
		fmt.Printf("refresh %4d frame %6d  valid=%-5v heart=%6.2f bpm breathing=%6.2f bpm deviation=%8.4f rangeBin=%d\n",
			refreshes, t, res.Valid, res.HeartRate, res.BreathingRate, res.BreathingDeviation, res.RangeBin)
	}

	fmt.Printf("Done: %d frames, %d refreshes, output ready=%v\n", cfg.NumFrames, refreshes, p.IsOutputReady())
}

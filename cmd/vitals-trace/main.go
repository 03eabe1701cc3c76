package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/wav"
	"github.com/go-audio/audio"

	"github.com/cwbudde/algo-radar-vitals/sim"
	"github.com/cwbudde/algo-radar-vitals/vitals"
)

func main() {
	numFrames := flag.Int("frames", vitals.NFrame*4, "number of synthetic radar frames to generate")
	targetRangeBin := flag.Int("target-range-bin", 20, "range bin the synthetic target sits in")
	breathingBPM := flag.Float64("breathing-bpm", 16.0, "synthetic breathing rate in breaths/min")
	heartBPM := flag.Float64("heart-bpm", 70.0, "synthetic heart rate in beats/min")
	noiseFloor := flag.Float64("noise-floor", 20.0, "Q15-scale additive noise stddev")
	frameRateHz := flag.Float64("frame-rate", 20.0, "radar frame rate in Hz")
	seed := flag.Int64("seed", 1, "RNG seed for reproducible scenarios")
	output := flag.String("output", "residual.wav", "output WAV path for the breathing-cell phase residual trace")
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
		fmt.Fprintf(os.Stderr, "vitals-trace: invalid scenario: %v\n", err)
		os.Exit(1)
	}

	pcfg := vitals.DefaultConfiguration()
	pcfg.Enabled = true
	pcfg.RangeBinStart = *targetRangeBin
	pcfg.NumRangeBins = vitals.RSel

	var p vitals.Pipeline
	if err := p.Init(pcfg); err != nil {
		fmt.Fprintf(os.Stderr, "vitals-trace: pipeline init failed: %v\n", err)
		os.Exit(1)
	}

	var samples []float32
	for t := 0; t < cfg.NumFrames; t++ {
		cube := scenario.Frame(t)
		if err := p.ProcessFrame(cube, cfg.TargetRangeBin); err != nil {
			fmt.Fprintf(os.Stderr, "vitals-trace: frame %d: %v\n", t, err)
			os.Exit(1)
		}
		if (t+1)%vitals.NFrame != 0 {
			continue
		}
		residual, err := p.BreathingResidual()
		if err != nil {
			fmt.Fprintf(os.Stderr, "vitals-trace: frame %d: %v\n", t, err)
			os.Exit(1)
		}
		samples = append(samples, residual...)
	}

	// The residual is radians of unwrapped phase per frame, not PCM; scale
	// so a typical breathing swing (roughly +-1 rad) sits well inside the
	// 16-bit full-scale range the encoder expects.
	const residualToFullScale = 1.0 / 3.2

	for i := range samples {
		samples[i] *= residualToFullScale
	}

	if err := writeMonoWAV(*output, samples, int(cfg.FrameRateHz)); err != nil {
		fmt.Fprintf(os.Stderr, "vitals-trace: wav write error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s: %d residual samples (%d cycles) at %d Hz\n", *output, len(samples), len(samples)/vitals.NFrame, int(cfg.FrameRateHz))
}

func writeMonoWAV(path string, samples []float32, sampleRate int) error {
	if sampleRate < 1 {
		sampleRate = 1
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	defer enc.Close()

	buf := &audio.Float32Buffer{
		Format: &audio.Format{
			SampleRate:  sampleRate,
			NumChannels: 1,
		},
		Data:           samples,
		SourceBitDepth: 16,
	}
	return enc.Write(buf)
}

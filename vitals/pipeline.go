// Package vitals implements the radar vital-signs detector core: per-frame
// extraction and DC tracking, the two-dimensional angle-FFT stage with
// peak-bin tracking, multi-frame phase accumulation and unwrapping,
// per-cell spectrum analysis with breathing and heart-rate detection, and
// temporal smoothing / jump-limiting decision logic.
//
// Pipeline is an owned value created by Init; there is no package-level
// mutable state, so independent pipelines can run concurrently with each
// other (though a single Pipeline is not safe for concurrent use -- see
// SynchronizedPipeline).
package vitals

import (
	"math"

	"github.com/cwbudde/algo-radar-vitals/geometry"
	"github.com/cwbudde/algo-radar-vitals/radarmath"
)

// Pipeline is the control surface and owner of all pipeline state and
// buffers described in the data model. All buffers are statically sized at
// Init and never reallocated; ProcessFrame performs no allocation.
type Pipeline struct {
	initialized bool
	cfg         Configuration
	geom        geometry.Array

	twAngle    *radarmath.Table
	twSpectrum *radarmath.Table

	extract []complex64 // RSel*RVA, this frame's raw window
	working []complex64 // RSel*RVA, DC-removed window
	dc      *dcTracker

	angleGrid  []complex64 // AFFT*AFFT scratch grid
	angleTemp  []complex64 // AFFT*AFFT scratch (transpose + column FFT)
	rowScratch []complex64 // AFFT, reused per row/column FFT
	angleMag   []float32   // AFFT*AFFT cycle magnitude accumulator
	cycleBuf   []complex64 // NFrame*RSel*ASel ring buffer of tracked-peak neighborhoods

	residual [][]float32 // ASel*RSel, each NFrame long: unwrapped phase residual per cell

	spectrumScratch []complex64 // PFFT, reused per cell
	spectrumMag     []float32   // PFFT, reused per cell
	hps             []float32   // hpsLen, reused per cell
	hpsWork         []float32   // hpsLen, scratch for the 5-strongest-peaks extraction

	breathIdx []int // ASel*RSel
	heartIdx1 []int
	heartIdx2 []int
	heartIdx3 []int

	sBr []float32 // PFFT, per-cycle accumulated breathing spectrum (diagnostic)
	sHr []float32 // hpsLen, per-cycle accumulated harmonic-product spectrum

	breathHist []int // PFFT
	heartHist  []int // PFFT

	vsDataCount       int
	vsLoop            int
	activeRangeBin    int
	lastPeakI         int
	lastPeakJ         int
	targetLostCount   int
	indicateNoTarget  bool
	previousHeartPeak [4]int

	lastResult Result

	decisionWeights *DecisionWeights // calibration-tool override; nil = literal spec windows
}

// Init copies cfg, allocates and clears every buffer, generates the A_FFT
// and P_FFT twiddle tables, and initializes the antenna geometry. It is the
// only place buffers are allocated.
func (p *Pipeline) Init(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	p.cfg = cfg
	p.geom = geometry.Default()
	p.twAngle = radarmath.NewTable(AFFT)
	p.twSpectrum = radarmath.NewTable(PFFT)

	p.extract = make([]complex64, RSel*RVA)
	p.working = make([]complex64, RSel*RVA)
	p.dc = newDCTracker()

	p.angleGrid = make([]complex64, AFFT*AFFT)
	p.angleTemp = make([]complex64, AFFT*AFFT)
	p.rowScratch = make([]complex64, AFFT)
	p.angleMag = make([]float32, AFFT*AFFT)
	p.cycleBuf = make([]complex64, NFrame*RSel*ASel)

	p.residual = make([][]float32, ASel*RSel)
	for i := range p.residual {
		p.residual[i] = make([]float32, NFrame)
	}

	p.spectrumScratch = make([]complex64, PFFT)
	p.spectrumMag = make([]float32, PFFT)
	p.hps = make([]float32, hpsLen)
	p.hpsWork = make([]float32, hpsLen)

	p.breathIdx = make([]int, ASel*RSel)
	p.heartIdx1 = make([]int, ASel*RSel)
	p.heartIdx2 = make([]int, ASel*RSel)
	p.heartIdx3 = make([]int, ASel*RSel)

	p.sBr = make([]float32, PFFT)
	p.sHr = make([]float32, hpsLen)

	p.breathHist = make([]int, PFFT)
	p.heartHist = make([]int, PFFT)

	p.initialized = true
	p.resetState()
	return nil
}

// UpdateConfig copies a new configuration and resets pipeline state
// (equivalent to Reset without discarding twiddles/geometry).
func (p *Pipeline) UpdateConfig(cfg Configuration) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	p.cfg = cfg
	p.resetState()
	return nil
}

// Reset clears counters, peak indices, history, DC buffers, and the angle
// accumulator; it keeps config and twiddles.
func (p *Pipeline) Reset() error {
	if !p.initialized {
		return ErrNotInitialized
	}
	p.resetState()
	return nil
}

func (p *Pipeline) resetState() {
	p.dc.reset()
	for i := range p.angleMag {
		p.angleMag[i] = 0
	}
	for i := range p.cycleBuf {
		p.cycleBuf[i] = 0
	}
	for _, s := range p.residual {
		for i := range s {
			s[i] = 0
		}
	}
	p.vsDataCount = 0
	p.vsLoop = 0
	p.activeRangeBin = 0
	p.lastPeakI = 0
	p.lastPeakJ = 0
	p.targetLostCount = 0
	p.indicateNoTarget = false
	p.previousHeartPeak = [4]int{}
	p.lastResult = Result{}
}

// ProcessFrame runs one radar frame through the pipeline. It silently
// returns OK (nil) when the pipeline is disabled.
func (p *Pipeline) ProcessFrame(cube *Cube, hintBin int) error {
	if !p.initialized {
		return ErrNotInitialized
	}
	if !p.cfg.Enabled {
		return nil
	}

	resolvedHint := p.cfg.hintBin(hintBin)
	if err := p.ingestFrame(cube, resolvedHint); err != nil {
		return err
	}

	p.dc.apply(p.extract, p.working)
	p.angleStageFrame()

	if p.vsDataCount == NFrame-1 {
		p.dc.finalizeCycle()
		p.scanPeakAndReset()
	}

	p.vsDataCount = (p.vsDataCount + 1) % NFrame

	if p.vsLoop == 0 && p.vsDataCount == 1 {
		p.scanPeakAndReset()
	}

	if p.vsDataCount%MRefresh == 0 {
		p.phaseStage()
		p.spectrumStage()
		p.decisionStage()
		p.vsLoop++
	}

	return nil
}

// GetOutput copies the latest result atomically with respect to
// ProcessFrame (the caller must serialize the two calls itself, or use
// SynchronizedPipeline).
func (p *Pipeline) GetOutput() (Result, error) {
	if !p.initialized {
		return Result{}, ErrNotInitialized
	}
	return p.lastResult, nil
}

// BreathingResidual copies out the current cycle's unwrapped phase-residual
// series for the reference breathing cell (the same cell breathingDeviation
// reads), one sample per frame of the N_FRAME cycle. It is a diagnostic
// accessor for host tooling -- ProcessFrame does not read it back.
func (p *Pipeline) BreathingResidual() ([]float32, error) {
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	series := p.residual[cellIndex(devAngleCell, devRangeCell)]
	out := make([]float32, len(series))
	copy(out, series)
	return out, nil
}

// IsOutputReady reports whether the pipeline is initialized, past warm-up,
// and currently reporting a valid result.
func (p *Pipeline) IsOutputReady() bool {
	return p.initialized && p.vsLoop >= MWarmup && p.lastResult.Valid
}

// HandleTargetLoss applies the target-loss persistence policy: after
// T_PERSIST consecutive lost==true calls, indicateNoTarget is set and the
// result is gated invalid until a lost==false call clears it. It returns
// whether the pipeline should continue operating (always true; target loss
// is not a fatal condition).
func (p *Pipeline) HandleTargetLoss(lost bool) bool {
	if !lost {
		p.targetLostCount = 0
		p.indicateNoTarget = false
		return true
	}
	p.targetLostCount++
	if p.targetLostCount >= TPersist {
		p.indicateNoTarget = true
	}
	return true
}

// RangeBinFromPosition converts a Cartesian position (x, y) to a range bin
// using the configured range resolution: floor(sqrt(x^2+y^2)/rangeRes).
// Returns 0 if rangeRes <= 0.
func RangeBinFromPosition(x, y, rangeRes float32) int {
	if rangeRes <= 0 {
		return 0
	}
	return int(float32(math.Sqrt(float64(x*x+y*y))) / rangeRes)
}

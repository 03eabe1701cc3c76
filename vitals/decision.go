package vitals

// decisionStage runs once per refresh after every (angle, range) cell has
// been processed by the spectrum stage. It votes on breathing and heart
// indices, applies correlation-with-history and jump limiting to the heart
// peak, computes the breathing-deviation variance, and assembles the
// published Result. p.vsLoop still holds the pre-increment refresh count
// when this runs; pipeline.go increments it afterward.
func (p *Pipeline) decisionStage() {
	breathHistIndex := p.voteBreathing()
	heartPeak := p.voteHeart()

	valid := p.vsLoop >= MWarmup && !p.indicateNoTarget

	var res Result
	res.ID = 0
	if p.cfg.TrackerIntegration {
		res.ID = uint16(p.cfg.TargetID)
	}
	res.Valid = valid
	if valid {
		res.RangeBin = uint16(p.activeRangeBin)
		res.BreathingRate = float32(breathHistIndex) * KBPM
		res.HeartRate = float32(heartPeak) * KBPM
		res.BreathingDeviation = p.breathingDeviation()
	}

	p.lastResult = res
}

// voteBreathing builds a histogram of per-cell breathing peak indices and
// returns the 3-tap argmax over [B_LO, B_HI). When decisionWeights is set
// (calibration tooling only -- see SetDecisionWeights) the 3-tap window is
// weighted instead of the literal unweighted sum.
func (p *Pipeline) voteBreathing() int {
	for i := range p.breathHist {
		p.breathHist[i] = 0
	}
	for _, idx := range p.breathIdx {
		p.breathHist[idx]++
	}
	if p.decisionWeights != nil {
		return weightedArgmax3TapInt(p.breathHist, BLo, BHi, p.decisionWeights.BreathingTaps)
	}
	return argmax3TapInt(p.breathHist, BLo, BHi)
}

// voteHeart combines histogram voting, harmonic-product peak correlation
// with history, and the jump limiter into the published heart-rate index.
// It also advances the heart-peak history according to the refresh-count
// gates below (history reset on the first refresh, held steady until the
// fifth, then shifted every refresh after).
func (p *Pipeline) voteHeart() int {
	for i := range p.heartHist {
		p.heartHist[i] = 0
	}
	for a := 0; a < ASel; a++ {
		for r := 1; r < RSel-1; r++ { // discard edge range cells (0, RSel-1)
			cell := cellIndex(a, r)
			p.heartHist[p.heartIdx1[cell]]++
			p.heartHist[p.heartIdx2[cell]]++
		}
	}
	var heartHistIndex int
	if p.decisionWeights != nil {
		heartHistIndex = weightedArgmax5TapInt(p.heartHist, HLo, HHi, p.decisionWeights.HeartTaps)
	} else {
		heartHistIndex = argmax5TapInt(p.heartHist, HLo, HHi)
	}

	copy(p.hpsWork, p.sHr)
	var present [5]int
	for i := range present {
		present[i] = argmax3Tap(p.hpsWork, 1, hpsLen-1)
		zeroPeakNeighborhood(p.hpsWork, present[i])
	}

	prevPeak := p.previousHeartPeak[3]
	bestI := 0
	bestDiff := absInt(present[0] - prevPeak)
	for i := 1; i < len(present); i++ {
		d := absInt(present[i] - prevPeak)
		if d < bestDiff {
			bestDiff = d
			bestI = i
		}
	}

	var heartPeak int
	if bestDiff < DCorr {
		heartPeak = present[bestI]
	} else {
		heartPeak = heartHistIndex
	}

	if p.vsLoop > MWarmup {
		if diff := heartPeak - p.previousHeartPeak[0]; diff > JMax {
			heartPeak = p.previousHeartPeak[0] + JMax
		} else if diff < -JMax {
			heartPeak = p.previousHeartPeak[0] - JMax
		}
	}

	switch {
	case p.vsLoop > 4:
		p.previousHeartPeak[3] = p.previousHeartPeak[2]
		p.previousHeartPeak[2] = p.previousHeartPeak[1]
		p.previousHeartPeak[1] = p.previousHeartPeak[0]
		p.previousHeartPeak[0] = heartPeak
	case p.vsLoop == 0:
		p.previousHeartPeak = [4]int{}
	}

	return heartPeak
}

// breathingDeviation computes E[x^2] - E[x]^2 over the last-40-sample window
// of the fixed reference cell (angle cell 5, range cell 3, samples 59..98).
func (p *Pipeline) breathingDeviation() float32 {
	window := p.residual[cellIndex(devAngleCell, devRangeCell)][devStart:devEnd]
	var sum, sumSq float32
	for _, x := range window {
		sum += x
		sumSq += x * x
	}
	n := float32(len(window))
	mean := sum / n
	meanSq := sumSq / n
	return meanSq - mean*mean
}

// DecisionWeights overrides the unit weights voteBreathing/voteHeart apply
// across their 3-tap and 5-tap histogram windows. It exists purely for
// offline calibration tooling (see cmd/vitals-calibrate); the shipped
// pipeline never sets it, so ProcessFrame's published behavior is always the
// spec's literal unweighted windows unless a caller opts in explicitly.
type DecisionWeights struct {
	BreathingTaps [3]float64
	HeartTaps     [5]float64
}

// DefaultDecisionWeights returns the unit weights equivalent to the
// unweighted literal windows.
func DefaultDecisionWeights() DecisionWeights {
	return DecisionWeights{
		BreathingTaps: [3]float64{1, 1, 1},
		HeartTaps:     [5]float64{1, 1, 1, 1, 1},
	}
}

// SetDecisionWeights installs calibration-tool tap weights. Pass nil to
// restore the literal unweighted behavior.
func (p *Pipeline) SetDecisionWeights(w *DecisionWeights) {
	p.decisionWeights = w
}

func weightedArgmax3TapInt(s []int, lo, hi int, w [3]float64) int {
	best := -1
	bestVal := -1.0
	for k := lo; k < hi; k++ {
		v := w[0]*float64(s[k-1]) + w[1]*float64(s[k]) + w[2]*float64(s[k+1])
		if v > bestVal {
			bestVal = v
			best = k
		}
	}
	return best
}

func weightedArgmax5TapInt(s []int, lo, hi int, w [5]float64) int {
	best := -1
	bestVal := -1.0
	for k := lo; k < hi; k++ {
		v := w[0]*float64(s[k-2]) + w[1]*float64(s[k-1]) + w[2]*float64(s[k]) + w[3]*float64(s[k+1]) + w[4]*float64(s[k+2])
		if v > bestVal {
			bestVal = v
			best = k
		}
	}
	return best
}

func argmax3TapInt(s []int, lo, hi int) int {
	best := -1
	bestVal := -1
	for k := lo; k < hi; k++ {
		v := s[k-1] + s[k] + s[k+1]
		if v > bestVal {
			bestVal = v
			best = k
		}
	}
	return best
}

func argmax5TapInt(s []int, lo, hi int) int {
	best := -1
	bestVal := -1
	for k := lo; k < hi; k++ {
		v := s[k-2] + s[k-1] + s[k] + s[k+1] + s[k+2]
		if v > bestVal {
			bestVal = v
			best = k
		}
	}
	return best
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package vitals

import "github.com/cwbudde/algo-radar-vitals/radarmath"

// spectrumStage runs the P_FFT spectrum FFT for every (angle, range) cell,
// detects the breathing peak, and runs harmonic-product heart detection.
//
// The heart harmonic-product scan is bounded to k in [H_LO, H_HI-1) rather
// than the full [H_LO, H_HI) band: at k = H_HI-1 the 3-tap window would read
// HPS[H_HI], one past the end of the [0, P_FFT/4) harmonic-product domain.
// This resolves the open question in the specification about bounds-checking
// the peak +/-1 dereference.
func (p *Pipeline) spectrumStage() {
	for i := range p.sBr {
		p.sBr[i] = 0
	}
	for i := range p.sHr {
		p.sHr[i] = 0
	}

	for a := 0; a < ASel; a++ {
		for r := 0; r < RSel; r++ {
			cell := cellIndex(a, r)
			series := p.residual[cell]

			for k := 0; k < PFFT; k++ {
				if k < NFrame {
					p.spectrumScratch[k] = complex(series[k], 0)
				} else {
					p.spectrumScratch[k] = 0
				}
			}
			radarmath.Forward(p.spectrumScratch, p.twSpectrum)
			for k := 0; k < PFFT; k++ {
				p.spectrumMag[k] = radarmath.MagSq(p.spectrumScratch[k])
			}

			p.breathIdx[cell] = argmax3Tap(p.spectrumMag, BLo, BHi)
			for k := BLo; k < BHi; k++ {
				p.sBr[k] += p.spectrumMag[k]
			}

			for k := 0; k < hpsLen; k++ {
				p.hps[k] = p.spectrumMag[2*k] * p.spectrumMag[k]
			}
			for k := 0; k < hpsLen; k++ {
				p.sHr[k] += p.hps[k]
			}

			p.heartIdx1[cell] = argmax3Tap(p.hps, HLo, HHi-1)
			zeroPeakNeighborhood(p.hps, p.heartIdx1[cell])
			p.heartIdx2[cell] = argmax3Tap(p.hps, HLo, HHi-1)
			zeroPeakNeighborhood(p.hps, p.heartIdx2[cell])
			p.heartIdx3[cell] = argmax3Tap(p.hps, HLo, HHi-1)
		}
	}
}

// argmax3Tap returns the index k in [lo, hi) maximizing s[k-1]+s[k]+s[k+1].
func argmax3Tap(s []float32, lo, hi int) int {
	best := -1
	var bestVal float32
	for k := lo; k < hi; k++ {
		v := s[k-1] + s[k] + s[k+1]
		if best == -1 || v > bestVal {
			best = k
			bestVal = v
		}
	}
	return best
}

func zeroPeakNeighborhood(s []float32, peak int) {
	if peak < 0 {
		return
	}
	if peak-1 >= 0 {
		s[peak-1] = 0
	}
	s[peak] = 0
	if peak+1 < len(s) {
		s[peak+1] = 0
	}
}

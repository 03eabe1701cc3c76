package vitals

import (
	"math"

	"github.com/cwbudde/algo-radar-vitals/radarmath"
)

const twoPi = 2 * math.Pi

// phaseStage reads, for every (angle cell, range cell) pair, the N_FRAME-long
// time series stored in the cycle buffer, unwraps its phase, and writes the
// first-difference residual series into p.residual[cell] for the spectrum
// stage to consume.
func (p *Pipeline) phaseStage() {
	for a := 0; a < ASel; a++ {
		for r := 0; r < RSel; r++ {
			cell := cellIndex(a, r)
			series := p.residual[cell]

			var unwrapPrev, phiPrev float32
			var c float32
			for t := 0; t < NFrame; t++ {
				slot := (p.vsDataCount + t) % NFrame
				idx := slot*RSel*ASel + r*ASel + a
				s := p.cycleBuf[idx]
				phi := radarmath.Atan2(imag(s), real(s))

				var unwrapped float32
				if t == 0 {
					unwrapped = phi
					series[0] = 0
				} else {
					dphi := phi - phiPrev
					m := float32(0)
					if dphi > math.Pi {
						m = 1
					} else if dphi < -math.Pi {
						m = -1
					}
					dphiMod := dphi - float32(twoPi)*m
					if dphiMod == -math.Pi && dphi > 0 {
						dphiMod = math.Pi
					}
					corr := dphiMod - dphi
					if absf32(corr) < math.Pi && corr != 0 {
						corr = 0
					}
					c += corr
					unwrapped = phi + c
					series[t] = unwrapped - unwrapPrev
				}

				phiPrev = phi
				unwrapPrev = unwrapped
			}
		}
	}
}

func absf32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

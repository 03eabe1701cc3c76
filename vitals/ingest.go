package vitals

// Cube is the upstream range-FFT cube slice for a single frame: Q15 complex
// samples addressable by (rangeBin, virtualAntenna). Data is laid out
// range-bin-major, and within each range bin the upstream convention stores
// the imaginary part before the real part -- this file is the single site
// that knows about that ordering; everything downstream treats samples as
// abstract complex floats.
type Cube struct {
	NumRangeBins int
	NumVA        int
	Data         []int16 // len == NumRangeBins*NumVA*2, (imag, real) pairs
}

// sample reads the (imag, real) Q15 pair at (rangeBin, va) and converts it
// to a complex64 verbatim (no scaling).
func (c *Cube) sample(rangeBin, va int) complex64 {
	base := (rangeBin*c.NumVA + va) * 2
	im := float32(c.Data[base])
	re := float32(c.Data[base+1])
	return complex(re, im)
}

// ingestFrame copies an R_SEL x R_VA window of the cube, centered on
// hintBin, into p.extract. The window is clamped so it always fits within
// the cube's range-bin extent.
func (p *Pipeline) ingestFrame(cube *Cube, hintBin int) error {
	if cube == nil || cube.Data == nil {
		return ErrInvalidCube
	}
	if cube.NumRangeBins <= RSel {
		return ErrInvalidCube
	}

	start := hintBin - RSel/2
	if start < 0 {
		start = 0
	}
	if max := cube.NumRangeBins - RSel; start > max {
		start = max
	}
	p.activeRangeBin = hintBin

	for rb := 0; rb < RSel; rb++ {
		for v := 0; v < RVA; v++ {
			if v >= cube.NumVA {
				p.extract[rb*RVA+v] = 0
				continue
			}
			p.extract[rb*RVA+v] = cube.sample(start+rb, v)
		}
	}
	return nil
}

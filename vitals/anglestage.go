package vitals

import "github.com/cwbudde/algo-radar-vitals/radarmath"

// angleStageFrame runs the two nested A_FFT FFTs for every range cell, adds
// the resulting magnitude-squared into the per-cycle accumulator, and stores
// the toroidal 3x3 neighborhood around the tracked peak into the cycle
// buffer slot for this frame.
func (p *Pipeline) angleStageFrame() {
	for r := 0; r < RSel; r++ {
		for i := range p.angleGrid {
			p.angleGrid[i] = 0
		}
		for v := 0; v < RVA; v++ {
			row, col := p.geom.RowCol(v)
			p.angleGrid[row*AFFT+col] = p.working[r*RVA+v]
		}

		// Step 1: row FFTs across columns (only physically-populated rows
		// carry nonzero input; the rest stay zero and are skipped).
		for row := 0; row < p.geom.NumRows; row++ {
			copy(p.rowScratch, p.angleGrid[row*AFFT:row*AFFT+AFFT])
			radarmath.Forward(p.rowScratch, p.twAngle)
			copy(p.angleGrid[row*AFFT:row*AFFT+AFFT], p.rowScratch)
		}

		// Step 2: transpose row spectra into a column-major temporary.
		for row := 0; row < AFFT; row++ {
			for col := 0; col < AFFT; col++ {
				p.angleTemp[col*AFFT+row] = p.angleGrid[row*AFFT+col]
			}
		}

		// Step 3: FFT across the (now leading) azimuth-bin rows of the
		// temporary to resolve elevation; the result is the AFFT x AFFT
		// 2-D spectrum, indexed spec2D[azimuthBin*AFFT + elevationBin].
		for k := 0; k < AFFT; k++ {
			copy(p.rowScratch, p.angleTemp[k*AFFT:k*AFFT+AFFT])
			radarmath.Forward(p.rowScratch, p.twAngle)
			copy(p.angleTemp[k*AFFT:k*AFFT+AFFT], p.rowScratch)
		}

		for i := 0; i < AFFT; i++ {
			for j := 0; j < AFFT; j++ {
				p.angleMag[i*AFFT+j] += radarmath.MagSq(p.angleTemp[i*AFFT+j])
			}
		}

		neighbors := toroidalNeighborhood(p.lastPeakI, p.lastPeakJ, AFFT)
		slotBase := p.vsDataCount*RSel*ASel + r*ASel
		for a, rc := range neighbors {
			p.cycleBuf[slotBase+a] = p.angleTemp[rc[0]*AFFT+rc[1]]
		}
	}
}

// scanPeakAndReset finds the arg-max cell of the magnitude accumulator,
// updates the tracked peak index, and zeroes the accumulator to begin the
// next cycle's accumulation.
func (p *Pipeline) scanPeakAndReset() {
	best := float32(-1)
	bi, bj := 0, 0
	for i := 0; i < AFFT; i++ {
		for j := 0; j < AFFT; j++ {
			v := p.angleMag[i*AFFT+j]
			if v > best {
				best = v
				bi, bj = i, j
			}
		}
	}
	p.lastPeakI, p.lastPeakJ = bi, bj
	for i := range p.angleMag {
		p.angleMag[i] = 0
	}
}

// toroidalNeighborhood returns the nine (row, col) index pairs of the 3x3
// neighborhood around (i, j) in an n x n toroidal grid, in row-major order:
// (i-1,j-1) (i-1,j) (i-1,j+1) (i,j-1) (i,j) (i,j+1) (i+1,j-1) (i+1,j) (i+1,j+1),
// each coordinate wrapped modulo n.
func toroidalNeighborhood(i, j, n int) [9][2]int {
	var out [9][2]int
	k := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			r := ((i+dr)%n + n) % n
			c := ((j+dc)%n + n) % n
			out[k] = [2]int{r, c}
			k++
		}
	}
	return out
}

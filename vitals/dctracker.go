package vitals

// dcTracker is the long-horizon ping-pong DC mean estimator. It holds two
// named halves with explicit roles -- accumulating and frozen -- rather than
// a single buffer addressed by an XOR'd raw offset; the roles swap at the
// N_FRAME cycle boundary. This removes the "off0 xor off1" invariant from
// being a latent precondition and makes it true by construction.
type dcTracker struct {
	halves       [2][]complex64 // each length RSel*RVA
	accumulating int            // index into halves of the half currently summing fresh frames
}

func newDCTracker() *dcTracker {
	return &dcTracker{
		halves: [2][]complex64{
			make([]complex64, RSel*RVA),
			make([]complex64, RSel*RVA),
		},
	}
}

func (d *dcTracker) reset() {
	for i := range d.halves[0] {
		d.halves[0][i] = 0
	}
	for i := range d.halves[1] {
		d.halves[1][i] = 0
	}
	d.accumulating = 0
}

func (d *dcTracker) frozenIndex() int {
	return 1 - d.accumulating
}

// apply adds extract into the accumulating half and writes extract minus
// the frozen half's mean into working (DC-removed).
func (d *dcTracker) apply(extract, working []complex64) {
	acc := d.halves[d.accumulating]
	frozen := d.halves[d.frozenIndex()]
	for i, v := range extract {
		acc[i] += v
		working[i] = v - frozen[i]
	}
}

// finalizeCycle runs at the last frame of the N_FRAME cycle: freezes the
// accumulating half into a mean, clears the previously-frozen half, and
// swaps roles.
func (d *dcTracker) finalizeCycle() {
	acc := d.halves[d.accumulating]
	for i := range acc {
		acc[i] /= complex(float32(NFrame), 0)
	}
	frozen := d.halves[d.frozenIndex()]
	for i := range frozen {
		frozen[i] = 0
	}
	d.accumulating = d.frozenIndex()
}

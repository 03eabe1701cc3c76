package vitals

import "testing"

func newTestPipelineForIngest(t *testing.T) *Pipeline {
	t.Helper()
	p := &Pipeline{}
	cfg := DefaultConfiguration()
	cfg.Enabled = true
	cfg.NumRangeBins = RSel
	if err := p.Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return p
}

func fakeCube(numRangeBins, numVA int, fill func(rb, va int) (im, re int16)) *Cube {
	c := &Cube{NumRangeBins: numRangeBins, NumVA: numVA, Data: make([]int16, numRangeBins*numVA*2)}
	for rb := 0; rb < numRangeBins; rb++ {
		for v := 0; v < numVA; v++ {
			im, re := fill(rb, v)
			base := (rb*numVA + v) * 2
			c.Data[base] = im
			c.Data[base+1] = re
		}
	}
	return c
}

func TestIngestFrameRejectsNilOrNarrowCube(t *testing.T) {
	p := newTestPipelineForIngest(t)

	if err := p.ingestFrame(nil, 0); err == nil {
		t.Fatalf("expected error for nil cube")
	}
	narrow := &Cube{NumRangeBins: RSel, NumVA: RVA, Data: make([]int16, RSel*RVA*2)}
	if err := p.ingestFrame(narrow, 0); err == nil {
		t.Fatalf("expected error for cube with NumRangeBins == RSel (must be > RSel)")
	}
}

func TestIngestFrameClampsWindowToCubeBounds(t *testing.T) {
	p := newTestPipelineForIngest(t)
	cube := fakeCube(64, RVA, func(rb, va int) (int16, int16) { return int16(rb), int16(va) })

	// hintBin far beyond the cube should clamp the window to the last RSel bins.
	if err := p.ingestFrame(cube, 1000); err != nil {
		t.Fatalf("ingestFrame: %v", err)
	}
	firstRB := int(imag(p.extract[0]))
	if firstRB != 64-RSel {
		t.Fatalf("expected window clamped to start at %d, got %d", 64-RSel, firstRB)
	}

	// Negative hintBin should clamp the window to start at 0.
	if err := p.ingestFrame(cube, -100); err != nil {
		t.Fatalf("ingestFrame: %v", err)
	}
	if got := int(imag(p.extract[0])); got != 0 {
		t.Fatalf("expected window clamped to start at 0, got %d", got)
	}
}

func TestIngestFrameZeroPadsMissingVirtualAntennas(t *testing.T) {
	p := newTestPipelineForIngest(t)
	cube := fakeCube(64, RVA-2, func(rb, va int) (int16, int16) { return 1, 1 })

	if err := p.ingestFrame(cube, 10); err != nil {
		t.Fatalf("ingestFrame: %v", err)
	}
	for rb := 0; rb < RSel; rb++ {
		for v := RVA - 2; v < RVA; v++ {
			if p.extract[rb*RVA+v] != 0 {
				t.Fatalf("expected zero padding at (%d,%d), got %v", rb, v, p.extract[rb*RVA+v])
			}
		}
	}
}

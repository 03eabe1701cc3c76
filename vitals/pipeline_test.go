package vitals

import "testing"

func TestInitRejectsInvalidConfig(t *testing.T) {
	p := &Pipeline{}
	cfg := DefaultConfiguration()
	cfg.TargetID = -5
	if err := p.Init(cfg); err == nil {
		t.Fatalf("expected Init to reject invalid configuration")
	}
}

func TestControlSurfaceRequiresInit(t *testing.T) {
	p := &Pipeline{}
	if err := p.Reset(); err == nil {
		t.Fatalf("expected Reset to fail before Init")
	}
	if err := p.UpdateConfig(DefaultConfiguration()); err == nil {
		t.Fatalf("expected UpdateConfig to fail before Init")
	}
	if _, err := p.GetOutput(); err == nil {
		t.Fatalf("expected GetOutput to fail before Init")
	}
	if p.IsOutputReady() {
		t.Fatalf("expected IsOutputReady false before Init")
	}
}

func TestProcessFrameNoOpWhenDisabled(t *testing.T) {
	p := &Pipeline{}
	cfg := DefaultConfiguration() // Enabled defaults to false
	if err := p.Init(cfg); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := p.ProcessFrame(nil, 0); err != nil {
		t.Fatalf("expected disabled ProcessFrame to return nil even with a nil cube, got %v", err)
	}
}

func TestProcessFrameRejectsInvalidCubeWhenEnabled(t *testing.T) {
	p := newTestPipelineForIngest(t)
	if err := p.ProcessFrame(nil, 0); err == nil {
		t.Fatalf("expected error for nil cube when enabled")
	}
}

func TestHandleTargetLossGatesAfterPersistThreshold(t *testing.T) {
	p := &Pipeline{}
	if err := p.Init(DefaultConfiguration()); err != nil {
		t.Fatalf("Init: %v", err)
	}

	for i := 0; i < TPersist-1; i++ {
		p.HandleTargetLoss(true)
		if p.indicateNoTarget {
			t.Fatalf("expected indicateNoTarget to stay false before reaching TPersist, iteration %d", i)
		}
	}
	p.HandleTargetLoss(true)
	if !p.indicateNoTarget {
		t.Fatalf("expected indicateNoTarget true after TPersist consecutive losses")
	}

	p.HandleTargetLoss(false)
	if p.indicateNoTarget || p.targetLostCount != 0 {
		t.Fatalf("expected a single non-lost call to clear the persistence state")
	}
}

func TestRangeBinFromPosition(t *testing.T) {
	got := RangeBinFromPosition(3, 4, 1.0)
	if got != 5 {
		t.Fatalf("expected range bin 5 for a 3-4-5 triangle at unit resolution, got %d", got)
	}
	if got := RangeBinFromPosition(1, 1, 0); got != 0 {
		t.Fatalf("expected range bin 0 for non-positive resolution, got %d", got)
	}
}

func TestResetClearsCountersAndHistory(t *testing.T) {
	p := newTestPipelineForIngest(t)
	p.vsDataCount = 5
	p.vsLoop = 3
	p.previousHeartPeak = [4]int{1, 2, 3, 4}
	p.indicateNoTarget = true

	if err := p.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if p.vsDataCount != 0 || p.vsLoop != 0 || p.previousHeartPeak != [4]int{} || p.indicateNoTarget {
		t.Fatalf("expected Reset to clear all transient state, got %+v", p)
	}
}

func TestProcessFrameAdvancesDataCountAndRefreshesOnSchedule(t *testing.T) {
	p := newTestPipelineForIngest(t)
	cube := fakeCube(RSel+1, RVA, func(rb, va int) (int16, int16) { return 0, 0 })

	for i := 0; i < MRefresh-1; i++ {
		if err := p.ProcessFrame(cube, 2); err != nil {
			t.Fatalf("ProcessFrame: %v", err)
		}
	}
	if p.vsLoop != 0 {
		t.Fatalf("expected no refresh before MRefresh frames, vsLoop=%d", p.vsLoop)
	}
	if err := p.ProcessFrame(cube, 2); err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if p.vsLoop != 1 {
		t.Fatalf("expected exactly one refresh after MRefresh frames, vsLoop=%d", p.vsLoop)
	}
}

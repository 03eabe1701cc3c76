package vitals

import "sync"

// SynchronizedPipeline wraps a Pipeline with a mutex so ProcessFrame,
// GetOutput, and the rest of the control surface can be called from
// multiple goroutines -- for instance a radar-frame producer goroutine and
// an HTTP/gRPC status handler reading the latest Result. The underlying
// Pipeline itself assumes single-threaded access; this type is the one
// place that assumption is relaxed, matching how both pack repos guard
// shared engine state with a plain sync.Mutex rather than a specialized
// concurrency primitive.
type SynchronizedPipeline struct {
	mu sync.Mutex
	p  Pipeline
}

// NewSynchronizedPipeline allocates and initializes a SynchronizedPipeline.
func NewSynchronizedPipeline(cfg Configuration) (*SynchronizedPipeline, error) {
	sp := &SynchronizedPipeline{}
	if err := sp.p.Init(cfg); err != nil {
		return nil, err
	}
	return sp, nil
}

// ProcessFrame is the synchronized equivalent of Pipeline.ProcessFrame.
func (sp *SynchronizedPipeline) ProcessFrame(cube *Cube, hintBin int) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.ProcessFrame(cube, hintBin)
}

// GetOutput is the synchronized equivalent of Pipeline.GetOutput.
func (sp *SynchronizedPipeline) GetOutput() (Result, error) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.GetOutput()
}

// IsOutputReady is the synchronized equivalent of Pipeline.IsOutputReady.
func (sp *SynchronizedPipeline) IsOutputReady() bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.IsOutputReady()
}

// UpdateConfig is the synchronized equivalent of Pipeline.UpdateConfig.
func (sp *SynchronizedPipeline) UpdateConfig(cfg Configuration) error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.UpdateConfig(cfg)
}

// Reset is the synchronized equivalent of Pipeline.Reset.
func (sp *SynchronizedPipeline) Reset() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.Reset()
}

// HandleTargetLoss is the synchronized equivalent of Pipeline.HandleTargetLoss.
func (sp *SynchronizedPipeline) HandleTargetLoss(lost bool) bool {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	return sp.p.HandleTargetLoss(lost)
}

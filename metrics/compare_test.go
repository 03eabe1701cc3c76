package metrics

import (
	"testing"

	"github.com/cwbudde/algo-radar-vitals/vitals"
)

func makeTrace(n int, breathing, heart float32, dev func(i int) float32) []vitals.Result {
	out := make([]vitals.Result, n)
	for i := range out {
		out[i] = vitals.Result{
			Valid:              true,
			BreathingRate:      breathing,
			HeartRate:          heart,
			BreathingDeviation: dev(i),
		}
	}
	return out
}

func TestCompareIdenticalTracesHasLowDistance(t *testing.T) {
	trace := makeTrace(256, 15.0, 70.0, func(i int) float32 { return float32(i%7) * 0.001 })
	m := Compare(trace, trace)
	if m.Score > 0.05 {
		t.Fatalf("expected very low score for identical traces, got %f", m.Score)
	}
	if m.Similarity < 0.85 {
		t.Fatalf("expected high similarity for identical traces, got %f", m.Similarity)
	}
	if m.ValidAgreement != 1.0 {
		t.Fatalf("expected full valid agreement for identical traces, got %f", m.ValidAgreement)
	}
}

func TestCompareDifferentRatesHasHigherDistance(t *testing.T) {
	a := makeTrace(256, 12.0, 60.0, func(i int) float32 { return 0 })
	b := makeTrace(256, 20.0, 90.0, func(i int) float32 { return 0 })
	m := Compare(a, b)
	if m.Score < 0.2 {
		t.Fatalf("expected higher score for divergent rate traces, got %f", m.Score)
	}
}

func TestCompareEmptyTracesReturnWorstScore(t *testing.T) {
	m := Compare(nil, nil)
	if m.Score != 1.0 || m.Similarity != 0.0 {
		t.Fatalf("expected worst-case score/similarity for empty traces, got %+v", m)
	}
}

func TestCompareDetectsValidFlagDisagreement(t *testing.T) {
	a := makeTrace(10, 15, 70, func(i int) float32 { return 0 })
	b := makeTrace(10, 15, 70, func(i int) float32 { return 0 })
	for i := 0; i < 5; i++ {
		b[i].Valid = false
	}
	m := Compare(a, b)
	if m.ValidAgreement != 0.5 {
		t.Fatalf("expected valid agreement 0.5, got %f", m.ValidAgreement)
	}
}

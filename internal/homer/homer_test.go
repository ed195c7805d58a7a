package homer

import "testing"

func newTestHomer() *Homer[uint8, int32] {
	return New[uint8, int32](DefaultSetup())
}

func TestConstantRunOpensAndStaysHomogeneous(t *testing.T) {
	h := newTestHomer()
	var lastHo bool
	for i := 0; i < 20; i++ {
		lastHo = h.Next(120)
	}
	if !lastHo {
		t.Fatal("expected constant magnitude run to become homogeneous")
	}
	if h.Len() != 20 {
		t.Fatalf("len = %d want 20", h.Len())
	}
}

func TestShortRunNeverOpens(t *testing.T) {
	h := newTestHomer()
	setup := DefaultSetup()
	for i := 0; i < setup.HodeltaLen-1; i++ {
		if h.Next(80) {
			t.Fatalf("run of length %d should not be homogeneous yet", i+1)
		}
	}
}

func TestBigJumpResetsSearching(t *testing.T) {
	h := newTestHomer()
	for i := 0; i < 10; i++ {
		h.Next(50)
	}
	if !h.IsHo() {
		t.Fatal("expected area to be open before the jump")
	}
	setup := DefaultSetup()
	jumped := uint8(50 + setup.HodeltaDiff + 50)
	if h.Next(jumped) {
		t.Fatal("expected homogeneity to break on a large jump")
	}
	if h.Len() != 1 {
		t.Fatalf("expected reset to start a fresh length-1 area, got %d", h.Len())
	}
}

func TestMagAvgIsFloorOfSum(t *testing.T) {
	h := newTestHomer()
	h.Next(10)
	h.Next(11)
	h.Next(10)
	// sum=31, len=3, floor(31/3)=10
	if got := h.MagAvg(); got != 10 {
		t.Fatalf("magAvg = %d want 10", got)
	}
}

func TestMagAvgZeroAtLengthZero(t *testing.T) {
	h := newTestHomer()
	if got := h.MagAvg(); got != 0 {
		t.Fatalf("magAvg at len 0 = %d want 0", got)
	}
}

func TestResetWithSeedsLastForNextSearch(t *testing.T) {
	h := newTestHomer()
	h.Next(200)
	h.ResetWith(200)
	if h.Len() != 0 {
		t.Fatalf("len after ResetWith = %d want 0", h.Len())
	}
	// A small step from the seeded "last" should be allowed to accumulate.
	if h.Next(201) {
		t.Fatal("single sample should not yet be homogeneous")
	}
	if h.Len() != 1 {
		t.Fatalf("len = %d want 1", h.Len())
	}
}

func TestSpreadBeyondMinMaxDeltaMaxNeverOpens(t *testing.T) {
	setup := DefaultSetup()
	h := New[uint8, int32](setup)
	lo := uint8(100)
	hi := lo + uint8(setup.MinMaxDeltaMax) + 1
	var lastHo bool
	for i := 0; i < setup.HodeltaLen+4; i++ {
		if i%2 == 0 {
			lastHo = h.Next(lo)
		} else {
			lastHo = h.Next(hi)
		}
	}
	if lastHo {
		t.Fatal("expected spread exceeding MinMaxDeltaMax to prevent homogeneity")
	}
}

func TestLengthAffectRelaxesLongOpenAreaThresholds(t *testing.T) {
	setup := DefaultSetup()
	h := New[uint8, int32](setup)
	for i := 0; i < setup.LenAffect.LeastAffectLenBottCons+5; i++ {
		h.Next(128)
	}
	if !h.IsHo() {
		t.Fatal("expected a very long constant run to remain homogeneous")
	}
	// A deviation one past HodeltaMinMaxAvgDiff, which would break a freshly
	// opened area, should be tolerated once length affect has relaxed the
	// min-max-avg threshold.
	relaxed := h.Next(128 + uint8(setup.HodeltaMinMaxAvgDiff) + 1)
	if !relaxed {
		t.Fatal("expected length-affected threshold to tolerate the deviation")
	}
}

package markergen

import "testing"

func TestScanlineRunProducesBrightCenterHalfDark(t *testing.T) {
	p := Pattern{CenterX: 150, Order: 2, RingWidth: 10}
	buf := ScanlineRun(300, p)
	if buf[150] != Dark {
		t.Fatalf("center pixel = %d want %d (dark)", buf[150], Dark)
	}
	if buf[0] != Bright || buf[299] != Bright {
		t.Fatal("expected bright background far from the marker")
	}
}

func TestScanlineRunAlternatesOutward(t *testing.T) {
	p := Pattern{CenterX: 150, Order: 3, RingWidth: 10}
	buf := ScanlineRun(300, p)
	// Walking outward from the center: dark (center), light, dark, light,
	// then background bright.
	want := []struct {
		x    int
		mag  uint8
		name string
	}{
		{150, Dark, "center"},
		{155 + 5, Bright, "ring1 (light)"},
		{155 + 15, Dark, "ring2 (dark)"},
		{155 + 25, Bright, "ring3 (light)"},
	}
	for _, w := range want {
		if buf[w.x] != w.mag {
			t.Fatalf("%s at x=%d: got %d want %d", w.name, w.x, buf[w.x], w.mag)
		}
	}
}

func TestStampClipsToBounds(t *testing.T) {
	dst := make([]uint8, 10*10)
	for i := range dst {
		dst[i] = Bright
	}
	Stamp(dst, 10, 10, Pattern{CenterX: 0, CenterY: 0, Order: 2, RingWidth: 3})
	if dst[0] != Dark {
		t.Fatalf("corner pixel = %d want dark center", dst[0])
	}
}

package hoparser

import (
	"testing"

	"github.com/soocke/fiducial-go/internal/homer"
)

// permissiveSetup relaxes the parenthesis and preamble thresholds per the
// idealised scenario, so an order-2 test pattern is unambiguous.
func permissiveSetup() Setup {
	s := DefaultSetup()
	s.MarkStartPrefixHomoLenMin = 30
	s.MarkStartSuspectionMagDeltaMin = 50
	s.MarkContinueStripeSizeMaxDelta = 20
	s.MarkContinueTooBigWidthDelta = 20
	s.IgnoreSmallHotokenDeltaLen = 2
	return s
}

func feed(p *Hoparser[uint8, int32], v uint8, n int) (lastFound bool) {
	for i := 0; i < n; i++ {
		found, _ := p.Next(v)
		if found {
			lastFound = true
		}
	}
	return lastFound
}

func TestOrder2BullseyeScenario(t *testing.T) {
	p := New[uint8, int32](permissiveSetup(), homer.DefaultSetup())

	var found bool
	found = feed(p, 240, 120) || found
	found = feed(p, 20, 10) || found
	found = feed(p, 240, 10) || found
	found = feed(p, 20, 20) || found
	found = feed(p, 240, 10) || found
	found = feed(p, 20, 10) || found
	found = feed(p, 240, 120) || found

	if !found {
		t.Fatal("expected exactly one foundMarker=true event across the scanline")
	}
	if p.GetOrder() != 2 {
		t.Fatalf("order = %d want 2", p.GetOrder())
	}
	x := p.GetMarkerX()
	if x < 145 || x > 155 {
		t.Fatalf("markerX = %d want approximately 150", x)
	}
}

func TestNewLineResetsPhase(t *testing.T) {
	p := New[uint8, int32](permissiveSetup(), homer.DefaultSetup())
	feed(p, 240, 120)
	feed(p, 20, 10)
	feed(p, 240, 1) // the next bright pixel closes the dark stripe, delivering its token
	if p.state.Phase == PreMarker {
		t.Fatal("expected to have advanced out of PRE_MARKER")
	}
	p.NewLine()
	if p.state.Phase != PreMarker {
		t.Fatalf("phase after NewLine = %v want PRE_MARKER", p.state.Phase)
	}
	if p.state.MarkerStart != noBound {
		t.Fatalf("markerStart after NewLine = %d want %d", p.state.MarkerStart, noBound)
	}
}

func TestShortRunNeverEntersGrammar(t *testing.T) {
	p := New[uint8, int32](permissiveSetup(), homer.DefaultSetup())
	// Too short a preamble to ever satisfy MarkStartPrefixHomoLenMin.
	found := feed(p, 240, 10)
	found = feed(p, 20, 10) || found
	if found {
		t.Fatal("did not expect a marker from an undersized preamble")
	}
	if p.state.Phase != PreMarker {
		t.Fatalf("phase = %v want PRE_MARKER", p.state.Phase)
	}
}

// TestOrder4BullseyeScenario exercises an order beyond 2, where a naive
// "rising means opening, falling means closing" reading breaks down:
// ordinary alternating stripes present as both rising and falling
// transitions depending on how far they are from the center, so only the
// width-doubling signal (not direction) can pick out the true center and
// the true closing stripe.
func TestOrder4BullseyeScenario(t *testing.T) {
	p := New[uint8, int32](permissiveSetup(), homer.DefaultSetup())

	var found bool
	found = feed(p, 240, 120) || found // preamble
	found = feed(p, 20, 10) || found   // stripe 1 (absorbed into the PRE_MARKER->PRE_CENTER transition)
	found = feed(p, 240, 10) || found  // stripe 2
	found = feed(p, 20, 10) || found   // stripe 3
	found = feed(p, 240, 10) || found  // stripe 4
	found = feed(p, 20, 20) || found   // center, double-width
	found = feed(p, 240, 10) || found  // stripe 5
	found = feed(p, 20, 10) || found   // stripe 6
	found = feed(p, 240, 10) || found  // stripe 7
	found = feed(p, 20, 10) || found   // stripe 8
	found = feed(p, 240, 120) || found // trailing preamble

	if !found {
		t.Fatal("expected exactly one foundMarker=true event across the scanline")
	}
	if p.GetOrder() != 4 {
		t.Fatalf("order = %d want 4", p.GetOrder())
	}
}

func TestUnbalancedStripesResetsToPreMarker(t *testing.T) {
	p := New[uint8, int32](permissiveSetup(), homer.DefaultSetup())
	feed(p, 240, 120)
	feed(p, 20, 10)
	feed(p, 240, 10)
	// A wildly mismatched stripe length should break the parenthesis test
	// once it actually closes (forced here by a final differing pixel).
	feed(p, 20, 200)
	feed(p, 240, 1)
	if p.state.Phase != PreMarker {
		t.Fatalf("phase = %v want PRE_MARKER after an oversized stripe", p.state.Phase)
	}
}

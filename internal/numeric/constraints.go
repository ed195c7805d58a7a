// Package numeric holds the small set of generic constraints shared by the
// detection pipeline (Homer, Hoparser, MCParser): a bounded, orderable pixel
// magnitude type and a wide-enough signed accumulator type for sums of a
// scanline's worth of magnitudes.
package numeric

// Magnitude is a pixel intensity type. Typically uint8; uint16, uint32,
// int and int32 (signed, for non-standard sensors) and types derived from
// them also satisfy it.
type Magnitude interface {
	~uint8 | ~uint16 | ~uint32 | ~int | ~int32
}

// Accumulator is wide enough to hold the sum of at most one image width of
// magnitudes (a signed 32-bit accumulator suffices for <= 2^24 pixels of
// <= 255 magnitude each).
type Accumulator interface {
	~int32 | ~int64 | ~int
}

// MaxOf returns the maximum representable value for a Magnitude type,
// mirroring std::numeric_limits<MT>::max() in the source. Only the widths
// actually used by the pipeline are handled; anything else returns the
// widest 32-bit bound, 1<<31-1, converted to MT.
func MaxOf[MT Magnitude]() MT {
	var zero MT
	switch any(zero).(type) {
	case uint8:
		return any(uint8(255)).(MT)
	case uint16:
		return any(uint16(65535)).(MT)
	default:
		// A non-constant conversion is valid for every type in the set.
		bound := int64(1<<31 - 1)
		return MT(bound)
	}
}

// Package pnp defines the single-method interface the core detector calls
// once per frame to turn a set of 2-D marker centers into a 3-D camera
// pose. No perspective-n-point solver is implemented here; that is a
// deliberately external collaborator (see NopSolver for the trivial
// no-op stand-in used when nothing better is wired in).
package pnp

// TransformSize is the length of the row-major 3x4 transform: a 3x3
// rotation with the translation vector packed into the last column of
// each row.
const TransformSize = 12

// Pose is the result of a pose solve: a row-major 3x4 transform matrix.
type Pose struct {
	Transform [TransformSize]float64
}

// Position reads the translation components out of the last column of
// each row of the packed transform.
func (p Pose) Position() (x, y, z float64) {
	return p.Transform[3], p.Transform[3+4], p.Transform[3+8]
}

// Solver computes a 3-D camera pose from n correspondences between
// normalised screen-space (x, y) points and world-space (x, y, z) points.
// ScreenXY and WorldXYZ must each have length proportional to n (2*n and
// 3*n respectively); this mirrors the flat-array calling convention used
// by native PnP libraries so an OpenGV-style FFI binding can implement
// Solver directly without an intermediate copy.
type Solver interface {
	Calculate(n int, screenXY, worldXYZ []float64) Pose
}

// NopSolver is the default, trivial Solver: it always returns the
// identity rotation with zero translation, regardless of input. It is
// the stand-in used whenever no real pose backend has been wired in.
type NopSolver struct{}

// Calculate ignores its arguments and returns the identity pose.
func (NopSolver) Calculate(n int, screenXY, worldXYZ []float64) Pose {
	var pose Pose
	pose.Transform[0] = 1
	pose.Transform[5] = 1
	pose.Transform[10] = 1
	return pose
}

// Package trajectory provides pure reference-path generators for
// offboard position control. Generators are stateless and safe for
// concurrent calls; they carry no flight-control logic.
package trajectory

import "errors"

// ErrZeroOmega rejects construction with a zero angular rate, which
// would make the nominal duration undefined.
var ErrZeroOmega = errors.New("trajectory: angular rate omega must be non-zero")

// Trajectory maps elapsed mission time to a planar reference position.
type Trajectory interface {
	// Position returns the (north, east) reference in meters at time t
	// seconds. Callers decide whether to clamp t to [0, Duration()).
	Position(t float64) (north, east float64)
	// Duration returns the nominal mission duration in seconds.
	Duration() float64
}

// VerticalProfile is implemented by trajectories that prescribe their
// own vertical reference instead of a fixed altitude.
type VerticalProfile interface {
	// Down returns the NED down reference in meters at time t.
	Down(t float64) float64
}

// YawPolicy is implemented by trajectories that prescribe a heading.
type YawPolicy interface {
	// Yaw returns the reference heading in degrees at time t.
	Yaw(t float64) float64
}

package trajectory

import "math"

// Figure8 is a lemniscate reference path.
//
//	x(t) = cx + R*sin(w t)
//	y(t) = cy + 0.5*R*sin(2 w t)
//
// It also prescribes a heading aligned with the path velocity.
type Figure8 struct {
	R  float64
	Cx float64
	Cy float64
	W  float64
}

// NewFigure8 builds a figure-8 trajectory. omega must be non-zero.
func NewFigure8(radius, omega, centerX, centerY float64) (*Figure8, error) {
	if omega == 0 {
		return nil, ErrZeroOmega
	}
	return &Figure8{R: radius, Cx: centerX, Cy: centerY, W: omega}, nil
}

// Position returns the (north, east) reference at time t.
func (f *Figure8) Position(t float64) (float64, float64) {
	return f.Cx + f.R*math.Sin(f.W*t), f.Cy + 0.5*f.R*math.Sin(2*f.W*t)
}

// Duration is the time of one full figure-8.
func (f *Figure8) Duration() float64 {
	return 2 * math.Pi / f.W
}

// Yaw returns the heading in degrees aligned with the path velocity,
// NED convention. Returns exactly 0.0 when both velocity components
// are below 1e-6 in magnitude.
func (f *Figure8) Yaw(t float64) float64 {
	vx := f.R * f.W * math.Cos(f.W*t)
	vy := f.R * f.W * math.Cos(2*f.W*t)
	if math.Abs(vx) < 1e-6 && math.Abs(vy) < 1e-6 {
		return 0.0
	}
	return math.Atan2(vy, vx) * 180 / math.Pi
}

package trajectory

import "math"

// Circle is a constant-radius circular reference path.
//
//	x(t) = cx + R*cos(w t)
//	y(t) = cy + R*sin(w t)
type Circle struct {
	R  float64
	Cx float64
	Cy float64
	W  float64
}

// NewCircle builds a circular trajectory. omega is the angular rate in
// rad/s and must be non-zero.
func NewCircle(radius, omega, centerX, centerY float64) (*Circle, error) {
	if omega == 0 {
		return nil, ErrZeroOmega
	}
	return &Circle{R: radius, Cx: centerX, Cy: centerY, W: omega}, nil
}

// Position returns the (north, east) reference at time t.
func (c *Circle) Position(t float64) (float64, float64) {
	return c.Cx + c.R*math.Cos(c.W*t), c.Cy + c.R*math.Sin(c.W*t)
}

// Duration is the time of one full revolution.
func (c *Circle) Duration() float64 {
	return 2 * math.Pi / c.W
}

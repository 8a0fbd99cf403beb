package trajectory

import "math"

// Spiral is a helix: circular XY motion with a linear change in the
// vertical reference over one revolution.
type Spiral struct {
	R         float64
	Cx        float64
	Cy        float64
	W         float64
	StartDown float64
	EndDown   float64
}

// NewSpiral builds a spiral trajectory. startDown and endDown are NED
// down references in meters (negative is above the origin). omega must
// be non-zero.
func NewSpiral(radius, omega, centerX, centerY, startDown, endDown float64) (*Spiral, error) {
	if omega == 0 {
		return nil, ErrZeroOmega
	}
	return &Spiral{R: radius, Cx: centerX, Cy: centerY, W: omega, StartDown: startDown, EndDown: endDown}, nil
}

// Position returns the (north, east) reference at time t.
func (s *Spiral) Position(t float64) (float64, float64) {
	return s.Cx + s.R*math.Cos(s.W*t), s.Cy + s.R*math.Sin(s.W*t)
}

// Duration is the time of one full revolution.
func (s *Spiral) Duration() float64 {
	return 2 * math.Pi / s.W
}

// Down linearly interpolates the vertical reference from StartDown to
// EndDown over the trajectory duration.
func (s *Spiral) Down(t float64) float64 {
	return s.StartDown + (s.EndDown-s.StartDown)*(t/s.Duration())
}

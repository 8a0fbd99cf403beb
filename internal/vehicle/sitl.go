package vehicle

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"missionops/internal/telemetry"
)

// ErrNotArmed is returned by commands that require an armed vehicle.
var ErrNotArmed = errors.New("vehicle: not armed")

// SITL is a software-in-the-loop stand-in for a real vehicle link. It
// follows position setpoints with a first-order response and publishes
// synthetic telemetry, so missions can run end to end without a flight
// stack attached.
type SITL struct {
	mu sync.Mutex

	pos    telemetry.PositionNED
	vel    telemetry.VelocityNED
	att    telemetry.AttitudeDeg
	mode   string
	armed  bool
	target PositionNEDYaw

	maxSpeed float64 // m/s toward the setpoint
	gain     float64 // first-order position gain, 1/s

	interval time.Duration

	posvelSubs []chan PositionVelocity
	attSubs    []chan telemetry.AttitudeDeg
	modeSubs   []chan string
}

// NewSITL returns a grounded, disarmed simulated vehicle.
func NewSITL(interval time.Duration) *SITL {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	return &SITL{
		mode:     "HOLD",
		maxSpeed: 3.0,
		gain:     1.5,
		interval: interval,
	}
}

// Run drives the simulation loop until ctx is done.
func (s *SITL) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Step(s.interval.Seconds())
		case <-ctx.Done():
			return
		}
	}
}

// Step advances the simulated vehicle by dt seconds and publishes one
// telemetry sample to every subscriber. Exposed so tests can drive the
// vehicle deterministically without wall-clock sleeps.
func (s *SITL) Step(dt float64) {
	s.mu.Lock()

	dn := s.target.North - s.pos.North
	de := s.target.East - s.pos.East
	dd := s.target.Down - s.pos.Down

	vn := clamp(dn*s.gain, s.maxSpeed)
	ve := clamp(de*s.gain, s.maxSpeed)
	vd := clamp(dd*s.gain, s.maxSpeed)

	s.pos.North += vn * dt
	s.pos.East += ve * dt
	s.pos.Down += vd * dt
	s.vel = telemetry.VelocityNED{VN: vn, VE: ve, VD: vd}

	// Crude attitude model: tilt proportional to the commanded
	// horizontal velocity, heading from the setpoint.
	s.att = telemetry.AttitudeDeg{
		Roll:  clamp(ve*4, 25),
		Pitch: clamp(-vn*4, 25),
		Yaw:   s.target.YawDeg,
	}

	pv := PositionVelocity{Position: s.pos, Velocity: s.vel}
	att := s.att
	mode := s.mode
	posvelSubs := append([]chan PositionVelocity(nil), s.posvelSubs...)
	attSubs := append([]chan telemetry.AttitudeDeg(nil), s.attSubs...)
	modeSubs := append([]chan string(nil), s.modeSubs...)
	s.mu.Unlock()

	for _, ch := range posvelSubs {
		select {
		case ch <- pv:
		default:
		}
	}
	for _, ch := range attSubs {
		select {
		case ch <- att:
		default:
		}
	}
	for _, ch := range modeSubs {
		select {
		case ch <- mode:
		default:
		}
	}
}

// Position returns the current simulated position.
func (s *SITL) Position() telemetry.PositionNED {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Arm arms the vehicle.
func (s *SITL) Arm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = true
	return nil
}

// SetTakeoffAltitude sets the altitude used by Takeoff.
func (s *SITL) SetTakeoffAltitude(ctx context.Context, altM float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target.Down = -altM
	return nil
}

// Takeoff climbs toward the configured takeoff altitude.
func (s *SITL) Takeoff(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return ErrNotArmed
	}
	s.mode = "TAKEOFF"
	return nil
}

// Land descends toward the ground.
func (s *SITL) Land(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = "LAND"
	s.target = PositionNEDYaw{North: s.pos.North, East: s.pos.East, Down: 0}
	return nil
}

// Disarm disarms the vehicle.
func (s *SITL) Disarm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed = false
	s.mode = "HOLD"
	return nil
}

// StartOffboard switches to offboard control.
func (s *SITL) StartOffboard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed {
		return ErrNotArmed
	}
	s.mode = "OFFBOARD"
	return nil
}

// StopOffboard leaves offboard control.
func (s *SITL) StopOffboard(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode == "OFFBOARD" {
		s.mode = "HOLD"
	}
	return nil
}

// SetPositionNED updates the setpoint the vehicle follows.
func (s *SITL) SetPositionNED(ctx context.Context, sp PositionNEDYaw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = sp
	return nil
}

// SetVelocityNED approximates a velocity setpoint by projecting it one
// second ahead of the current position.
func (s *SITL) SetVelocityNED(ctx context.Context, sp VelocityNEDYaw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = PositionNEDYaw{
		North:  s.pos.North + sp.VN,
		East:   s.pos.East + sp.VE,
		Down:   s.pos.Down + sp.VD,
		YawDeg: sp.YawDeg,
	}
	return nil
}

// PositionVelocity subscribes to the combined position+velocity stream.
func (s *SITL) PositionVelocity(ctx context.Context) <-chan PositionVelocity {
	ch := make(chan PositionVelocity, 8)
	s.mu.Lock()
	s.posvelSubs = append(s.posvelSubs, ch)
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.posvelSubs = removeSub(s.posvelSubs, ch)
		s.mu.Unlock()
	}()
	return ch
}

// Attitude subscribes to the attitude stream.
func (s *SITL) Attitude(ctx context.Context) <-chan telemetry.AttitudeDeg {
	ch := make(chan telemetry.AttitudeDeg, 8)
	s.mu.Lock()
	s.attSubs = append(s.attSubs, ch)
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.attSubs = removeSub(s.attSubs, ch)
		s.mu.Unlock()
	}()
	return ch
}

// FlightMode subscribes to the flight mode stream.
func (s *SITL) FlightMode(ctx context.Context) <-chan string {
	ch := make(chan string, 8)
	s.mu.Lock()
	s.modeSubs = append(s.modeSubs, ch)
	s.mu.Unlock()
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		s.modeSubs = removeSub(s.modeSubs, ch)
		s.mu.Unlock()
	}()
	return ch
}

func removeSub[T any](subs []chan T, ch chan T) []chan T {
	for i, c := range subs {
		if c == ch {
			return append(subs[:i], subs[i+1:]...)
		}
	}
	return subs
}

func clamp(v, limit float64) float64 {
	return math.Max(-limit, math.Min(limit, v))
}

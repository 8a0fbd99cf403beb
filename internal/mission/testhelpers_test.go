package mission

import (
	"context"
	"errors"
	"sync"
	"time"

	"missionops/internal/telemetry"
	"missionops/internal/vehicle"
)

// fakeClock is a fixed, manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeLink records commands and can be told to fail setpoints or
// landings.
type fakeLink struct {
	mu sync.Mutex

	setpoints    []vehicle.PositionNEDYaw
	failSetpoint bool

	stopOffboardCalls int
	landCalls         int
	landFailures      int // fail this many Land calls before succeeding
	disarmCalls       int
}

var errLinkDown = errors.New("link down")

func (l *fakeLink) Arm(ctx context.Context) error                              { return nil }
func (l *fakeLink) SetTakeoffAltitude(ctx context.Context, altM float64) error { return nil }
func (l *fakeLink) Takeoff(ctx context.Context) error                          { return nil }
func (l *fakeLink) Disarm(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.disarmCalls++
	return nil
}
func (l *fakeLink) StartOffboard(ctx context.Context) error { return nil }
func (l *fakeLink) StopOffboard(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stopOffboardCalls++
	return nil
}

func (l *fakeLink) Land(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.landCalls++
	if l.landFailures > 0 {
		l.landFailures--
		return errLinkDown
	}
	return nil
}

func (l *fakeLink) SetPositionNED(ctx context.Context, sp vehicle.PositionNEDYaw) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failSetpoint {
		return errLinkDown
	}
	l.setpoints = append(l.setpoints, sp)
	return nil
}

func (l *fakeLink) SetVelocityNED(ctx context.Context, sp vehicle.VelocityNEDYaw) error {
	return nil
}

func (l *fakeLink) PositionVelocity(ctx context.Context) <-chan vehicle.PositionVelocity {
	ch := make(chan vehicle.PositionVelocity)
	go func() { <-ctx.Done(); close(ch) }()
	return ch
}

func (l *fakeLink) Attitude(ctx context.Context) <-chan telemetry.AttitudeDeg {
	ch := make(chan telemetry.AttitudeDeg)
	go func() { <-ctx.Done(); close(ch) }()
	return ch
}

func (l *fakeLink) FlightMode(ctx context.Context) <-chan string {
	ch := make(chan string)
	go func() { <-ctx.Done(); close(ch) }()
	return ch
}

func (l *fakeLink) setpointCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.setpoints)
}

func (l *fakeLink) lastSetpoint() (vehicle.PositionNEDYaw, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.setpoints) == 0 {
		return vehicle.PositionNEDYaw{}, false
	}
	return l.setpoints[len(l.setpoints)-1], true
}

// ctxAwareLink honors context cancellation on terminal commands, the
// way a real flight-stack link would.
type ctxAwareLink struct {
	fakeLink
	landCtxErrs int
}

func (l *ctxAwareLink) Land(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		l.mu.Lock()
		l.landCtxErrs++
		l.mu.Unlock()
		return err
	}
	return l.fakeLink.Land(ctx)
}

func (l *ctxAwareLink) Disarm(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.fakeLink.Disarm(ctx)
}

// nominalStore returns a store fed with healthy on-path telemetry for
// the given trajectory position.
func nominalStore(north, east float64) *telemetry.Store {
	s := telemetry.NewStore()
	s.SetPositionVelocity(
		telemetry.PositionNED{North: north, East: east, Down: -2.5},
		telemetry.VelocityNED{VN: 0.5, VE: 0.5, VD: 0},
	)
	s.SetAttitude(telemetry.AttitudeDeg{Roll: 2, Pitch: -1, Yaw: 0})
	s.SetFlightMode("OFFBOARD")
	return s
}

package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"missionops/internal/logging"
	"missionops/internal/observability"
	"missionops/internal/telemetry"
	"missionops/internal/trajectory"
	"missionops/internal/vehicle"
)

// ErrNoMissionT0 is returned when the trajectory loop starts before
// the shared time origin was captured.
var ErrNoMissionT0 = errors.New("mission: t0 not captured")

// Executor drives the outbound setpoint stream: one position command
// per tick, computed from the trajectory at elapsed time since the
// shared mission t0.
type Executor struct {
	link     vehicle.Link
	store    *telemetry.Store
	traj     trajectory.Trajectory
	clock    Clock
	interval time.Duration
	altitude float64 // meters above origin, used when the trajectory has no vertical profile
	metrics  *observability.Collector
}

// NewExecutor creates an executor ticking at the given command rate.
func NewExecutor(link vehicle.Link, store *telemetry.Store, traj trajectory.Trajectory, clock Clock, interval time.Duration, altitudeM float64, metrics *observability.Collector) *Executor {
	return &Executor{
		link:     link,
		store:    store,
		traj:     traj,
		clock:    clock,
		interval: interval,
		altitude: altitudeM,
		metrics:  metrics,
	}
}

// Run executes the trajectory until normal completion, a stop flag, or
// a failed transmission. Stop flags are checked once per tick, so the
// worst-case abort reaction latency is one tick period. A transmission
// failure is fatal: offboard control needs an unbroken command stream.
func (e *Executor) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	t0, ok := e.store.MissionT0()
	if !ok {
		return ErrNoMissionT0
	}

	log.Info("starting trajectory", "duration_s", e.traj.Duration(), "tick", e.interval)
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !e.store.Running() || e.store.Emergency() {
				return nil
			}
			t := e.clock.Now().Sub(t0).Seconds()
			if t > e.traj.Duration() {
				log.Info("trajectory complete", "elapsed_s", t)
				return nil
			}
			if err := e.link.SetPositionNED(ctx, e.setpointAt(t)); err != nil {
				return fmt.Errorf("setpoint at t=%.2fs: %w", t, err)
			}
			e.metrics.IncSetpoints()
		}
	}
}

// setpointAt evaluates the reference at elapsed time t, picking up the
// trajectory's vertical profile and yaw policy when present.
func (e *Executor) setpointAt(t float64) vehicle.PositionNEDYaw {
	north, east := e.traj.Position(t)
	down := -e.altitude
	if vp, ok := e.traj.(trajectory.VerticalProfile); ok {
		down = vp.Down(t)
	}
	yaw := 0.0
	if yp, ok := e.traj.(trajectory.YawPolicy); ok {
		yaw = yp.Yaw(t)
	}
	return vehicle.PositionNEDYaw{North: north, East: east, Down: down, YawDeg: yaw}
}

// Align moves the vehicle linearly from its last known position to the
// trajectory's t=0 point, so the reference does not start with a step
// discontinuity the size of the path radius. Must complete (or abort)
// before mission t0 is captured.
func (e *Executor) Align(ctx context.Context, duration, settle time.Duration) error {
	log := logging.FromContext(ctx)

	// Wait for the first position sample.
	for e.store.Snapshot().Position == nil {
		if !e.store.Running() || e.store.Emergency() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}

	start := *e.store.Snapshot().Position
	sp := e.setpointAt(0)
	log.Info("aligning to trajectory start",
		"from_north", start.North, "from_east", start.East,
		"to_north", sp.North, "to_east", sp.East)

	steps := int(duration / e.interval)
	if steps < 1 {
		steps = 1
	}
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !e.store.Running() || e.store.Emergency() {
				return nil
			}
			alpha := float64(i+1) / float64(steps)
			cmd := vehicle.PositionNEDYaw{
				North:  start.North + alpha*(sp.North-start.North),
				East:   start.East + alpha*(sp.East-start.East),
				Down:   sp.Down,
				YawDeg: sp.YawDeg,
			}
			if err := e.link.SetPositionNED(ctx, cmd); err != nil {
				return fmt.Errorf("align setpoint: %w", err)
			}
			e.metrics.IncSetpoints()
		}
	}

	// Brief hold at the start point before the reference starts moving.
	settleSteps := int(settle / e.interval)
	for i := 0; i < settleSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !e.store.Running() || e.store.Emergency() {
				return nil
			}
			if err := e.link.SetPositionNED(ctx, sp); err != nil {
				return fmt.Errorf("settle setpoint: %w", err)
			}
			e.metrics.IncSetpoints()
		}
	}
	return nil
}

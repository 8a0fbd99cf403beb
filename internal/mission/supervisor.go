package mission

import (
	"context"
	"fmt"
	"math"
	"time"

	"missionops/internal/logging"
	"missionops/internal/observability"
	"missionops/internal/telemetry"
	"missionops/internal/trajectory"
)

// Limits are the immutable safety thresholds the supervisor enforces.
type Limits struct {
	DriftMaxM      float64
	SpeedMaxMS     float64
	AttitudeMaxDeg float64
	TimeoutFactor  float64
}

// DefaultLimits mirror the tuning proven in SITL runs.
func DefaultLimits() Limits {
	return Limits{
		DriftMaxM:      1.8,
		SpeedMaxMS:     3.5,
		AttitudeMaxDeg: 30.0,
		TimeoutFactor:  1.5,
	}
}

// Supervisor independently polls the shared store and trips an
// emergency stop when a safety invariant is violated. A trip is
// absorbing: it is never reversed, and it immediately invokes the
// terminal actuator sequence through the shutdown coordinator.
type Supervisor struct {
	store    *telemetry.Store
	traj     trajectory.Trajectory
	limits   Limits
	clock    Clock
	interval time.Duration
	coord    *Coordinator
	metrics  *observability.Collector
}

// NewSupervisor creates a supervisor polling at the given interval.
func NewSupervisor(store *telemetry.Store, traj trajectory.Trajectory, limits Limits, clock Clock, interval time.Duration, coord *Coordinator, metrics *observability.Collector) *Supervisor {
	return &Supervisor{
		store:    store,
		traj:     traj,
		limits:   limits,
		clock:    clock,
		interval: interval,
		coord:    coord,
		metrics:  metrics,
	}
}

// Run polls until the mission stops, an emergency is raised elsewhere,
// or this supervisor trips.
func (s *Supervisor) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("safety supervisor stopped")
			return
		case <-ticker.C:
			if !s.store.Running() || s.store.Emergency() {
				log.Info("safety supervisor stopped")
				return
			}
			if reason, check := s.poll(); reason != "" {
				s.trip(ctx, reason, check)
				return
			}
		}
	}
}

// poll evaluates the safety checks in fixed priority order: timeout,
// drift, speed, attitude. Only the first violated check is reported.
// Returns empty strings while everything is nominal or telemetry is
// not yet available.
func (s *Supervisor) poll() (reason, check string) {
	s.metrics.IncPolls()

	snap := s.store.Snapshot()
	if snap.Position == nil || snap.Velocity == nil || snap.Attitude == nil {
		// Cold start: required telemetry not yet flowing.
		return "", ""
	}
	t0, ok := s.store.MissionT0()
	if !ok {
		return "", ""
	}
	t := s.clock.Now().Sub(t0).Seconds()

	if t > s.traj.Duration()*s.limits.TimeoutFactor {
		return "MISSION TIMEOUT", "timeout"
	}

	xRef, yRef := s.traj.Position(t)
	drift := math.Hypot(snap.Position.North-xRef, snap.Position.East-yRef)
	s.metrics.ObserveDrift(drift)
	if drift > s.limits.DriftMaxM {
		return fmt.Sprintf("DRIFT TOO HIGH: %.2f m", drift), "drift"
	}

	v := snap.Velocity
	speed := math.Sqrt(v.VN*v.VN + v.VE*v.VE + v.VD*v.VD)
	s.metrics.ObserveSpeed(speed)
	if speed > s.limits.SpeedMaxMS {
		return fmt.Sprintf("SPEED TOO HIGH: %.2f m/s", speed), "speed"
	}

	att := snap.Attitude
	if math.Abs(att.Roll) > s.limits.AttitudeMaxDeg || math.Abs(att.Pitch) > s.limits.AttitudeMaxDeg {
		return fmt.Sprintf("UNSAFE ATTITUDE: roll=%.1f, pitch=%.1f", att.Roll, att.Pitch), "attitude"
	}

	return "", ""
}

func (s *Supervisor) trip(ctx context.Context, reason, check string) {
	log := logging.FromContext(ctx)
	s.store.SetEmergency(reason)
	s.store.StopRunning()
	s.metrics.IncTrip(check)
	log.Error("safety triggered", "reason", reason)
	// The supervisor runs under the cancellable task context, which the
	// mission tears down while this landing is still in flight. The
	// terminal sequence must survive that cancellation.
	s.coord.Terminal(context.WithoutCancel(ctx))
}

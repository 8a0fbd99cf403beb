package mission

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"missionops/internal/logging"
	"missionops/internal/observability"
	"missionops/internal/sink"
	"missionops/internal/telemetry"
	"missionops/internal/trajectory"
	"missionops/internal/vehicle"
)

// Params collects the tunables of one mission run.
type Params struct {
	Trajectory      trajectory.Trajectory
	AltitudeM       float64       // flight altitude above origin, meters
	CommandInterval time.Duration // executor tick, e.g. 50ms for 20 Hz
	PollInterval    time.Duration // supervisor poll, e.g. 100ms for 10 Hz
	RecordInterval  time.Duration // recorder sample, e.g. 100ms for 10 Hz
	AlignDuration   time.Duration // linear move to the trajectory start
	AlignSettle     time.Duration // hold at the start point
	TakeoffWait     time.Duration // climb time after takeoff command
	LandRetries     int
	LandWait        time.Duration
	Limits          Limits
}

// Mission wires the store, the concurrent tasks, and the shutdown
// coordinator into one supervised run.
type Mission struct {
	ID      string
	params  Params
	link    vehicle.Link
	store   *telemetry.Store
	writer  sink.RecordWriter
	clock   Clock
	metrics *observability.Collector
	coord   *Coordinator
}

// New creates a mission run with a fresh store and run ID.
func New(p Params, link vehicle.Link, writer sink.RecordWriter, clock Clock, metrics *observability.Collector) *Mission {
	if clock == nil {
		clock = SystemClock{}
	}
	store := telemetry.NewStore()
	return &Mission{
		ID:      uuid.New().String(),
		params:  p,
		link:    link,
		store:   store,
		writer:  writer,
		clock:   clock,
		metrics: metrics,
		coord:   NewCoordinator(link, store, p.LandRetries, p.LandWait),
	}
}

// Store exposes the shared state for status endpoints.
func (m *Mission) Store() *telemetry.Store { return m.store }

// Run flies the mission end to end: prepare the vehicle, start the
// background tasks, align, capture t0, execute the trajectory under
// supervision, then wind down exactly once. The returned error carries
// the emergency reason on abnormal termination and is nil on normal
// completion.
func (m *Mission) Run(ctx context.Context) error {
	ctx = logging.NewContext(ctx, logging.FromContext(ctx).With("mission_id", m.ID))
	log := logging.FromContext(ctx)

	if err := m.prepareVehicle(ctx); err != nil {
		return err
	}

	// Background tasks: ingestion watchers and supervisor live under
	// tasksCtx so the coordinator can cancel-then-await them in one
	// place. The recorder exits on running=false instead, so its final
	// flush is never raced by cancellation.
	tasksCtx, cancelTasks := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelTasks()
	g := new(errgroup.Group)
	g.Go(func() error { return WatchPositionVelocity(tasksCtx, m.link, m.store) })
	g.Go(func() error { return WatchAttitude(tasksCtx, m.link, m.store) })
	g.Go(func() error { return WatchFlightMode(tasksCtx, m.link, m.store) })

	recorderDone := make(chan struct{})
	rec := NewRecorder(m.store, m.writer, m.clock, m.params.RecordInterval, m.ID, m.metrics)
	go func() {
		defer close(recorderDone)
		rec.Run(logging.NewContext(context.WithoutCancel(ctx), log))
	}()

	exec := NewExecutor(m.link, m.store, m.params.Trajectory, m.clock, m.params.CommandInterval, m.params.AltitudeM, m.metrics)

	// Alignment before t0: otherwise the first reference sample sits a
	// full radius away from the vehicle and reads as instant drift.
	m.setPhase(ctx, telemetry.PhaseAlign)
	execErr := exec.Align(ctx, m.params.AlignDuration, m.params.AlignSettle)

	supervisorDone := make(chan struct{})
	if execErr == nil && m.store.Running() && !m.store.Emergency() {
		// Capture the shared time origin, then start the supervisor so
		// both sides compute elapsed time from the identical t0.
		m.store.SetMissionT0(m.clock.Now())
		sup := NewSupervisor(m.store, m.params.Trajectory, m.params.Limits, m.clock, m.params.PollInterval, m.coord, m.metrics)
		go func() {
			defer close(supervisorDone)
			sup.Run(logging.NewContext(tasksCtx, log))
		}()

		m.setPhase(ctx, telemetry.PhaseTrajectory)
		execErr = exec.Run(ctx)
	} else {
		close(supervisorDone)
	}

	if execErr != nil && ctx.Err() == nil {
		log.Error("executor fault", "err", execErr)
	} else if ctx.Err() != nil {
		log.Info("mission interrupted")
	}

	m.setPhase(ctx, telemetry.PhaseLanding)
	m.coord.Shutdown(ctx, recorderDone, cancelTasks, func() {
		<-supervisorDone
		_ = g.Wait()
	})
	m.setPhase(ctx, telemetry.PhaseDone)

	if reason := m.store.EmergencyReason(); reason != "" {
		m.emitEvent(telemetry.EventSafetyTrip, reason)
		return fmt.Errorf("mission aborted: %s", reason)
	}
	if execErr != nil && ctx.Err() == nil {
		return execErr
	}
	log.Info("mission complete")
	return nil
}

// prepareVehicle arms, takes off, prestreams setpoints, and enters
// offboard mode.
func (m *Mission) prepareVehicle(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if err := m.link.SetTakeoffAltitude(ctx, m.params.AltitudeM); err != nil {
		return fmt.Errorf("set takeoff altitude: %w", err)
	}
	if err := m.link.Arm(ctx); err != nil {
		return fmt.Errorf("arm: %w", err)
	}
	log.Info("armed")
	if err := m.link.Takeoff(ctx); err != nil {
		return fmt.Errorf("takeoff: %w", err)
	}
	log.Info("taking off", "altitude_m", m.params.AltitudeM)
	select {
	case <-time.After(m.params.TakeoffWait):
	case <-ctx.Done():
		return ctx.Err()
	}

	// PX4-style links require a setpoint stream before offboard start.
	for i := 0; i < 20; i++ {
		sp := vehicle.PositionNEDYaw{Down: -m.params.AltitudeM}
		if err := m.link.SetPositionNED(ctx, sp); err != nil {
			return fmt.Errorf("prestream setpoint: %w", err)
		}
		select {
		case <-time.After(m.params.CommandInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := m.link.StartOffboard(ctx); err != nil {
		return fmt.Errorf("start offboard: %w", err)
	}
	log.Info("offboard started")
	return nil
}

func (m *Mission) setPhase(ctx context.Context, p telemetry.Phase) {
	m.store.SetPhase(p)
	logging.FromContext(ctx).Info("mission phase", "phase", p)
	m.emitEvent(telemetry.EventPhase, string(p))
}

func (m *Mission) emitEvent(kind, detail string) {
	if ew, ok := m.writer.(sink.EventWriter); ok {
		_ = ew.WriteEvent(telemetry.Event{
			MissionID: m.ID,
			Kind:      kind,
			Detail:    detail,
			Timestamp: m.clock.Now(),
		})
	}
}

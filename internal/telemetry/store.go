package telemetry

import (
	"sync"
	"time"
)

// Store holds the shared vehicle state and mission flags.
//
// Writer discipline: each field has exactly one writer task. The
// ingestion watchers own Position/Velocity, Attitude, and FlightMode;
// the executor owns Phase and MissionT0; the supervisor and shutdown
// coordinator own the running/emergency flags through their idempotent
// setters. Readers only ever see whole field values.
type Store struct {
	mu sync.RWMutex

	position   *PositionNED
	velocity   *VelocityNED
	attitude   *AttitudeDeg
	flightMode string

	running         bool
	emergencyStop   bool
	emergencyReason string
	phase           Phase
	missionT0       time.Time
	missionT0Set    bool
}

// NewStore returns a Store for a fresh mission run.
func NewStore() *Store {
	return &Store{running: true, phase: PhaseInit}
}

// Snapshot returns a point-in-time copy of the last known vehicle state.
// Fields without a sample yet are nil.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := Snapshot{FlightMode: s.flightMode, Phase: s.phase}
	if s.position != nil {
		p := *s.position
		snap.Position = &p
	}
	if s.velocity != nil {
		v := *s.velocity
		snap.Velocity = &v
	}
	if s.attitude != nil {
		a := *s.attitude
		snap.Attitude = &a
	}
	return snap
}

// SetPositionVelocity records the latest position+velocity sample.
// Both arrive on one stream, so they are written together.
func (s *Store) SetPositionVelocity(pos PositionNED, vel VelocityNED) {
	s.mu.Lock()
	s.position = &pos
	s.velocity = &vel
	s.mu.Unlock()
}

// SetAttitude records the latest attitude sample.
func (s *Store) SetAttitude(att AttitudeDeg) {
	s.mu.Lock()
	s.attitude = &att
	s.mu.Unlock()
}

// SetFlightMode records the latest flight mode label.
func (s *Store) SetFlightMode(mode string) {
	s.mu.Lock()
	s.flightMode = mode
	s.mu.Unlock()
}

// Running reports whether the mission is still active.
func (s *Store) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// StopRunning marks the mission as finished. Idempotent; running never
// transitions back to true.
func (s *Store) StopRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// Emergency reports whether an emergency stop has been raised.
func (s *Store) Emergency() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emergencyStop
}

// EmergencyReason returns the recorded trip reason, empty when none.
func (s *Store) EmergencyReason() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.emergencyReason
}

// SetEmergency raises the emergency flag with a reason. The first call
// wins; later calls are no-ops so the flag and reason are monotonic.
func (s *Store) SetEmergency(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emergencyStop {
		return
	}
	s.emergencyStop = true
	s.emergencyReason = reason
}

// Phase returns the current mission phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// SetPhase advances the mission phase marker.
func (s *Store) SetPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
}

// MissionT0 returns the shared mission time origin. ok is false until
// the origin has been captured.
func (s *Store) MissionT0() (t time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.missionT0, s.missionT0Set
}

// SetMissionT0 captures the mission time origin. Set at most once; the
// executor and the supervisor must compute elapsed time from the same
// value, so later calls are ignored.
func (s *Store) SetMissionT0(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.missionT0Set {
		return
	}
	s.missionT0 = t
	s.missionT0Set = true
}

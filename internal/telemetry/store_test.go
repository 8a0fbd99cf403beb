package telemetry

import (
	"sync"
	"testing"
	"time"
)

func TestSnapshotUnsetFields(t *testing.T) {
	s := NewStore()
	snap := s.Snapshot()
	if snap.Position != nil || snap.Velocity != nil || snap.Attitude != nil {
		t.Fatalf("expected nil fields before first sample, got %+v", snap)
	}
	if snap.Phase != PhaseInit {
		t.Errorf("expected INIT phase, got %s", snap.Phase)
	}

	s.SetPositionVelocity(PositionNED{North: 1, East: 2, Down: -3}, VelocityNED{VN: 0.1})
	snap = s.Snapshot()
	if snap.Position == nil || snap.Position.North != 1 {
		t.Fatalf("expected position sample, got %+v", snap.Position)
	}
	if snap.Attitude != nil {
		t.Errorf("attitude should stay unset until its first sample")
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := NewStore()
	s.SetPositionVelocity(PositionNED{North: 1}, VelocityNED{})
	snap := s.Snapshot()
	snap.Position.North = 99
	if got := s.Snapshot().Position.North; got != 1 {
		t.Errorf("snapshot mutation leaked into store: %f", got)
	}
}

func TestEmergencyMonotonic(t *testing.T) {
	s := NewStore()
	s.SetEmergency("DRIFT TOO HIGH: 2.10 m")
	s.SetEmergency("SPEED TOO HIGH: 4.00 m/s")
	if !s.Emergency() {
		t.Fatal("emergency flag not set")
	}
	if got := s.EmergencyReason(); got != "DRIFT TOO HIGH: 2.10 m" {
		t.Errorf("reason overwritten: %q", got)
	}
}

func TestStopRunningIdempotent(t *testing.T) {
	s := NewStore()
	if !s.Running() {
		t.Fatal("new store should be running")
	}
	s.StopRunning()
	s.StopRunning()
	if s.Running() {
		t.Fatal("running should stay false")
	}
}

func TestMissionT0SetOnce(t *testing.T) {
	s := NewStore()
	if _, ok := s.MissionT0(); ok {
		t.Fatal("t0 should be unset initially")
	}
	t0 := time.Unix(1000, 0)
	s.SetMissionT0(t0)
	s.SetMissionT0(t0.Add(5 * time.Second))
	got, ok := s.MissionT0()
	if !ok || !got.Equal(t0) {
		t.Errorf("t0 = %v, ok = %v; want first capture %v", got, ok, t0)
	}
}

func TestConcurrentReadersAndWriters(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetPositionVelocity(PositionNED{North: float64(i)}, VelocityNED{VN: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.SetAttitude(AttitudeDeg{Roll: float64(i)})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := s.Snapshot()
			if snap.Position != nil && snap.Position.North != snap.Velocity.VN {
				t.Error("position and velocity written on one stream must move together")
				return
			}
		}
	}()
	wg.Wait()
}

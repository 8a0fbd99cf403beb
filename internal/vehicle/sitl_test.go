package vehicle

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestSITLFollowsSetpoint(t *testing.T) {
	s := NewSITL(50 * time.Millisecond)
	ctx := context.Background()
	if err := s.Arm(ctx); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if err := s.StartOffboard(ctx); err != nil {
		t.Fatalf("StartOffboard: %v", err)
	}
	if err := s.SetPositionNED(ctx, PositionNEDYaw{North: 3, East: 0, Down: -2.5}); err != nil {
		t.Fatalf("SetPositionNED: %v", err)
	}
	for i := 0; i < 200; i++ {
		s.Step(0.05)
	}
	pos := s.Position()
	if math.Abs(pos.North-3) > 0.1 || math.Abs(pos.Down+2.5) > 0.1 {
		t.Errorf("vehicle did not converge to setpoint: %+v", pos)
	}
}

func TestSITLRequiresArming(t *testing.T) {
	s := NewSITL(0)
	ctx := context.Background()
	if err := s.Takeoff(ctx); err != ErrNotArmed {
		t.Errorf("Takeoff while disarmed: err = %v, want ErrNotArmed", err)
	}
	if err := s.StartOffboard(ctx); err != ErrNotArmed {
		t.Errorf("StartOffboard while disarmed: err = %v, want ErrNotArmed", err)
	}
}

func TestSITLStreamsDeliverSamples(t *testing.T) {
	s := NewSITL(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pv := s.PositionVelocity(ctx)
	att := s.Attitude(ctx)
	mode := s.FlightMode(ctx)

	s.Step(0.05)

	select {
	case sample := <-pv:
		_ = sample
	default:
		t.Error("no position+velocity sample after step")
	}
	select {
	case <-att:
	default:
		t.Error("no attitude sample after step")
	}
	select {
	case m := <-mode:
		if m != "HOLD" {
			t.Errorf("mode = %q, want HOLD", m)
		}
	default:
		t.Error("no flight mode sample after step")
	}
}

func TestSITLSpeedCap(t *testing.T) {
	s := NewSITL(0)
	ctx := context.Background()
	_ = s.Arm(ctx)
	_ = s.SetPositionNED(ctx, PositionNEDYaw{North: 1000})
	s.Step(0.05)
	pos := s.Position()
	if pos.North > s.maxSpeed*0.05+1e-9 {
		t.Errorf("moved %f m in one 50ms step, exceeds speed cap", pos.North)
	}
}

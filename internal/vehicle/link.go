// Package vehicle defines the actuator/sensor contract the mission
// core depends on, plus a SITL stand-in for local runs and tests.
package vehicle

import (
	"context"

	"missionops/internal/telemetry"
)

// PositionNEDYaw is one outbound position setpoint.
type PositionNEDYaw struct {
	North  float64
	East   float64
	Down   float64
	YawDeg float64
}

// VelocityNEDYaw is one outbound velocity setpoint.
type VelocityNEDYaw struct {
	VN     float64
	VE     float64
	VD     float64
	YawDeg float64
}

// PositionVelocity is one sample from the combined position+velocity
// telemetry stream.
type PositionVelocity struct {
	Position telemetry.PositionNED
	Velocity telemetry.VelocityNED
}

// Link is the vehicle command and telemetry contract. Offboard control
// requires an unbroken setpoint stream, so SetPositionNED failures are
// treated as fatal by callers.
type Link interface {
	// Commands.
	Arm(ctx context.Context) error
	SetTakeoffAltitude(ctx context.Context, altM float64) error
	Takeoff(ctx context.Context) error
	Land(ctx context.Context) error
	Disarm(ctx context.Context) error
	StartOffboard(ctx context.Context) error
	StopOffboard(ctx context.Context) error
	SetPositionNED(ctx context.Context, sp PositionNEDYaw) error
	SetVelocityNED(ctx context.Context, sp VelocityNEDYaw) error

	// Telemetry streams. A stream stops delivering when ctx is done;
	// the channel may or may not be closed, so consumers select on
	// ctx as well.
	PositionVelocity(ctx context.Context) <-chan PositionVelocity
	Attitude(ctx context.Context) <-chan telemetry.AttitudeDeg
	FlightMode(ctx context.Context) <-chan string
}

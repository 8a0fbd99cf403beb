package telemetry

import "time"

// Record is one recorded telemetry sample, ready for a sink write.
type Record struct {
	MissionID string `json:"mission_id"` // TAG

	// RelTime is seconds since the recorder started; it matches the
	// trajectory elapsed time once mission t0 is captured.
	RelTime float64 `json:"relative_time_s"`
	// Unix is the absolute sample time in unix seconds.
	Unix float64 `json:"absolute_unix_time"`

	Position *PositionNED `json:"position,omitempty"`
	Velocity *VelocityNED `json:"velocity,omitempty"`
	Attitude *AttitudeDeg `json:"attitude,omitempty"`

	FlightMode string `json:"flight_mode,omitempty"`
	Phase      Phase  `json:"mission_phase"`

	// MissionT0Unix is the shared time origin, nil before capture.
	MissionT0Unix *float64 `json:"mission_t0_unix,omitempty"`

	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// Event is a notable mission occurrence (phase change, safety trip,
// terminal action) emitted alongside telemetry records.
type Event struct {
	MissionID string    `json:"mission_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"ts"`
}

// Event kinds.
const (
	EventPhase      = "phase"
	EventSafetyTrip = "safety_trip"
	EventTerminal   = "terminal"
)

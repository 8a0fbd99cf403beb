// Telemetry value types in the local NED frame.
package telemetry

// PositionNED is a position in meters relative to the local origin.
// Down is positive toward the ground, so flying at 2.5 m means Down=-2.5.
type PositionNED struct {
	North float64 `json:"north_m"`
	East  float64 `json:"east_m"`
	Down  float64 `json:"down_m"`
}

// VelocityNED is a velocity in m/s in the NED frame.
type VelocityNED struct {
	VN float64 `json:"vn_m_s"`
	VE float64 `json:"ve_m_s"`
	VD float64 `json:"vd_m_s"`
}

// AttitudeDeg is a vehicle attitude in degrees (Euler angles).
type AttitudeDeg struct {
	Roll  float64 `json:"roll_deg"`
	Pitch float64 `json:"pitch_deg"`
	Yaw   float64 `json:"yaw_deg"`
}

// Phase is the coarse mission stage marker.
type Phase string

const (
	PhaseInit       Phase = "INIT"
	PhaseAlign      Phase = "ALIGN"
	PhaseTrajectory Phase = "TRAJECTORY"
	PhaseLanding    Phase = "LANDING"
	PhaseDone       Phase = "DONE"
)

// Snapshot is a point-in-time view of the last known vehicle state.
// A nil field means no sample has arrived yet; consumers must not
// treat that as zero.
type Snapshot struct {
	Position   *PositionNED
	Velocity   *VelocityNED
	Attitude   *AttitudeDeg
	FlightMode string
	Phase      Phase
}

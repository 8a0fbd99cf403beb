// YAML mission config loader with CUE schema validation.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"missionops/internal/mission"
	"missionops/internal/trajectory"
)

// Link describes the vehicle connection.
type Link struct {
	// Endpoint is the flight-stack address, or "sitl" for the built-in
	// simulated vehicle.
	Endpoint string `yaml:"endpoint"`
}

// Flight holds the basic flight parameters.
type Flight struct {
	TakeoffAltM   float64 `yaml:"takeoff_alt_m"`
	CommandRateHz float64 `yaml:"command_rate_hz"`
	TakeoffWaitS  float64 `yaml:"takeoff_wait_s"`
}

// Trajectory selects and parameterizes the reference path.
type Trajectory struct {
	Shape      string  `yaml:"shape"` // circle, figure8, spiral
	RadiusM    float64 `yaml:"radius_m"`
	OmegaRadS  float64 `yaml:"omega_rad_s"`
	CenterN    float64 `yaml:"center_north_m"`
	CenterE    float64 `yaml:"center_east_m"`
	StartDownM float64 `yaml:"start_down_m"` // spiral only
	EndDownM   float64 `yaml:"end_down_m"`   // spiral only
}

// Align configures the pre-trajectory alignment segment.
type Align struct {
	DurationS float64 `yaml:"duration_s"`
	SettleS   float64 `yaml:"settle_s"`
}

// Safety holds the supervisor thresholds.
type Safety struct {
	DriftMaxM      float64 `yaml:"drift_max_m"`
	SpeedMaxMS     float64 `yaml:"speed_max_m_s"`
	AttitudeMaxDeg float64 `yaml:"attitude_max_deg"`
	TimeoutFactor  float64 `yaml:"timeout_factor"`
	PollRateHz     float64 `yaml:"poll_rate_hz"`
}

// Recorder configures telemetry recording.
type Recorder struct {
	RateHz float64 `yaml:"rate_hz"`
	Output string  `yaml:"output"`
}

// MissionConfig is the root configuration for one mission run.
type MissionConfig struct {
	Link       Link       `yaml:"link"`
	Flight     Flight     `yaml:"flight"`
	Trajectory Trajectory `yaml:"trajectory"`
	Align      Align      `yaml:"align"`
	Safety     Safety     `yaml:"safety"`
	Recorder   Recorder   `yaml:"recorder"`
}

// Load loads the YAML config, validates it against the CUE schema, and
// fills defaults for omitted fields.
func Load(configPath, cueSchemaPath string) (*MissionConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg MissionConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.check(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *MissionConfig) applyDefaults() {
	if c.Link.Endpoint == "" {
		c.Link.Endpoint = "sitl"
	}
	if c.Flight.TakeoffAltM <= 0 {
		c.Flight.TakeoffAltM = 2.5
	}
	if c.Flight.CommandRateHz <= 0 {
		c.Flight.CommandRateHz = 20
	}
	if c.Flight.TakeoffWaitS <= 0 {
		c.Flight.TakeoffWaitS = 5
	}
	if c.Trajectory.Shape == "" {
		c.Trajectory.Shape = "circle"
	}
	if c.Trajectory.RadiusM <= 0 {
		c.Trajectory.RadiusM = 3.0
	}
	if c.Trajectory.OmegaRadS == 0 {
		c.Trajectory.OmegaRadS = 0.3
	}
	if c.Align.DurationS <= 0 {
		c.Align.DurationS = 3.0
	}
	if c.Align.SettleS <= 0 {
		c.Align.SettleS = 0.5
	}
	if c.Safety.DriftMaxM <= 0 {
		c.Safety.DriftMaxM = 1.8
	}
	if c.Safety.SpeedMaxMS <= 0 {
		c.Safety.SpeedMaxMS = 3.5
	}
	if c.Safety.AttitudeMaxDeg <= 0 {
		c.Safety.AttitudeMaxDeg = 30
	}
	if c.Safety.TimeoutFactor <= 0 {
		c.Safety.TimeoutFactor = 1.5
	}
	if c.Safety.PollRateHz <= 0 {
		c.Safety.PollRateHz = 10
	}
	if c.Recorder.RateHz <= 0 {
		c.Recorder.RateHz = 10
	}
	if c.Recorder.Output == "" {
		c.Recorder.Output = "mission_log.csv"
	}
	if c.Trajectory.Shape == "spiral" && c.Trajectory.EndDownM == 0 {
		c.Trajectory.EndDownM = -5.0
	}
}

func (c *MissionConfig) check() error {
	switch c.Trajectory.Shape {
	case "circle", "figure8", "spiral":
	default:
		return fmt.Errorf("config: unknown trajectory shape %q", c.Trajectory.Shape)
	}
	return nil
}

// BuildTrajectory constructs the configured reference path.
func (c *MissionConfig) BuildTrajectory() (trajectory.Trajectory, error) {
	tc := c.Trajectory
	switch tc.Shape {
	case "circle":
		return trajectory.NewCircle(tc.RadiusM, tc.OmegaRadS, tc.CenterN, tc.CenterE)
	case "figure8":
		return trajectory.NewFigure8(tc.RadiusM, tc.OmegaRadS, tc.CenterN, tc.CenterE)
	case "spiral":
		return trajectory.NewSpiral(tc.RadiusM, tc.OmegaRadS, tc.CenterN, tc.CenterE, tc.StartDownM, tc.EndDownM)
	default:
		return nil, fmt.Errorf("config: unknown trajectory shape %q", tc.Shape)
	}
}

// MissionParams maps the config onto mission run parameters.
func (c *MissionConfig) MissionParams() (mission.Params, error) {
	traj, err := c.BuildTrajectory()
	if err != nil {
		return mission.Params{}, err
	}
	return mission.Params{
		Trajectory:      traj,
		AltitudeM:       c.Flight.TakeoffAltM,
		CommandInterval: hzToInterval(c.Flight.CommandRateHz),
		PollInterval:    hzToInterval(c.Safety.PollRateHz),
		RecordInterval:  hzToInterval(c.Recorder.RateHz),
		AlignDuration:   secToDuration(c.Align.DurationS),
		AlignSettle:     secToDuration(c.Align.SettleS),
		TakeoffWait:     secToDuration(c.Flight.TakeoffWaitS),
		LandRetries:     3,
		LandWait:        5 * time.Second,
		Limits: mission.Limits{
			DriftMaxM:      c.Safety.DriftMaxM,
			SpeedMaxMS:     c.Safety.SpeedMaxMS,
			AttitudeMaxDeg: c.Safety.AttitudeMaxDeg,
			TimeoutFactor:  c.Safety.TimeoutFactor,
		},
	}, nil
}

func hzToInterval(hz float64) time.Duration {
	return time.Duration(float64(time.Second) / hz)
}

func secToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"missionops/internal/trajectory"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mission.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	yamlContent := `
link:
  endpoint: sitl
trajectory:
  shape: figure8
  radius_m: 4.0
  omega_rad_s: 0.5
safety:
  drift_max_m: 2.0
`
	path := writeTempConfig(t, yamlContent)

	cfg, err := Load(path, "../../schemas/mission.cue")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Trajectory.Shape != "figure8" || cfg.Trajectory.RadiusM != 4.0 {
		t.Errorf("unexpected trajectory config: %+v", cfg.Trajectory)
	}
	if cfg.Safety.DriftMaxM != 2.0 {
		t.Errorf("DriftMaxM = %v, want 2.0", cfg.Safety.DriftMaxM)
	}
	// Omitted fields fall back to defaults.
	if cfg.Safety.SpeedMaxMS != 3.5 {
		t.Errorf("SpeedMaxMS default = %v, want 3.5", cfg.Safety.SpeedMaxMS)
	}
	if cfg.Safety.TimeoutFactor != 1.5 {
		t.Errorf("TimeoutFactor default = %v, want 1.5", cfg.Safety.TimeoutFactor)
	}
	if cfg.Recorder.Output != "mission_log.csv" {
		t.Errorf("Recorder.Output default = %q", cfg.Recorder.Output)
	}
}

func TestLoadRejectsZeroOmega(t *testing.T) {
	yamlContent := `
trajectory:
  shape: circle
  radius_m: 3.0
  omega_rad_s: 0
`
	path := writeTempConfig(t, yamlContent)

	if _, err := Load(path, "../../schemas/mission.cue"); err == nil {
		t.Fatal("Load() accepted omega_rad_s: 0")
	}
}

func TestLoadRejectsUnknownShape(t *testing.T) {
	yamlContent := `
trajectory:
  shape: zigzag
`
	path := writeTempConfig(t, yamlContent)

	if _, err := Load(path, "../../schemas/mission.cue"); err == nil {
		t.Fatal("Load() accepted unknown trajectory shape")
	}
}

func TestBuildTrajectory(t *testing.T) {
	cfg := &MissionConfig{}
	cfg.applyDefaults()

	traj, err := cfg.BuildTrajectory()
	if err != nil {
		t.Fatalf("BuildTrajectory() returned error: %v", err)
	}
	if _, ok := traj.(*trajectory.Circle); !ok {
		t.Errorf("default trajectory is %T, want *trajectory.Circle", traj)
	}

	cfg.Trajectory.Shape = "spiral"
	cfg.Trajectory.EndDownM = -6
	traj, err = cfg.BuildTrajectory()
	if err != nil {
		t.Fatalf("BuildTrajectory(spiral) returned error: %v", err)
	}
	if _, ok := traj.(trajectory.VerticalProfile); !ok {
		t.Errorf("spiral trajectory %T does not expose a vertical profile", traj)
	}
}

func TestMissionParams(t *testing.T) {
	cfg := &MissionConfig{}
	cfg.applyDefaults()

	p, err := cfg.MissionParams()
	if err != nil {
		t.Fatalf("MissionParams() returned error: %v", err)
	}
	if p.CommandInterval.Seconds() != 0.05 {
		t.Errorf("CommandInterval = %v, want 50ms", p.CommandInterval)
	}
	if p.PollInterval.Seconds() != 0.1 {
		t.Errorf("PollInterval = %v, want 100ms", p.PollInterval)
	}
	if p.Limits.DriftMaxM != 1.8 {
		t.Errorf("Limits.DriftMaxM = %v, want 1.8", p.Limits.DriftMaxM)
	}
}

package sink

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"missionops/internal/telemetry"
)

func TestCSVWriterSchemaAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mission.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	t0 := 1700000000.0
	full := telemetry.Record{
		MissionID:     "m1",
		RelTime:       1.5,
		Unix:          t0 + 1.5,
		Position:      &telemetry.PositionNED{North: 3, East: 0, Down: -2.5},
		Velocity:      &telemetry.VelocityNED{VN: 0.1, VE: 0.9, VD: 0},
		Attitude:      &telemetry.AttitudeDeg{Roll: 1, Pitch: -2, Yaw: 90},
		FlightMode:    "OFFBOARD",
		Phase:         telemetry.PhaseTrajectory,
		MissionT0Unix: &t0,
		Timestamp:     time.Unix(1700000001, 0),
	}
	// Attitude not yet sampled: those cells must be blank, not zero.
	partial := telemetry.Record{
		RelTime:  0.1,
		Unix:     t0 + 0.1,
		Position: &telemetry.PositionNED{},
		Velocity: &telemetry.VelocityNED{},
		Phase:    telemetry.PhaseInit,
	}
	if err := w.Write(full); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Write(partial); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "relative_time_s" || rows[0][13] != "mission_t0_unix" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][2] != "3.000" || rows[1][12] != "TRAJECTORY" {
		t.Errorf("unexpected full row: %v", rows[1])
	}
	for _, idx := range []int{8, 9, 10} {
		if rows[2][idx] != "" {
			t.Errorf("unset attitude cell %d = %q, want blank", idx, rows[2][idx])
		}
	}
	if rows[2][13] != "" {
		t.Errorf("unset t0 cell = %q, want blank", rows[2][13])
	}
}

func TestCSVWriterBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}
	recs := []telemetry.Record{
		{RelTime: 0, Phase: telemetry.PhaseInit},
		{RelTime: 0.1, Phase: telemetry.PhaseAlign},
	}
	if err := w.WriteBatch(recs); err != nil {
		t.Fatalf("WriteBatch: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	if lines != 3 {
		t.Errorf("expected 3 lines, got %d", lines)
	}
}

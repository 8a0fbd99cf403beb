package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"missionops/internal/telemetry"
)

// csvHeader is the recorded telemetry schema. Unset snapshot fields
// serialize as blank cells.
var csvHeader = []string{
	"relative_time_s", "absolute_unix_time",
	"north_m", "east_m", "down_m",
	"vn_m_s", "ve_m_s", "vd_m_s",
	"roll_deg", "pitch_deg", "yaw_deg",
	"flight_mode", "mission_phase", "mission_t0_unix",
}

// CSVWriter appends one CSV row per recorded sample.
type CSVWriter struct {
	file *os.File
	w    *csv.Writer
}

// NewCSVWriter creates the output file and writes the header row.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVWriter{file: f, w: w}, nil
}

// Write appends a single record.
func (c *CSVWriter) Write(rec telemetry.Record) error {
	row := make([]string, 0, len(csvHeader))
	row = append(row,
		strconv.FormatFloat(rec.RelTime, 'f', 3, 64),
		strconv.FormatFloat(rec.Unix, 'f', 3, 64),
	)
	if rec.Position != nil {
		row = append(row, f3(rec.Position.North), f3(rec.Position.East), f3(rec.Position.Down))
	} else {
		row = append(row, "", "", "")
	}
	if rec.Velocity != nil {
		row = append(row, f3(rec.Velocity.VN), f3(rec.Velocity.VE), f3(rec.Velocity.VD))
	} else {
		row = append(row, "", "", "")
	}
	if rec.Attitude != nil {
		row = append(row, f3(rec.Attitude.Roll), f3(rec.Attitude.Pitch), f3(rec.Attitude.Yaw))
	} else {
		row = append(row, "", "", "")
	}
	row = append(row, rec.FlightMode, string(rec.Phase))
	if rec.MissionT0Unix != nil {
		row = append(row, strconv.FormatFloat(*rec.MissionT0Unix, 'f', 3, 64))
	} else {
		row = append(row, "")
	}
	return c.w.Write(row)
}

// WriteBatch appends multiple records.
func (c *CSVWriter) WriteBatch(recs []telemetry.Record) error {
	for _, r := range recs {
		if err := c.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Flush pushes buffered rows to the file.
func (c *CSVWriter) Flush() error {
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.file.Close()
		return fmt.Errorf("csv flush: %w", err)
	}
	return c.file.Close()
}

func f3(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

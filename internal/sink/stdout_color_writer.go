package sink

import (
	"fmt"
	"io"
	"os"
	"time"

	"missionops/internal/telemetry"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

// ColorStdoutWriter prints telemetry records using ANSI colors.
type ColorStdoutWriter struct {
	out io.Writer
}

// NewColorStdoutWriter creates a ColorStdoutWriter writing to os.Stdout.
func NewColorStdoutWriter() *ColorStdoutWriter {
	return &ColorStdoutWriter{out: os.Stdout}
}

// Write outputs a single record in colorized format.
func (w *ColorStdoutWriter) Write(rec telemetry.Record) error {
	line := fmt.Sprintf("%s[%7.3fs]%s %s%s%s",
		colorGray, rec.RelTime, colorReset,
		phaseColor(rec.Phase), rec.Phase, colorReset)
	if rec.Position != nil {
		line += fmt.Sprintf(" %sned=(%.2f, %.2f, %.2f)%s", colorGreen,
			rec.Position.North, rec.Position.East, rec.Position.Down, colorReset)
	}
	if rec.Velocity != nil {
		line += fmt.Sprintf(" %svel=(%.2f, %.2f, %.2f)%s", colorYellow,
			rec.Velocity.VN, rec.Velocity.VE, rec.Velocity.VD, colorReset)
	}
	if rec.Attitude != nil {
		line += fmt.Sprintf(" %srpy=(%.1f, %.1f, %.1f)%s", colorMagenta,
			rec.Attitude.Roll, rec.Attitude.Pitch, rec.Attitude.Yaw, colorReset)
	}
	if rec.FlightMode != "" {
		line += fmt.Sprintf(" %smode=%s%s", colorBlue, rec.FlightMode, colorReset)
	}
	_, err := fmt.Fprintln(w.out, line)
	return err
}

// WriteEvent outputs a mission event.
func (w *ColorStdoutWriter) WriteEvent(e telemetry.Event) error {
	color := colorCyan
	if e.Kind == telemetry.EventSafetyTrip {
		color = colorRed
	}
	_, err := fmt.Fprintf(w.out, "%s[%s]%s %s%s%s %s\n",
		colorGray, e.Timestamp.Format(time.RFC3339), colorReset,
		color, e.Kind, colorReset, e.Detail)
	return err
}

func phaseColor(p telemetry.Phase) string {
	switch p {
	case telemetry.PhaseTrajectory:
		return colorGreen
	case telemetry.PhaseLanding, telemetry.PhaseDone:
		return colorBlue
	default:
		return colorYellow
	}
}

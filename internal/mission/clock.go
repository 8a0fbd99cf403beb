// Package mission contains the mission execution and safety
// supervision core: the executor tick loop, the independent safety
// supervisor, telemetry ingestion and recording, and the single-point
// shutdown coordinator.
package mission

import "time"

// Clock supplies the time base shared by the executor and the
// supervisor. Injected so tests can drive both from one fixed clock.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock implementation.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

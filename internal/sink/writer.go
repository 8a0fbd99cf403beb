// Package sink provides durable and interactive outputs for recorded
// mission telemetry.
package sink

import "missionops/internal/telemetry"

// RecordWriter receives recorded telemetry samples.
type RecordWriter interface {
	Write(telemetry.Record) error
}

// EventWriter receives notable mission events. Writers that only care
// about telemetry rows need not implement it.
type EventWriter interface {
	WriteEvent(telemetry.Event) error
}

// Optional: record writers may support batch mode.
type batchRecordWriter interface {
	WriteBatch([]telemetry.Record) error
}

// Flusher is implemented by writers that buffer rows.
type Flusher interface {
	Flush() error
}

package mission

import (
	"context"
	"log/slog"
	"time"

	"missionops/internal/logging"
	"missionops/internal/observability"
	"missionops/internal/sink"
	"missionops/internal/telemetry"
)

// Recorder samples the store at a fixed rate and appends one record
// per sample to the sink. It runs as an independent task so a slow
// sink never delays the executor or the supervisor.
type Recorder struct {
	store     *telemetry.Store
	writer    sink.RecordWriter
	clock     Clock
	interval  time.Duration
	missionID string
	metrics   *observability.Collector
}

// NewRecorder creates a recorder sampling at the given interval.
func NewRecorder(store *telemetry.Store, writer sink.RecordWriter, clock Clock, interval time.Duration, missionID string, metrics *observability.Collector) *Recorder {
	return &Recorder{
		store:     store,
		writer:    writer,
		clock:     clock,
		interval:  interval,
		missionID: missionID,
		metrics:   metrics,
	}
}

// Run samples until the mission stops running, then performs a final
// flush. The shutdown coordinator awaits this return before the sink
// is closed.
func (r *Recorder) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("telemetry recorder started", "interval", r.interval)

	start := r.clock.Now()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for r.store.Running() {
		select {
		case <-ctx.Done():
			r.flush(log)
			return
		case <-ticker.C:
			now := r.clock.Now()
			snap := r.store.Snapshot()
			// Position and velocity arrive on one stream; a row
			// without them carries no signal worth recording.
			if snap.Position == nil || snap.Velocity == nil {
				continue
			}
			rec := telemetry.Record{
				MissionID:  r.missionID,
				RelTime:    now.Sub(start).Seconds(),
				Unix:       float64(now.UnixNano()) / 1e9,
				Position:   snap.Position,
				Velocity:   snap.Velocity,
				Attitude:   snap.Attitude,
				FlightMode: snap.FlightMode,
				Phase:      snap.Phase,
				Timestamp:  now,
			}
			if t0, ok := r.store.MissionT0(); ok {
				rec.RelTime = now.Sub(t0).Seconds()
				t0Unix := float64(t0.UnixNano()) / 1e9
				rec.MissionT0Unix = &t0Unix
			}
			if err := r.writer.Write(rec); err != nil {
				log.Error("record write failed", "err", err)
				continue
			}
			r.metrics.IncRecords()
		}
	}
	r.flush(log)
}

func (r *Recorder) flush(log *slog.Logger) {
	if f, ok := r.writer.(sink.Flusher); ok {
		if err := f.Flush(); err != nil {
			log.Error("final flush failed", "err", err)
		}
	}
}

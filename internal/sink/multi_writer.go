package sink

import "missionops/internal/telemetry"

// MultiWriter fans records and events out to multiple writers.
type MultiWriter struct {
	writers []RecordWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(ws ...RecordWriter) *MultiWriter {
	return &MultiWriter{writers: ws}
}

// Write sends a record to all writers.
func (mw *MultiWriter) Write(rec telemetry.Record) error {
	for _, w := range mw.writers {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple records to all writers, using batch mode
// where supported.
func (mw *MultiWriter) WriteBatch(recs []telemetry.Record) error {
	for _, w := range mw.writers {
		if bw, ok := w.(batchRecordWriter); ok {
			if err := bw.WriteBatch(recs); err != nil {
				return err
			}
			continue
		}
		for _, r := range recs {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteEvent sends an event to every writer that accepts events.
func (mw *MultiWriter) WriteEvent(e telemetry.Event) error {
	for _, w := range mw.writers {
		if ew, ok := w.(EventWriter); ok {
			if err := ew.WriteEvent(e); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush flushes every buffering writer.
func (mw *MultiWriter) Flush() error {
	for _, w := range mw.writers {
		if f, ok := w.(Flusher); ok {
			if err := f.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

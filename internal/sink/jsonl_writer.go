package sink

import (
	"encoding/json"
	"os"

	"missionops/internal/telemetry"
)

// JSONLWriter writes telemetry records and mission events to JSONL
// files, mainly for debugging and replay tooling.
type JSONLWriter struct {
	recFile   *os.File
	eventFile *os.File
	recEnc    *json.Encoder
	eventEnc  *json.Encoder
}

// NewJSONLWriter creates a JSONLWriter. eventPath may be empty to skip
// the event log.
func NewJSONLWriter(recordPath, eventPath string) (*JSONLWriter, error) {
	rf, err := os.Create(recordPath)
	if err != nil {
		return nil, err
	}
	w := &JSONLWriter{recFile: rf, recEnc: json.NewEncoder(rf)}
	if eventPath != "" {
		ef, err := os.Create(eventPath)
		if err != nil {
			rf.Close()
			return nil, err
		}
		w.eventFile = ef
		w.eventEnc = json.NewEncoder(ef)
	}
	return w, nil
}

// Write logs a single telemetry record.
func (w *JSONLWriter) Write(rec telemetry.Record) error {
	return w.recEnc.Encode(rec)
}

// WriteBatch logs multiple telemetry records.
func (w *JSONLWriter) WriteBatch(recs []telemetry.Record) error {
	for _, r := range recs {
		if err := w.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteEvent logs a single mission event, if enabled.
func (w *JSONLWriter) WriteEvent(e telemetry.Event) error {
	if w.eventEnc == nil {
		return nil
	}
	return w.eventEnc.Encode(e)
}

// Close closes the underlying files.
func (w *JSONLWriter) Close() error {
	var err error
	if w.recFile != nil {
		if e := w.recFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if w.eventFile != nil {
		if e := w.eventFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

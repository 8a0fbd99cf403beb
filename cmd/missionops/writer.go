package main

import (
	"log/slog"
	"os"

	"golang.org/x/term"

	"missionops/internal/config"
	"missionops/internal/sink"
)

// newWriters assembles the telemetry sinks based on flags and env vars.
// It returns the writer and a cleanup function to close any resources.
func newWriters(cfg *config.MissionConfig, printOnly, tui bool, logFile string, log *slog.Logger) (sink.RecordWriter, func(), error) {
	var (
		writers  []sink.RecordWriter
		closers  []func()
		closeAll = func() {
			for _, c := range closers {
				c()
			}
		}
	)

	csv, err := sink.NewCSVWriter(cfg.Recorder.Output)
	if err != nil {
		return nil, nil, err
	}
	writers = append(writers, csv)
	closers = append(closers, func() { _ = csv.Close() })

	if endpoint := os.Getenv("GREPTIMEDB_ENDPOINT"); endpoint != "" && !printOnly {
		table := os.Getenv("GREPTIMEDB_TABLE")
		if table == "" {
			table = "mission_telemetry"
		}
		gw, err := sink.NewGreptimeWriter(endpoint, "public", table, log)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		writers = append(writers, gw)
	}

	if logFile != "" {
		jw, err := sink.NewJSONLWriter(logFile, logFile+".events")
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		writers = append(writers, jw)
		closers = append(closers, func() { _ = jw.Close() })
	}

	if tui && term.IsTerminal(int(os.Stdout.Fd())) {
		tw := sink.NewTUIWriter("")
		writers = append(writers, tw)
		closers = append(closers, func() { _ = tw.Close() })
	} else {
		writers = append(writers, sink.NewColorStdoutWriter())
	}

	if len(writers) == 1 {
		return writers[0], closeAll, nil
	}
	return sink.NewMultiWriter(writers...), closeAll, nil
}

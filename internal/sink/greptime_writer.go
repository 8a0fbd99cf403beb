package sink

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"

	"missionops/internal/telemetry"
)

// greptimeFloatColumns are the numeric fields of one telemetry row, in
// schema order between the mission_id tag and the string fields.
var greptimeFloatColumns = []string{
	"relative_time_s",
	"north_m", "east_m", "down_m",
	"vn_m_s", "ve_m_s", "vd_m_s",
	"roll_deg", "pitch_deg", "yaw_deg",
}

// GreptimeWriter writes mission telemetry to GreptimeDB via the
// ingester client. The table is auto-created on first ingest.
type GreptimeWriter struct {
	client *greptime.Client
	table  string
	log    *slog.Logger
}

// NewGreptimeWriter connects the ingester client. endpoint is
// host[:port]; the port defaults to the ingester gRPC port.
func NewGreptimeWriter(endpoint, database, tableName string, log *slog.Logger) (*GreptimeWriter, error) {
	if tableName == "" {
		tableName = "mission_telemetry"
	}
	host, port, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, err
	}
	cfg := greptime.NewConfig(host).WithDatabase(database)
	if port != 0 {
		cfg = cfg.WithPort(port)
	}
	client, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &GreptimeWriter{client: client, table: tableName, log: log}, nil
}

// Write inserts a single record.
func (w *GreptimeWriter) Write(rec telemetry.Record) error {
	return w.WriteBatch([]telemetry.Record{rec})
}

// WriteBatch inserts multiple records. Rows with unset position,
// velocity, or attitude are skipped; the durable CSV sink keeps those
// as blanks.
func (w *GreptimeWriter) WriteBatch(recs []telemetry.Record) error {
	tbl, err := w.buildTable(recs)
	if err != nil {
		return err
	}
	if tbl.IsRowEmpty() {
		return nil
	}
	if _, err := w.client.Write(context.Background(), tbl); err != nil {
		w.log.Error("greptime write failed", "err", err)
		return err
	}
	return nil
}

// buildTable maps records onto one ingester table, dropping rows with
// unset telemetry.
func (w *GreptimeWriter) buildTable(recs []telemetry.Record) (*table.Table, error) {
	tbl, err := table.New(w.table)
	if err != nil {
		return nil, err
	}
	if err := tbl.AddTagColumn("mission_id", types.STRING); err != nil {
		return nil, err
	}
	for _, col := range greptimeFloatColumns {
		if err := tbl.AddFieldColumn(col, types.FLOAT64); err != nil {
			return nil, err
		}
	}
	if err := tbl.AddFieldColumn("flight_mode", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddFieldColumn("mission_phase", types.STRING); err != nil {
		return nil, err
	}
	if err := tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND); err != nil {
		return nil, err
	}

	for _, r := range recs {
		if r.Position == nil || r.Velocity == nil || r.Attitude == nil {
			continue
		}
		err := tbl.AddRow(
			r.MissionID,
			r.RelTime,
			r.Position.North, r.Position.East, r.Position.Down,
			r.Velocity.VN, r.Velocity.VE, r.Velocity.VD,
			r.Attitude.Roll, r.Attitude.Pitch, r.Attitude.Yaw,
			r.FlightMode,
			string(r.Phase),
			r.Timestamp,
		)
		if err != nil {
			return nil, err
		}
	}
	return tbl, nil
}

// splitEndpoint parses host[:port]. A missing port returns 0 so the
// client default applies.
func splitEndpoint(endpoint string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return endpoint, 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("greptime endpoint %q: bad port: %w", endpoint, err)
	}
	return host, port, nil
}

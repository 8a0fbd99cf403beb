// Package statusd serves a small HTTP status page, a JSON status
// endpoint, and Prometheus metrics for a running mission.
package statusd

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"missionops/internal/observability"
	"missionops/internal/telemetry"
)

type Server struct {
	store   *telemetry.Store
	metrics *observability.Collector
	mission string
	tpl     *template.Template
	log     *slog.Logger
}

//go:embed templates/index.html
var content embed.FS

func NewServer(missionID string, store *telemetry.Store, metrics *observability.Collector, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	tpl := template.Must(template.New("index.html").ParseFS(content, "templates/index.html"))
	return &Server{store: store, metrics: metrics, mission: missionID, tpl: tpl, log: log}
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/status", s.handleStatus)
	if s.metrics != nil {
		mux.Handle("/metrics", s.metrics.Handler())
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)
	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

type status struct {
	MissionID       string                 `json:"mission_id"`
	Phase           telemetry.Phase        `json:"phase"`
	Running         bool                   `json:"running"`
	Emergency       bool                   `json:"emergency"`
	EmergencyReason string                 `json:"emergency_reason,omitempty"`
	MissionT0Unix   *float64               `json:"mission_t0_unix,omitempty"`
	Position        *telemetry.PositionNED `json:"position,omitempty"`
	Velocity        *telemetry.VelocityNED `json:"velocity,omitempty"`
	Attitude        *telemetry.AttitudeDeg `json:"attitude,omitempty"`
	FlightMode      string                 `json:"flight_mode,omitempty"`
}

func (s *Server) currentStatus() status {
	snap := s.store.Snapshot()
	st := status{
		MissionID:       s.mission,
		Phase:           s.store.Phase(),
		Running:         s.store.Running(),
		Emergency:       s.store.Emergency(),
		EmergencyReason: s.store.EmergencyReason(),
		Position:        snap.Position,
		Velocity:        snap.Velocity,
		Attitude:        snap.Attitude,
		FlightMode:      snap.FlightMode,
	}
	if t0, ok := s.store.MissionT0(); ok {
		unix := float64(t0.UnixNano()) / 1e9
		st.MissionT0Unix = &unix
	}
	return st
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.tpl.Execute(w, s.currentStatus()); err != nil {
		s.log.Error("render status page", "err", err)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.currentStatus())
}

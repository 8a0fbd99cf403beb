package sink

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"missionops/internal/telemetry"
)

type fakeProgram struct{ msgs []tea.Msg }

func (f *fakeProgram) Send(m tea.Msg) { f.msgs = append(f.msgs, m) }

func TestTUIWriterSendsMessages(t *testing.T) {
	p := &fakeProgram{}
	w := &TUIWriter{program: p}

	if err := w.Write(telemetry.Record{RelTime: 1.0, Phase: telemetry.PhaseTrajectory}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.WriteEvent(telemetry.Event{Kind: telemetry.EventSafetyTrip, Detail: "DRIFT TOO HIGH: 2.00 m"}); err != nil {
		t.Fatalf("WriteEvent: %v", err)
	}

	if len(p.msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(p.msgs))
	}
	if rm, ok := p.msgs[0].(recordMsg); !ok || rm.Phase != telemetry.PhaseTrajectory {
		t.Errorf("unexpected first message: %#v", p.msgs[0])
	}
	if em, ok := p.msgs[1].(eventMsg); !ok || em.Kind != telemetry.EventSafetyTrip {
		t.Errorf("unexpected second message: %#v", p.msgs[1])
	}
}

func TestTUIModelTracksRecordAndEvents(t *testing.T) {
	m := newTUIModel("m1")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(tuiModel)
	next, _ = m.Update(recordMsg{telemetry.Record{RelTime: 2.5, Phase: telemetry.PhaseAlign}})
	m = next.(tuiModel)
	if !m.haveRec || m.rec.RelTime != 2.5 {
		t.Errorf("record not tracked: %+v", m.rec)
	}
	next, _ = m.Update(eventMsg{telemetry.Event{Kind: telemetry.EventPhase, Detail: "TRAJECTORY"}})
	m = next.(tuiModel)
	if len(m.lines) != 1 {
		t.Errorf("expected 1 log line, got %d", len(m.lines))
	}
	if m.View() == "" {
		t.Error("view should render")
	}
}

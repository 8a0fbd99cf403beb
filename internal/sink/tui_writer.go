package sink

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"missionops/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// recordMsg carries a telemetry record into the model.
type recordMsg struct{ telemetry.Record }

// eventMsg carries a mission event log line.
type eventMsg struct{ telemetry.Event }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	tripStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
)

// TUIWriter renders live mission telemetry using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(missionID string) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(missionID), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// Quitting the TUI with q/ctrl+c also aborts the mission.
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements RecordWriter.
func (w *TUIWriter) Write(rec telemetry.Record) error {
	w.program.Send(recordMsg{rec})
	return nil
}

// WriteEvent implements EventWriter.
func (w *TUIWriter) WriteEvent(e telemetry.Event) error {
	w.program.Send(eventMsg{e})
	return nil
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	missionID string
	rec       telemetry.Record
	haveRec   bool
	vp        viewport.Model
	lines     []string
	width     int
	ready     bool
}

func newTUIModel(missionID string) tuiModel {
	return tuiModel{missionID: missionID}
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		headerHeight := 7
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight
		}
		m.refresh()
	case recordMsg:
		m.rec = msg.Record
		m.haveRec = true
		if m.missionID == "" {
			m.missionID = msg.MissionID
		}
	case eventMsg:
		line := fmt.Sprintf("[%s] %s %s",
			msg.Timestamp.Format("15:04:05.000"), msg.Kind, msg.Detail)
		if msg.Kind == telemetry.EventSafetyTrip {
			line = tripStyle.Render(line)
		}
		m.lines = append(m.lines, line)
		m.refresh()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *tuiModel) refresh() {
	if !m.ready {
		return
	}
	wrapped := make([]string, len(m.lines))
	for i, l := range m.lines {
		wrapped[i] = wordwrap.String(l, m.vp.Width)
	}
	m.vp.SetContent(joinLines(wrapped))
	m.vp.GotoBottom()
}

func (m tuiModel) View() string {
	if !m.ready {
		return "starting..."
	}
	header := titleStyle.Render("mission "+m.missionID) + "\n"
	if m.haveRec {
		header += fmt.Sprintf("%s %s  %s %.3fs\n",
			labelStyle.Render("phase"), valueStyle.Render(string(m.rec.Phase)),
			labelStyle.Render("t"), m.rec.RelTime)
		if m.rec.Position != nil {
			header += fmt.Sprintf("%s %.2f %.2f %.2f\n", labelStyle.Render("ned"),
				m.rec.Position.North, m.rec.Position.East, m.rec.Position.Down)
		} else {
			header += labelStyle.Render("ned") + " -\n"
		}
		if m.rec.Attitude != nil {
			header += fmt.Sprintf("%s %.1f %.1f %.1f  %s %s\n", labelStyle.Render("rpy"),
				m.rec.Attitude.Roll, m.rec.Attitude.Pitch, m.rec.Attitude.Yaw,
				labelStyle.Render("mode"), m.rec.FlightMode)
		}
	} else {
		header += labelStyle.Render("waiting for telemetry...") + "\n"
	}
	return headerStyle.Render(header) + "\n" + m.vp.View()
}

func joinLines(lines []string) string {
	out := ""
	for i, l := range lines {
		if i > 0 {
			out += "\n"
		}
		out += l
	}
	return out
}

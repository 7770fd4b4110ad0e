package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/session"
	"github.com/sandeepkv93/pomo/internal/views"
)

func (m Model) handleTimerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case " ", "s":
		if m.timer.Running() {
			m.timer.Pause()
			m.Status = StatusBar{Text: "timer paused"}
			return m, nil
		}
		return m.startTimer()
	case "r":
		m.timer.Reset()
		m.Status = StatusBar{Text: "timer reset"}
	case "f":
		return m.selectMode(model.ModeFocus), nil
	case "b":
		return m.selectMode(model.ModeBreak), nil
	case "w":
		return m.selectMode(model.ModeFreeWrite), nil
	}
	return m, nil
}

func (m Model) startTimer() (Model, tea.Cmd) {
	handle, ok, err := m.timer.Start()
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}
	if !ok {
		if m.timer.Remaining() == 0 {
			m.Status = StatusBar{Text: "timer finished; press r to reset"}
		}
		return m, nil
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s running", m.timer.Mode().DisplayName())}
	return m, waitForTickCmd(handle)
}

func (m Model) selectMode(mode model.Mode) Model {
	if err := m.timer.SelectMode(mode); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("mode: %s", mode.DisplayName())}
	return m
}

func (m Model) onTick(msg TickMsg) (Model, tea.Cmd) {
	if !m.timer.Running() || msg.Source != m.timer.Handle() {
		return m, nil
	}
	m.timer.Advance(m.tickSteps(msg))
	if m.timer.Running() {
		return m, waitForTickCmd(msg.Source)
	}
	return m, nil
}

// tickSteps is the number of seconds a tick accounts for: one, plus any
// intervals the ticker dropped while Update was busy.
func (m *Model) tickSteps(msg TickMsg) int {
	if msg.Source != m.tickSource {
		m.tickSource = msg.Source
		m.lastTickSeq = 0
	}
	steps := 1
	if msg.Seq > m.lastTickSeq {
		steps = int(msg.Seq - m.lastTickSeq)
	}
	if msg.Seq != 0 {
		m.lastTickSeq = msg.Seq
	}
	return steps
}

func waitForTickCmd(handle session.Ticks) tea.Cmd {
	if handle == nil {
		return nil
	}
	ch := handle.C()
	return func() tea.Msg {
		tick, ok := <-ch
		if !ok {
			return nil
		}
		return TickMsg{Source: handle, Seq: tick.Seq}
	}
}

func (m Model) renderTimerView() string {
	label := ""
	if task, ok := m.timer.ActiveTask(); ok {
		label = task.Label()
	}
	modes := make([]string, 0, len(model.Modes))
	for _, md := range model.Modes {
		modes = append(modes, md.DisplayName())
	}
	pct := m.timer.Progress()
	return views.RenderTimerPanel(views.TimerPanelData{
		Mode:         m.timer.Mode().DisplayName(),
		Modes:        modes,
		Clock:        formatClock(m.timer.Remaining()),
		Running:      m.timer.Running(),
		ProgressView: m.timerProgress.ViewAs(pct),
		ProgressPct:  int(pct * 100),
		TaskLabel:    label,
		FreeWrite:    m.timer.Mode() == model.ModeFreeWrite,
		Finished:     m.timer.State() == session.StateCompleted,
	})
}

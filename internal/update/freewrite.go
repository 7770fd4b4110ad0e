package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/views"
)

func (m Model) handleFreeWriteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.CurrentView = ViewTimer
		return m, nil
	case "ctrl+s":
		m.savePad()
		return m, nil
	}
	var cmd tea.Cmd
	m.padArea, cmd = m.padArea.Update(msg)
	m.pad.SetText(m.padArea.Value())
	return m, cmd
}

func (m *Model) savePad() {
	if err := m.pad.Save(m.ctx); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return
	}
	m.Status = StatusBar{Text: "Free-write saved"}
}

func (m Model) renderFreeWriteView() string {
	line := ""
	if m.timer.Mode() == model.ModeFreeWrite {
		state := "paused"
		if m.timer.Running() {
			state = "running"
		}
		line = fmt.Sprintf("timer: %s %s", formatClock(m.timer.Remaining()), state)
	}
	return views.RenderFreeWritePanel(views.FreeWritePanelData{
		EditorView: m.padArea.View(),
		Words:      m.pad.Words(),
		Chars:      m.pad.Chars(),
		Dirty:      m.pad.Dirty(),
		TimerLine:  line,
	})
}

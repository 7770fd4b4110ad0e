package update

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/views"
)

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	alerts := next.collectAlerts()
	next.syncBubbleData()
	return next, tea.Batch(cmd, alerts)
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(typed)
	case TickMsg:
		return m.onTick(typed)
	case ChatReplyMsg:
		return m.onChatReply(typed)
	case spinner.TickMsg:
		return m.onSpinnerTick(typed)
	case SwitchViewMsg:
		if isKnownView(typed.View) {
			m.CurrentView = typed.View
		}
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		m.LastError = typed.Err
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keyStr := msg.String()
	if keyStr == "ctrl+c" {
		return m.quit()
	}

	// A pending alert is modal until acknowledged.
	if len(m.coordinator.Pending()) > 0 {
		switch keyStr {
		case "a", "enter", "esc":
			return m.ackAlert(false), nil
		case "A":
			return m.ackAlert(true), nil
		}
		return m, nil
	}

	if m.Palette.Active {
		return m.handlePaletteKey(msg)
	}
	if m.typing() {
		switch {
		case m.CurrentView == ViewTasks:
			return m.handleCaptureKey(msg)
		case m.CurrentView == ViewChat:
			return m.handleChatKey(msg)
		case m.CurrentView == ViewFreeWrite:
			return m.handleFreeWriteKey(msg)
		}
	}

	switch keyStr {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Timer:
		m.CurrentView = ViewTimer
		return m, nil
	case m.Keys.Tasks:
		m.CurrentView = ViewTasks
		return m, nil
	case m.Keys.Chat:
		m.CurrentView = ViewChat
		return m, nil
	case m.Keys.FreeWrite:
		m.CurrentView = ViewFreeWrite
		return m, nil
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		if m.HelpVisible {
			m.Status = StatusBar{Text: "help shown"}
		} else {
			m.Status = StatusBar{Text: "help hidden"}
		}
		return m, nil
	case m.Keys.Quit:
		return m.quit()
	}

	switch m.CurrentView {
	case ViewTimer:
		return m.handleTimerKey(msg)
	case ViewTasks:
		return m.handleTasksKey(msg)
	case ViewChat:
		return m.handleChatKey(msg)
	}
	return m, nil
}

// typing reports whether the current view owns a text input, in which case
// global single-key shortcuts are delivered to it instead.
func (m Model) typing() bool {
	switch m.CurrentView {
	case ViewTasks:
		return m.Tasks.CaptureMode
	case ViewChat:
		return !m.conv.Collapsed()
	case ViewFreeWrite:
		return true
	}
	return false
}

func (m Model) quit() (Model, tea.Cmd) {
	m.timer.Close()
	if m.pad.Dirty() {
		if err := m.pad.Save(m.ctx); err != nil {
			m.log.Error("freewrite_save_failed", map[string]any{"err": err})
		}
	}
	m.Quitting = true
	return m, tea.Quit
}

func (m Model) View() string {
	if m.Quitting {
		return ""
	}
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}
	leftPane := ""
	rightPane := ""
	tint := views.MoodColor("")
	switch m.CurrentView {
	case ViewTimer:
		leftPane = m.renderTimerView()
	case ViewTasks:
		leftPane = m.renderTasksView()
		rightPane = m.renderTaskDetail()
	case ViewChat:
		leftPane = m.renderChatView()
		tint = views.MoodColor(string(m.conv.Mood()))
	case ViewFreeWrite:
		leftPane = m.renderFreeWriteView()
	}
	rightPane = joinNonEmpty(rightPane, m.renderCommandPalette(), m.renderHelpIfVisible())

	header := fmt.Sprintf("pomo | view: %s | %s %s", m.CurrentView, m.timer.Mode().DisplayName(), formatClock(m.timer.Remaining()))
	if task, ok := m.timer.ActiveTask(); ok {
		header += " | " + task.Label()
	}

	return views.RenderApp(views.AppData{
		Header:       header,
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		StatusError:  m.Status.IsError,
		Notification: strings.TrimSpace(m.renderNotificationsView()),
		Popup:        m.renderAlertPopup(),
		Tint:         tint,
		Footer: fmt.Sprintf("keys: %s timer | %s tasks | %s chat | %s write | / cmd | %s help | %s quit",
			m.Keys.Timer, m.Keys.Tasks, m.Keys.Chat, m.Keys.FreeWrite, m.Keys.Help, m.Keys.Quit),
	})
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

func isKnownView(v View) bool {
	switch v {
	case ViewTimer, ViewTasks, ViewChat, ViewFreeWrite:
		return true
	default:
		return false
	}
}

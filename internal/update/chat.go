package update

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/views"
)

func (m Model) handleChatKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.conv.Collapsed() {
		switch msg.String() {
		case "enter", "o":
			m.setCollapsed(false)
		}
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.setCollapsed(true)
		return m, nil
	case "enter":
		return m.sendChat()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.chatViewport, cmd = m.chatViewport.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	before := m.chatInput.Value()
	m.chatInput, cmd = m.chatInput.Update(msg)
	if after := m.chatInput.Value(); after != before {
		if err := m.conv.SetDraft(m.ctx, after); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		}
	}
	return m, cmd
}

func (m *Model) setCollapsed(collapsed bool) {
	if err := m.conv.SetCollapsed(m.ctx, collapsed); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
}

func (m Model) sendChat() (Model, tea.Cmd) {
	if m.Chat.Pending {
		m.Status = StatusBar{Text: "still waiting for a reply"}
		return m, nil
	}
	text := strings.TrimSpace(m.chatInput.Value())
	if text == "" {
		return m, nil
	}
	if _, err := m.conv.Send(m.ctx, text); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	m.chatInput.SetValue("")
	m.Chat.Pending = true
	return m, tea.Batch(requestReplyCmd(m.ctx, m.facade, text, m.Chat.Generation), m.chatSpinner.Tick)
}

func requestReplyCmd(ctx context.Context, facade *chat.Facade, text string, gen int) tea.Cmd {
	return func() tea.Msg {
		return ChatReplyMsg{Text: facade.RequestReply(ctx, text), Generation: gen}
	}
}

func (m Model) onChatReply(msg ChatReplyMsg) (Model, tea.Cmd) {
	if msg.Generation != m.Chat.Generation {
		return m, nil
	}
	m.Chat.Pending = false
	if err := m.conv.Receive(m.ctx, msg.Text); err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	}
	return m, nil
}

func (m Model) onSpinnerTick(msg spinner.TickMsg) (Model, tea.Cmd) {
	if !m.Chat.Pending {
		return m, nil
	}
	var cmd tea.Cmd
	m.chatSpinner, cmd = m.chatSpinner.Update(msg)
	return m, cmd
}

func (m *Model) clearChat() error {
	m.Chat.Generation++
	m.Chat.Pending = false
	m.chatInput.SetValue("")
	return m.conv.Clear(m.ctx)
}

func (m Model) renderChatView() string {
	return views.RenderChatPanel(views.ChatPanelData{
		Collapsed:      m.conv.Collapsed(),
		TranscriptView: m.chatViewport.View(),
		InputView:      m.chatInput.View(),
		Pending:        m.Chat.Pending,
		SpinnerView:    m.chatSpinner.View(),
		Mood:           string(m.conv.Mood()),
	})
}

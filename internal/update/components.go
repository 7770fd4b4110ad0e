package update

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/views"
)

func (m *Model) initBubbleComponents() {
	m.captureInput = textinput.New()
	m.captureInput.Prompt = "add> "
	m.captureInput.CharLimit = 256
	m.captureInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.chatInput = textinput.New()
	m.chatInput.Prompt = "> "
	m.chatInput.Placeholder = "Say what's on your mind..."
	m.chatInput.CharLimit = 1000
	m.chatInput.Width = 52

	m.padArea = textarea.New()
	m.padArea.SetWidth(56)
	m.padArea.SetHeight(14)
	m.padArea.ShowLineNumbers = false
	m.padArea.CharLimit = 0
	m.padArea.Placeholder = "Write whatever comes to mind..."

	m.timerProgress = progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	m.chatSpinner = spinner.New()
	m.chatSpinner.Spinner = spinner.Dot

	m.helpModel = help.New()
	m.chatViewport = viewport.New(56, 12)
	m.noteViewport = viewport.New(44, 10)
}

// syncBubbleData pushes domain state into the display components.
func (m *Model) syncBubbleData() {
	msgs := m.conv.Messages()
	if len(msgs) != m.chatRendered {
		lines := make([]string, 0, len(msgs))
		for _, msg := range msgs {
			text := msg.Text
			if msg.Role != chat.RoleUser {
				text = views.RenderMarkdown(text)
			}
			lines = append(lines, views.RenderTranscriptLine(string(msg.Role), text))
		}
		m.chatViewport.SetContent(strings.Join(lines, "\n"))
		m.chatViewport.GotoBottom()
		m.chatRendered = len(msgs)
	}

	noteKey := ""
	if task, ok := m.selectedTask(); ok {
		noteKey = task.ID + "\x00" + task.Note
	}
	if noteKey != m.noteRendered {
		note := ""
		if task, ok := m.selectedTask(); ok {
			note = views.RenderMarkdown(task.Note)
		}
		m.noteViewport.SetContent(note)
		m.noteRendered = noteKey
	}

	if m.CurrentView == ViewChat && !m.conv.Collapsed() {
		m.chatInput.Focus()
	} else {
		m.chatInput.Blur()
	}
	if m.CurrentView == ViewFreeWrite {
		m.padArea.Focus()
	} else {
		m.padArea.Blur()
	}
	if m.Tasks.CaptureMode {
		m.captureInput.Focus()
	} else {
		m.captureInput.Blur()
	}
	if m.Palette.Active {
		m.commandInput.Focus()
	} else {
		m.commandInput.Blur()
	}
}

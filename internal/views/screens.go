package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TimerPanelData struct {
	Mode         string
	Modes        []string
	Clock        string
	Running      bool
	ProgressView string
	ProgressPct  int
	TaskLabel    string
	FreeWrite    bool
	Finished     bool
}

type TaskRowData struct {
	Index     int
	ID        string
	Label     string
	Priority  string
	Note      string
	Completed bool
	Active    bool
	Selected  bool
}

type ProjectGroupData struct {
	Project string
	Rows    []TaskRowData
}

type TasksPanelData struct {
	Groups      []ProjectGroupData
	CaptureView string
	Capturing   bool
	AllDone     bool
}

type TaskDetailData struct {
	ID       string
	Label    string
	Project  string
	Status   string
	NoteView string
}

type ChatPanelData struct {
	Collapsed      bool
	TranscriptView string
	InputView      string
	Pending        bool
	SpinnerView    string
	Mood           string
}

type FreeWritePanelData struct {
	EditorView string
	Words      int
	Chars      int
	Dirty      bool
	TimerLine  string
}

type HelpPanelData struct {
	CurrentView string
	Bindings    []string
	HelpView    string
}

var (
	priorityStyles = map[string]lipgloss.Style{
		"High":   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		"Medium": lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		"Low":    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
	doneStyle   = lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color("8"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	clockStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(0, 1)
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// MoodColor is the border tint for a chat mood.
func MoodColor(mood string) lipgloss.Color {
	switch mood {
	case "sad":
		return lipgloss.Color("63")
	case "angry":
		return lipgloss.Color("202")
	case "calm":
		return lipgloss.Color("36")
	default:
		return lipgloss.Color("240")
	}
}

func RenderTimerPanel(data TimerPanelData) string {
	var b strings.Builder
	tabs := make([]string, 0, len(data.Modes))
	for _, m := range data.Modes {
		if m == data.Mode {
			tabs = append(tabs, "["+m+"]")
		} else {
			tabs = append(tabs, " "+m+" ")
		}
	}
	b.WriteString(strings.Join(tabs, " ") + "\n\n")
	b.WriteString(clockStyle.Render(data.Clock))
	if data.Running {
		b.WriteString("  running\n")
	} else if data.Finished {
		b.WriteString("  finished\n")
	} else {
		b.WriteString("  paused\n")
	}
	b.WriteString(fmt.Sprintf("%s %d%%\n\n", data.ProgressView, data.ProgressPct))
	switch {
	case data.FreeWrite:
		b.WriteString("Free-write\n")
	case data.TaskLabel != "":
		b.WriteString("task: " + activeStyle.Render(data.TaskLabel) + "\n")
	default:
		b.WriteString("task: (none prioritized)\n")
	}
	b.WriteString("actions: [space]start/pause [r]reset [f]focus [b]break [w]write")
	return strings.TrimSpace(b.String())
}

func RenderTasksPanel(data TasksPanelData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	if data.Capturing {
		b.WriteString(data.CaptureView + "\n")
		b.WriteString("format: title !high|!medium|!low #project -- note\n")
	} else {
		b.WriteString("actions: [n]new [enter]prioritize [x]done [d]delete [j/k]move\n")
	}
	if len(data.Groups) == 0 {
		b.WriteString("\n(no tasks yet)")
		return b.String()
	}
	for _, g := range data.Groups {
		b.WriteString(fmt.Sprintf("\n%s:\n", g.Project))
		for _, row := range g.Rows {
			b.WriteString(renderTaskRow(row) + "\n")
		}
	}
	if data.AllDone {
		b.WriteString("\nall tasks completed")
	}
	return strings.TrimSpace(b.String())
}

func renderTaskRow(row TaskRowData) string {
	cursor := " "
	if row.Selected {
		cursor = ">"
	}
	check := "[ ]"
	if row.Completed {
		check = "[x]"
	}
	label := row.Label
	switch {
	case row.Completed:
		label = doneStyle.Render(label)
	case row.Active:
		label = activeStyle.Render(label + " *")
	default:
		if st, ok := priorityStyles[row.Priority]; ok {
			label = st.Render(label)
		}
	}
	return fmt.Sprintf("%s %2d %s %s", cursor, row.Index, check, label)
}

func RenderTaskDetail(data TaskDetailData) string {
	if strings.TrimSpace(data.ID) == "" {
		return "details:\n(no selection)"
	}
	note := data.NoteView
	if strings.TrimSpace(note) == "" {
		note = "(no note)"
	}
	return fmt.Sprintf("details:\n%s\nproject: %s\nstatus: %s\nid: %s\n\n%s",
		data.Label,
		data.Project,
		data.Status,
		data.ID,
		note,
	)
}

func RenderChatPanel(data ChatPanelData) string {
	if data.Collapsed {
		return "safeplace:\n(collapsed) press [enter] to open"
	}
	var b strings.Builder
	b.WriteString("safeplace:\n")
	b.WriteString(data.TranscriptView + "\n")
	if data.Pending {
		b.WriteString(data.SpinnerView + " Safeplace is listening...\n")
	}
	b.WriteString(data.InputView + "\n")
	b.WriteString("actions: [enter]send [esc]close /clear")
	return b.String()
}

// RenderTranscriptLine formats one chat message for the transcript viewport.
func RenderTranscriptLine(role, text string) string {
	if role == "user" {
		return userStyle.Render("you: " + text)
	}
	return botStyle.Render("safeplace: ") + text
}

func RenderFreeWritePanel(data FreeWritePanelData) string {
	var b strings.Builder
	b.WriteString("free-write:\n")
	b.WriteString(data.EditorView + "\n")
	state := "saved"
	if data.Dirty {
		state = "unsaved"
	}
	b.WriteString(fmt.Sprintf("%d words | %d chars | %s\n", data.Words, data.Chars, state))
	if data.TimerLine != "" {
		b.WriteString(data.TimerLine + "\n")
	}
	b.WriteString("actions: [ctrl+s]save [esc]back to timer")
	return b.String()
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: %s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderAlertPopup(title string, more int) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	out := title + "\n[a] ok"
	if more > 0 {
		out += fmt.Sprintf("  [A] dismiss all (%d more)", more)
	}
	return out
}

func RenderHelpPanel(data HelpPanelData) string {
	return fmt.Sprintf("help (%s):\n%s\n%s",
		strings.ToLower(data.CurrentView),
		strings.Join(data.Bindings, "\n"),
		data.HelpView,
	)
}

package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/commands"
	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/views"
)

func (m Model) selectedTask() (model.Task, bool) {
	order := m.registry.Ordered()
	if m.Tasks.Cursor < 0 || m.Tasks.Cursor >= len(order) {
		return model.Task{}, false
	}
	return order[m.Tasks.Cursor], true
}

func (m *Model) clampTaskCursor() {
	n := m.registry.Len()
	if m.Tasks.Cursor >= n {
		m.Tasks.Cursor = n - 1
	}
	if m.Tasks.Cursor < 0 {
		m.Tasks.Cursor = 0
	}
}

func (m Model) handleTasksKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.Tasks.CaptureMode {
		return m.handleCaptureKey(msg)
	}
	switch msg.String() {
	case "j", "down":
		if m.Tasks.Cursor < m.registry.Len()-1 {
			m.Tasks.Cursor++
		}
	case "k", "up":
		if m.Tasks.Cursor > 0 {
			m.Tasks.Cursor--
		}
	case "n":
		m.Tasks.CaptureMode = true
		m.captureInput.SetValue("")
		m.Status = StatusBar{Text: "new task: type and press enter"}
	case "enter", "p":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if active, ok := m.registry.Active(); ok && active.ID == task.ID {
			m.registry.ClearActive()
			m.Status = StatusBar{Text: "prioritization cleared"}
			return m, nil
		}
		if err := m.registry.SetActive(task.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.Status = StatusBar{Text: fmt.Sprintf("prioritized: %s", task.Title)}
	case "x":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.registry.ToggleComplete(m.ctx, task.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else if !task.Completed {
			m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
		}
	case "d":
		task, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		if err := m.registry.Remove(m.ctx, task.ID); err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Title)}
		}
		m.clampTaskCursor()
	}
	return m, nil
}

func (m Model) handleCaptureKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Tasks.CaptureMode = false
		m.captureInput.SetValue("")
		m.Status = StatusBar{Text: "capture cancelled"}
		return m, nil
	case "enter":
		raw := strings.TrimSpace(m.captureInput.Value())
		cmd, err := commands.Parse("add " + raw)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		task, err := m.addTask(*cmd.Add)
		if err != nil {
			m.Status = StatusBar{Text: err.Error(), IsError: true}
			return m, nil
		}
		m.captureInput.SetValue("")
		m.Tasks.CaptureMode = false
		m.Status = StatusBar{Text: fmt.Sprintf("task added: %s", task.Label())}
		return m, nil
	}
	var cmd tea.Cmd
	m.captureInput, cmd = m.captureInput.Update(msg)
	return m, cmd
}

func (m *Model) addTask(a commands.AddArgs) (model.Task, error) {
	task, err := m.registry.Add(m.ctx, a.Title, a.Priority, a.Note, a.Project)
	if err != nil && task.ID == "" {
		return model.Task{}, err
	}
	for i, t := range m.registry.Ordered() {
		if t.ID == task.ID {
			m.Tasks.Cursor = i
		}
	}
	return task, err
}

func (m Model) renderTasksView() string {
	active, _ := m.registry.Active()
	selected, _ := m.selectedTask()
	groups := make([]views.ProjectGroupData, 0)
	index := 0
	for project, list := range m.registry.GroupByProject() {
		rows := make([]views.TaskRowData, 0, len(list))
		for _, t := range list {
			index++
			rows = append(rows, views.TaskRowData{
				Index:     index,
				ID:        t.ID,
				Label:     t.Label(),
				Priority:  string(t.Priority),
				Note:      t.Note,
				Completed: t.Completed,
				Active:    t.ID == active.ID && active.ID != "",
				Selected:  t.ID == selected.ID && selected.ID != "",
			})
		}
		groups = append(groups, views.ProjectGroupData{Project: project, Rows: rows})
	}
	return views.RenderTasksPanel(views.TasksPanelData{
		Groups:      groups,
		CaptureView: m.captureInput.View(),
		Capturing:   m.Tasks.CaptureMode,
		AllDone:     m.registry.AllCompleted(),
	})
}

func (m Model) renderTaskDetail() string {
	task, ok := m.selectedTask()
	if !ok {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	status := "open"
	if task.Completed {
		status = "completed"
	} else if active, ok := m.registry.Active(); ok && active.ID == task.ID {
		status = "prioritized"
	}
	return views.RenderTaskDetail(views.TaskDetailData{
		ID:       task.ID,
		Label:    task.Label(),
		Project:  task.Project,
		Status:   status,
		NoteView: m.noteViewport.View(),
	})
}

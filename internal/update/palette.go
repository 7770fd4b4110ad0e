package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/commands"
	"github.com/sandeepkv93/pomo/internal/model"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m = m.closePalette()
		m.Status = StatusBar{Text: "command palette closed"}
		return m, nil
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		return m.executePaletteCommand()
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(msg)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) closePalette() Model {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}

func (m Model) resolveTask(ref string) (model.Task, error) {
	task, ok := m.registry.Resolve(ref)
	if !ok {
		return model.Task{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: fmt.Sprintf("no task matches %q", ref)}
	}
	return task, nil
}

func (m Model) executePaletteCommand() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m = m.closePalette()
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			task, err := m.addTask(a)
			if err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTasks
			return commands.Result{Message: fmt.Sprintf("task added: %s", task.Label())}, nil
		},
		Done: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.registry.ToggleComplete(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			if task.Completed {
				return commands.Result{Message: fmt.Sprintf("reopened: %s", task.Title)}, nil
			}
			return commands.Result{Message: fmt.Sprintf("completed: %s", task.Title)}, nil
		},
		Focus: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.registry.SetActive(task.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("prioritized: %s", task.Title)}, nil
		},
		Remove: func(a commands.TargetArgs) (commands.Result, error) {
			task, err := m.resolveTask(a.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.registry.Remove(m.ctx, task.ID); err != nil {
				return commands.Result{}, err
			}
			m.clampTaskCursor()
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Title)}, nil
		},
		Mode: func(a commands.ModeArgs) (commands.Result, error) {
			if err := m.timer.SelectMode(a.Mode); err != nil {
				return commands.Result{}, err
			}
			m.CurrentView = ViewTimer
			return commands.Result{Message: fmt.Sprintf("mode: %s", a.Mode.DisplayName())}, nil
		},
		Timers: func(a commands.TimersArgs) (commands.Result, error) {
			if err := m.timer.UpdateDurations(m.ctx, a.Durations); err != nil {
				return commands.Result{}, err
			}
			d := a.Durations
			return commands.Result{Message: fmt.Sprintf("timers: focus %s, break %s, write %s",
				formatClock(d.Focus), formatClock(d.Break), formatClock(d.FreeWrite))}, nil
		},
		Clear: func() (commands.Result, error) {
			if err := m.clearChat(); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "chat cleared"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message}
		m.notify("Command", res.Message, "info")
	}
	return m.closePalette(), nil
}

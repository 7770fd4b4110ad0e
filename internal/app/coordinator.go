package app

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/sandeepkv93/pomo/internal/jsonlog"
	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/session"
	"github.com/sandeepkv93/pomo/internal/tasks"
)

const (
	MsgTimerFinished     = "Timer finished!"
	MsgFreeWriteFinished = "Free-write session finished!"
	MsgAllTasksCompleted = "All tasks completed!"

	maxAlerts = 50
)

type AlertKind string

const (
	AlertTimer   AlertKind = "timer"
	AlertTask    AlertKind = "task"
	AlertAllDone AlertKind = "all_done"
)

type Alert struct {
	ID    int
	Kind  AlertKind
	Title string
	At    time.Time
	Acked bool
}

func TaskFinishedMessage(title string) string {
	return fmt.Sprintf("Task %q finished!", title)
}

// Coordinator turns timer and registry events into task completion and
// user-facing alerts. It runs on the caller's goroutine.
type Coordinator struct {
	ctx      context.Context
	timer    *session.Timer
	registry *tasks.Registry
	notifier DesktopNotifier
	log      *jsonlog.Logger
	now      func() time.Time

	alerts []Alert
	nextID int
}

type Option func(*Coordinator)

func WithNotifier(n DesktopNotifier) Option {
	return func(c *Coordinator) {
		if n != nil {
			c.notifier = n
		}
	}
}

func WithLogger(l *jsonlog.Logger) Option {
	return func(c *Coordinator) { c.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCoordinator(ctx context.Context, timer *session.Timer, registry *tasks.Registry, opts ...Option) *Coordinator {
	c := &Coordinator{
		ctx:      ctx,
		timer:    timer,
		registry: registry,
		notifier: NoopDesktopNotifier{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	timer.OnCompleted(c.onTimerCompleted)
	registry.OnTaskCompleted(c.onTaskCompleted)
	registry.OnAllCompleted(c.onAllCompleted)
	return c
}

func (c *Coordinator) Timer() *session.Timer     { return c.timer }
func (c *Coordinator) Registry() *tasks.Registry { return c.registry }

func (c *Coordinator) onTimerCompleted(ev session.Completed) {
	if ev.ActiveTaskID != "" {
		if task, ok := c.registry.Get(ev.ActiveTaskID); ok && !task.Completed {
			if err := c.registry.ToggleComplete(c.ctx, task.ID); err != nil {
				c.log.Error("complete_active_task_failed", map[string]any{"task_id": task.ID, "err": err})
			}
			return
		}
	}
	switch ev.Mode {
	case model.ModeFreeWrite:
		c.push(AlertTimer, MsgFreeWriteFinished)
	default:
		c.push(AlertTimer, MsgTimerFinished)
	}
}

func (c *Coordinator) onTaskCompleted(task model.Task) {
	c.push(AlertTask, TaskFinishedMessage(task.Title))
}

func (c *Coordinator) onAllCompleted(tasks.AllCompleted) {
	c.push(AlertAllDone, MsgAllTasksCompleted)
}

func (c *Coordinator) push(kind AlertKind, title string) {
	c.nextID++
	c.alerts = append(c.alerts, Alert{ID: c.nextID, Kind: kind, Title: title, At: c.now()})
	if len(c.alerts) > maxAlerts {
		c.alerts = slices.Delete(c.alerts, 0, len(c.alerts)-maxAlerts)
	}
	if err := c.notifier.Send(Notification{Title: "pomo", Body: title}); err != nil {
		c.log.Warn("desktop_notify_failed", map[string]any{"err": err})
	}
}

// Alerts returns the alert log, oldest first.
func (c *Coordinator) Alerts() []Alert {
	return slices.Clone(c.alerts)
}

// Pending returns the unacknowledged alerts, oldest first.
func (c *Coordinator) Pending() []Alert {
	out := make([]Alert, 0)
	for _, a := range c.alerts {
		if !a.Acked {
			out = append(out, a)
		}
	}
	return out
}

func (c *Coordinator) Ack(id int) bool {
	for i := range c.alerts {
		if c.alerts[i].ID == id && !c.alerts[i].Acked {
			c.alerts[i].Acked = true
			return true
		}
	}
	return false
}

func (c *Coordinator) AckAll() int {
	n := 0
	for i := range c.alerts {
		if !c.alerts[i].Acked {
			c.alerts[i].Acked = true
			n++
		}
	}
	return n
}

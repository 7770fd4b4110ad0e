package session

import (
	"context"
	"fmt"
	"time"

	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/scheduler"
	"github.com/sandeepkv93/pomo/internal/storage"
)

const DurationsKey = "timer-durations"

type State string

const (
	StateIdle      State = "Idle"
	StateRunning   State = "Running"
	StateCompleted State = "Completed"
)

// Completed is raised once per countdown that reaches zero.
type Completed struct {
	Mode         model.Mode
	ActiveTaskID string
	TaskTitle    string
}

// Ticks is a live tick handle. Stop must be idempotent and close C.
type Ticks interface {
	C() <-chan scheduler.Tick
	Stop()
}

// ActiveTaskSource exposes the prioritised task read-only.
type ActiveTaskSource interface {
	Active() (model.Task, bool)
}

type StartTicksFunc func(interval time.Duration) (Ticks, error)

// Timer is the countdown state machine. It is not safe for concurrent use;
// Tick is expected from the same goroutine that calls the other methods.
type Timer struct {
	durations model.Durations
	mode      model.Mode
	remaining int
	total     int
	running   bool
	fired     bool

	interval   time.Duration
	startTicks StartTicksFunc
	ticks      Ticks
	active     ActiveTaskSource
	store      storage.Store

	listeners []func(Completed)
}

type Option func(*Timer)

func WithDurations(d model.Durations) Option {
	return func(t *Timer) {
		if d.Validate() == nil {
			t.durations = d
		}
	}
}

// WithStore restores saved durations and persists later updates.
func WithStore(s storage.Store) Option {
	return func(t *Timer) { t.store = s }
}

func WithActiveTask(src ActiveTaskSource) Option {
	return func(t *Timer) { t.active = src }
}

// WithTicks replaces the tick source. A nil func disables background ticks,
// leaving Tick to be driven by the caller.
func WithTicks(interval time.Duration, fn StartTicksFunc) Option {
	return func(t *Timer) {
		if interval > 0 {
			t.interval = interval
		}
		t.startTicks = fn
	}
}

func SchedulerTicks(buffer int) StartTicksFunc {
	return func(interval time.Duration) (Ticks, error) {
		return scheduler.Start(interval, buffer)
	}
}

func NewTimer(ctx context.Context, opts ...Option) *Timer {
	t := &Timer{
		durations:  model.DefaultDurations(),
		mode:       model.ModeFocus,
		interval:   time.Second,
		startTicks: SchedulerTicks(1),
	}
	for _, opt := range opts {
		opt(t)
	}
	var saved model.Durations
	if storage.GetJSON(ctx, t.store, DurationsKey, &saved) && saved.Validate() == nil {
		t.durations = saved
	}
	t.remaining = t.durations.For(t.mode)
	t.total = t.remaining
	return t
}

func (t *Timer) OnCompleted(fn func(Completed)) {
	t.listeners = append(t.listeners, fn)
}

func (t *Timer) Mode() model.Mode           { return t.mode }
func (t *Timer) Remaining() int             { return t.remaining }
func (t *Timer) Running() bool              { return t.running }
func (t *Timer) Durations() model.Durations { return t.durations }

// Total is the length of the current countdown, which may differ from the
// configured duration after UpdateDurations.
func (t *Timer) Total() int { return t.total }

func (t *Timer) State() State {
	switch {
	case t.running:
		return StateRunning
	case t.remaining == 0 && t.fired:
		return StateCompleted
	default:
		return StateIdle
	}
}

// Progress is the elapsed fraction of the current countdown in [0, 1].
func (t *Timer) Progress() float64 {
	if t.total <= 0 {
		return 0
	}
	p := 1 - float64(t.remaining)/float64(t.total)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Handle returns the live tick handle, or nil when not running.
func (t *Timer) Handle() Ticks { return t.ticks }

func (t *Timer) ActiveTask() (model.Task, bool) {
	if t.active == nil {
		return model.Task{}, false
	}
	return t.active.Active()
}

func (t *Timer) SelectMode(m model.Mode) error {
	if !m.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidMode, m)
	}
	t.halt()
	t.mode = m
	t.rearm()
	return nil
}

// Start begins the countdown and returns the new tick handle. It reports
// false, with the current handle, when already running or nothing remains.
func (t *Timer) Start() (Ticks, bool, error) {
	if t.running || t.remaining <= 0 {
		return t.ticks, false, nil
	}
	if t.startTicks != nil {
		ticks, err := t.startTicks(t.interval)
		if err != nil {
			return nil, false, fmt.Errorf("session: start ticks: %w", err)
		}
		t.ticks = ticks
	}
	t.running = true
	t.fired = false
	return t.ticks, true, nil
}

func (t *Timer) Pause() {
	if !t.running {
		return
	}
	t.halt()
}

func (t *Timer) Reset() {
	t.halt()
	t.rearm()
}

// Tick advances a running countdown by one second.
func (t *Timer) Tick() {
	if !t.running {
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		return
	}
	t.halt()
	if t.fired {
		return
	}
	t.fired = true
	ev := Completed{Mode: t.mode}
	if task, ok := t.ActiveTask(); ok {
		ev.ActiveTaskID = task.ID
		ev.TaskTitle = task.Title
	}
	for _, fn := range t.listeners {
		fn(ev)
	}
}

// Advance applies n elapsed seconds, stopping early at completion. A
// consumer that missed ticks uses it to stay in step with the wall clock.
func (t *Timer) Advance(n int) {
	for ; n > 0 && t.running; n-- {
		t.Tick()
	}
}

// UpdateDurations replaces the configured durations. A countdown already in
// progress keeps its remaining time; SelectMode and Reset pick up the change.
func (t *Timer) UpdateDurations(ctx context.Context, d model.Durations) error {
	if err := d.Validate(); err != nil {
		return err
	}
	t.durations = d
	if t.store == nil {
		return nil
	}
	return storage.SetJSON(ctx, t.store, DurationsKey, d)
}

// Close stops any live tick handle.
func (t *Timer) Close() {
	t.halt()
}

func (t *Timer) halt() {
	t.running = false
	if t.ticks != nil {
		t.ticks.Stop()
		t.ticks = nil
	}
}

func (t *Timer) rearm() {
	t.remaining = t.durations.For(t.mode)
	t.total = t.remaining
	t.fired = false
}

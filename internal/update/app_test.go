package update

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/pomo/internal/app"
	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/freewrite"
	"github.com/sandeepkv93/pomo/internal/model"
	"github.com/sandeepkv93/pomo/internal/scheduler"
	"github.com/sandeepkv93/pomo/internal/session"
	"github.com/sandeepkv93/pomo/internal/storage"
	"github.com/sandeepkv93/pomo/internal/tasks"
)

type testEnv struct {
	store    *storage.MemoryStore
	timer    *session.Timer
	registry *tasks.Registry
	coord    *app.Coordinator
	conv     *chat.Conversation
}

func newTestEnv(t *testing.T, d model.Durations) (Model, *testEnv) {
	t.Helper()
	ctx := context.Background()
	env := &testEnv{store: storage.NewMemoryStore()}
	env.registry = tasks.NewRegistry(ctx, env.store)
	env.timer = session.NewTimer(ctx,
		session.WithDurations(d),
		session.WithTicks(time.Second, nil),
		session.WithActiveTask(env.registry),
	)
	env.coord = app.NewCoordinator(ctx, env.timer, env.registry)
	env.conv = chat.NewConversation(ctx, env.store)
	facade := chat.NewFacade(chat.ReplierFunc(func(context.Context, string) (string, error) {
		return "I'm listening.", nil
	}), nil)
	m := NewModel(ctx, Deps{
		Timer:       env.timer,
		Tasks:       env.registry,
		Coordinator: env.coord,
		Chat:        env.conv,
		Facade:      facade,
		Pad:         freewrite.Load(ctx, env.store),
	})
	return m, env
}

func newTestModel(t *testing.T) Model {
	m, _ := newTestEnv(t, model.DefaultDurations())
	return m
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func enter() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEnter} }

func esc() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyEsc} }

func runPalette(m Model, command string) Model {
	m, _ = send(m, runes("/"))
	m, _ = send(m, runes(command))
	m, _ = send(m, enter())
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(t)
	if m.CurrentView != ViewTimer {
		t.Fatalf("expected default view %q, got %q", ViewTimer, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
	if m.Init() != nil {
		t.Fatal("expected no startup command")
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, runes("2"))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", m.CurrentView)
	}
	m, _ = send(m, runes("3"))
	if m.CurrentView != ViewChat {
		t.Fatalf("expected chat view, got %q", m.CurrentView)
	}
	m, _ = send(m, runes("1"))
	if m.CurrentView != ViewTimer {
		t.Fatalf("expected timer view, got %q", m.CurrentView)
	}
}

func TestUpdateSwitchViewMsg(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, SwitchViewMsg{View: ViewChat})
	if m.CurrentView != ViewChat {
		t.Fatalf("expected chat view, got %q", m.CurrentView)
	}
	m, _ = send(m, SwitchViewMsg{View: View("Unknown")})
	if m.CurrentView != ViewChat {
		t.Fatalf("expected view unchanged for unknown view, got %q", m.CurrentView)
	}
}

func TestUpdateStatusAndError(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, SetStatusMsg{Text: "ready"})
	if m.Status.Text != "ready" || m.Status.IsError {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	m, _ = send(m, AppErrorMsg{Err: errors.New("boom")})
	if !m.Status.IsError || m.LastError == nil {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	m, _ = send(m, ClearStatusMsg{})
	if m.Status.Text != "" {
		t.Fatalf("expected cleared status, got %+v", m.Status)
	}
	if len(m.Notifications) != 2 {
		t.Fatalf("expected two notifications, got %d", len(m.Notifications))
	}
}

func TestTimerKeysStartPauseReset(t *testing.T) {
	m, env := newTestEnv(t, model.Durations{Focus: 10, Break: 5, FreeWrite: 5})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	if !env.timer.Running() {
		t.Fatal("expected timer running after space")
	}
	m, _ = send(m, TickMsg{Source: env.timer.Handle()})
	if env.timer.Remaining() != 9 {
		t.Fatalf("expected one tick applied, got %d", env.timer.Remaining())
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	if env.timer.Running() {
		t.Fatal("expected timer paused")
	}
	m, _ = send(m, runes("r"))
	if env.timer.Remaining() != 10 {
		t.Fatalf("expected reset to 10, got %d", env.timer.Remaining())
	}
	m, _ = send(m, runes("b"))
	if env.timer.Mode() != model.ModeBreak || env.timer.Remaining() != 5 {
		t.Fatalf("expected break mode, got %s %d", env.timer.Mode(), env.timer.Remaining())
	}
	if !strings.Contains(m.View(), "00:05") {
		t.Fatal("expected clock in view")
	}
}

func TestTickCatchesUpDroppedIntervals(t *testing.T) {
	m, env := newTestEnv(t, model.Durations{Focus: 10, Break: 5, FreeWrite: 5})
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = send(m, TickMsg{Source: env.timer.Handle(), Seq: 3})
	if env.timer.Remaining() != 7 {
		t.Fatalf("expected three seconds applied, got %d", env.timer.Remaining())
	}
	m, _ = send(m, TickMsg{Source: env.timer.Handle(), Seq: 4})
	if env.timer.Remaining() != 6 {
		t.Fatalf("expected one second applied, got %d", env.timer.Remaining())
	}
	m, _ = send(m, TickMsg{Source: env.timer.Handle(), Seq: 20})
	if env.timer.Remaining() != 0 || env.timer.Running() {
		t.Fatalf("expected countdown finished, remaining=%d", env.timer.Remaining())
	}
	if len(env.coord.Pending()) != 1 {
		t.Fatalf("expected a single completion alert, got %+v", env.coord.Pending())
	}
}

type stubTicks struct{}

func (*stubTicks) C() <-chan scheduler.Tick { return nil }
func (*stubTicks) Stop()                    {}

func TestTickStepsResetOnNewHandle(t *testing.T) {
	m := newTestModel(t)
	first, second := &stubTicks{}, &stubTicks{}
	if n := m.tickSteps(TickMsg{Source: first, Seq: 1}); n != 1 {
		t.Fatalf("expected 1 step, got %d", n)
	}
	if n := m.tickSteps(TickMsg{Source: first, Seq: 4}); n != 3 {
		t.Fatalf("expected 3 steps after a gap, got %d", n)
	}
	if n := m.tickSteps(TickMsg{Source: second, Seq: 2}); n != 2 {
		t.Fatalf("expected sequence restart on a new handle, got %d", n)
	}
	if n := m.tickSteps(TickMsg{Source: second}); n != 1 {
		t.Fatalf("expected unnumbered tick to count once, got %d", n)
	}
}

func TestTickIgnoredWhenNotRunning(t *testing.T) {
	m, env := newTestEnv(t, model.Durations{Focus: 10, Break: 5, FreeWrite: 5})
	m, cmd := send(m, TickMsg{})
	if env.timer.Remaining() != 10 || cmd != nil {
		t.Fatalf("expected stale tick ignored, remaining=%d", env.timer.Remaining())
	}
	_ = m
}

func TestFocusCompletionFinishesActiveTask(t *testing.T) {
	m, env := newTestEnv(t, model.Durations{Focus: 1, Break: 5, FreeWrite: 5})
	task, err := env.registry.Add(context.Background(), "Write report", model.PriorityHigh, "", "Work")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := env.registry.SetActive(task.ID); err != nil {
		t.Fatalf("set active: %v", err)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = send(m, TickMsg{Source: env.timer.Handle()})

	got, _ := env.registry.Get(task.ID)
	if !got.Completed {
		t.Fatal("expected active task completed by the timer")
	}
	pending := env.coord.Pending()
	if len(pending) != 2 || pending[0].Title != app.TaskFinishedMessage("Write report") || pending[1].Title != app.MsgAllTasksCompleted {
		t.Fatalf("unexpected alerts: %+v", pending)
	}
	if last := m.Notifications[len(m.Notifications)-1]; last.Body != app.MsgAllTasksCompleted {
		t.Fatalf("expected alert notification, got %+v", last)
	}
	if !strings.Contains(m.View(), app.TaskFinishedMessage("Write report")) {
		t.Fatal("expected alert popup in view")
	}

	// Alerts are modal: view keys are swallowed until acknowledged.
	m, _ = send(m, runes("2"))
	if m.CurrentView != ViewTimer {
		t.Fatalf("expected view unchanged under alert, got %q", m.CurrentView)
	}
	m, _ = send(m, runes("a"))
	if len(env.coord.Pending()) != 1 {
		t.Fatalf("expected one pending alert, got %d", len(env.coord.Pending()))
	}
	m, _ = send(m, runes("A"))
	if len(env.coord.Pending()) != 0 {
		t.Fatal("expected all alerts acknowledged")
	}
	m, _ = send(m, runes("2"))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view after ack, got %q", m.CurrentView)
	}
}

func TestBreakCompletionRaisesTimerAlert(t *testing.T) {
	m, env := newTestEnv(t, model.Durations{Focus: 5, Break: 1, FreeWrite: 5})
	m, _ = send(m, runes("b"))
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	m, _ = send(m, TickMsg{Source: env.timer.Handle()})
	pending := env.coord.Pending()
	if len(pending) != 1 || pending[0].Title != app.MsgTimerFinished {
		t.Fatalf("unexpected alerts: %+v", pending)
	}
	_ = m
}

func TestCaptureAddsTask(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, runes("2"))
	m, _ = send(m, runes("n"))
	if !m.Tasks.CaptureMode {
		t.Fatal("expected capture mode")
	}
	m, _ = send(m, runes("Write report !high #Work -- outline first"))
	m, _ = send(m, enter())

	if m.Tasks.CaptureMode {
		t.Fatal("expected capture mode closed")
	}
	list := env.registry.Tasks()
	if len(list) != 1 {
		t.Fatalf("expected one task, got %d", len(list))
	}
	got := list[0]
	if got.Title != "Write report" || got.Priority != model.PriorityHigh || got.Project != "Work" || got.Note != "outline first" {
		t.Fatalf("unexpected task: %+v", got)
	}
}

func TestCaptureTypingDoesNotSwitchView(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, runes("2"))
	m, _ = send(m, runes("n"))
	m, _ = send(m, runes("1"))
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected to stay in tasks view while capturing, got %q", m.CurrentView)
	}
	m, _ = send(m, esc())
	if m.Tasks.CaptureMode {
		t.Fatal("expected esc to cancel capture")
	}
}

func TestTaskKeysPrioritizeAndComplete(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	ctx := context.Background()
	first, _ := env.registry.Add(ctx, "First", model.PriorityLow, "", "")
	second, _ := env.registry.Add(ctx, "Second", model.PriorityLow, "", "")

	m, _ = send(m, runes("2"))
	m, _ = send(m, enter())
	if active, ok := env.registry.Active(); !ok || active.ID != second.ID {
		t.Fatalf("expected newest task prioritized, got %+v ok=%v", active, ok)
	}
	m, _ = send(m, enter())
	if _, ok := env.registry.Active(); ok {
		t.Fatal("expected enter on the active task to clear prioritization")
	}

	m, _ = send(m, runes("j"))
	m, _ = send(m, runes("x"))
	got, _ := env.registry.Get(first.ID)
	if !got.Completed {
		t.Fatal("expected cursor task completed")
	}
	if pending := env.coord.Pending(); len(pending) != 1 || pending[0].Title != app.TaskFinishedMessage("First") {
		t.Fatalf("unexpected alerts: %+v", pending)
	}
	m, _ = send(m, runes("a"))
	m, _ = send(m, runes("d"))
	if env.registry.Len() != 1 || m.Tasks.Cursor != 0 {
		t.Fatalf("expected delete to clamp cursor, len=%d cursor=%d", env.registry.Len(), m.Tasks.Cursor)
	}
}

func TestPaletteCommands(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())

	m = runPalette(m, "add Buy milk !low #Home")
	if m.Palette.Active || m.CurrentView != ViewTasks || env.registry.Len() != 1 {
		t.Fatalf("unexpected state after add: palette=%v view=%q len=%d", m.Palette.Active, m.CurrentView, env.registry.Len())
	}

	m = runPalette(m, "focus 1")
	if active, ok := env.registry.Active(); !ok || active.Title != "Buy milk" {
		t.Fatalf("expected task prioritized, got %+v", active)
	}

	m = runPalette(m, "mode break")
	if env.timer.Mode() != model.ModeBreak || m.CurrentView != ViewTimer {
		t.Fatalf("expected break mode, got %s view=%q", env.timer.Mode(), m.CurrentView)
	}

	m = runPalette(m, "timers 20 04:30 10")
	want := model.Durations{Focus: 1200, Break: 270, FreeWrite: 600}
	if env.timer.Durations() != want {
		t.Fatalf("unexpected durations: %+v", env.timer.Durations())
	}

	m = runPalette(m, "rm 7")
	if !m.Status.IsError || env.registry.Len() != 1 {
		t.Fatalf("expected unknown ref error, got %+v", m.Status)
	}

	m = runPalette(m, "snooze 1")
	if !m.Status.IsError || !strings.Contains(m.Status.Text, "unknown_command") {
		t.Fatalf("expected unknown command error, got %+v", m.Status)
	}

	m = runPalette(m, "done 1")
	if !env.registry.AllCompleted() {
		t.Fatal("expected task completed")
	}
	if len(env.coord.Pending()) != 2 {
		t.Fatalf("expected task and all-done alerts, got %+v", env.coord.Pending())
	}
}

func TestPaletteEscCloses(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, runes("/"))
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m, _ = send(m, runes("add x"))
	m, _ = send(m, esc())
	if m.Palette.Active || m.Palette.Input != "" {
		t.Fatalf("expected palette closed, got %+v", m.Palette)
	}
}

func TestChatSendAndReply(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, runes("3"))
	if !env.conv.Collapsed() {
		t.Fatal("expected chat collapsed by default")
	}
	m, _ = send(m, enter())
	if env.conv.Collapsed() {
		t.Fatal("expected enter to open chat")
	}

	m, _ = send(m, runes("I feel sad"))
	if env.conv.Draft() != "I feel sad" {
		t.Fatalf("expected draft persisted, got %q", env.conv.Draft())
	}
	m, cmd := send(m, enter())
	if cmd == nil || !m.Chat.Pending {
		t.Fatal("expected reply request in flight")
	}
	if msgs := env.conv.Messages(); len(msgs) != 2 || msgs[1].Role != chat.RoleUser {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
	if env.conv.Draft() != "" {
		t.Fatalf("expected draft cleared, got %q", env.conv.Draft())
	}

	m, _ = send(m, ChatReplyMsg{Text: "I'm listening.", Generation: m.Chat.Generation})
	if m.Chat.Pending {
		t.Fatal("expected pending cleared")
	}
	if last := env.conv.Last(); last.Role != chat.RoleBot || last.Text != "I'm listening." {
		t.Fatalf("unexpected last message: %+v", last)
	}
}

func TestChatIgnoresBlankAndPendingSends(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, runes("3"))
	m, _ = send(m, enter())
	m, cmd := send(m, enter())
	if len(env.conv.Messages()) != 1 || m.Chat.Pending {
		t.Fatalf("blank send should be ignored, cmd=%v", cmd != nil)
	}
	m, _ = send(m, runes("one"))
	m, _ = send(m, enter())
	m, _ = send(m, runes("two"))
	m, _ = send(m, enter())
	if len(env.conv.Messages()) != 2 {
		t.Fatalf("expected second send refused while pending, got %d messages", len(env.conv.Messages()))
	}
}

func TestChatReplyAfterClearIsDropped(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, runes("3"))
	m, _ = send(m, enter())
	m, _ = send(m, runes("hello"))
	m, _ = send(m, enter())
	stale := m.Chat.Generation

	m, _ = send(m, esc())
	m = runPalette(m, "clear")
	if msgs := env.conv.Messages(); len(msgs) != 1 || msgs[0].Text != chat.Greeting {
		t.Fatalf("expected transcript reset, got %+v", msgs)
	}
	m, _ = send(m, ChatReplyMsg{Text: "late", Generation: stale})
	if len(env.conv.Messages()) != 1 || m.Chat.Pending {
		t.Fatalf("expected late reply dropped, got %+v", env.conv.Messages())
	}
}

func TestRequestReplyCmdUsesFacade(t *testing.T) {
	facade := chat.NewFacade(chat.ReplierFunc(func(context.Context, string) (string, error) {
		return "", errors.New("down")
	}), nil)
	msg := requestReplyCmd(context.Background(), facade, "hi", 3)()
	reply, ok := msg.(ChatReplyMsg)
	if !ok || reply.Text != chat.Fallback || reply.Generation != 3 {
		t.Fatalf("unexpected reply: %#v", msg)
	}
}

func TestFreeWriteTypingAndSave(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, runes("4"))
	m, _ = send(m, runes("hello world 1"))
	if m.CurrentView != ViewFreeWrite {
		t.Fatalf("expected digits typed into the pad, view=%q", m.CurrentView)
	}
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.Status.Text != "Free-write saved" {
		t.Fatalf("unexpected status: %+v", m.Status)
	}
	got := storage.GetString(context.Background(), env.store, freewrite.StorageKey, "")
	if got != "hello world 1" {
		t.Fatalf("unexpected saved text: %q", got)
	}
	m, _ = send(m, esc())
	if m.CurrentView != ViewTimer {
		t.Fatalf("expected esc back to timer, got %q", m.CurrentView)
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m, _ = send(m, runes("?"))
	if !m.HelpVisible || !strings.Contains(m.View(), "start/pause timer") {
		t.Fatal("expected help panel with timer bindings")
	}
	m, _ = send(m, runes("?"))
	if m.HelpVisible {
		t.Fatal("expected help hidden")
	}
}

func TestQuitStopsTimer(t *testing.T) {
	m, env := newTestEnv(t, model.DefaultDurations())
	m, _ = send(m, tea.KeyMsg{Type: tea.KeySpace})
	m, cmd := send(m, runes("q"))
	if !m.Quitting || cmd == nil {
		t.Fatal("expected quit command")
	}
	if env.timer.Running() {
		t.Fatal("expected timer stopped on quit")
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 59: "00:59", 1500: "25:00", 3661: "61:01", -4: "00:00"}
	for in, want := range cases {
		if got := formatClock(in); got != want {
			t.Fatalf("formatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestNotificationLogCapped(t *testing.T) {
	m := newTestModel(t)
	for i := 0; i < maxNotifications+5; i++ {
		m.notify("Status", "x", "info")
	}
	if len(m.Notifications) != maxNotifications {
		t.Fatalf("expected %d notifications, got %d", maxNotifications, len(m.Notifications))
	}
}

package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"

	"github.com/sandeepkv93/pomo/internal/app"
	"github.com/sandeepkv93/pomo/internal/chat"
	"github.com/sandeepkv93/pomo/internal/freewrite"
	"github.com/sandeepkv93/pomo/internal/jsonlog"
	"github.com/sandeepkv93/pomo/internal/session"
	"github.com/sandeepkv93/pomo/internal/tasks"
)

type View string

const (
	ViewTimer     View = "Timer"
	ViewTasks     View = "Tasks"
	ViewChat      View = "Chat"
	ViewFreeWrite View = "Free-write"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Timer     string
	Tasks     string
	Chat      string
	FreeWrite string
	Help      string
	Quit      string
}

type Notification struct {
	Title string
	Body  string
	Level string
	At    time.Time
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type TasksState struct {
	Cursor      int
	CaptureMode bool
}

type ChatState struct {
	Pending    bool
	Generation int
}

// Deps are the long-lived objects the TUI drives. Timer, Tasks and
// Coordinator are required; the rest fall back to in-memory defaults.
type Deps struct {
	Timer       *session.Timer
	Tasks       *tasks.Registry
	Coordinator *app.Coordinator
	Chat        *chat.Conversation
	Facade      *chat.Facade
	Pad         *freewrite.Pad
	Log         *jsonlog.Logger
	Bell        bool
}

type Model struct {
	CurrentView   View
	Tasks         TasksState
	Chat          ChatState
	Palette       CommandPaletteState
	HelpVisible   bool
	Notifications []Notification
	Status        StatusBar
	Keys          GlobalKeyMap
	Quitting      bool
	LastError     error

	ctx         context.Context
	timer       *session.Timer
	registry    *tasks.Registry
	coordinator *app.Coordinator
	conv        *chat.Conversation
	facade      *chat.Facade
	pad         *freewrite.Pad
	log         *jsonlog.Logger
	bell        bool
	lastAlertID int
	tickSource  session.Ticks
	lastTickSeq uint64

	chatRendered int
	noteRendered string

	captureInput  textinput.Model
	commandInput  textinput.Model
	chatInput     textinput.Model
	padArea       textarea.Model
	timerProgress progress.Model
	chatSpinner   spinner.Model
	helpModel     help.Model
	chatViewport  viewport.Model
	noteViewport  viewport.Model
}

type SwitchViewMsg struct {
	View View
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

// TickMsg carries one tick from the handle returned by Timer.Start. Ticks
// from a handle that is no longer live are ignored. Seq is the tick's
// sequence number on that handle; zero means a single step.
type TickMsg struct {
	Source session.Ticks
	Seq    uint64
}

// ChatReplyMsg is a finished chat request. Replies issued before the last
// clear carry a stale Generation and are dropped.
type ChatReplyMsg struct {
	Text       string
	Generation int
}

func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Chat == nil {
		deps.Chat = chat.NewConversation(ctx, nil)
	}
	if deps.Pad == nil {
		deps.Pad = freewrite.Load(ctx, nil)
	}
	m := Model{
		CurrentView: ViewTimer,
		Keys: GlobalKeyMap{
			Timer:     "1",
			Tasks:     "2",
			Chat:      "3",
			FreeWrite: "4",
			Help:      "?",
			Quit:      "q",
		},
		ctx:         ctx,
		timer:       deps.Timer,
		registry:    deps.Tasks,
		coordinator: deps.Coordinator,
		conv:        deps.Chat,
		facade:      deps.Facade,
		pad:         deps.Pad,
		log:         deps.Log,
		bell:        deps.Bell,
	}
	m.initBubbleComponents()
	m.chatInput.SetValue(m.conv.Draft())
	m.padArea.SetValue(m.pad.Text())
	m.syncBubbleData()
	return m
}

package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ViewState is the screen a model is currently showing.
type ViewState int

const (
	// ViewStateLoading shows a spinner while the first fetch runs.
	ViewStateLoading ViewState = iota
	// ViewStateList shows the grid.
	ViewStateList
	// ViewStateDetail shows every field of one row.
	ViewStateDetail
	// ViewStateConfirm asks before a batch action is sent.
	ViewStateConfirm
	// ViewStateHistory shows the notification history.
	ViewStateHistory
	// ViewStateQuitting is set just before tea.Quit.
	ViewStateQuitting
	// ViewStateError shows a fatal load error.
	ViewStateError
)

// Key bindings shared by every screen.
const (
	keyQuit   = "q"
	keyCtrlC  = "ctrl+c"
	keyEnter  = "enter"
	keyEsc    = "esc"
	keySlash  = "/"
	keyS      = "s"
	keyF      = "f"
	keySpace  = " "
	keyA      = "a"
	keyC      = "c"
	keyR      = "r"
	keyE      = "e"
	keyUpperE = "E"
	keyD      = "d"
	keyN      = "n"
	keyY      = "y"
	keyUpperY = "Y"
)

// Layout.
const (
	defaultWidth  = 120
	defaultHeight = 30
	minHeight     = 5
	// summaryHeight is the lines taken by the title, status bar, toast and help.
	summaryHeight = 6
	borderPadding = 4

	filterInputCharLimit = 64
	filterInputWidth     = 40

	serialColumnWidth   = 5
	checkboxColumnWidth = 3
)

const msgSelectedOutOfBounds = "selected row is out of bounds"

func newTextInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = filterInputCharLimit
	ti.Width = filterInputWidth
	return ti
}

// LoadingState is the spinner shown while rows are fetched.
type LoadingState struct {
	spinner spinner.Model
	message string
}

// NewLoadingState creates a loading spinner with the default message.
func NewLoadingState() *LoadingState {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = InfoStyle
	return &LoadingState{spinner: s, message: "Loading rows..."}
}

// Init starts the spinner.
func (l *LoadingState) Init() tea.Cmd {
	return l.spinner.Tick
}

// Update advances the spinner.
func (l *LoadingState) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	l.spinner, cmd = l.spinner.Update(msg)
	return cmd
}

// RenderLoading returns the loading screen, or "Loading..." when loading is nil.
func RenderLoading(loading *LoadingState) string {
	if loading == nil {
		return "Loading..."
	}
	return "\n " + loading.spinner.View() + " " + loading.message + "\n\n"
}

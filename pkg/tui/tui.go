// Package tui is the interactive terminal front end: the log, the scoreboard
// sidebar when the server shows one, a status line and a chat input with
// history.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	chromeLines = 4 // title, status, input, help
	historySize = 50
)

// Backend is what the TUI drives. *client.Client implements it.
type Backend interface {
	GetUsername() string
	GetAddress() string
	GetMaxLogLines() int
	SendChatMessage(msg string) error
	SendCommand(cmd string) error
	Disconnect(force bool) error
}

// TUI is the bubbletea model.
type TUI struct {
	backend   Backend
	viewport  viewport.Model
	textInput textinput.Model
	logs      []string
	status    string
	sidebar   *Sidebar

	history []string
	histPos int // len(history) when not browsing

	ready        bool
	inputEnabled bool
	width        int
	height       int
}

func New(backend Backend) *TUI {
	ti := textinput.New()
	ti.Placeholder = "Waiting for player to spawn..."
	ti.CharLimit = 256
	ti.Width = 50
	ti.Blur()
	return &TUI{backend: backend, textInput: ti}
}

func (t *TUI) Init() tea.Cmd { return textinput.Blink }

func (t *TUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := t.handleKey(msg); handled {
			return t, cmd
		}
	case tea.WindowSizeMsg:
		t.width, t.height = msg.Width, msg.Height
		t.layout()
	case LogMsg:
		t.appendLog(string(msg))
		return t, nil
	case StatusMsg:
		t.status = string(msg)
		return t, nil
	case SidebarMsg:
		t.sidebar = msg.Sidebar
		t.layout()
		return t, nil
	case EnableInputMsg:
		t.inputEnabled = true
		t.textInput.Placeholder = "Type a message or /command..."
		t.textInput.Focus()
		return t, nil
	}

	var cmds []tea.Cmd
	if t.ready {
		var cmd tea.Cmd
		t.viewport, cmd = t.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	if t.inputEnabled {
		var cmd tea.Cmd
		t.textInput, cmd = t.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	return t, tea.Batch(cmds...)
}

// handleKey consumes the keys the TUI owns. Everything else goes on to the
// viewport and the input.
func (t *TUI) handleKey(k tea.KeyMsg) (tea.Cmd, bool) {
	switch k.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		_ = t.backend.Disconnect(true)
		return tea.Quit, true
	case tea.KeyEnter:
		if t.inputEnabled {
			t.submit(strings.TrimSpace(t.textInput.Value()))
		}
		return nil, true
	case tea.KeyUp:
		if t.inputEnabled && len(t.history) > 0 {
			t.histPos = max(t.histPos-1, 0)
			t.recall()
			return nil, true
		}
	case tea.KeyDown:
		if t.inputEnabled && len(t.history) > 0 {
			t.histPos = min(t.histPos+1, len(t.history))
			t.recall()
			return nil, true
		}
	}
	return nil, false
}

func (t *TUI) submit(line string) {
	if line == "" {
		return
	}
	t.remember(line)
	t.textInput.SetValue("")

	if strings.HasPrefix(line, "/") {
		if err := t.backend.SendCommand(line); err != nil {
			t.appendLog(fmt.Sprintf("Error sending command: %v", err))
			return
		}
		t.appendLog("cmd > " + line)
		return
	}
	if err := t.backend.SendChatMessage(line); err != nil {
		t.appendLog(fmt.Sprintf("Error sending message: %v", err))
	}
}

func (t *TUI) remember(line string) {
	if n := len(t.history); n == 0 || t.history[n-1] != line {
		t.history = append(t.history, line)
	}
	if len(t.history) > historySize {
		t.history = t.history[len(t.history)-historySize:]
	}
	t.histPos = len(t.history)
}

// recall puts the history entry at histPos in the input; one past the end
// clears it.
func (t *TUI) recall() {
	if t.histPos == len(t.history) {
		t.textInput.SetValue("")
		return
	}
	t.textInput.SetValue(t.history[t.histPos])
	t.textInput.CursorEnd()
}

func (t *TUI) appendLog(line string) {
	t.logs = append(t.logs, line)
	if n := t.backend.GetMaxLogLines(); n > 0 && len(t.logs) > n {
		t.logs = t.logs[len(t.logs)-n:]
	}
	if !t.ready {
		return
	}
	// only follow the tail when already there, so scrolling back is not
	// interrupted
	follow := t.viewport.AtBottom()
	t.viewport.SetContent(t.renderLogs())
	if follow {
		t.viewport.GotoBottom()
	}
}

func (t *TUI) renderLogs() string { return strings.Join(t.logs, "\n") }

// layout sizes the viewport and the input to the window, leaving room on the
// right for the sidebar panel.
func (t *TUI) layout() {
	if t.width == 0 {
		return
	}
	w := max(t.width-t.sidebarWidth(), 1)
	h := max(t.height-chromeLines, 1)
	if !t.ready {
		t.viewport = viewport.New(w, h)
		t.viewport.SetContent(t.renderLogs())
		t.ready = true
	} else {
		t.viewport.Width, t.viewport.Height = w, h
	}
	t.textInput.Width = max(t.width-4, 1)
}

package tui

import (
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// LogMsg appends one line to the log.
type LogMsg string

// EnableInputMsg unlocks the chat input once the player has spawned.
type EnableInputMsg struct{}

// StatusMsg replaces the status line.
type StatusMsg string

// SidebarMsg replaces the sidebar panel. A nil Sidebar hides it.
type SidebarMsg struct {
	Sidebar *Sidebar
}

// Sidebar is the scoreboard objective the server displays in the sidebar
// slot. Title and Name may carry § formatting codes.
type Sidebar struct {
	Title string
	Rows  []SidebarRow // in display order
}

type SidebarRow struct {
	Name  string
	Score int32
}

// Writer forwards log output to a running program, one LogMsg per line.
type Writer struct {
	program *tea.Program
}

func NewWriter(program *tea.Program) *Writer {
	return &Writer{program: program}
}

func (w *Writer) Write(p []byte) (int, error) {
	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line != "" {
			w.program.Send(LogMsg(line))
		}
	}
	return len(p), nil
}

// Start builds the program for backend and a writer that logs into it. The
// caller runs the program.
func Start(backend Backend) (*tea.Program, io.Writer) {
	p := tea.NewProgram(New(backend), tea.WithAltScreen())
	return p, NewWriter(p)
}

func EnableInput(program *tea.Program) {
	if program != nil {
		program.Send(EnableInputMsg{})
	}
}

func SetStatus(program *tea.Program, status string) {
	if program != nil {
		program.Send(StatusMsg(status))
	}
}

func SetSidebar(program *tea.Program, sb *Sidebar) {
	if program != nil {
		program.Send(SidebarMsg{Sidebar: sb})
	}
}

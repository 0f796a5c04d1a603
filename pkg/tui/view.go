package tui

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("78"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)

// legacyColors maps § color codes to ANSI palette indices.
var legacyColors = map[rune]lipgloss.Color{
	'0': "0", '1': "4", '2': "2", '3': "6",
	'4': "1", '5': "5", '6': "3", '7': "7",
	'8': "8", '9': "12", 'a': "10", 'b': "14",
	'c': "9", 'd': "13", 'e': "11", 'f': "15",
}

func (t *TUI) View() string {
	if !t.ready {
		return "Initializing..."
	}

	title := titleStyle.Render(fmt.Sprintf("Minecraft 1.8 - %s@%s", t.backend.GetUsername(), t.backend.GetAddress()))

	body := t.viewport.View()
	if panel := t.sidebarPanel(); panel != "" {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, panel)
	}

	help := "Waiting for player to spawn... | Ctrl+C/Esc: quit"
	if t.inputEnabled {
		help = "Enter: send | Up/Down: history | Ctrl+C/Esc: quit"
	}

	return strings.Join([]string{
		title,
		body,
		statusStyle.Render(t.status),
		inputStyle.Render("> " + t.textInput.View()),
		helpStyle.Render(help),
	}, "\n")
}

// sidebarPanel renders the sidebar box, or "" when there is none or it would
// take more than half the window.
func (t *TUI) sidebarPanel() string {
	sb := t.sidebar
	if sb == nil {
		return ""
	}

	title := legacyText(sb.Title)
	inner := lipgloss.Width(title)
	names := make([]string, len(sb.Rows))
	scores := make([]string, len(sb.Rows))
	for i, r := range sb.Rows {
		names[i] = legacyText(r.Name)
		scores[i] = strconv.Itoa(int(r.Score))
		inner = max(inner, lipgloss.Width(names[i])+1+len(scores[i]))
	}

	lines := make([]string, 0, len(sb.Rows)+1)
	lines = append(lines, lipgloss.PlaceHorizontal(inner, lipgloss.Center, title))
	for i := range names {
		gap := inner - lipgloss.Width(names[i]) - len(scores[i])
		lines = append(lines, names[i]+strings.Repeat(" ", gap)+scoreStyle.Render(scores[i]))
	}
	panel := sidebarStyle.Render(strings.Join(lines, "\n"))

	if t.width > 0 && lipgloss.Width(panel) > t.width/2 {
		return ""
	}
	return panel
}

func (t *TUI) sidebarWidth() int { return lipgloss.Width(t.sidebarPanel()) }

// legacyText renders a string carrying § formatting codes. Colors are kept,
// the other codes are dropped.
func legacyText(s string) string {
	if !strings.ContainsRune(s, '§') {
		return s
	}

	var (
		out   strings.Builder
		run   strings.Builder
		style = lipgloss.NewStyle()
	)
	flush := func() {
		if run.Len() > 0 {
			out.WriteString(style.Render(run.String()))
			run.Reset()
		}
	}

	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '§' || i+1 == len(rs) {
			run.WriteRune(rs[i])
			continue
		}
		i++
		code := unicode.ToLower(rs[i])
		if c, ok := legacyColors[code]; ok {
			flush()
			style = lipgloss.NewStyle().Foreground(c)
		} else if code == 'r' {
			flush()
			style = lipgloss.NewStyle()
		}
	}
	flush()
	return out.String()
}

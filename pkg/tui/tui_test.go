package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	chats, commands []string
	disconnected    bool
}

func (f *fakeClient) GetUsername() string   { return "bot" }
func (f *fakeClient) GetAddress() string    { return "localhost:25565" }
func (f *fakeClient) GetMaxLogLines() int   { return 3 }
func (f *fakeClient) Disconnect(bool) error { f.disconnected = true; return nil }

func (f *fakeClient) SendChatMessage(msg string) error {
	f.chats = append(f.chats, msg)
	return nil
}

func (f *fakeClient) SendCommand(cmd string) error {
	f.commands = append(f.commands, cmd)
	return nil
}

func typeLine(t *TUI, line string) {
	for _, r := range line {
		t.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	t.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func TestLogsAreTrimmed(t *testing.T) {
	ui := New(&fakeClient{})
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		ui.Update(LogMsg(line))
	}
	assert.Equal(t, "c\nd\ne", ui.renderLogs())
}

func TestInputDisabledUntilSpawn(t *testing.T) {
	client := &fakeClient{}
	ui := New(client)
	ui.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	typeLine(ui, "hello")
	assert.Empty(t, client.chats)
	assert.Contains(t, ui.View(), "Waiting for player to spawn")

	ui.Update(EnableInputMsg{})
	typeLine(ui, "hello")
	typeLine(ui, "/list")
	assert.Equal(t, []string{"hello"}, client.chats)
	assert.Equal(t, []string{"/list"}, client.commands)
	assert.True(t, strings.HasSuffix(ui.renderLogs(), "cmd > /list"))
}

func TestStatusLine(t *testing.T) {
	ui := New(&fakeClient{})
	ui.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	ui.Update(StatusMsg("health 20.0"))

	view := ui.View()
	assert.Contains(t, view, "health 20.0")
	assert.Contains(t, view, "bot@localhost:25565")
}

func TestQuitDisconnects(t *testing.T) {
	client := &fakeClient{}
	ui := New(client)
	_, cmd := ui.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.True(t, client.disconnected)
	assert.NotNil(t, cmd)
}

func TestInputHistory(t *testing.T) {
	ui := New(&fakeClient{})
	ui.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	ui.Update(EnableInputMsg{})
	typeLine(ui, "first")
	typeLine(ui, "second")
	typeLine(ui, "second")

	press := func(k tea.KeyType) string {
		ui.Update(tea.KeyMsg{Type: k})
		return ui.textInput.Value()
	}
	assert.Equal(t, "second", press(tea.KeyUp))
	assert.Equal(t, "first", press(tea.KeyUp))
	assert.Equal(t, "first", press(tea.KeyUp))
	assert.Equal(t, "second", press(tea.KeyDown))
	assert.Equal(t, "", press(tea.KeyDown))
}

func TestSidebarPanel(t *testing.T) {
	ui := New(&fakeClient{})
	ui.Update(tea.WindowSizeMsg{Width: 100, Height: 24})
	assert.Equal(t, 100, ui.viewport.Width)

	ui.Update(SidebarMsg{Sidebar: &Sidebar{
		Title: "§eKills",
		Rows: []SidebarRow{
			{Name: "§c[R] bob", Score: 7},
			{Name: "alice", Score: 3},
		},
	}})
	view := ansi.Strip(ui.View())
	assert.Contains(t, view, "Kills")
	assert.Contains(t, view, "[R] bob 7")
	assert.Contains(t, view, "alice   3")
	assert.NotContains(t, view, "§")
	assert.Equal(t, 100-lipgloss.Width(ui.sidebarPanel()), ui.viewport.Width)

	ui.Update(SidebarMsg{})
	assert.NotContains(t, ansi.Strip(ui.View()), "Kills")
	assert.Equal(t, 100, ui.viewport.Width)
}

func TestSidebarHiddenInNarrowWindow(t *testing.T) {
	ui := New(&fakeClient{})
	ui.Update(tea.WindowSizeMsg{Width: 20, Height: 24})
	ui.Update(SidebarMsg{Sidebar: &Sidebar{Title: "Kills", Rows: []SidebarRow{{Name: "alice", Score: 3}}}})

	assert.Empty(t, ui.sidebarPanel())
	assert.Equal(t, 20, ui.viewport.Width)
}

func TestLegacyText(t *testing.T) {
	for in, want := range map[string]string{
		"plain":                "plain",
		"§cRed §lbold§r plain": "Red bold plain",
		"§AUpper":              "Upper",
		"trailing §":           "trailing §",
		"§x§yunknown codes":    "unknown codes",
	} {
		assert.Equal(t, want, ansi.Strip(legacyText(in)), in)
	}
}

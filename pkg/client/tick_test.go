package client

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-mclib/legacy/pkg/client/modules/scoreboard"
	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/tui"
)

func TestSidebarView(t *testing.T) {
	sb := scoreboard.New(nil)
	assert.Nil(t, sidebarView(sb))

	sb.HandlePacket(&packets.S2CScoreboardObjective{Name: "kills", Mode: packets.ObjectiveAdd, Value: "§eKills", Type: packets.ObjectiveInteger})
	sb.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplaySidebar, ScoreName: "kills"})
	sb.HandlePacket(&packets.S2CTeams{Name: "red", Mode: packets.TeamCreate, Prefix: "§c[R] ", Suffix: "!", Players: []string{"bob"}})
	for player, v := range map[string]int32{"alice": 3, "bob": 7, "carol": 3, "#hidden": 99} {
		sb.HandlePacket(&packets.S2CUpdateScore{Player: player, Action: packets.ScoreUpsert, Objective: "kills", Value: v})
	}

	view := sidebarView(sb)
	require.NotNil(t, view)
	assert.Equal(t, "§eKills", view.Title)
	assert.Equal(t, []tui.SidebarRow{
		{Name: "§c[R] bob!", Score: 7},
		{Name: "alice", Score: 3},
		{Name: "carol", Score: 3},
	}, view.Rows)

	sb.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplaySidebar})
	assert.Nil(t, sidebarView(sb))
}

func TestSidebarViewKeepsTopRows(t *testing.T) {
	sb := scoreboard.New(nil)
	sb.HandlePacket(&packets.S2CScoreboardObjective{Name: "o", Mode: packets.ObjectiveAdd, Value: "O", Type: packets.ObjectiveInteger})
	sb.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplaySidebar, ScoreName: "o"})
	for i := range 20 {
		sb.HandlePacket(&packets.S2CUpdateScore{Player: fmt.Sprintf("p%02d", i), Action: packets.ScoreUpsert, Objective: "o", Value: int32(i)})
	}

	view := sidebarView(sb)
	require.NotNil(t, view)
	require.Len(t, view.Rows, maxSidebarRows)
	assert.Equal(t, tui.SidebarRow{Name: "p19", Score: 19}, view.Rows[0])
	assert.Equal(t, tui.SidebarRow{Name: "p05", Score: 5}, view.Rows[maxSidebarRows-1])
}

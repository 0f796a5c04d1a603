package scoreboard

import (
	"bytes"
	"log"
	"slices"
	"strings"
	"testing"

	"github.com/go-mclib/legacy/pkg/packets"
)

func addObjective(m *Module, objName string) {
	m.HandlePacket(&packets.S2CScoreboardObjective{
		Name: objName, Mode: packets.ObjectiveAdd, Value: objName, Type: packets.ObjectiveInteger,
	})
}

func setScore(m *Module, objName, player string, v int32) {
	m.HandlePacket(&packets.S2CUpdateScore{
		Player: player, Action: packets.ScoreUpsert, Objective: objName, Value: v,
	})
}

func TestObjectiveLifecycle(t *testing.T) {
	m := New(nil)
	addObjective(m, "kills")
	setScore(m, "kills", "steve", 3)

	m.HandlePacket(&packets.S2CScoreboardObjective{
		Name: "kills", Mode: packets.ObjectiveUpdate, Value: "Kills", Type: packets.ObjectiveHearts,
	})
	o, ok := m.Objective("kills")
	if !ok {
		t.Fatalf("objective missing")
	}
	if o.DisplayName != "Kills" || o.Kind != KindHearts {
		t.Errorf("after update = %q %s, want Kills hearts", o.DisplayName, o.Kind)
	}
	if o.Scores["steve"] != 3 {
		t.Errorf("update should keep scores, got %v", o.Scores)
	}

	// add over an existing objective replaces it
	addObjective(m, "kills")
	if v, ok := m.Score("kills", "steve"); ok {
		t.Errorf("score survived replace: %d", v)
	}

	m.HandlePacket(&packets.S2CScoreboardObjective{Name: "kills", Mode: packets.ObjectiveRemove})
	if _, ok := m.Objective("kills"); ok {
		t.Errorf("objective should be removed")
	}
}

func TestScoreUpsertAndRemove(t *testing.T) {
	m := New(nil)
	addObjective(m, "o1")
	setScore(m, "o1", "p1", 5)
	setScore(m, "o1", "p1", 7)
	if v, _ := m.Score("o1", "p1"); v != 7 {
		t.Errorf("Score() = %d, want 7", v)
	}

	m.HandlePacket(&packets.S2CUpdateScore{Player: "p1", Action: packets.ScoreRemove, Objective: "o1"})
	if _, ok := m.Score("o1", "p1"); ok {
		t.Errorf("score should be removed")
	}
}

func TestScoreRemoveEverywhere(t *testing.T) {
	m := New(nil)
	addObjective(m, "o1")
	addObjective(m, "o2")
	setScore(m, "o1", "p1", 5)
	setScore(m, "o2", "p1", 5)
	setScore(m, "o2", "p2", 1)

	m.HandlePacket(&packets.S2CUpdateScore{Player: "p1", Action: packets.ScoreRemove, Objective: ""})

	for _, o := range []string{"o1", "o2"} {
		if _, ok := m.Score(o, "p1"); ok {
			t.Errorf("p1 still on %s", o)
		}
	}
	if v, ok := m.Score("o2", "p2"); !ok || v != 1 {
		t.Errorf("p2 on o2 = %d (%v), want 1", v, ok)
	}
}

func TestScoreEmptyObjectiveWithValueClears(t *testing.T) {
	m := New(nil)
	addObjective(m, "o1")
	addObjective(m, "o2")
	setScore(m, "o1", "p1", 5)
	setScore(m, "o2", "p1", 5)

	m.HandlePacket(&packets.S2CUpdateScore{Player: "p1", Action: packets.ScoreUpsert, Objective: "", Value: 9})

	for _, o := range []string{"o1", "o2"} {
		if v, ok := m.Score(o, "p1"); ok {
			t.Errorf("p1 on %s = %d, want absent", o, v)
		}
	}
	if len(m.Objectives()) != 2 {
		t.Errorf("Objectives() = %d, want 2", len(m.Objectives()))
	}
}

func TestScoreUnknownObjective(t *testing.T) {
	var logs bytes.Buffer
	m := New(log.New(&logs, "", 0))
	setScore(m, "missing", "p1", 1)
	if len(m.Objectives()) != 0 {
		t.Errorf("score created an objective")
	}
	if !strings.Contains(logs.String(), `unknown objective "missing"`) {
		t.Errorf("missing diagnostic, log = %q", logs.String())
	}
}

func TestDisplaySlots(t *testing.T) {
	m := New(nil)
	addObjective(m, "o1")
	addObjective(m, "o2")

	m.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplaySidebar, ScoreName: "o1"})
	m.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplayBelowName, ScoreName: "o2"})
	m.HandlePacket(&packets.S2CDisplayScoreboard{Position: 7, ScoreName: "o2"})

	if got := m.Display(SlotSidebar); got != "o1" {
		t.Errorf("Display(sidebar) = %q, want o1", got)
	}
	if got := m.Display(SlotTeamSidebar); got != "o2" {
		t.Errorf("Display(team_sidebar) = %q, want o2", got)
	}
	if o, ok := m.Sidebar(); !ok || o.Name != "o1" {
		t.Errorf("Sidebar() = %v (%v), want o1", o, ok)
	}

	m.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplaySidebar})
	if got := m.Display(SlotSidebar); got != "" {
		t.Errorf("Display(sidebar) = %q after clear, want empty", got)
	}

	// removing an objective unbinds it
	m.HandlePacket(&packets.S2CScoreboardObjective{Name: "o2", Mode: packets.ObjectiveRemove})
	if got := m.Display(SlotBelowName); got != "" {
		t.Errorf("Display(below_name) = %q after remove, want empty", got)
	}
}

func TestTeamMembership(t *testing.T) {
	m := New(nil)
	m.HandlePacket(&packets.S2CTeams{
		Name: "red", Mode: packets.TeamCreate, DisplayName: "Red", Prefix: "[R] ",
		FriendlyFire: int8(FriendlyFireOnSeeInvisibles), NameTagVisibility: "always",
		Color: 12, Players: []string{"a", "b"},
	})
	m.HandlePacket(&packets.S2CTeams{Name: "red", Mode: packets.TeamAddPlayers, Players: []string{"c"}})
	m.HandlePacket(&packets.S2CTeams{Name: "red", Mode: packets.TeamRemovePlayers, Players: []string{"a"}})

	team, ok := m.Team("red")
	if !ok {
		t.Fatalf("team missing")
	}
	if !slices.Equal(team.Players, []string{"b", "c"}) {
		t.Errorf("Players = %v, want [b c]", team.Players)
	}
	if !team.Has("c") || team.Has("a") {
		t.Errorf("Has() disagrees with Players %v", team.Players)
	}
	if !team.FriendlyFire.Enabled() || !team.FriendlyFire.SeesInvisibleAllies() {
		t.Errorf("FriendlyFire = %d, want both bits", team.FriendlyFire)
	}

	if got, ok := m.TeamOf("b"); !ok || got.Name != "red" {
		t.Errorf("TeamOf(b) = %q (%v), want red", got.Name, ok)
	}
}

func TestTeamUpdateKeepsPlayers(t *testing.T) {
	m := New(nil)
	m.HandlePacket(&packets.S2CTeams{Name: "blue", Mode: packets.TeamCreate, Players: []string{"x"}})
	m.HandlePacket(&packets.S2CTeams{Name: "blue", Mode: packets.TeamUpdate, DisplayName: "Blue", Suffix: "!"})

	team, _ := m.Team("blue")
	if team.DisplayName != "Blue" || team.Suffix != "!" {
		t.Errorf("update fields = %q %q", team.DisplayName, team.Suffix)
	}
	if !slices.Equal(team.Players, []string{"x"}) {
		t.Errorf("update touched players: %v", team.Players)
	}

	m.HandlePacket(&packets.S2CTeams{Name: "blue", Mode: packets.TeamRemove})
	if _, ok := m.Team("blue"); ok {
		t.Errorf("team should be removed")
	}
}

func TestTeamUnknown(t *testing.T) {
	var logs bytes.Buffer
	m := New(log.New(&logs, "", 0))
	m.HandlePacket(&packets.S2CTeams{Name: "ghost", Mode: packets.TeamAddPlayers, Players: []string{"a"}})
	if len(m.Teams()) != 0 {
		t.Errorf("action on unknown team created it")
	}
	if !strings.Contains(logs.String(), `unknown team "ghost"`) {
		t.Errorf("missing diagnostic, log = %q", logs.String())
	}
}

func TestResetClears(t *testing.T) {
	m := New(nil)
	addObjective(m, "o1")
	m.HandlePacket(&packets.S2CDisplayScoreboard{Position: packets.DisplayList, ScoreName: "o1"})
	m.HandlePacket(&packets.S2CTeams{Name: "t", Mode: packets.TeamCreate})
	m.Reset()
	if len(m.Objectives()) != 0 || len(m.Teams()) != 0 || m.Display(SlotPlayerList) != "" {
		t.Errorf("Reset() left state behind")
	}
}

package scoreboard

import (
	"github.com/go-mclib/legacy/pkg/packets"
)

func (m *Module) HandlePacket(pkt packets.Packet) {
	switch p := pkt.(type) {
	case *packets.S2CScoreboardObjective:
		m.handleObjective(p)
	case *packets.S2CUpdateScore:
		m.handleScore(p)
	case *packets.S2CDisplayScoreboard:
		m.handleDisplay(p)
	case *packets.S2CTeams:
		m.handleTeams(p)
	}
}

func (m *Module) handleObjective(p *packets.S2CScoreboardObjective) {
	key := intern(p.Name)
	m.mu.Lock()
	defer m.mu.Unlock()

	switch p.Mode {
	case packets.ObjectiveAdd:
		m.objectives[key] = &objective{
			displayName: p.Value,
			kind:        ParseKind(p.Type),
			scores:      make(map[name]int32),
		}
	case packets.ObjectiveRemove:
		delete(m.objectives, key)
		for slot := range m.display {
			if m.bound[slot] && m.display[slot] == key {
				m.bound[slot] = false
				m.display[slot] = name{}
			}
		}
	case packets.ObjectiveUpdate:
		o, ok := m.objectives[key]
		if !ok {
			m.Logger.Printf("scoreboard: update for unknown objective %q", p.Name)
			return
		}
		o.displayName = p.Value
		o.kind = ParseKind(p.Type)
	default:
		m.Logger.Printf("scoreboard: unknown objective mode %d", p.Mode)
	}
}

func (m *Module) handleScore(p *packets.S2CUpdateScore) {
	player := intern(p.Player)
	m.mu.Lock()
	defer m.mu.Unlock()

	// No objective clears the player everywhere, whatever the action.
	if p.Objective == "" {
		for _, o := range m.objectives {
			delete(o.scores, player)
		}
		return
	}

	o, ok := m.objectives[intern(p.Objective)]
	if !ok {
		m.Logger.Printf("scoreboard: score for unknown objective %q", p.Objective)
		return
	}
	if p.HasValue() {
		o.scores[player] = p.Value
	} else {
		delete(o.scores, player)
	}
}

func (m *Module) handleDisplay(p *packets.S2CDisplayScoreboard) {
	slot := SlotFromPosition(p.Position)
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ScoreName == "" {
		m.bound[slot] = false
		m.display[slot] = name{}
		return
	}
	m.bound[slot] = true
	m.display[slot] = intern(p.ScoreName)
}

func (m *Module) handleTeams(p *packets.S2CTeams) {
	key := intern(p.Name)
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Mode == packets.TeamCreate {
		t := &team{players: make(map[name]struct{}, len(p.Players))}
		t.setInfo(p)
		t.add(p.Players)
		m.teams[key] = t
		return
	}

	t, ok := m.teams[key]
	if !ok {
		m.Logger.Printf("scoreboard: team action %d for unknown team %q", p.Mode, p.Name)
		return
	}
	switch p.Mode {
	case packets.TeamRemove:
		delete(m.teams, key)
	case packets.TeamUpdate:
		t.setInfo(p)
	case packets.TeamAddPlayers:
		t.add(p.Players)
	case packets.TeamRemovePlayers:
		for _, pl := range p.Players {
			delete(t.players, intern(pl))
		}
	default:
		m.Logger.Printf("scoreboard: unknown team mode %d", p.Mode)
	}
}

func (t *team) setInfo(p *packets.S2CTeams) {
	t.displayName = p.DisplayName
	t.prefix = p.Prefix
	t.suffix = p.Suffix
	t.friendlyFire = FriendlyFire(p.FriendlyFire)
	t.nameTagVisibility = p.NameTagVisibility
	t.color = p.Color
}

func (t *team) add(players []string) {
	for _, pl := range players {
		t.players[intern(pl)] = struct{}{}
	}
}

// Package scoreboard mirrors the server's scoreboard objectives, scores,
// teams and display slot bindings.
//
// Objective, player and team names repeat across many packets; they are kept
// as unique.Handle values so every copy of a name shares one allocation.
package scoreboard

import (
	"cmp"
	"io"
	"log"
	"maps"
	"slices"
	"sync"
	"unique"

	"github.com/go-mclib/legacy/pkg/packets"
)

const ModuleName = "scoreboard"

type name = unique.Handle[string]

func intern(s string) name { return unique.Make(s) }

// ObjectiveKind is how an objective's scores are rendered.
type ObjectiveKind uint8

const (
	KindInteger ObjectiveKind = iota
	KindHearts
)

func (k ObjectiveKind) String() string {
	if k == KindHearts {
		return packets.ObjectiveHearts
	}
	return packets.ObjectiveInteger
}

// ParseKind maps the wire name of an objective kind; unknown names are
// treated as integer.
func ParseKind(s string) ObjectiveKind {
	if s == packets.ObjectiveHearts {
		return KindHearts
	}
	return KindInteger
}

// DisplaySlot is a place on screen an objective can be bound to.
type DisplaySlot uint8

const (
	SlotPlayerList DisplaySlot = iota
	SlotSidebar
	SlotBelowName
	SlotTeamSidebar
	numSlots
)

func (d DisplaySlot) String() string {
	switch d {
	case SlotPlayerList:
		return "list"
	case SlotSidebar:
		return "sidebar"
	case SlotBelowName:
		return "below_name"
	}
	return "team_sidebar"
}

// SlotFromPosition maps a DisplayScoreboard position; every position past
// below-name is a per-color team sidebar.
func SlotFromPosition(pos int8) DisplaySlot {
	switch pos {
	case packets.DisplayList:
		return SlotPlayerList
	case packets.DisplaySidebar:
		return SlotSidebar
	case packets.DisplayBelowName:
		return SlotBelowName
	}
	return SlotTeamSidebar
}

// FriendlyFire is the team friendly-fire setting byte.
type FriendlyFire int8

const (
	FriendlyFireOff              FriendlyFire = 0
	FriendlyFireOn               FriendlyFire = 1
	FriendlyFireOffSeeInvisibles FriendlyFire = 2
	FriendlyFireOnSeeInvisibles  FriendlyFire = 3
)

func (f FriendlyFire) Enabled() bool             { return f&1 != 0 }
func (f FriendlyFire) SeesInvisibleAllies() bool { return f&2 != 0 }

// Objective is a snapshot of one objective.
type Objective struct {
	Name        string
	DisplayName string
	Kind        ObjectiveKind
	Scores      map[string]int32
}

// Team is a snapshot of one team.
type Team struct {
	Name              string
	DisplayName       string
	Prefix            string
	Suffix            string
	FriendlyFire      FriendlyFire
	NameTagVisibility string
	Color             int8
	Players           []string // sorted
}

// Has reports whether player is on the team.
func (t Team) Has(player string) bool {
	_, found := slices.BinarySearch(t.Players, player)
	return found
}

type objective struct {
	displayName string
	kind        ObjectiveKind
	scores      map[name]int32
}

type team struct {
	displayName       string
	prefix            string
	suffix            string
	friendlyFire      FriendlyFire
	nameTagVisibility string
	color             int8
	players           map[name]struct{}
}

type Module struct {
	Logger *log.Logger

	mu         sync.RWMutex
	objectives map[name]*objective
	teams      map[name]*team
	display    [numSlots]name
	bound      [numSlots]bool
}

func New(logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	m := &Module{Logger: logger}
	m.Reset()
	return m
}

func (m *Module) Name() string { return ModuleName }

func (m *Module) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objectives = make(map[name]*objective)
	m.teams = make(map[name]*team)
	m.display = [numSlots]name{}
	m.bound = [numSlots]bool{}
}

// accessors

// Objective returns a snapshot of the named objective.
func (m *Module) Objective(objName string) (Objective, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := intern(objName)
	o, ok := m.objectives[key]
	if !ok {
		return Objective{}, false
	}
	return o.snapshot(key), true
}

// Objectives returns snapshots of every objective ordered by name.
func (m *Module) Objectives() []Objective {
	m.mu.RLock()
	out := make([]Objective, 0, len(m.objectives))
	for key, o := range m.objectives {
		out = append(out, o.snapshot(key))
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b Objective) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// Score returns player's score on an objective.
func (m *Module) Score(objName, player string) (int32, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objectives[intern(objName)]
	if !ok {
		return 0, false
	}
	v, ok := o.scores[intern(player)]
	return v, ok
}

// Team returns a snapshot of the named team.
func (m *Module) Team(teamName string) (Team, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := intern(teamName)
	t, ok := m.teams[key]
	if !ok {
		return Team{}, false
	}
	return t.snapshot(key), true
}

// Teams returns snapshots of every team ordered by name.
func (m *Module) Teams() []Team {
	m.mu.RLock()
	out := make([]Team, 0, len(m.teams))
	for key, t := range m.teams {
		out = append(out, t.snapshot(key))
	}
	m.mu.RUnlock()
	slices.SortFunc(out, func(a, b Team) int { return cmp.Compare(a.Name, b.Name) })
	return out
}

// TeamOf returns the team player belongs to.
func (m *Module) TeamOf(player string) (Team, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p := intern(player)
	for key, t := range m.teams {
		if _, ok := t.players[p]; ok {
			return t.snapshot(key), true
		}
	}
	return Team{}, false
}

// Display returns the objective name bound to a slot, or "" when empty.
func (m *Module) Display(slot DisplaySlot) string {
	if slot >= numSlots {
		return ""
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.bound[slot] {
		return ""
	}
	return m.display[slot].Value()
}

// Sidebar returns the objective shown in the sidebar.
func (m *Module) Sidebar() (Objective, bool) {
	n := m.Display(SlotSidebar)
	if n == "" {
		return Objective{}, false
	}
	return m.Objective(n)
}

func (o *objective) snapshot(key name) Objective {
	scores := make(map[string]int32, len(o.scores))
	for p, v := range o.scores {
		scores[p.Value()] = v
	}
	return Objective{Name: key.Value(), DisplayName: o.displayName, Kind: o.kind, Scores: scores}
}

func (t *team) snapshot(key name) Team {
	players := make([]string, 0, len(t.players))
	for p := range maps.Keys(t.players) {
		players = append(players, p.Value())
	}
	slices.Sort(players)
	return Team{
		Name:              key.Value(),
		DisplayName:       t.displayName,
		Prefix:            t.prefix,
		Suffix:            t.suffix,
		FriendlyFire:      t.friendlyFire,
		NameTagVisibility: t.nameTagVisibility,
		Color:             t.color,
		Players:           players,
	}
}

package packets

import (
	"bytes"
	"fmt"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
)

// ScoreboardObjective modes.
const (
	ObjectiveAdd    int8 = 0
	ObjectiveRemove int8 = 1
	ObjectiveUpdate int8 = 2
)

// Objective kinds as sent in S2CScoreboardObjective.Type.
const (
	ObjectiveInteger = "integer"
	ObjectiveHearts  = "hearts"
)

// S2CScoreboardObjective (Play 0x3B). Value and Type are only on the wire
// for ObjectiveAdd and ObjectiveUpdate.
type S2CScoreboardObjective struct {
	Name  string
	Mode  int8
	Value string
	Type  string
}

func (*S2CScoreboardObjective) ID() int32 { return 0x3B }

func (p *S2CScoreboardObjective) hasBody() bool {
	return p.Mode == ObjectiveAdd || p.Mode == ObjectiveUpdate
}

func (p *S2CScoreboardObjective) Encode(w io.Writer) error {
	if err := writeFields(w, pk.String(p.Name), pk.Byte(p.Mode)); err != nil {
		return err
	}
	if !p.hasBody() {
		return nil
	}
	return writeFields(w, pk.String(p.Value), pk.String(p.Type))
}

func (p *S2CScoreboardObjective) Decode(r *bytes.Reader) error {
	if err := readFields(r, (*pk.String)(&p.Name), (*pk.Byte)(&p.Mode)); err != nil {
		return err
	}
	if !p.hasBody() {
		return nil
	}
	return readFields(r, (*pk.String)(&p.Value), (*pk.String)(&p.Type))
}

// UpdateScore actions.
const (
	ScoreUpsert int8 = 0
	ScoreRemove int8 = 1
)

// S2CUpdateScore (Play 0x3C). An empty Objective clears the player from every
// objective, whatever the action. Value is absent on ScoreRemove.
type S2CUpdateScore struct {
	Player    string
	Action    int8
	Objective string
	Value     int32
}

func (*S2CUpdateScore) ID() int32 { return 0x3C }

// HasValue reports whether the packet carries a score.
func (p *S2CUpdateScore) HasValue() bool { return p.Action != ScoreRemove }

func (p *S2CUpdateScore) Encode(w io.Writer) error {
	if err := writeFields(w, pk.String(p.Player), pk.Byte(p.Action), pk.String(p.Objective)); err != nil {
		return err
	}
	if !p.HasValue() {
		return nil
	}
	return writeFields(w, pk.VarInt(p.Value))
}

func (p *S2CUpdateScore) Decode(r *bytes.Reader) error {
	if err := readFields(r, (*pk.String)(&p.Player), (*pk.Byte)(&p.Action), (*pk.String)(&p.Objective)); err != nil {
		return err
	}
	if !p.HasValue() {
		return nil
	}
	return readFields(r, (*pk.VarInt)(&p.Value))
}

// DisplayScoreboard positions. Values from 3 upwards are the per-color team
// sidebars.
const (
	DisplayList      int8 = 0
	DisplaySidebar   int8 = 1
	DisplayBelowName int8 = 2
)

// S2CDisplayScoreboard (Play 0x3D).
type S2CDisplayScoreboard struct {
	Position  int8
	ScoreName string
}

func (*S2CDisplayScoreboard) ID() int32 { return 0x3D }

func (p *S2CDisplayScoreboard) Encode(w io.Writer) error {
	return writeFields(w, pk.Byte(p.Position), pk.String(p.ScoreName))
}

func (p *S2CDisplayScoreboard) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.Byte)(&p.Position), (*pk.String)(&p.ScoreName))
}

// Teams modes.
const (
	TeamCreate        int8 = 0
	TeamRemove        int8 = 1
	TeamUpdate        int8 = 2
	TeamAddPlayers    int8 = 3
	TeamRemovePlayers int8 = 4
)

// S2CTeams (Play 0x3E). Which fields are present depends on Mode.
type S2CTeams struct {
	Name              string
	Mode              int8
	DisplayName       string
	Prefix            string
	Suffix            string
	FriendlyFire      int8
	NameTagVisibility string
	Color             int8
	Players           []string
}

func (*S2CTeams) ID() int32 { return 0x3E }

func (p *S2CTeams) hasInfo() bool { return p.Mode == TeamCreate || p.Mode == TeamUpdate }

func (p *S2CTeams) hasPlayers() bool {
	return p.Mode == TeamCreate || p.Mode == TeamAddPlayers || p.Mode == TeamRemovePlayers
}

func (p *S2CTeams) Encode(w io.Writer) error {
	if err := writeFields(w, pk.String(p.Name), pk.Byte(p.Mode)); err != nil {
		return err
	}
	if p.hasInfo() {
		if err := writeFields(w,
			pk.String(p.DisplayName),
			pk.String(p.Prefix),
			pk.String(p.Suffix),
			pk.Byte(p.FriendlyFire),
			pk.String(p.NameTagVisibility),
			pk.Byte(p.Color),
		); err != nil {
			return err
		}
	}
	if !p.hasPlayers() {
		return nil
	}
	if err := writeFields(w, pk.VarInt(len(p.Players))); err != nil {
		return err
	}
	for _, name := range p.Players {
		if err := writeFields(w, pk.String(name)); err != nil {
			return err
		}
	}
	return nil
}

func (p *S2CTeams) Decode(r *bytes.Reader) error {
	if err := readFields(r, (*pk.String)(&p.Name), (*pk.Byte)(&p.Mode)); err != nil {
		return err
	}
	if p.hasInfo() {
		if err := readFields(r,
			(*pk.String)(&p.DisplayName),
			(*pk.String)(&p.Prefix),
			(*pk.String)(&p.Suffix),
			(*pk.Byte)(&p.FriendlyFire),
			(*pk.String)(&p.NameTagVisibility),
			(*pk.Byte)(&p.Color),
		); err != nil {
			return err
		}
	}
	if !p.hasPlayers() {
		return nil
	}
	var count pk.VarInt
	if _, err := count.ReadFrom(r); err != nil {
		return err
	}
	if count < 0 || int(count) > r.Len() {
		return fmt.Errorf("invalid player count %d", count)
	}
	p.Players = make([]string, count)
	for i := range p.Players {
		if err := readFields(r, (*pk.String)(&p.Players[i])); err != nil {
			return err
		}
	}
	return nil
}

package packets

import (
	"bytes"
	"fmt"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
)

// S2CKeepAlive (Play 0x00). The client echoes it with C2SKeepAlive.
type S2CKeepAlive struct {
	KeepAliveID int32
}

func (*S2CKeepAlive) ID() int32 { return 0x00 }

func (p *S2CKeepAlive) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.KeepAliveID))
}

func (p *S2CKeepAlive) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.KeepAliveID))
}

// S2CJoinGame (Play 0x01).
type S2CJoinGame struct {
	EntityID         int32
	GameMode         uint8 // bit 3 is the hardcore flag
	Dimension        int8
	Difficulty       uint8
	MaxPlayers       uint8
	LevelType        string
	ReducedDebugInfo bool
}

func (*S2CJoinGame) ID() int32 { return 0x01 }

func (p *S2CJoinGame) Encode(w io.Writer) error {
	return writeFields(w,
		pk.Int(p.EntityID),
		pk.UnsignedByte(p.GameMode),
		pk.Byte(p.Dimension),
		pk.UnsignedByte(p.Difficulty),
		pk.UnsignedByte(p.MaxPlayers),
		pk.String(p.LevelType),
		pk.Boolean(p.ReducedDebugInfo),
	)
}

func (p *S2CJoinGame) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.Int)(&p.EntityID),
		(*pk.UnsignedByte)(&p.GameMode),
		(*pk.Byte)(&p.Dimension),
		(*pk.UnsignedByte)(&p.Difficulty),
		(*pk.UnsignedByte)(&p.MaxPlayers),
		(*pk.String)(&p.LevelType),
		(*pk.Boolean)(&p.ReducedDebugInfo),
	)
}

// Chat positions.
const (
	ChatPositionChat   int8 = 0
	ChatPositionSystem int8 = 1
	ChatPositionHotbar int8 = 2
)

// S2CChat (Play 0x02). Message is a JSON chat component.
type S2CChat struct {
	Message  string
	Position int8
}

func (*S2CChat) ID() int32 { return 0x02 }

func (p *S2CChat) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.Message), pk.Byte(p.Position))
}

func (p *S2CChat) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.Message), (*pk.Byte)(&p.Position))
}

// Text returns the message as plain text.
func (p *S2CChat) Text() string { return PlainText(p.Message) }

// S2CTimeUpdate (Play 0x03).
type S2CTimeUpdate struct {
	WorldAge  int64
	TimeOfDay int64
}

func (*S2CTimeUpdate) ID() int32 { return 0x03 }

func (p *S2CTimeUpdate) Encode(w io.Writer) error {
	return writeFields(w, pk.Long(p.WorldAge), pk.Long(p.TimeOfDay))
}

func (p *S2CTimeUpdate) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.Long)(&p.WorldAge), (*pk.Long)(&p.TimeOfDay))
}

// Equipment slots carried by S2CEntityEquipment.
const (
	EquipmentHeld int16 = iota
	EquipmentBoots
	EquipmentLeggings
	EquipmentChestplate
	EquipmentHelmet
)

// S2CEntityEquipment (Play 0x04).
type S2CEntityEquipment struct {
	EntityID int32
	Slot     int16
	Item     *Item
}

func (*S2CEntityEquipment) ID() int32 { return 0x04 }

func (p *S2CEntityEquipment) Encode(w io.Writer) error {
	if err := writeFields(w, pk.VarInt(p.EntityID), pk.Short(p.Slot)); err != nil {
		return err
	}
	return writeItem(w, p.Item)
}

func (p *S2CEntityEquipment) Decode(r *bytes.Reader) (err error) {
	if err = readFields(r, (*pk.VarInt)(&p.EntityID), (*pk.Short)(&p.Slot)); err != nil {
		return err
	}
	p.Item, err = readItem(r)
	return err
}

// S2CSpawnPosition (Play 0x05).
type S2CSpawnPosition struct {
	Location BlockPos
}

func (*S2CSpawnPosition) ID() int32 { return 0x05 }

func (p *S2CSpawnPosition) Encode(w io.Writer) error {
	return writeFields(w, pk.Long(p.Location.pack()))
}

func (p *S2CSpawnPosition) Decode(r *bytes.Reader) error {
	var v pk.Long
	if _, err := v.ReadFrom(r); err != nil {
		return err
	}
	p.Location = unpackBlockPos(int64(v))
	return nil
}

// S2CUpdateHealth (Play 0x06).
type S2CUpdateHealth struct {
	Health         float32
	Food           int32
	FoodSaturation float32
}

func (*S2CUpdateHealth) ID() int32 { return 0x06 }

func (p *S2CUpdateHealth) Encode(w io.Writer) error {
	return writeFields(w, pk.Float(p.Health), pk.VarInt(p.Food), pk.Float(p.FoodSaturation))
}

func (p *S2CUpdateHealth) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.Float)(&p.Health), (*pk.VarInt)(&p.Food), (*pk.Float)(&p.FoodSaturation))
}

// S2CRespawn (Play 0x07).
type S2CRespawn struct {
	Dimension  int32
	Difficulty uint8
	GameMode   uint8
	LevelType  string
}

func (*S2CRespawn) ID() int32 { return 0x07 }

func (p *S2CRespawn) Encode(w io.Writer) error {
	return writeFields(w,
		pk.Int(p.Dimension),
		pk.UnsignedByte(p.Difficulty),
		pk.UnsignedByte(p.GameMode),
		pk.String(p.LevelType),
	)
}

func (p *S2CRespawn) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.Int)(&p.Dimension),
		(*pk.UnsignedByte)(&p.Difficulty),
		(*pk.UnsignedByte)(&p.GameMode),
		(*pk.String)(&p.LevelType),
	)
}

// Relative flags of S2CPlayerPositionAndLook.
const (
	RelativeX     int8 = 0x01
	RelativeY     int8 = 0x02
	RelativeZ     int8 = 0x04
	RelativeYaw   int8 = 0x08
	RelativePitch int8 = 0x10
)

// S2CPlayerPositionAndLook (Play 0x08).
type S2CPlayerPositionAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	Flags      int8
}

func (*S2CPlayerPositionAndLook) ID() int32 { return 0x08 }

func (p *S2CPlayerPositionAndLook) Encode(w io.Writer) error {
	return writeFields(w,
		pk.Double(p.X), pk.Double(p.Y), pk.Double(p.Z),
		pk.Float(p.Yaw), pk.Float(p.Pitch),
		pk.Byte(p.Flags),
	)
}

func (p *S2CPlayerPositionAndLook) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.Double)(&p.X), (*pk.Double)(&p.Y), (*pk.Double)(&p.Z),
		(*pk.Float)(&p.Yaw), (*pk.Float)(&p.Pitch),
		(*pk.Byte)(&p.Flags),
	)
}

// S2CHeldItemChange (Play 0x09).
type S2CHeldItemChange struct {
	Slot int8
}

func (*S2CHeldItemChange) ID() int32 { return 0x09 }

func (p *S2CHeldItemChange) Encode(w io.Writer) error {
	return writeFields(w, pk.Byte(p.Slot))
}

func (p *S2CHeldItemChange) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.Byte)(&p.Slot))
}

// ChangeGameState reasons the client acts on.
const (
	GameStateChangeGameMode uint8 = 3
)

// S2CChangeGameState (Play 0x2B).
type S2CChangeGameState struct {
	Reason uint8
	Value  float32
}

func (*S2CChangeGameState) ID() int32 { return 0x2B }

func (p *S2CChangeGameState) Encode(w io.Writer) error {
	return writeFields(w, pk.UnsignedByte(p.Reason), pk.Float(p.Value))
}

func (p *S2CChangeGameState) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.UnsignedByte)(&p.Reason), (*pk.Float)(&p.Value))
}

// S2CSetSlot (Play 0x2F).
type S2CSetSlot struct {
	WindowID int8
	Slot     int16
	Item     *Item
}

func (*S2CSetSlot) ID() int32 { return 0x2F }

func (p *S2CSetSlot) Encode(w io.Writer) error {
	if err := writeFields(w, pk.Byte(p.WindowID), pk.Short(p.Slot)); err != nil {
		return err
	}
	return writeItem(w, p.Item)
}

func (p *S2CSetSlot) Decode(r *bytes.Reader) (err error) {
	if err = readFields(r, (*pk.Byte)(&p.WindowID), (*pk.Short)(&p.Slot)); err != nil {
		return err
	}
	p.Item, err = readItem(r)
	return err
}

// S2CWindowItems (Play 0x30).
type S2CWindowItems struct {
	WindowID uint8
	Items    []*Item
}

func (*S2CWindowItems) ID() int32 { return 0x30 }

func (p *S2CWindowItems) Encode(w io.Writer) error {
	if err := writeFields(w, pk.UnsignedByte(p.WindowID), pk.Short(len(p.Items))); err != nil {
		return err
	}
	for _, it := range p.Items {
		if err := writeItem(w, it); err != nil {
			return err
		}
	}
	return nil
}

func (p *S2CWindowItems) Decode(r *bytes.Reader) error {
	var count pk.Short
	if err := readFields(r, (*pk.UnsignedByte)(&p.WindowID), &count); err != nil {
		return err
	}
	if count < 0 {
		return fmt.Errorf("negative item count %d", count)
	}
	p.Items = make([]*Item, count)
	for i := range p.Items {
		it, err := readItem(r)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		p.Items[i] = it
	}
	return nil
}

// S2CKickDisconnect (Play 0x40). Reason is a JSON chat component.
type S2CKickDisconnect struct {
	Reason string
}

func (*S2CKickDisconnect) ID() int32 { return 0x40 }

func (p *S2CKickDisconnect) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.Reason))
}

func (p *S2CKickDisconnect) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.Reason))
}

// Text returns the reason as plain text.
func (p *S2CKickDisconnect) Text() string { return PlainText(p.Reason) }

// S2CSetCompressionPlay (Play 0x46) is the Play state twin of
// S2CSetCompression.
type S2CSetCompressionPlay struct {
	Threshold int32
}

func (*S2CSetCompressionPlay) ID() int32 { return 0x46 }

func (p *S2CSetCompressionPlay) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.Threshold))
}

func (p *S2CSetCompressionPlay) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.Threshold))
}

package packets

import (
	"bytes"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
)

// C2SKeepAlive (Play 0x00).
type C2SKeepAlive struct {
	KeepAliveID int32
}

func (*C2SKeepAlive) ID() int32 { return 0x00 }

func (p *C2SKeepAlive) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.KeepAliveID))
}

func (p *C2SKeepAlive) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.KeepAliveID))
}

// MaxChatLength is the longest chat message the server accepts.
const MaxChatLength = 100

// C2SChat (Play 0x01).
type C2SChat struct {
	Message string
}

func (*C2SChat) ID() int32 { return 0x01 }

func (p *C2SChat) Encode(w io.Writer) error {
	return writeFields(w, pk.String(p.Message))
}

func (p *C2SChat) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.String)(&p.Message))
}

// UseEntity types.
const (
	UseEntityInteract   int32 = 0
	UseEntityAttack     int32 = 1
	UseEntityInteractAt int32 = 2
)

// C2SUseEntity (Play 0x02). The target position is only on the wire for
// UseEntityInteractAt.
type C2SUseEntity struct {
	Target                    int32
	Type                      int32
	TargetX, TargetY, TargetZ float32
}

func (*C2SUseEntity) ID() int32 { return 0x02 }

func (p *C2SUseEntity) Encode(w io.Writer) error {
	if err := writeFields(w, pk.VarInt(p.Target), pk.VarInt(p.Type)); err != nil {
		return err
	}
	if p.Type != UseEntityInteractAt {
		return nil
	}
	return writeFields(w, pk.Float(p.TargetX), pk.Float(p.TargetY), pk.Float(p.TargetZ))
}

func (p *C2SUseEntity) Decode(r *bytes.Reader) error {
	if err := readFields(r, (*pk.VarInt)(&p.Target), (*pk.VarInt)(&p.Type)); err != nil {
		return err
	}
	if p.Type != UseEntityInteractAt {
		return nil
	}
	return readFields(r, (*pk.Float)(&p.TargetX), (*pk.Float)(&p.TargetY), (*pk.Float)(&p.TargetZ))
}

// C2SPlayerPositionAndLook (Play 0x06). Y is the feet position.
type C2SPlayerPositionAndLook struct {
	X, Y, Z    float64
	Yaw, Pitch float32
	OnGround   bool
}

func (*C2SPlayerPositionAndLook) ID() int32 { return 0x06 }

func (p *C2SPlayerPositionAndLook) Encode(w io.Writer) error {
	return writeFields(w,
		pk.Double(p.X), pk.Double(p.Y), pk.Double(p.Z),
		pk.Float(p.Yaw), pk.Float(p.Pitch),
		pk.Boolean(p.OnGround),
	)
}

func (p *C2SPlayerPositionAndLook) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.Double)(&p.X), (*pk.Double)(&p.Y), (*pk.Double)(&p.Z),
		(*pk.Float)(&p.Yaw), (*pk.Float)(&p.Pitch),
		(*pk.Boolean)(&p.OnGround),
	)
}

// PlayerDigging statuses.
const (
	DigStarted   int8 = 0
	DigCancelled int8 = 1
	DigFinished  int8 = 2
	DropStack    int8 = 3
	DropItem     int8 = 4
	FinishUsing  int8 = 5
)

// C2SPlayerDigging (Play 0x07). Drop statuses use the zero location and face.
type C2SPlayerDigging struct {
	Status   int8
	Location BlockPos
	Face     int8
}

func (*C2SPlayerDigging) ID() int32 { return 0x07 }

func (p *C2SPlayerDigging) Encode(w io.Writer) error {
	return writeFields(w, pk.Byte(p.Status), pk.Long(p.Location.pack()), pk.Byte(p.Face))
}

func (p *C2SPlayerDigging) Decode(r *bytes.Reader) error {
	var loc pk.Long
	if err := readFields(r, (*pk.Byte)(&p.Status), &loc, (*pk.Byte)(&p.Face)); err != nil {
		return err
	}
	p.Location = unpackBlockPos(int64(loc))
	return nil
}

// C2SHeldItemChange (Play 0x09).
type C2SHeldItemChange struct {
	Slot int16
}

func (*C2SHeldItemChange) ID() int32 { return 0x09 }

func (p *C2SHeldItemChange) Encode(w io.Writer) error {
	return writeFields(w, pk.Short(p.Slot))
}

func (p *C2SHeldItemChange) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.Short)(&p.Slot))
}

// C2SAnimation (Play 0x0A) swings the main arm. It has no fields.
type C2SAnimation struct{}

func (*C2SAnimation) ID() int32 { return 0x0A }

func (*C2SAnimation) Encode(io.Writer) error { return nil }

func (*C2SAnimation) Decode(*bytes.Reader) error { return nil }

// Chat modes of C2SClientSettings.
const (
	ChatModeEnabled      int8 = 0
	ChatModeCommandsOnly int8 = 1
	ChatModeHidden       int8 = 2
)

// SkinPartsAll enables every displayed skin part.
const SkinPartsAll uint8 = 0x7F

// C2SClientSettings (Play 0x15).
type C2SClientSettings struct {
	Locale       string
	ViewDistance int8
	ChatMode     int8
	ChatColors   bool
	SkinParts    uint8
}

func (*C2SClientSettings) ID() int32 { return 0x15 }

func (p *C2SClientSettings) Encode(w io.Writer) error {
	return writeFields(w,
		pk.String(p.Locale),
		pk.Byte(p.ViewDistance),
		pk.Byte(p.ChatMode),
		pk.Boolean(p.ChatColors),
		pk.UnsignedByte(p.SkinParts),
	)
}

func (p *C2SClientSettings) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.String)(&p.Locale),
		(*pk.Byte)(&p.ViewDistance),
		(*pk.Byte)(&p.ChatMode),
		(*pk.Boolean)(&p.ChatColors),
		(*pk.UnsignedByte)(&p.SkinParts),
	)
}

// ClientStatus actions.
const (
	StatusRespawn       int32 = 0
	StatusRequestStats  int32 = 1
	StatusOpenInventory int32 = 2
)

// C2SClientStatus (Play 0x16).
type C2SClientStatus struct {
	Action int32
}

func (*C2SClientStatus) ID() int32 { return 0x16 }

func (p *C2SClientStatus) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.Action))
}

func (p *C2SClientStatus) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.Action))
}

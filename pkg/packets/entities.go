package packets

import (
	"bytes"
	"fmt"
	"io"

	pk "github.com/Tnze/go-mc/net/packet"
	"github.com/google/uuid"
)

// Positions in spawn and teleport packets are fixed-point with 5 fraction
// bits; relative moves are in the same unit. Angles are 1/256 of a turn.

// FixedToFloat converts a fixed-point coordinate to blocks.
func FixedToFloat(v int32) float64 { return float64(v) / 32 }

// AngleToDegrees converts a protocol angle to degrees.
func AngleToDegrees(a int8) float32 { return float32(uint8(a)) * 360 / 256 }

// S2CSpawnPlayer (Play 0x0C).
type S2CSpawnPlayer struct {
	EntityID    int32
	PlayerUUID  uuid.UUID
	X, Y, Z     int32
	Yaw, Pitch  int8
	CurrentItem int16
	Metadata    Metadata
}

func (*S2CSpawnPlayer) ID() int32 { return 0x0C }

func (p *S2CSpawnPlayer) Encode(w io.Writer) error {
	if err := writeFields(w,
		pk.VarInt(p.EntityID),
		pk.UUID(p.PlayerUUID),
		pk.Int(p.X), pk.Int(p.Y), pk.Int(p.Z),
		pk.Byte(p.Yaw), pk.Byte(p.Pitch),
		pk.Short(p.CurrentItem),
	); err != nil {
		return err
	}
	return writeMetadata(w, p.Metadata)
}

func (p *S2CSpawnPlayer) Decode(r *bytes.Reader) (err error) {
	if err = readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.UUID)(&p.PlayerUUID),
		(*pk.Int)(&p.X), (*pk.Int)(&p.Y), (*pk.Int)(&p.Z),
		(*pk.Byte)(&p.Yaw), (*pk.Byte)(&p.Pitch),
		(*pk.Short)(&p.CurrentItem),
	); err != nil {
		return err
	}
	p.Metadata, err = readMetadata(r)
	return err
}

// Object types of S2CSpawnObject that the mirror distinguishes.
const (
	ObjectItemStack int8 = 2
)

// S2CSpawnObject (Play 0x0E). Velocity is only on the wire when Data is
// non-zero.
type S2CSpawnObject struct {
	EntityID   int32
	Type       int8
	X, Y, Z    int32
	Pitch, Yaw int8
	Data       int32
	VelocityX  int16
	VelocityY  int16
	VelocityZ  int16
}

func (*S2CSpawnObject) ID() int32 { return 0x0E }

func (p *S2CSpawnObject) Encode(w io.Writer) error {
	if err := writeFields(w,
		pk.VarInt(p.EntityID),
		pk.Byte(p.Type),
		pk.Int(p.X), pk.Int(p.Y), pk.Int(p.Z),
		pk.Byte(p.Pitch), pk.Byte(p.Yaw),
		pk.Int(p.Data),
	); err != nil {
		return err
	}
	if p.Data == 0 {
		return nil
	}
	return writeFields(w, pk.Short(p.VelocityX), pk.Short(p.VelocityY), pk.Short(p.VelocityZ))
}

func (p *S2CSpawnObject) Decode(r *bytes.Reader) error {
	if err := readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.Byte)(&p.Type),
		(*pk.Int)(&p.X), (*pk.Int)(&p.Y), (*pk.Int)(&p.Z),
		(*pk.Byte)(&p.Pitch), (*pk.Byte)(&p.Yaw),
		(*pk.Int)(&p.Data),
	); err != nil {
		return err
	}
	if p.Data == 0 {
		return nil
	}
	return readFields(r, (*pk.Short)(&p.VelocityX), (*pk.Short)(&p.VelocityY), (*pk.Short)(&p.VelocityZ))
}

// Mob types of S2CSpawnMob that the mirror distinguishes.
const (
	MobCreeper uint8 = 50
	MobPig     uint8 = 90
	MobSheep   uint8 = 91
)

// S2CSpawnMob (Play 0x0F).
type S2CSpawnMob struct {
	EntityID              int32
	Type                  uint8
	X, Y, Z               int32
	Yaw, Pitch, HeadPitch int8
	VelocityX, VelocityY  int16
	VelocityZ             int16
	Metadata              Metadata
}

func (*S2CSpawnMob) ID() int32 { return 0x0F }

func (p *S2CSpawnMob) Encode(w io.Writer) error {
	if err := writeFields(w,
		pk.VarInt(p.EntityID),
		pk.UnsignedByte(p.Type),
		pk.Int(p.X), pk.Int(p.Y), pk.Int(p.Z),
		pk.Byte(p.Yaw), pk.Byte(p.Pitch), pk.Byte(p.HeadPitch),
		pk.Short(p.VelocityX), pk.Short(p.VelocityY), pk.Short(p.VelocityZ),
	); err != nil {
		return err
	}
	return writeMetadata(w, p.Metadata)
}

func (p *S2CSpawnMob) Decode(r *bytes.Reader) (err error) {
	if err = readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.UnsignedByte)(&p.Type),
		(*pk.Int)(&p.X), (*pk.Int)(&p.Y), (*pk.Int)(&p.Z),
		(*pk.Byte)(&p.Yaw), (*pk.Byte)(&p.Pitch), (*pk.Byte)(&p.HeadPitch),
		(*pk.Short)(&p.VelocityX), (*pk.Short)(&p.VelocityY), (*pk.Short)(&p.VelocityZ),
	); err != nil {
		return err
	}
	p.Metadata, err = readMetadata(r)
	return err
}

// S2CSpawnExperienceOrb (Play 0x11).
type S2CSpawnExperienceOrb struct {
	EntityID int32
	X, Y, Z  int32
	Count    int16
}

func (*S2CSpawnExperienceOrb) ID() int32 { return 0x11 }

func (p *S2CSpawnExperienceOrb) Encode(w io.Writer) error {
	return writeFields(w,
		pk.VarInt(p.EntityID),
		pk.Int(p.X), pk.Int(p.Y), pk.Int(p.Z),
		pk.Short(p.Count),
	)
}

func (p *S2CSpawnExperienceOrb) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.Int)(&p.X), (*pk.Int)(&p.Y), (*pk.Int)(&p.Z),
		(*pk.Short)(&p.Count),
	)
}

// S2CEntityVelocity (Play 0x12). Velocity is in 1/8000 block per tick.
type S2CEntityVelocity struct {
	EntityID                        int32
	VelocityX, VelocityY, VelocityZ int16
}

func (*S2CEntityVelocity) ID() int32 { return 0x12 }

func (p *S2CEntityVelocity) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.EntityID), pk.Short(p.VelocityX), pk.Short(p.VelocityY), pk.Short(p.VelocityZ))
}

func (p *S2CEntityVelocity) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.EntityID), (*pk.Short)(&p.VelocityX), (*pk.Short)(&p.VelocityY), (*pk.Short)(&p.VelocityZ))
}

// S2CDestroyEntities (Play 0x13).
type S2CDestroyEntities struct {
	EntityIDs []int32
}

func (*S2CDestroyEntities) ID() int32 { return 0x13 }

func (p *S2CDestroyEntities) Encode(w io.Writer) error {
	if err := writeFields(w, pk.VarInt(len(p.EntityIDs))); err != nil {
		return err
	}
	for _, id := range p.EntityIDs {
		if err := writeFields(w, pk.VarInt(id)); err != nil {
			return err
		}
	}
	return nil
}

func (p *S2CDestroyEntities) Decode(r *bytes.Reader) error {
	var count pk.VarInt
	if _, err := count.ReadFrom(r); err != nil {
		return err
	}
	if count < 0 || int(count) > r.Len() {
		return fmt.Errorf("invalid entity count %d", count)
	}
	p.EntityIDs = make([]int32, count)
	for i := range p.EntityIDs {
		if err := readFields(r, (*pk.VarInt)(&p.EntityIDs[i])); err != nil {
			return err
		}
	}
	return nil
}

// S2CEntityRelativeMove (Play 0x15). Deltas are fixed-point.
type S2CEntityRelativeMove struct {
	EntityID   int32
	DX, DY, DZ int8
	OnGround   bool
}

func (*S2CEntityRelativeMove) ID() int32 { return 0x15 }

func (p *S2CEntityRelativeMove) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.EntityID), pk.Byte(p.DX), pk.Byte(p.DY), pk.Byte(p.DZ), pk.Boolean(p.OnGround))
}

func (p *S2CEntityRelativeMove) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.EntityID), (*pk.Byte)(&p.DX), (*pk.Byte)(&p.DY), (*pk.Byte)(&p.DZ), (*pk.Boolean)(&p.OnGround))
}

// S2CEntityLook (Play 0x16).
type S2CEntityLook struct {
	EntityID   int32
	Yaw, Pitch int8
	OnGround   bool
}

func (*S2CEntityLook) ID() int32 { return 0x16 }

func (p *S2CEntityLook) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.EntityID), pk.Byte(p.Yaw), pk.Byte(p.Pitch), pk.Boolean(p.OnGround))
}

func (p *S2CEntityLook) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.EntityID), (*pk.Byte)(&p.Yaw), (*pk.Byte)(&p.Pitch), (*pk.Boolean)(&p.OnGround))
}

// S2CEntityLookAndRelativeMove (Play 0x17).
type S2CEntityLookAndRelativeMove struct {
	EntityID   int32
	DX, DY, DZ int8
	Yaw, Pitch int8
	OnGround   bool
}

func (*S2CEntityLookAndRelativeMove) ID() int32 { return 0x17 }

func (p *S2CEntityLookAndRelativeMove) Encode(w io.Writer) error {
	return writeFields(w,
		pk.VarInt(p.EntityID),
		pk.Byte(p.DX), pk.Byte(p.DY), pk.Byte(p.DZ),
		pk.Byte(p.Yaw), pk.Byte(p.Pitch),
		pk.Boolean(p.OnGround),
	)
}

func (p *S2CEntityLookAndRelativeMove) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.Byte)(&p.DX), (*pk.Byte)(&p.DY), (*pk.Byte)(&p.DZ),
		(*pk.Byte)(&p.Yaw), (*pk.Byte)(&p.Pitch),
		(*pk.Boolean)(&p.OnGround),
	)
}

// S2CEntityTeleport (Play 0x18).
type S2CEntityTeleport struct {
	EntityID   int32
	X, Y, Z    int32
	Yaw, Pitch int8
	OnGround   bool
}

func (*S2CEntityTeleport) ID() int32 { return 0x18 }

func (p *S2CEntityTeleport) Encode(w io.Writer) error {
	return writeFields(w,
		pk.VarInt(p.EntityID),
		pk.Int(p.X), pk.Int(p.Y), pk.Int(p.Z),
		pk.Byte(p.Yaw), pk.Byte(p.Pitch),
		pk.Boolean(p.OnGround),
	)
}

func (p *S2CEntityTeleport) Decode(r *bytes.Reader) error {
	return readFields(r,
		(*pk.VarInt)(&p.EntityID),
		(*pk.Int)(&p.X), (*pk.Int)(&p.Y), (*pk.Int)(&p.Z),
		(*pk.Byte)(&p.Yaw), (*pk.Byte)(&p.Pitch),
		(*pk.Boolean)(&p.OnGround),
	)
}

// S2CEntityHeadLook (Play 0x19).
type S2CEntityHeadLook struct {
	EntityID int32
	HeadYaw  int8
}

func (*S2CEntityHeadLook) ID() int32 { return 0x19 }

func (p *S2CEntityHeadLook) Encode(w io.Writer) error {
	return writeFields(w, pk.VarInt(p.EntityID), pk.Byte(p.HeadYaw))
}

func (p *S2CEntityHeadLook) Decode(r *bytes.Reader) error {
	return readFields(r, (*pk.VarInt)(&p.EntityID), (*pk.Byte)(&p.HeadYaw))
}

// S2CEntityMetadata (Play 0x1C).
type S2CEntityMetadata struct {
	EntityID int32
	Metadata Metadata
}

func (*S2CEntityMetadata) ID() int32 { return 0x1C }

func (p *S2CEntityMetadata) Encode(w io.Writer) error {
	if err := writeFields(w, pk.VarInt(p.EntityID)); err != nil {
		return err
	}
	return writeMetadata(w, p.Metadata)
}

func (p *S2CEntityMetadata) Decode(r *bytes.Reader) (err error) {
	if err = readFields(r, (*pk.VarInt)(&p.EntityID)); err != nil {
		return err
	}
	p.Metadata, err = readMetadata(r)
	return err
}

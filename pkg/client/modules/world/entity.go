package world

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/go-mclib/legacy/pkg/packets"
)

// Kind tags the concrete Entity variant.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindObject
	KindItemStack
	KindExperienceOrb
	KindMob
	KindPig
	KindSheep
	KindCreeper
)

var kindNames = [...]string{
	KindPlayer:        "player",
	KindObject:        "object",
	KindItemStack:     "item",
	KindExperienceOrb: "experience_orb",
	KindMob:           "mob",
	KindPig:           "pig",
	KindSheep:         "sheep",
	KindCreeper:       "creeper",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Position is a location in blocks.
type Position struct {
	X, Y, Z float64
}

// Entity is one of *Player, *Object, *ItemStack, *ExperienceOrb, *Mob, *Pig,
// *Sheep or *Creeper.
type Entity interface {
	ID() int32
	Kind() Kind
	Position() (Position, bool)
	// Apply updates the entity from a metadata delta.
	Apply(md packets.Metadata)

	base() *Base
	clone() Entity
}

// Base entity flags (metadata index 0).
const (
	FlagOnFire    int8 = 0x01
	FlagCrouched  int8 = 0x02
	FlagSprinting int8 = 0x08
	FlagEating    int8 = 0x10
	FlagInvisible int8 = 0x20
)

// Base holds what every entity has.
type Base struct {
	EntityID int32
	Pos      Position
	HasPos   bool
	Yaw      float32
	Pitch    float32
	HeadYaw  float32
	OnGround bool
	// Velocity is in blocks per tick.
	Velocity Position
	Flags    int8
	Air      int16
}

func (b *Base) ID() int32                  { return b.EntityID }
func (b *Base) Position() (Position, bool) { return b.Pos, b.HasPos }
func (b *Base) base() *Base                { return b }

// HasFlag reports whether a metadata flag bit is set.
func (b *Base) HasFlag(f int8) bool { return b.Flags&f != 0 }

func (b *Base) Apply(md packets.Metadata) {
	if v, ok := md.Byte(0); ok {
		b.Flags = v
	}
	if v, ok := md.Short(1); ok {
		b.Air = v
	}
}

func (b *Base) setFixed(x, y, z int32) {
	b.Pos = Position{packets.FixedToFloat(x), packets.FixedToFloat(y), packets.FixedToFloat(z)}
	b.HasPos = true
}

func (b *Base) moveFixed(dx, dy, dz int8) {
	b.Pos.X += packets.FixedToFloat(int32(dx))
	b.Pos.Y += packets.FixedToFloat(int32(dy))
	b.Pos.Z += packets.FixedToFloat(int32(dz))
}

func (b *Base) look(yaw, pitch int8) {
	b.Yaw = packets.AngleToDegrees(yaw)
	b.Pitch = packets.AngleToDegrees(pitch)
}

func (b *Base) setVelocity(x, y, z int16) {
	b.Velocity = Position{float64(x) / 8000, float64(y) / 8000, float64(z) / 8000}
}

// living holds the metadata shared by players and mobs.
type living struct {
	CustomName string
	Health     float32
	NoAI       bool
}

func (l *living) apply(md packets.Metadata) {
	if v, ok := md.String(2); ok {
		l.CustomName = v
	}
	if v, ok := md.Float(6); ok {
		l.Health = v
	}
	if v, ok := md.Byte(15); ok {
		l.NoAI = v != 0
	}
}

// Player is another player.
type Player struct {
	Base
	living
	UUID        uuid.UUID
	CurrentItem int16
	SkinParts   uint8
	Absorption  float32
	Score       int32
}

func (*Player) Kind() Kind      { return KindPlayer }
func (p *Player) clone() Entity { dup := *p; return &dup }

func (p *Player) Apply(md packets.Metadata) {
	p.Base.Apply(md)
	p.living.apply(md)
	if v, ok := md.Byte(10); ok {
		p.SkinParts = uint8(v)
	}
	if v, ok := md.Float(17); ok {
		p.Absorption = v
	}
	if v, ok := md.Int(18); ok {
		p.Score = v
	}
}

// Object is a non-living entity such as a minecart or an arrow.
type Object struct {
	Base
	Type int8
	Data int32
}

func (*Object) Kind() Kind      { return KindObject }
func (o *Object) clone() Entity { dup := *o; return &dup }

// ItemStack is a dropped item.
type ItemStack struct {
	Object
	Item *packets.Item
}

func (*ItemStack) Kind() Kind       { return KindItemStack }
func (it *ItemStack) clone() Entity { dup := *it; return &dup }

func (it *ItemStack) Apply(md packets.Metadata) {
	it.Base.Apply(md)
	if v, ok := md.Item(10); ok {
		it.Item = v
	}
}

// ExperienceOrb is a dropped experience orb.
type ExperienceOrb struct {
	Base
	Count int16
}

func (*ExperienceOrb) Kind() Kind      { return KindExperienceOrb }
func (x *ExperienceOrb) clone() Entity { dup := *x; return &dup }

// Mob is a living entity without a more specific variant.
type Mob struct {
	Base
	living
	Type uint8
	Age  int8
}

func (*Mob) Kind() Kind      { return KindMob }
func (m *Mob) clone() Entity { dup := *m; return &dup }

func (m *Mob) Apply(md packets.Metadata) {
	m.Base.Apply(md)
	m.living.apply(md)
	if v, ok := md.Byte(12); ok {
		m.Age = v
	}
}

// IsBaby reports whether an ageable mob is a baby.
func (m *Mob) IsBaby() bool { return m.Age < 0 }

type Pig struct {
	Mob
	Saddled bool
}

func (*Pig) Kind() Kind      { return KindPig }
func (p *Pig) clone() Entity { dup := *p; return &dup }

func (p *Pig) Apply(md packets.Metadata) {
	p.Mob.Apply(md)
	if v, ok := md.Byte(16); ok {
		p.Saddled = v&0x01 != 0
	}
}

type Sheep struct {
	Mob
	Color   uint8
	Sheared bool
}

func (*Sheep) Kind() Kind      { return KindSheep }
func (s *Sheep) clone() Entity { dup := *s; return &dup }

func (s *Sheep) Apply(md packets.Metadata) {
	s.Mob.Apply(md)
	if v, ok := md.Byte(16); ok {
		s.Color = uint8(v) & 0x0F
		s.Sheared = v&0x10 != 0
	}
}

type Creeper struct {
	Mob
	// State is -1 when idle and 1 while the fuse burns.
	State   int8
	Powered bool
}

func (*Creeper) Kind() Kind      { return KindCreeper }
func (c *Creeper) clone() Entity { dup := *c; return &dup }

func (c *Creeper) Apply(md packets.Metadata) {
	c.Mob.Apply(md)
	if v, ok := md.Byte(16); ok {
		c.State = v
	}
	if v, ok := md.Byte(17); ok {
		c.Powered = v != 0
	}
}

// Attackable reports whether UseEntity(attack) makes sense for e.
func Attackable(e Entity) bool {
	switch e.Kind() {
	case KindItemStack, KindExperienceOrb:
		return false
	}
	return true
}

func newPlayer(p *packets.S2CSpawnPlayer) *Player {
	e := &Player{UUID: p.PlayerUUID, CurrentItem: p.CurrentItem}
	e.EntityID = p.EntityID
	e.setFixed(p.X, p.Y, p.Z)
	e.look(p.Yaw, p.Pitch)
	e.Apply(p.Metadata)
	return e
}

func newObject(p *packets.S2CSpawnObject) Entity {
	obj := Object{Type: p.Type, Data: p.Data}
	obj.EntityID = p.EntityID
	obj.setFixed(p.X, p.Y, p.Z)
	obj.look(p.Yaw, p.Pitch)
	if p.Data != 0 {
		obj.setVelocity(p.VelocityX, p.VelocityY, p.VelocityZ)
	}
	if p.Type == packets.ObjectItemStack {
		return &ItemStack{Object: obj}
	}
	return &obj
}

func newMob(p *packets.S2CSpawnMob) Entity {
	mob := Mob{Type: p.Type}
	mob.EntityID = p.EntityID
	mob.setFixed(p.X, p.Y, p.Z)
	mob.look(p.Yaw, p.Pitch)
	mob.HeadYaw = packets.AngleToDegrees(p.HeadPitch)
	mob.setVelocity(p.VelocityX, p.VelocityY, p.VelocityZ)

	var e Entity
	switch p.Type {
	case packets.MobPig:
		e = &Pig{Mob: mob}
	case packets.MobSheep:
		e = &Sheep{Mob: mob}
	case packets.MobCreeper:
		e = &Creeper{Mob: mob, State: -1}
	default:
		e = &mob
	}
	e.Apply(p.Metadata)
	return e
}

func newExperienceOrb(p *packets.S2CSpawnExperienceOrb) *ExperienceOrb {
	e := &ExperienceOrb{Count: p.Count}
	e.EntityID = p.EntityID
	e.setFixed(p.X, p.Y, p.Z)
	return e
}

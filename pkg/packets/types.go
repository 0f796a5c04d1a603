package packets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Tnze/go-mc/chat"
	"github.com/Tnze/go-mc/nbt"
	pk "github.com/Tnze/go-mc/net/packet"
)

// PlainText renders a JSON chat component as plain text. Strings that are
// not valid components are returned unchanged.
func PlainText(raw string) string {
	var msg chat.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		return raw
	}
	return msg.ClearString()
}

// Item is a 1.8 inventory slot value.
type Item struct {
	ID     int16
	Count  int8
	Damage int16
	NBT    nbt.RawMessage // zero Type means no tag
}

// HasNBT reports whether the item carries an NBT compound.
func (it *Item) HasNBT() bool { return it != nil && it.NBT.Type != 0 }

// DisplayName returns the custom name from the item's display tag.
func (it *Item) DisplayName() string {
	if !it.HasNBT() {
		return ""
	}
	var tag struct {
		Display struct {
			Name string `nbt:"Name"`
		} `nbt:"display"`
	}
	if err := it.NBT.Unmarshal(&tag); err != nil {
		return ""
	}
	return tag.Display.Name
}

func readItem(r *bytes.Reader) (*Item, error) {
	var id pk.Short
	if _, err := id.ReadFrom(r); err != nil {
		return nil, err
	}
	if id == -1 {
		return nil, nil
	}
	it := &Item{ID: int16(id)}
	if err := readFields(r, (*pk.Byte)(&it.Count), (*pk.Short)(&it.Damage)); err != nil {
		return nil, err
	}
	tagType, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	if tagType == 0 {
		return it, nil
	}
	if err := r.UnreadByte(); err != nil {
		return nil, err
	}
	if _, err := nbt.NewDecoder(r).Decode(&it.NBT); err != nil {
		return nil, fmt.Errorf("item nbt: %w", err)
	}
	return it, nil
}

func writeItem(w io.Writer, it *Item) error {
	if it == nil {
		return writeFields(w, pk.Short(-1))
	}
	if err := writeFields(w, pk.Short(it.ID), pk.Byte(it.Count), pk.Short(it.Damage)); err != nil {
		return err
	}
	if !it.HasNBT() {
		return writeFields(w, pk.Byte(0))
	}
	return nbt.NewEncoder(w).Encode(it.NBT, "")
}

// BlockPos is a block position packed into one long.
type BlockPos struct {
	X, Y, Z int32
}

func (p BlockPos) pack() int64 {
	return (int64(p.X)&0x3FFFFFF)<<38 | (int64(p.Y)&0xFFF)<<26 | int64(p.Z)&0x3FFFFFF
}

func unpackBlockPos(v int64) BlockPos {
	return BlockPos{
		X: int32(v >> 38),
		Y: int32(v << 26 >> 52),
		Z: int32(v << 38 >> 38),
	}
}

// MetadataType is the serializer id of one metadata entry.
type MetadataType uint8

const (
	MetaByte MetadataType = iota
	MetaShort
	MetaInt
	MetaFloat
	MetaString
	MetaSlot
	MetaPosition
	MetaRotation
)

// Vec3i is the value of a MetaPosition entry.
type Vec3i struct{ X, Y, Z int32 }

// Vec3f is the value of a MetaRotation entry.
type Vec3f struct{ X, Y, Z float32 }

// MetadataEntry is one indexed value. Value holds int8, int16, int32,
// float32, string, *Item, Vec3i or Vec3f depending on Type.
type MetadataEntry struct {
	Index uint8
	Type  MetadataType
	Value any
}

// Metadata is an entity metadata list in wire order.
type Metadata []MetadataEntry

const metadataEnd = 0x7F

// Get returns the entry at index.
func (m Metadata) Get(index uint8) (MetadataEntry, bool) {
	for _, e := range m {
		if e.Index == index {
			return e, true
		}
	}
	return MetadataEntry{}, false
}

func (m Metadata) Byte(index uint8) (int8, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(int8)
	return v, ok && ok2
}

func (m Metadata) Short(index uint8) (int16, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(int16)
	return v, ok && ok2
}

func (m Metadata) Int(index uint8) (int32, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(int32)
	return v, ok && ok2
}

func (m Metadata) Float(index uint8) (float32, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(float32)
	return v, ok && ok2
}

func (m Metadata) String(index uint8) (string, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(string)
	return v, ok && ok2
}

func (m Metadata) Item(index uint8) (*Item, bool) {
	e, ok := m.Get(index)
	v, ok2 := e.Value.(*Item)
	return v, ok && ok2
}

func readMetadata(r *bytes.Reader) (Metadata, error) {
	var md Metadata
	for {
		b, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if b == metadataEnd {
			return md, nil
		}
		e := MetadataEntry{Index: b & 0x1F, Type: MetadataType(b >> 5)}
		switch e.Type {
		case MetaByte:
			var v pk.Byte
			_, err = v.ReadFrom(r)
			e.Value = int8(v)
		case MetaShort:
			var v pk.Short
			_, err = v.ReadFrom(r)
			e.Value = int16(v)
		case MetaInt:
			var v pk.Int
			_, err = v.ReadFrom(r)
			e.Value = int32(v)
		case MetaFloat:
			var v pk.Float
			_, err = v.ReadFrom(r)
			e.Value = float32(v)
		case MetaString:
			var v pk.String
			err = readString(r, &v)
			e.Value = string(v)
		case MetaSlot:
			e.Value, err = readItem(r)
		case MetaPosition:
			var v Vec3i
			err = readFields(r, (*pk.Int)(&v.X), (*pk.Int)(&v.Y), (*pk.Int)(&v.Z))
			e.Value = v
		case MetaRotation:
			var v Vec3f
			err = readFields(r, (*pk.Float)(&v.X), (*pk.Float)(&v.Y), (*pk.Float)(&v.Z))
			e.Value = v
		default:
			return nil, fmt.Errorf("metadata index %d: unknown type %d", e.Index, e.Type)
		}
		if err != nil {
			return nil, fmt.Errorf("metadata index %d: %w", e.Index, err)
		}
		md = append(md, e)
	}
}

var errMetadataValue = errors.New("metadata value does not match its type")

func writeMetadata(w io.Writer, md Metadata) error {
	for _, e := range md {
		if err := writeFields(w, pk.UnsignedByte(uint8(e.Type)<<5|e.Index&0x1F)); err != nil {
			return err
		}
		var err error
		switch v := e.Value.(type) {
		case int8:
			err = writeFields(w, pk.Byte(v))
		case int16:
			err = writeFields(w, pk.Short(v))
		case int32:
			err = writeFields(w, pk.Int(v))
		case float32:
			err = writeFields(w, pk.Float(v))
		case string:
			err = writeFields(w, pk.String(v))
		case *Item:
			err = writeItem(w, v)
		case Vec3i:
			err = writeFields(w, pk.Int(v.X), pk.Int(v.Y), pk.Int(v.Z))
		case Vec3f:
			err = writeFields(w, pk.Float(v.X), pk.Float(v.Y), pk.Float(v.Z))
		default:
			err = errMetadataValue
		}
		if err != nil {
			return fmt.Errorf("metadata index %d: %w", e.Index, err)
		}
	}
	return writeFields(w, pk.UnsignedByte(metadataEnd))
}

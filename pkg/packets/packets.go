// Package packets holds the typed protocol 47 (Minecraft 1.8.x) packets used
// by the client, a registry keyed by (state, bound, id), and the field codec
// built on github.com/Tnze/go-mc/net/packet.
//
// Packet names follow the S2C/C2S convention: S2C packets are sent by the
// server, C2S packets by the client.
package packets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	pk "github.com/Tnze/go-mc/net/packet"

	"github.com/go-mclib/legacy/pkg/protocol"
)

// Packet is a decoded packet body.
type Packet interface {
	// ID returns the packet id within its state and bound.
	ID() int32
	// Encode writes the fields (without id or framing).
	Encode(w io.Writer) error
	// Decode reads the fields from r.
	Decode(r *bytes.Reader) error
}

// ErrUnknownPacket is returned by Decode when no packet is registered for
// the (state, bound, id) triple.
var ErrUnknownPacket = errors.New("unknown packet")

type key struct {
	state protocol.State
	bound protocol.Bound
	id    int32
}

type meta struct {
	state protocol.State
	bound protocol.Bound
}

var (
	registry = map[key]func() Packet{}
	metadata = map[reflect.Type]meta{}
)

func register(state protocol.State, bound protocol.Bound, ctor func() Packet) {
	p := ctor()
	k := key{state, bound, p.ID()}
	if _, exists := registry[k]; exists {
		panic(fmt.Sprintf("packet already registered: %s %s 0x%02X", state, bound, p.ID()))
	}
	registry[k] = ctor
	metadata[reflect.TypeOf(p)] = meta{state, bound}
}

// New returns a zero packet for the triple, or false when none is registered.
func New(state protocol.State, bound protocol.Bound, id int32) (Packet, bool) {
	ctor, ok := registry[key{state, bound, id}]
	if !ok {
		return nil, false
	}
	return ctor(), true
}

// Lookup reports the state and bound p was registered under.
func Lookup(p Packet) (protocol.State, protocol.Bound, bool) {
	m, ok := metadata[reflect.TypeOf(p)]
	return m.state, m.bound, ok
}

// Marshal encodes p into an id + field bytes pair ready for framing.
func Marshal(p Packet) (pk.Packet, error) {
	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		return pk.Packet{}, fmt.Errorf("encode 0x%02X: %w", p.ID(), err)
	}
	return pk.Packet{ID: p.ID(), Data: buf.Bytes()}, nil
}

// Decode turns a raw packet into its typed form. Unregistered ids yield an
// error wrapping ErrUnknownPacket.
// A body that makes a field reader panic is reported as an error.
func Decode(state protocol.State, bound protocol.Bound, raw pk.Packet) (_ Packet, err error) {
	p, ok := New(state, bound, raw.ID)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s 0x%02X", ErrUnknownPacket, state, bound, raw.ID)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode %T: %v", p, r)
		}
	}()
	if err := p.Decode(bytes.NewReader(raw.Data)); err != nil {
		return nil, fmt.Errorf("decode %T: %w", p, err)
	}
	return p, nil
}

func writeFields(w io.Writer, fields ...io.WriterTo) error {
	for _, f := range fields {
		if _, err := f.WriteTo(w); err != nil {
			return err
		}
	}
	return nil
}

func readFields(r io.Reader, fields ...io.ReaderFrom) error {
	for _, f := range fields {
		if s, ok := f.(*pk.String); ok {
			if err := readString(r, s); err != nil {
				return err
			}
			continue
		}
		if _, err := f.ReadFrom(r); err != nil {
			return err
		}
	}
	return nil
}

// readString reads a VarInt-prefixed string, rejecting lengths that are
// negative or longer than what is left of the body.
func readString(r io.Reader, s *pk.String) error {
	var l pk.VarInt
	if _, err := l.ReadFrom(r); err != nil {
		return err
	}
	if l < 0 {
		return fmt.Errorf("negative string length %d", l)
	}
	if rest, ok := r.(interface{ Len() int }); ok && int(l) > rest.Len() {
		return fmt.Errorf("string length %d exceeds remaining %d bytes", l, rest.Len())
	}
	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return err
	}
	*s = pk.String(b)
	return nil
}

func init() {
	register(protocol.StateHandshake, protocol.Serverbound, func() Packet { return &C2SSetProtocol{} })

	register(protocol.StateLogin, protocol.Serverbound, func() Packet { return &C2SLoginStart{} })
	register(protocol.StateLogin, protocol.Clientbound, func() Packet { return &S2CLoginDisconnect{} })
	register(protocol.StateLogin, protocol.Clientbound, func() Packet { return &S2CLoginSuccess{} })
	register(protocol.StateLogin, protocol.Clientbound, func() Packet { return &S2CSetCompression{} })

	for _, ctor := range []func() Packet{
		func() Packet { return &S2CKeepAlive{} },
		func() Packet { return &S2CJoinGame{} },
		func() Packet { return &S2CChat{} },
		func() Packet { return &S2CTimeUpdate{} },
		func() Packet { return &S2CEntityEquipment{} },
		func() Packet { return &S2CSpawnPosition{} },
		func() Packet { return &S2CUpdateHealth{} },
		func() Packet { return &S2CRespawn{} },
		func() Packet { return &S2CPlayerPositionAndLook{} },
		func() Packet { return &S2CHeldItemChange{} },
		func() Packet { return &S2CSpawnPlayer{} },
		func() Packet { return &S2CSpawnObject{} },
		func() Packet { return &S2CSpawnMob{} },
		func() Packet { return &S2CSpawnExperienceOrb{} },
		func() Packet { return &S2CEntityVelocity{} },
		func() Packet { return &S2CDestroyEntities{} },
		func() Packet { return &S2CEntityRelativeMove{} },
		func() Packet { return &S2CEntityLook{} },
		func() Packet { return &S2CEntityLookAndRelativeMove{} },
		func() Packet { return &S2CEntityTeleport{} },
		func() Packet { return &S2CEntityHeadLook{} },
		func() Packet { return &S2CEntityMetadata{} },
		func() Packet { return &S2CChangeGameState{} },
		func() Packet { return &S2CSetSlot{} },
		func() Packet { return &S2CWindowItems{} },
		func() Packet { return &S2CScoreboardObjective{} },
		func() Packet { return &S2CUpdateScore{} },
		func() Packet { return &S2CDisplayScoreboard{} },
		func() Packet { return &S2CTeams{} },
		func() Packet { return &S2CKickDisconnect{} },
		func() Packet { return &S2CSetCompressionPlay{} },
	} {
		register(protocol.StatePlay, protocol.Clientbound, ctor)
	}

	for _, ctor := range []func() Packet{
		func() Packet { return &C2SKeepAlive{} },
		func() Packet { return &C2SChat{} },
		func() Packet { return &C2SUseEntity{} },
		func() Packet { return &C2SPlayerPositionAndLook{} },
		func() Packet { return &C2SPlayerDigging{} },
		func() Packet { return &C2SHeldItemChange{} },
		func() Packet { return &C2SAnimation{} },
		func() Packet { return &C2SClientSettings{} },
		func() Packet { return &C2SClientStatus{} },
	} {
		register(protocol.StatePlay, protocol.Serverbound, ctor)
	}
}

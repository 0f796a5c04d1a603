package client

import (
	"fmt"
	"reflect"
	"runtime/debug"

	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
)

// Context is what a packet callback receives: the live session and the
// decoded packet. Callbacks may read the mirrors and send packets; they run
// on the tick goroutine and must not block.
type Context[T any] struct {
	Session *Session
	Payload T
}

type handlerFunc func(s *Session, p packets.Packet)

// Registry holds the user callbacks, keyed by concrete packet type.
type Registry struct {
	handlers  map[reflect.Type][]handlerFunc
	onConnect []func(*Session)
	onTick    []func(*Session)
	onDeath   []func(*Session)
}

func newRegistry() *Registry {
	return &Registry{handlers: make(map[reflect.Type][]handlerFunc)}
}

// OnPacket registers fn for every received packet of type T, e.g.
//
//	client.OnPacket(c, func(ctx *client.Context[*packets.S2CTimeUpdate]) { ... })
func OnPacket[T packets.Packet](c *Client, fn func(*Context[T])) {
	key := reflect.TypeFor[T]()
	c.events.handlers[key] = append(c.events.handlers[key], func(s *Session, p packets.Packet) {
		fn(&Context[T]{Session: s, Payload: p.(T)})
	})
}

func (c *Client) OnChat(fn func(*Context[*packets.S2CChat])) *Client {
	OnPacket(c, fn)
	return c
}

// OnDisconnect fires when the server kicks the client during Play.
func (c *Client) OnDisconnect(fn func(*Context[*packets.S2CKickDisconnect])) *Client {
	OnPacket(c, fn)
	return c
}

func (c *Client) OnScoreboardAction(fn func(*Context[*packets.S2CScoreboardObjective])) *Client {
	OnPacket(c, fn)
	return c
}

func (c *Client) OnScoreboardDisplay(fn func(*Context[*packets.S2CDisplayScoreboard])) *Client {
	OnPacket(c, fn)
	return c
}

func (c *Client) OnScoreboardUpdate(fn func(*Context[*packets.S2CUpdateScore])) *Client {
	OnPacket(c, fn)
	return c
}

func (c *Client) OnTeamsAction(fn func(*Context[*packets.S2CTeams])) *Client {
	OnPacket(c, fn)
	return c
}

// OnConnect fires once per login, after the client settings are queued.
func (c *Client) OnConnect(fn func(*Session)) *Client {
	c.events.onConnect = append(c.events.onConnect, fn)
	return c
}

// OnTick fires at the end of every tick.
func (c *Client) OnTick(fn func(*Session)) *Client {
	c.events.onTick = append(c.events.onTick, fn)
	return c
}

// OnDeath fires when health drops to zero from a living state.
func (c *Client) OnDeath(fn func(*Session)) *Client {
	c.events.onDeath = append(c.events.onDeath, fn)
	return c
}

func (r *Registry) dispatch(s *Session, p packets.Packet) (err error) {
	hs := r.handlers[reflect.TypeOf(p)]
	if len(hs) == 0 {
		return nil
	}
	defer recoverCallback(&err, fmt.Sprintf("%T", p))
	for _, h := range hs {
		h(s, p)
	}
	return nil
}

func (r *Registry) fire(s *Session, op string, fns []func(*Session)) (err error) {
	if len(fns) == 0 {
		return nil
	}
	defer recoverCallback(&err, op)
	for _, fn := range fns {
		fn(s)
	}
	return nil
}

func recoverCallback(err *error, op string) {
	if r := recover(); r != nil {
		*err = &protocol.Error{
			Kind: protocol.ErrCallbackPanic,
			Op:   op,
			Err:  fmt.Errorf("%v\n%s", r, debug.Stack()),
		}
	}
}

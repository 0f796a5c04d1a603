package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/go-mclib/legacy/pkg/client/modules/chat"
	"github.com/go-mclib/legacy/pkg/client/modules/inventory"
	"github.com/go-mclib/legacy/pkg/client/modules/scoreboard"
	"github.com/go-mclib/legacy/pkg/client/modules/self"
	"github.com/go-mclib/legacy/pkg/client/modules/world"
	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
	"github.com/go-mclib/legacy/pkg/stream"
)

var (
	ErrSelfTarget    = errors.New("cannot attack self")
	ErrUnknownEntity = errors.New("entity not found")
	ErrNotAttackable = errors.New("entity is not attackable")

	errClosedForReconnect = errors.New("session closed for reconnect")
)

// Session is one logged-in connection. It lives from the bootstrap gate
// until the connection ends; callbacks receive it through Context.
type Session struct {
	Logger *log.Logger

	client *Client
	stream *stream.Stream

	username string
	uuid     string
	entityID int32

	ticks       atomic.Uint64
	lastRespawn atomic.Uint64
	connected   bool

	quit      chan struct{}
	quitOnce  sync.Once
	reconnect atomic.Bool
}

func newSession(c *Client, st *stream.Stream, playerID string, join *packets.S2CJoinGame) *Session {
	s := &Session{
		Logger:   c.Logger,
		client:   c,
		stream:   st,
		username: c.Username,
		uuid:     playerID,
		entityID: join.EntityID,
		quit:     make(chan struct{}),
	}
	c.self.Bind(st)
	return s
}

// accessors

func (s *Session) Username() string { return s.username }

// UUID returns the player UUID as sent in LoginSuccess.
func (s *Session) UUID() string { return s.uuid }

// PlayerUUID parses UUID.
func (s *Session) PlayerUUID() (uuid.UUID, error) { return uuid.Parse(s.uuid) }

func (s *Session) EntityID() int32 { return s.entityID }

// GameMode returns the current game mode without the hardcore bit.
func (s *Session) GameMode() uint8 { return s.client.self.GameMode() }

func (s *Session) State() protocol.State { return s.stream.State() }

// Ticks returns how many ticks the session has run.
func (s *Session) Ticks() uint64 { return s.ticks.Load() }

func (s *Session) World() *world.Module           { return s.client.world }
func (s *Session) Inventory() *inventory.Module   { return s.client.inventory }
func (s *Session) Scoreboard() *scoreboard.Module { return s.client.scoreboard }
func (s *Session) Self() *self.Module             { return s.client.self }
func (s *Session) ChatHistory() *chat.Module      { return s.client.chat }

// Module returns a registered module by name, or nil.
func (s *Session) Module(name string) Module { return s.client.Module(name) }

// sending

// Send queues p, blocking while the outbound queue is full.
func (s *Session) Send(ctx context.Context, p packets.Packet) error { return s.stream.Send(ctx, p) }

// SendDetached queues p from a new goroutine and returns immediately.
func (s *Session) SendDetached(p packets.Packet) { s.stream.SendDetached(p) }

// SendInOrder queues pkts in order from one new goroutine.
func (s *Session) SendInOrder(pkts ...packets.Packet) { s.stream.SendInOrder(pkts...) }

// actions

// Chat sends msg without blocking. Text longer than the server limit is
// split into several lines sent in order.
func (s *Session) Chat(msg string) {
	lines := chat.Split(msg)
	switch len(lines) {
	case 0:
	case 1:
		s.stream.SendDetached(&packets.C2SChat{Message: lines[0]})
	default:
		s.ChatInOrder(lines...)
	}
}

// ChatInOrder sends every message, in order, without blocking.
func (s *Session) ChatInOrder(msgs ...string) {
	var pkts []packets.Packet
	for _, m := range msgs {
		for _, line := range chat.Split(m) {
			pkts = append(pkts, &packets.C2SChat{Message: line})
		}
	}
	if len(pkts) > 0 {
		s.stream.SendInOrder(pkts...)
	}
}

// AttackEntity swings and attacks the entity with the given id.
func (s *Session) AttackEntity(id int32) error {
	if id == s.entityID {
		s.Logger.Println("cannot attack self, canceling...")
		return ErrSelfTarget
	}
	e, ok := s.client.world.Entity(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if !world.Attackable(e) {
		s.Logger.Printf("cannot attack %s %d, canceling...", e.Kind(), id)
		return fmt.Errorf("%w: %s %d", ErrNotAttackable, e.Kind(), id)
	}
	s.stream.SendInOrder(
		&packets.C2SAnimation{},
		&packets.C2SUseEntity{Target: id, Type: packets.UseEntityAttack},
	)
	return nil
}

// Respawn asks the server to respawn the player and waits until the request
// is queued.
func (s *Session) Respawn(ctx context.Context) error {
	s.lastRespawn.Store(s.ticks.Load())
	return s.stream.Send(ctx, &packets.C2SClientStatus{Action: packets.StatusRespawn})
}

// SelectHotbar changes the held hotbar slot (0-8).
func (s *Session) SelectHotbar(slot int) error {
	if err := s.client.inventory.SelectLocal(slot); err != nil {
		return err
	}
	s.stream.SendDetached(&packets.C2SHeldItemChange{Slot: int16(slot)})
	return nil
}

// Disconnect ends the session; Client.Run returns nil without reconnecting.
func (s *Session) Disconnect() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Session) closeForReconnect() error {
	s.reconnect.Store(true)
	s.Disconnect()
	return nil
}

func (s *Session) close() {
	s.client.self.Bind(nil)
	if err := s.stream.Close(); err != nil && s.client.Verbose {
		s.Logger.Printf("close: %v", err)
	}
}

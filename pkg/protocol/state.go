package protocol

import (
	"fmt"
	"sync"
)

// Version is the protocol number sent in the handshake (1.8.x).
const Version = 47

// State is a connection phase. States only ever move forward.
type State int

const (
	StateHandshake State = iota
	StateLogin
	StatePlay
)

func (s State) String() string {
	switch s {
	case StateHandshake:
		return "Handshake"
	case StateLogin:
		return "Login"
	case StatePlay:
		return "Play"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Bound is the direction a packet travels in.
type Bound uint8

const (
	Clientbound Bound = iota // server -> client
	Serverbound              // client -> server
)

func (b Bound) String() string {
	if b == Serverbound {
		return "Serverbound"
	}
	return "Clientbound"
}

// ConnState tracks the current state of one connection.
type ConnState struct {
	mu    sync.Mutex
	state State
}

func NewConnState(initial State) *ConnState {
	return &ConnState{state: initial}
}

func (cs *ConnState) Get() State {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.state
}

// Advance moves to next. Staying in the same state is a no-op; moving
// backwards fails with ErrProtocolState.
func (cs *ConnState) Advance(next State) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	if next < cs.state {
		return &Error{Kind: ErrProtocolState, Op: "advance", Err: fmt.Errorf("%s -> %s", cs.state, next)}
	}
	cs.state = next
	return nil
}

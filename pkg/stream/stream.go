// Package stream owns one protocol 47 connection after the handshake: it
// reads and decodes frames, applies the protocol-critical reflexes inline
// and funnels every outbound packet through a single writer goroutine.
package stream

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
)

const (
	// QueueSize is the capacity of the outbound queue.
	QueueSize = 100
	// PollInterval bounds ReadPackets when no wait is given.
	PollInterval = 5 * time.Millisecond

	readChunk    = 32 * 1024
	closeTimeout = 2 * time.Second
)

// ErrClosed is wrapped by send errors after Close.
var ErrClosed = errors.New("stream closed")

// Stream is a framed, stateful connection. ReadPackets must only be called
// from one goroutine; the send methods are safe for concurrent use.
type Stream struct {
	Logger  *log.Logger
	Verbose bool

	conn    net.Conn
	r       *bufio.Reader
	buf     []byte // unconsumed inbound bytes, always starting on a frame boundary
	scratch []byte

	state     *protocol.ConnState
	threshold atomic.Int32

	outbound   chan []byte
	closing    chan struct{}
	closeOnce  sync.Once
	writerDone chan struct{}
	writeErr   error // set before writerDone is closed
}

// New wraps conn and starts the writer goroutine. state is shared with the
// caller, who has already moved it past Handshake.
func New(conn net.Conn, state *protocol.ConnState, logger *log.Logger) *Stream {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Stream{
		Logger:     logger,
		conn:       conn,
		r:          bufio.NewReaderSize(conn, readChunk),
		scratch:    make([]byte, readChunk),
		state:      state,
		outbound:   make(chan []byte, QueueSize),
		closing:    make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	s.threshold.Store(protocol.CompressionDisabled)
	go s.writeLoop()
	return s
}

// State returns the current protocol state.
func (s *Stream) State() protocol.State { return s.state.Get() }

// Threshold returns the current compression threshold (-1 when disabled).
func (s *Stream) Threshold() int32 { return s.threshold.Load() }

// Buffered returns the number of inbound bytes waiting for the rest of
// their frame.
func (s *Stream) Buffered() int { return len(s.buf) }

// RemoteAddr returns the server address.
func (s *Stream) RemoteAddr() net.Addr { return s.conn.RemoteAddr() }

// ReadPackets performs one read of at most wait (PollInterval when zero) and
// returns every packet completed by it, in frame order. A read that times
// out yields an empty batch. Packets decoded before a read or framing error
// are returned together with the error.
func (s *Stream) ReadPackets(wait time.Duration) ([]packets.Packet, error) {
	if wait <= 0 {
		wait = PollInterval
	}
	if err := s.conn.SetReadDeadline(time.Now().Add(wait)); err != nil {
		return nil, protocol.IOError("set read deadline", err)
	}

	n, err := s.r.Read(s.scratch)
	s.buf = append(s.buf, s.scratch[:n]...)

	var readErr error
	if err != nil && !errors.Is(err, os.ErrDeadlineExceeded) {
		readErr = protocol.IOError("read", err)
	}

	out, parseErr := s.parse()
	if parseErr != nil {
		return out, parseErr
	}
	return out, readErr
}

// parse consumes every complete frame in buf.
func (s *Stream) parse() ([]packets.Packet, error) {
	var out []packets.Packet
	off := 0
	defer func() { s.compact(off) }()

	for {
		payload, n, err := protocol.SplitFrame(s.buf[off:])
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
		off += n

		p, ok := s.decode(payload)
		if !ok {
			continue
		}
		if err := s.intercept(p); err != nil {
			return out, err
		}
		out = append(out, p)
	}
}

func (s *Stream) compact(off int) {
	if off == 0 {
		return
	}
	s.buf = s.buf[:copy(s.buf, s.buf[off:])]
}

func (s *Stream) decode(payload []byte) (packets.Packet, bool) {
	threshold := s.threshold.Load()
	state := s.state.Get()

	raw, err := protocol.ParsePayload(payload, threshold)
	if err != nil {
		s.Logger.Printf("dropping malformed frame (%d bytes): %v", len(payload), err)
		return nil, false
	}
	p, err := packets.Decode(state, protocol.Clientbound, raw)
	if errors.Is(err, packets.ErrUnknownPacket) {
		if s.Verbose {
			s.Logger.Printf("ignoring %s packet 0x%02X (%d bytes)", state, raw.ID, len(raw.Data))
		}
		return nil, false
	}
	if err != nil {
		s.Logger.Printf("dropping %s packet 0x%02X: %v", state, raw.ID, err)
		return nil, false
	}
	if s.Verbose {
		s.Logger.Printf("<- %T (%d bytes)", p, len(payload))
	}
	return p, true
}

// intercept applies the reflexes that must take effect before the next frame
// is decoded.
func (s *Stream) intercept(p packets.Packet) error {
	switch p := p.(type) {
	case *packets.S2CSetCompression:
		s.setThreshold(p.Threshold)
	case *packets.S2CSetCompressionPlay:
		s.setThreshold(p.Threshold)
	case *packets.S2CLoginSuccess:
		if err := s.state.Advance(protocol.StatePlay); err != nil {
			return err
		}
		if s.Verbose {
			s.Logger.Printf("state -> %s", protocol.StatePlay)
		}
	case *packets.S2CKeepAlive:
		if err := s.Send(context.Background(), &packets.C2SKeepAlive{KeepAliveID: p.KeepAliveID}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) setThreshold(t int32) {
	if t < 0 {
		t = protocol.CompressionDisabled
	}
	s.threshold.Store(t)
	if s.Verbose {
		s.Logger.Printf("compression threshold set to %d", t)
	}
}

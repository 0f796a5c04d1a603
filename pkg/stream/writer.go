package stream

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
)

// Send serializes p with the current compression threshold and queues it,
// waiting for queue capacity. It fails once the stream is closed or the
// writer has died.
func (s *Stream) Send(ctx context.Context, p packets.Packet) error {
	frame, err := s.serialize(p)
	if err != nil {
		return err
	}
	select {
	case <-s.closing:
		return protocol.IOError("send", ErrClosed)
	case <-s.writerDone:
		return s.deadWriterErr()
	default:
	}
	select {
	case s.outbound <- frame:
		return nil
	case <-s.closing:
		return protocol.IOError("send", ErrClosed)
	case <-s.writerDone:
		return s.deadWriterErr()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendDetached queues p from a new goroutine and returns immediately.
// Packets sent this way are not ordered with respect to each other.
func (s *Stream) SendDetached(p packets.Packet) {
	go func() {
		if err := s.Send(context.Background(), p); err != nil {
			s.logSendError(p, err)
		}
	}()
}

// SendInOrder queues pkts from a single new goroutine, preserving their order.
func (s *Stream) SendInOrder(pkts ...packets.Packet) {
	go func() {
		for _, p := range pkts {
			if err := s.Send(context.Background(), p); err != nil {
				s.logSendError(p, err)
				return
			}
		}
	}()
}

func (s *Stream) logSendError(p packets.Packet, err error) {
	if errors.Is(err, ErrClosed) && !s.Verbose {
		return
	}
	s.Logger.Printf("failed to send %T: %v", p, err)
}

func (s *Stream) serialize(p packets.Packet) ([]byte, error) {
	raw, err := packets.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", p, err)
	}
	frame, err := protocol.Serialize(raw, s.threshold.Load())
	if err != nil {
		return nil, fmt.Errorf("serialize %T: %w", p, err)
	}
	if s.Verbose {
		s.Logger.Printf("-> %T (%d bytes)", p, len(frame))
	}
	return frame, nil
}

func (s *Stream) deadWriterErr() error {
	if s.writeErr != nil {
		return protocol.IOError("send", s.writeErr)
	}
	return protocol.IOError("send", ErrClosed)
}

// writeLoop is the only code that writes to the connection once the stream
// exists.
func (s *Stream) writeLoop() {
	defer close(s.writerDone)
	w := bufio.NewWriter(s.conn)

	for {
		select {
		case frame := <-s.outbound:
			if err := writeFrame(w, frame); err != nil {
				s.writeErr = err
				s.Logger.Printf("writer stopped: %v", err)
				return
			}
		case <-s.closing:
			if err := s.drain(w); err != nil {
				s.writeErr = err
				return
			}
			s.halfClose()
			return
		}
	}
}

// drain writes whatever is still queued without waiting for more.
func (s *Stream) drain(w *bufio.Writer) error {
	for {
		select {
		case frame := <-s.outbound:
			if err := writeFrame(w, frame); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func writeFrame(w *bufio.Writer, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		return err
	}
	return w.Flush()
}

func (s *Stream) halfClose() {
	type closeWriter interface{ CloseWrite() error }
	if cw, ok := s.conn.(closeWriter); ok {
		if err := cw.CloseWrite(); err != nil && s.Verbose {
			s.Logger.Printf("close write: %v", err)
		}
	}
}

// Close stops accepting packets, lets the writer flush what is already
// queued and half-close the socket, then closes the connection.
func (s *Stream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closing)
		select {
		case <-s.writerDone:
		case <-time.After(closeTimeout):
			s.Logger.Printf("writer did not drain within %s", closeTimeout)
		}
		err = s.conn.Close()
	})
	return err
}

// Done is closed when the writer goroutine has exited.
func (s *Stream) Done() <-chan struct{} { return s.writerDone }

package client

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
	"github.com/go-mclib/legacy/pkg/stream"
)

const bootstrapPoll = 50 * time.Millisecond

// bootstrap dials the server, logs in and reads until JoinGame. It returns
// the session together with every packet received so far, JoinGame
// included, for replay.
func (c *Client) bootstrap(ctx context.Context) (*Session, []packets.Packet, error) {
	if err := c.checkUsername(); err != nil {
		return nil, nil, err
	}

	dial := c.Dial
	if dial == nil {
		var d net.Dialer
		dial = d.DialContext
	}
	conn, err := dial(ctx, "tcp", c.Address())
	if err != nil {
		return nil, nil, fmt.Errorf("connect failed: %w", protocol.IOError("dial", err))
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.SetNoDelay(true); err != nil {
			c.Logger.Printf("set nodelay: %v", err)
		}
	}

	// unblock handshake writes and reads if the caller gives up
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	state := protocol.NewConnState(protocol.StateHandshake)

	c.Logger.Println("setting protocol...")
	if err := writeDirect(conn, &packets.C2SSetProtocol{
		ProtocolVersion: protocol.Version,
		ServerHost:      c.Host,
		ServerPort:      c.Port,
		NextState:       packets.NextStateLogin,
	}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("handshake: %w", err)
	}
	if err := state.Advance(protocol.StateLogin); err != nil {
		conn.Close()
		return nil, nil, err
	}

	c.Logger.Println("logging in...")
	if err := writeDirect(conn, &packets.C2SLoginStart{Username: c.Username}); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("login start: %w", err)
	}

	st := stream.New(conn, state, c.Logger)
	st.Verbose = c.Verbose

	c.Logger.Println("waiting for entity spawn...")
	var (
		staged   []packets.Packet
		playerID string
		join     *packets.S2CJoinGame
	)
	for join == nil {
		batch, err := st.ReadPackets(bootstrapPoll)
		for _, p := range batch {
			switch p := p.(type) {
			case *packets.S2CLoginSuccess:
				playerID = p.UUID
			case *packets.S2CJoinGame:
				if join == nil {
					join = p
				}
			case *packets.S2CLoginDisconnect:
				st.Close()
				return nil, nil, protocol.Disconnected(p.Text())
			case *packets.S2CKickDisconnect:
				if join == nil {
					st.Close()
					return nil, nil, protocol.Disconnected(p.Text())
				}
			}
		}
		staged = append(staged, batch...)
		if err != nil {
			st.Close()
			return nil, nil, err
		}
	}

	if c.Verbose {
		if id, err := uuid.Parse(playerID); err == nil && id != OfflineUUID(c.Username) {
			c.Logger.Printf("server assigned uuid %s, offline uuid is %s", id, OfflineUUID(c.Username))
		}
	}

	s := newSession(c, st, playerID, join)
	return s, staged, nil
}

// writeDirect writes an uncompressed frame straight to the socket; it is
// only used before the Stream takes ownership of the write half.
func writeDirect(conn net.Conn, p packets.Packet) error {
	raw, err := packets.Marshal(p)
	if err != nil {
		return err
	}
	frame, err := protocol.Serialize(raw, protocol.CompressionDisabled)
	if err != nil {
		return err
	}
	if _, err := conn.Write(frame); err != nil {
		return protocol.IOError("write", err)
	}
	return nil
}

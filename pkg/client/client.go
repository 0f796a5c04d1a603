package client

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-mclib/legacy/pkg/client/modules/chat"
	"github.com/go-mclib/legacy/pkg/client/modules/inventory"
	"github.com/go-mclib/legacy/pkg/client/modules/scoreboard"
	"github.com/go-mclib/legacy/pkg/client/modules/self"
	"github.com/go-mclib/legacy/pkg/client/modules/world"
	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
	"github.com/go-mclib/legacy/pkg/tui"
)

const (
	DefaultUsername      = "minecraft_bot_1"
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 25565
	DefaultAutoreconnect = 5 * time.Second
	DefaultMaxLogLines   = 1000
)

// DialFunc opens the TCP connection to the server.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

type Client struct {
	// connection
	Username string
	Host     string
	Port     uint16
	Verbose  bool
	Settings packets.C2SClientSettings
	Dial     DialFunc

	// reconnection; Autoreconnect is the delay between attempts, 0 disables
	Autoreconnect        time.Duration
	MaxReconnectAttempts int // -1 = infinite

	AutoRespawn bool

	// TUI
	Interactive bool
	MaxLogLines int

	Logger *log.Logger

	// built-in mirrors
	world      *world.Module
	inventory  *inventory.Module
	scoreboard *scoreboard.Module
	self       *self.Module
	chat       *chat.Module

	modules       []Module
	modulesByName map[string]Module
	events        *Registry

	mu         sync.Mutex
	session    *Session
	stop       context.CancelFunc
	tuiProgram *tea.Program
}

// DefaultSettings are the ClientSettings sent after login.
func DefaultSettings() packets.C2SClientSettings {
	return packets.C2SClientSettings{
		Locale:       "en_US",
		ViewDistance: 8,
		ChatMode:     packets.ChatModeEnabled,
		ChatColors:   true,
		SkinParts:    packets.SkinPartsAll,
	}
}

// New creates a client with the built-in mirrors registered.
func New() *Client {
	c := &Client{
		Username:             DefaultUsername,
		Host:                 DefaultHost,
		Port:                 DefaultPort,
		Settings:             DefaultSettings(),
		Autoreconnect:        DefaultAutoreconnect,
		MaxReconnectAttempts: -1,
		AutoRespawn:          true,
		MaxLogLines:          DefaultMaxLogLines,
		Logger:               log.New(os.Stdout, "", log.LstdFlags),
		modulesByName:        make(map[string]Module),
		events:               newRegistry(),
	}
	c.self = self.New(c.Logger)
	c.world = world.New(c.Logger)
	c.inventory = inventory.New(c.Logger)
	c.scoreboard = scoreboard.New(c.Logger)
	c.chat = chat.New(c.Logger)
	c.Register(c.self)
	c.Register(c.world)
	c.Register(c.inventory)
	c.Register(c.scoreboard)
	c.Register(c.chat)
	return c
}

func (c *Client) WithUsername(username string) *Client { c.Username = username; return c }
func (c *Client) WithHost(host string) *Client         { c.Host = host; return c }
func (c *Client) WithPort(port uint16) *Client         { c.Port = port; return c }
func (c *Client) WithVerbose(v bool) *Client           { c.Verbose = v; return c }
func (c *Client) WithInteractive(v bool) *Client       { c.Interactive = v; return c }
func (c *Client) WithAutoRespawn(v bool) *Client       { c.AutoRespawn = v; return c }
func (c *Client) WithDialer(d DialFunc) *Client        { c.Dial = d; return c }

// WithAutoreconnect sets the delay between connection attempts; 0 disables
// reconnecting.
func (c *Client) WithAutoreconnect(delay time.Duration) *Client {
	c.Autoreconnect = delay
	return c
}

// WithMaxReconnectAttempts bounds consecutive failed attempts (-1 = infinite).
func (c *Client) WithMaxReconnectAttempts(n int) *Client {
	c.MaxReconnectAttempts = n
	return c
}

func (c *Client) WithSettings(s packets.C2SClientSettings) *Client {
	c.Settings = s
	return c
}

// WithLogger replaces the logger of the client and its mirrors.
func (c *Client) WithLogger(l *log.Logger) *Client {
	c.setLogger(l)
	return c
}

func (c *Client) setLogger(l *log.Logger) {
	c.Logger = l
	c.self.Logger = l
	c.world.Logger = l
	c.inventory.Logger = l
	c.scoreboard.Logger = l
	c.chat.Logger = l
}

// Address returns host:port.
func (c *Client) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

func (c *Client) World() *world.Module           { return c.world }
func (c *Client) Inventory() *inventory.Module   { return c.inventory }
func (c *Client) Scoreboard() *scoreboard.Module { return c.scoreboard }
func (c *Client) Self() *self.Module             { return c.self }
func (c *Client) ChatHistory() *chat.Module      { return c.chat }

// Session returns the live session, or nil between connections.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Client) setSession(s *Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// SendChatMessage chats through the live session. Satisfies tui.Backend.
func (c *Client) SendChatMessage(msg string) error {
	s := c.Session()
	if s == nil {
		return errors.New("not connected")
	}
	s.Chat(msg)
	return nil
}

// SendCommand sends a command; protocol 47 commands are chat lines
// starting with a slash. Satisfies tui.Backend.
func (c *Client) SendCommand(cmd string) error {
	if len(cmd) == 0 || cmd[0] != '/' {
		cmd = "/" + cmd
	}
	return c.SendChatMessage(cmd)
}

// GetUsername returns the client's username (satisfies tui.Backend).
func (c *Client) GetUsername() string { return c.Username }

// GetAddress returns the server address (satisfies tui.Backend).
func (c *Client) GetAddress() string { return c.Address() }

// GetMaxLogLines returns the maximum log lines setting (satisfies tui.Backend).
func (c *Client) GetMaxLogLines() int { return c.MaxLogLines }

// EnableInput enables the chat input in the TUI.
func (c *Client) EnableInput() {
	tui.EnableInput(c.tuiProgram)
}

// Disconnect closes the live session. If force is true Run returns instead
// of reconnecting.
func (c *Client) Disconnect(force bool) error {
	c.mu.Lock()
	s, stop := c.session, c.stop
	c.mu.Unlock()
	if force && stop != nil {
		stop()
		return nil
	}
	if s != nil {
		return s.closeForReconnect()
	}
	return nil
}

// Run connects and drives sessions until the context is canceled, a session
// is closed with Session.Disconnect, or the reconnect policy gives up.
func (c *Client) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.mu.Lock()
	c.stop = cancel
	c.mu.Unlock()

	if c.Interactive {
		tuiProgram, writer := tui.Start(c)
		c.tuiProgram = tuiProgram
		c.setLogger(log.New(writer, "", log.LstdFlags))

		defer func() {
			if c.tuiProgram != nil {
				c.tuiProgram.Quit()
				c.tuiProgram = nil
			}
		}()

		tuiDone := make(chan error, 1)
		go func() {
			_, err := tuiProgram.Run()
			tuiDone <- err
		}()

		clientDone := make(chan error, 1)
		go func() {
			clientDone <- c.runConnectionLoop(ctx)
		}()

		select {
		case err := <-tuiDone:
			cancel()
			<-clientDone
			return err
		case err := <-clientDone:
			return err
		}
	}

	return c.runConnectionLoop(ctx)
}

func (c *Client) runConnectionLoop(ctx context.Context) error {
	attempts := 0
	maxAttempts := c.MaxReconnectAttempts

	for {
		played, err := c.connectAndRunOnce(ctx)
		if err == nil || ctx.Err() != nil {
			return nil
		}
		if played {
			attempts = 0
		}

		c.Logger.Printf("connection error: %v", err)

		if errors.Is(err, protocol.ErrCallbackPanic) || c.Autoreconnect <= 0 || maxAttempts == 0 {
			c.Logger.Printf("not reconnecting, exiting...")
			return err
		}

		attempts++
		if maxAttempts > 0 && attempts > maxAttempts {
			c.Logger.Printf("max reconnect attempts (%d) reached, giving up", maxAttempts)
			return err
		}
		if maxAttempts == -1 {
			c.Logger.Printf("reconnecting in %s... (attempt %d/∞)", c.Autoreconnect, attempts)
		} else {
			c.Logger.Printf("reconnecting in %s... (attempt %d/%d)", c.Autoreconnect, attempts, maxAttempts)
		}

		if !sleep(ctx, c.Autoreconnect) {
			return nil
		}
	}
}

// connectAndRunOnce runs one connection attempt. played reports whether the
// attempt got past the bootstrap gate.
func (c *Client) connectAndRunOnce(ctx context.Context) (played bool, err error) {
	c.resetModules()

	s, staged, err := c.bootstrap(ctx)
	if err != nil {
		return false, err
	}
	c.setSession(s)
	defer func() {
		c.setSession(nil)
		s.close()
	}()

	if c.Interactive {
		c.EnableInput()
	}

	if err := s.handlePackets(ctx, staged); err != nil {
		return true, err
	}
	return true, s.run(ctx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Client) String() string {
	return fmt.Sprintf("%s@%s", c.Username, c.Address())
}

// Package chat keeps a bounded history of chat messages received from the
// server and splits outgoing text into server-sized lines.
package chat

import (
	"io"
	"log"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/go-mclib/legacy/pkg/packets"
)

const (
	ModuleName     = "chat"
	DefaultHistory = 200
)

// Message is one received chat line.
type Message struct {
	Raw      string // JSON chat component as sent
	Text     string // plain text
	Position int8
	Sender   string // empty unless the line is "<sender> body"
	Body     string
	Received time.Time
}

func (m Message) IsSystem() bool { return m.Position != packets.ChatPositionChat }

type Module struct {
	Logger     *log.Logger
	MaxHistory int

	mu      sync.RWMutex
	history []Message

	onPlayerChat []func(sender, message string)
	onSystemChat []func(message string, isOverlay bool)
}

func New(logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Module{Logger: logger, MaxHistory: DefaultHistory}
}

func (m *Module) Name() string { return ModuleName }

func (m *Module) Reset() {
	m.mu.Lock()
	m.history = nil
	m.mu.Unlock()
}

// events

func (m *Module) OnPlayerChat(cb func(sender, message string)) {
	m.onPlayerChat = append(m.onPlayerChat, cb)
}
func (m *Module) OnSystemChat(cb func(message string, isOverlay bool)) {
	m.onSystemChat = append(m.onSystemChat, cb)
}

// History returns the retained messages, oldest first.
func (m *Module) History() []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Message, len(m.history))
	copy(out, m.history)
	return out
}

func (m *Module) HandlePacket(pkt packets.Packet) {
	p, ok := pkt.(*packets.S2CChat)
	if !ok {
		return
	}
	msg := Message{
		Raw:      p.Message,
		Text:     p.Text(),
		Position: p.Position,
		Received: time.Now(),
	}
	if p.Position == packets.ChatPositionChat {
		msg.Sender, msg.Body = splitSender(msg.Text)
	}
	m.record(msg)

	switch {
	case msg.Sender != "":
		m.Logger.Printf("[CHAT] %s: %s", msg.Sender, msg.Body)
		for _, cb := range m.onPlayerChat {
			cb(msg.Sender, msg.Body)
		}
	case p.Position == packets.ChatPositionHotbar:
		m.Logger.Printf("[SYSTEM-ACTION] %s", msg.Text)
		for _, cb := range m.onSystemChat {
			cb(msg.Text, true)
		}
	default:
		m.Logger.Printf("[SYSTEM] %s", msg.Text)
		for _, cb := range m.onSystemChat {
			cb(msg.Text, false)
		}
	}
}

func (m *Module) record(msg Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, msg)
	if m.MaxHistory > 0 && len(m.history) > m.MaxHistory {
		m.history = m.history[len(m.history)-m.MaxHistory:]
	}
}

// splitSender recognizes the vanilla "<name> text" player chat format.
func splitSender(text string) (sender, body string) {
	rest, ok := strings.CutPrefix(text, "<")
	if !ok {
		return "", text
	}
	sender, body, ok = strings.Cut(rest, "> ")
	if !ok || sender == "" || strings.ContainsAny(sender, " <>") {
		return "", text
	}
	return sender, body
}

// Split breaks text into lines the server accepts, preferring to cut at
// spaces. Empty input yields no lines.
func Split(text string) []string {
	text = strings.TrimSpace(text)
	var lines []string
	for text != "" {
		if utf8.RuneCountInString(text) <= packets.MaxChatLength {
			lines = append(lines, text)
			break
		}
		cut := byteOffset(text, packets.MaxChatLength)
		if i := strings.LastIndexByte(text[:cut], ' '); i > 0 {
			cut = i
		}
		lines = append(lines, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	return lines
}

// byteOffset returns the byte index of the n-th rune of s.
func byteOffset(s string, n int) int {
	i := 0
	for range n {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

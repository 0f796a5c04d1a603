package client

import "github.com/go-mclib/legacy/pkg/packets"

// Module is a pluggable game-state component.
type Module interface {
	// Name returns a unique key for this module (e.g. "self", "world", "scoreboard").
	Name() string
	// HandlePacket is called on the tick goroutine for every packet received
	// in the Play state, after the user callbacks for that packet.
	HandlePacket(pkt packets.Packet)
	// Reset is called before every connection attempt to clear module state.
	Reset()
}

// Register adds a module to the client. Panics on duplicate name.
func (c *Client) Register(m Module) {
	if _, exists := c.modulesByName[m.Name()]; exists {
		panic("module already registered: " + m.Name())
	}
	c.modules = append(c.modules, m)
	c.modulesByName[m.Name()] = m
}

// Module returns a registered module by name, or nil.
func (c *Client) Module(name string) Module {
	return c.modulesByName[name]
}

func (c *Client) resetModules() {
	for _, m := range c.modules {
		m.Reset()
	}
}

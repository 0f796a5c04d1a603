package client

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-mclib/legacy/pkg/client/modules/scoreboard"
	"github.com/go-mclib/legacy/pkg/packets"
	"github.com/go-mclib/legacy/pkg/protocol"
	"github.com/go-mclib/legacy/pkg/tui"
)

const (
	// TickInterval is the period of the session tick.
	TickInterval = 50 * time.Millisecond
	// RespawnRetryTicks is how long the player may stay dead after an
	// automatic respawn request before it is sent again.
	RespawnRetryTicks = 20

	statusTicks    = 10
	maxSidebarRows = 15
)

// run drives the tick loop until the context is canceled, the session is
// closed or a tick fails.
func (s *Session) run(ctx context.Context) error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.quit:
			if s.reconnect.Load() {
				return errClosedForReconnect
			}
			return nil
		case <-ticker.C:
		}
		if err := s.tick(ctx); err != nil {
			return err
		}
	}
}

// tick reads one batch, dispatches it and runs the tick callbacks.
func (s *Session) tick(ctx context.Context) error {
	batch, readErr := s.stream.ReadPackets(0)
	if err := s.handlePackets(ctx, batch); err != nil {
		return err
	}
	if readErr != nil {
		return readErr
	}

	n := s.ticks.Add(1)
	if err := s.client.events.fire(s, "tick", s.client.events.onTick); err != nil {
		return err
	}

	c := s.client
	if c.tuiProgram != nil && n%statusTicks == 0 {
		tui.SetStatus(c.tuiProgram, s.status())
		tui.SetSidebar(c.tuiProgram, sidebarView(c.scoreboard))
	}
	if c.AutoRespawn && c.self.IsDead() && n-s.lastRespawn.Load() >= RespawnRetryTicks {
		s.Logger.Println("still dead, requesting respawn again")
		if err := s.Respawn(ctx); err != nil {
			return err
		}
	}
	return nil
}

// handlePackets runs every packet through the user callbacks, the modules
// and the lifecycle hooks, in that order.
func (s *Session) handlePackets(ctx context.Context, batch []packets.Packet) error {
	c := s.client
	for _, p := range batch {
		if err := c.events.dispatch(s, p); err != nil {
			return err
		}

		wasDead := c.self.IsDead()
		for _, m := range c.modules {
			m.HandlePacket(p)
		}

		switch p := p.(type) {
		case *packets.S2CLoginSuccess:
			if err := s.connect(ctx); err != nil {
				return err
			}
		case *packets.S2CUpdateHealth:
			if p.Health <= 0 && !wasDead {
				if err := s.died(ctx); err != nil {
					return err
				}
			}
		case *packets.S2CKickDisconnect:
			return protocol.Disconnected(p.Text())
		}
	}
	return nil
}

// connect sends the client settings and fires the connect callbacks, once
// per login.
func (s *Session) connect(ctx context.Context) error {
	if s.connected {
		return nil
	}
	s.connected = true

	settings := s.client.Settings
	if err := s.stream.Send(ctx, &settings); err != nil {
		return err
	}
	s.Logger.Printf("connected to %s as %s", s.client.Address(), s.username)
	return s.client.events.fire(s, "connect", s.client.events.onConnect)
}

func (s *Session) died(ctx context.Context) error {
	if err := s.client.events.fire(s, "death", s.client.events.onDeath); err != nil {
		return err
	}
	if !s.client.AutoRespawn {
		return nil
	}
	s.Logger.Println("respawning...")
	return s.Respawn(ctx)
}

// status is the one-line summary shown by the TUI.
func (s *Session) status() string {
	me := s.client.self
	food, _ := me.Food()
	line := fmt.Sprintf("health %.1f  food %d  entities %d", me.Health(), food, s.client.world.Len())
	if x, y, z, ok := me.Position(); ok {
		line += fmt.Sprintf("  pos %.1f %.1f %.1f", x, y, z)
	}
	return line
}

// sidebarView lays out the sidebar objective the way the game draws it:
// highest score first, ties by name, names starting with '#' hidden, each
// name wrapped in its team's prefix and suffix.
func sidebarView(sb *scoreboard.Module) *tui.Sidebar {
	obj, ok := sb.Sidebar()
	if !ok {
		return nil
	}

	type entry struct {
		player string
		score  int32
	}
	entries := make([]entry, 0, len(obj.Scores))
	for player, score := range obj.Scores {
		if !strings.HasPrefix(player, "#") {
			entries = append(entries, entry{player, score})
		}
	}
	slices.SortFunc(entries, func(a, b entry) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return strings.Compare(a.player, b.player)
	})
	if len(entries) > maxSidebarRows {
		entries = entries[:maxSidebarRows]
	}

	view := &tui.Sidebar{Title: obj.DisplayName, Rows: make([]tui.SidebarRow, len(entries))}
	for i, e := range entries {
		name := e.player
		if team, ok := sb.TeamOf(e.player); ok {
			name = team.Prefix + name + team.Suffix
		}
		view.Rows[i] = tui.SidebarRow{Name: name, Score: e.score}
	}
	return view
}

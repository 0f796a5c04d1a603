package client

import (
	"fmt"

	"github.com/go-mclib/legacy/pkg/client/modules/world"
	"github.com/go-mclib/legacy/pkg/packets"
)

// BreakBlock starts or finishes breaking a block at the given position.
// For instant break (creative mode), call with start=true only.
// For survival mode, call with start=true, wait, then call with start=false.
func (s *Session) BreakBlock(x, y, z int32, face int8, start bool) {
	status := packets.DigFinished
	if start {
		status = packets.DigStarted
	}
	s.stream.SendInOrder(
		&packets.C2SAnimation{},
		&packets.C2SPlayerDigging{Status: status, Location: packets.BlockPos{X: x, Y: y, Z: z}, Face: face},
	)
}

// CancelBreakBlock cancels the current block breaking action.
func (s *Session) CancelBreakBlock(x, y, z int32, face int8) {
	s.stream.SendDetached(&packets.C2SPlayerDigging{
		Status:   packets.DigCancelled,
		Location: packets.BlockPos{X: x, Y: y, Z: z},
		Face:     face,
	})
}

// SwingArm swings the player's arm (animation).
func (s *Session) SwingArm() {
	s.stream.SendDetached(&packets.C2SAnimation{})
}

// DropItem drops the currently held item. If dropStack is true, the entire stack is dropped.
func (s *Session) DropItem(dropStack bool) {
	status := packets.DropItem
	if dropStack {
		status = packets.DropStack
	}
	s.stream.SendDetached(&packets.C2SPlayerDigging{Status: status})
}

// InteractEntity right-clicks an entity (trading, riding, shearing, ...).
func (s *Session) InteractEntity(id int32) error {
	e, ok := s.client.world.Entity(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	if e.Kind() == world.KindExperienceOrb {
		return fmt.Errorf("cannot interact with %s %d", e.Kind(), id)
	}
	s.stream.SendDetached(&packets.C2SUseEntity{Target: id, Type: packets.UseEntityInteract})
	return nil
}

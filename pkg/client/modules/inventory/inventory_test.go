package inventory

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/go-mclib/legacy/pkg/packets"
)

func newTestModule(t *testing.T) (*Module, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	m := New(log.New(&logs, "", 0))
	m.HandlePacket(&packets.S2CJoinGame{EntityID: 7})
	return m, &logs
}

func TestSetSlot(t *testing.T) {
	m, _ := newTestModule(t)
	sword := &packets.Item{ID: 276, Count: 1}

	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 36, Item: sword})
	if got := m.Slot(36); got != sword {
		t.Errorf("Slot(36) = %v, want %v", got, sword)
	}
	if got := m.HeldItem(); got != sword {
		t.Errorf("HeldItem() = %v, want %v", got, sword)
	}

	// other windows are ignored
	m.HandlePacket(&packets.S2CSetSlot{WindowID: 3, Slot: 36})
	if m.Slot(36) != sword {
		t.Errorf("SetSlot for window 3 changed the player inventory")
	}

	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 36})
	if got := m.Slot(36); got != nil {
		t.Errorf("Slot(36) = %v after clear, want nil", got)
	}
}

func TestSetSlotCarried(t *testing.T) {
	tests := []struct {
		window int8
		slot   int16
	}{
		{WindowPlayer, -1},
		{WindowCursor, -1},
	}
	for _, tt := range tests {
		m, _ := newTestModule(t)
		item := &packets.Item{ID: 1, Count: 64}
		m.HandlePacket(&packets.S2CSetSlot{WindowID: tt.window, Slot: tt.slot, Item: item})
		if got := m.Carried(); got != item {
			t.Errorf("window %d: Carried() = %v, want %v", tt.window, got, item)
		}
		for i, s := range m.Slots() {
			if s != nil {
				t.Errorf("window %d: slot %d = %v, want empty", tt.window, i, s)
			}
		}
	}
}

func TestSetSlotOutOfRange(t *testing.T) {
	m, logs := newTestModule(t)
	for _, slot := range []int16{45, 100, -2} {
		m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: slot, Item: &packets.Item{ID: 1}})
	}
	if !strings.Contains(logs.String(), "out of range slot 45") {
		t.Errorf("missing diagnostic, log = %q", logs.String())
	}
	if m.Slot(45) != nil || m.Slot(-2) != nil {
		t.Errorf("out of range slot reads should be nil")
	}
}

func TestWindowItems(t *testing.T) {
	m, _ := newTestModule(t)
	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 44, Item: &packets.Item{ID: 5}})

	items := make([]*packets.Item, 10)
	items[9] = &packets.Item{ID: 3, Count: 12}
	m.HandlePacket(&packets.S2CWindowItems{WindowID: 0, Items: items})

	if got := m.Slot(9); got == nil || got.ID != 3 {
		t.Errorf("Slot(9) = %v, want id 3", got)
	}
	if got := m.Slot(44); got != nil {
		t.Errorf("Slot(44) = %v, want cleared", got)
	}
	if got := m.Count(3); got != 12 {
		t.Errorf("Count(3) = %d, want 12", got)
	}
}

func TestHeldItemChange(t *testing.T) {
	m, logs := newTestModule(t)
	var changes []int
	m.OnHeldSlotChange(func(slot int) { changes = append(changes, slot) })

	m.HandlePacket(&packets.S2CHeldItemChange{Slot: 4})
	m.HandlePacket(&packets.S2CHeldItemChange{Slot: 9})

	if got := m.MainHand(); got != 4 {
		t.Errorf("MainHand() = %d, want 4", got)
	}
	if len(changes) != 1 || changes[0] != 4 {
		t.Errorf("changes = %v, want [4]", changes)
	}
	if !strings.Contains(logs.String(), "slot 9") {
		t.Errorf("missing diagnostic for slot 9")
	}
	if err := m.SelectLocal(-1); err == nil {
		t.Errorf("SelectLocal(-1) should fail")
	}
}

func TestEntityEquipment(t *testing.T) {
	helmet := &packets.Item{ID: 310, Count: 1}
	boots := &packets.Item{ID: 313, Count: 1}
	held := &packets.Item{ID: 276, Count: 1}

	m, logs := newTestModule(t)
	m.HandlePacket(&packets.S2CHeldItemChange{Slot: 2})
	m.HandlePacket(&packets.S2CEntityEquipment{EntityID: 7, Slot: packets.EquipmentHelmet, Item: helmet})
	m.HandlePacket(&packets.S2CEntityEquipment{EntityID: 7, Slot: packets.EquipmentBoots, Item: boots})
	m.HandlePacket(&packets.S2CEntityEquipment{EntityID: 7, Slot: packets.EquipmentHeld, Item: held})
	// someone else's equipment
	m.HandlePacket(&packets.S2CEntityEquipment{EntityID: 8, Slot: packets.EquipmentLeggings, Item: helmet})
	// invalid equipment slot
	m.HandlePacket(&packets.S2CEntityEquipment{EntityID: 7, Slot: 5, Item: helmet})

	head, chest, legs, feet := m.Armor()
	if head != helmet || feet != boots {
		t.Errorf("Armor() head=%v feet=%v, want %v %v", head, feet, helmet, boots)
	}
	if chest != nil || legs != nil {
		t.Errorf("Armor() chest=%v legs=%v, want empty", chest, legs)
	}
	if got := m.Slot(SlotHotbarStart + 2); got != held {
		t.Errorf("main hand slot = %v, want %v", got, held)
	}
	if !strings.Contains(logs.String(), "unknown slot 5") {
		t.Errorf("missing diagnostic for equipment slot 5")
	}
}

func TestFindItem(t *testing.T) {
	m, _ := newTestModule(t)
	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 12, Item: &packets.Item{ID: 4, Count: 1}})
	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 40, Item: &packets.Item{ID: 4, Count: 2}})

	if got := m.FindItem(4); got != 40 {
		t.Errorf("FindItem(4) = %d, want 40 (hotbar first)", got)
	}
	if got := m.FindItem(99); got != -1 {
		t.Errorf("FindItem(99) = %d, want -1", got)
	}
	if got := m.FindItems(4); len(got) != 2 {
		t.Errorf("FindItems(4) = %v, want two slots", got)
	}
}

func TestReset(t *testing.T) {
	m, _ := newTestModule(t)
	m.HandlePacket(&packets.S2CSetSlot{WindowID: 0, Slot: 5, Item: &packets.Item{ID: 1}})
	m.HandlePacket(&packets.S2CHeldItemChange{Slot: 3})
	m.Reset()
	if m.Slot(5) != nil || m.MainHand() != 0 {
		t.Errorf("Reset() left state behind")
	}
}

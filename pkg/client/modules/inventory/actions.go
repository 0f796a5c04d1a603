package inventory

import (
	"fmt"

	"github.com/go-mclib/legacy/pkg/packets"
)

// Slot returns the item at a window slot index (0-44), or nil if empty.
func (m *Module) Slot(index int) *packets.Item {
	if !validSlot(index) {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[index]
}

// Slots returns a copy of all 45 slots.
func (m *Module) Slots() [TotalSlots]*packets.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots
}

// HeldItem returns the item in the selected hotbar slot.
func (m *Module) HeldItem() *packets.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[SlotHotbarStart+m.mainHand]
}

// MainHand returns which hotbar slot is selected (0-8).
func (m *Module) MainHand() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mainHand
}

// Hotbar returns the 9 hotbar items (index 0 = hotbar slot 0).
func (m *Module) Hotbar() [9]*packets.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result [9]*packets.Item
	copy(result[:], m.slots[SlotHotbarStart:SlotHotbarEnd])
	return result
}

// Armor returns the four armor slot items.
func (m *Module) Armor() (head, chest, legs, feet *packets.Item) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slots[SlotArmorHead],
		m.slots[SlotArmorChest],
		m.slots[SlotArmorLegs],
		m.slots[SlotArmorFeet]
}

// Carried returns the item held on the cursor.
func (m *Module) Carried() *packets.Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.carried
}

// FindItem returns the first slot index holding the given item id, searching
// the hotbar first and then the main inventory. Returns -1 if not found.
func (m *Module) FindItem(itemID int16) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := SlotHotbarStart; i < SlotHotbarEnd; i++ {
		if s := m.slots[i]; s != nil && s.ID == itemID {
			return i
		}
	}
	for i := SlotMainStart; i < SlotMainEnd; i++ {
		if s := m.slots[i]; s != nil && s.ID == itemID {
			return i
		}
	}
	return -1
}

// FindItems returns all main inventory and hotbar slot indices holding the
// given item id.
func (m *Module) FindItems(itemID int16) []int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []int
	for i := SlotMainStart; i < SlotHotbarEnd; i++ {
		if s := m.slots[i]; s != nil && s.ID == itemID {
			result = append(result, i)
		}
	}
	return result
}

// Count returns how many of the given item the player carries in total.
func (m *Module) Count(itemID int16) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for i := SlotMainStart; i < SlotHotbarEnd; i++ {
		if s := m.slots[i]; s != nil && s.ID == itemID {
			n += int(s.Count)
		}
	}
	return n
}

// SelectLocal records a hotbar selection made by the client itself. The
// server does not echo HeldItemChange back, so the caller is expected to
// send C2SHeldItemChange alongside.
func (m *Module) SelectLocal(slot int) error {
	if slot < 0 || slot > 8 {
		return fmt.Errorf("invalid hotbar slot %d", slot)
	}
	m.setMainHand(slot)
	return nil
}

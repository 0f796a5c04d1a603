// Package inventory mirrors the player's own 45-slot inventory window, the
// carried item and the selected hotbar slot.
package inventory

import (
	"io"
	"log"
	"sync"

	"github.com/go-mclib/legacy/pkg/packets"
)

type Module struct {
	Logger *log.Logger

	mu       sync.RWMutex
	slots    [TotalSlots]*packets.Item
	carried  *packets.Item
	mainHand int
	selfID   int32

	onSlotUpdate     []func(index int, item *packets.Item)
	onHeldSlotChange []func(slot int)
}

func New(logger *log.Logger) *Module {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Module{Logger: logger}
}

func (m *Module) Name() string { return ModuleName }

func (m *Module) Reset() {
	m.mu.Lock()
	m.slots = [TotalSlots]*packets.Item{}
	m.carried = nil
	m.mainHand = 0
	m.selfID = 0
	m.mu.Unlock()
}

// events

func (m *Module) OnSlotUpdate(cb func(index int, item *packets.Item)) {
	m.onSlotUpdate = append(m.onSlotUpdate, cb)
}

func (m *Module) OnHeldSlotChange(cb func(slot int)) {
	m.onHeldSlotChange = append(m.onHeldSlotChange, cb)
}

func (m *Module) HandlePacket(pkt packets.Packet) {
	switch p := pkt.(type) {
	case *packets.S2CJoinGame:
		m.mu.Lock()
		m.selfID = p.EntityID
		m.mu.Unlock()
	case *packets.S2CSetSlot:
		m.handleSetSlot(p)
	case *packets.S2CWindowItems:
		m.handleWindowItems(p)
	case *packets.S2CHeldItemChange:
		m.setMainHand(int(p.Slot))
	case *packets.S2CEntityEquipment:
		m.handleEquipment(p)
	}
}

func (m *Module) handleSetSlot(p *packets.S2CSetSlot) {
	if p.WindowID == WindowCursor && p.Slot == -1 {
		m.setCarried(p.Item)
		return
	}
	if p.WindowID != WindowPlayer {
		return
	}
	if p.Slot == -1 {
		m.setCarried(p.Item)
		return
	}
	m.setSlot(int(p.Slot), p.Item)
}

func (m *Module) handleWindowItems(p *packets.S2CWindowItems) {
	if p.WindowID != WindowPlayer {
		return
	}
	if len(p.Items) > TotalSlots {
		m.Logger.Printf("inventory: window items has %d slots, keeping the first %d", len(p.Items), TotalSlots)
	}

	m.mu.Lock()
	count := min(len(p.Items), TotalSlots)
	for i := range TotalSlots {
		if i < count {
			m.slots[i] = p.Items[i]
		} else {
			m.slots[i] = nil
		}
	}
	m.mu.Unlock()

	for i := 0; i < count; i++ {
		for _, cb := range m.onSlotUpdate {
			cb(i, p.Items[i])
		}
	}
}

func (m *Module) handleEquipment(p *packets.S2CEntityEquipment) {
	m.mu.RLock()
	self, hand := m.selfID, m.mainHand
	m.mu.RUnlock()
	if p.EntityID != self {
		return
	}

	slot, ok := equipmentToSlot(p.Slot, hand)
	if !ok {
		m.Logger.Printf("inventory: dropping equipment update for unknown slot %d", p.Slot)
		return
	}
	m.setSlot(slot, p.Item)
}

func (m *Module) setSlot(idx int, item *packets.Item) {
	if !validSlot(idx) {
		m.Logger.Printf("inventory: dropping update for out of range slot %d", idx)
		return
	}
	m.mu.Lock()
	m.slots[idx] = item
	m.mu.Unlock()

	for _, cb := range m.onSlotUpdate {
		cb(idx, item)
	}
}

func (m *Module) setCarried(item *packets.Item) {
	m.mu.Lock()
	m.carried = item
	m.mu.Unlock()
}

func (m *Module) setMainHand(slot int) {
	if slot < 0 || slot > 8 {
		m.Logger.Printf("inventory: dropping held item change to slot %d", slot)
		return
	}
	m.mu.Lock()
	m.mainHand = slot
	m.mu.Unlock()

	for _, cb := range m.onHeldSlotChange {
		cb(slot)
	}
}

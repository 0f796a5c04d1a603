package inventory

import "github.com/go-mclib/legacy/pkg/packets"

const (
	ModuleName = "inventory"
	TotalSlots = 45

	SlotCraftingResult = 0
	SlotCraftingStart  = 1
	SlotArmorHead      = 5
	SlotArmorChest     = 6
	SlotArmorLegs      = 7
	SlotArmorFeet      = 8
	SlotMainStart      = 9
	SlotMainEnd        = 36
	SlotHotbarStart    = 36
	SlotHotbarEnd      = 45

	// WindowPlayer is the id of the player's own inventory window.
	WindowPlayer = 0
	// WindowCursor together with slot -1 addresses the carried item.
	WindowCursor = -1
)

// equipmentToSlot maps an EntityEquipment slot to a window slot: 0 is the
// held item, 1..4 are boots..helmet. ok is false for anything else.
func equipmentToSlot(equipment int16, mainHand int) (slot int, ok bool) {
	switch equipment {
	case packets.EquipmentHeld:
		return SlotHotbarStart + mainHand, true
	case packets.EquipmentBoots, packets.EquipmentLeggings, packets.EquipmentChestplate, packets.EquipmentHelmet:
		return SlotArmorFeet - int(equipment-packets.EquipmentBoots), true
	}
	return 0, false
}

func validSlot(i int) bool { return i >= 0 && i < TotalSlots }

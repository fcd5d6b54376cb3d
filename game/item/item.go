package item

import "fmt"

// Type classifies an inventory item.
type Type = string

const (
	TypeWeapon Type = "weapon"
	TypeArmor  Type = "armor"
	TypeShield Type = "shield"
	TypeItem   Type = "item"
)

// State is an item's placement. Every item is always in exactly one of
// these three states; "packed" models storage elsewhere (a wagon, a camp).
type State = string

const (
	StateEquipped State = "equipped"
	StateStowed   State = "stowed"
	StatePacked   State = "packed"
)

// Equip-slot limits.
const (
	MaxEquippedWeapons = 2
	MaxEquippedArmor   = 1
	MaxEquippedShields = 1
)

// ArmorStats is the stat snapshot of a custom armor item.
type ArmorStats struct {
	Bonus      int `json:"bonus"`
	MightReq   int `json:"mightReq"`
	Penalty    int `json:"penalty"`
	PenaltyMet int `json:"penaltyMet"`
}

// WeaponStats is the stat snapshot of a custom weapon item.
type WeaponStats struct {
	Damage  string `json:"damage"`
	Finesse bool   `json:"finesse"`
	Bow     bool   `json:"bow"`
}

// ShieldStats is the stat snapshot of a custom shield item.
type ShieldStats struct {
	Class        string `json:"class"` // Light | Medium | Heavy
	DefenseBonus int    `json:"defenseBonus"`
}

// Item is one entry in a character's inventory. DataRef names the database
// definition the item was created from; custom items carry a baked stat
// snapshot instead.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     Type   `json:"type"`
	State    State  `json:"state"`
	Weight   int    `json:"weight"`
	Quantity int    `json:"quantity"`
	IsCustom bool   `json:"isCustom"`
	DataRef  string `json:"dataRef,omitempty"`

	CustomArmor  *ArmorStats  `json:"customArmorData,omitempty"`
	CustomWeapon *WeaponStats `json:"customWeaponData,omitempty"`
	CustomShield *ShieldStats `json:"customShieldData,omitempty"`
}

// ValidTransition reports whether an item may move from one placement to
// another. Equipping is only possible from stowed; packed items must be
// stowed first.
func ValidTransition(from, to State) bool {
	if from == to {
		return false
	}
	switch from {
	case StateStowed:
		return to == StateEquipped || to == StatePacked
	case StateEquipped:
		return to == StateStowed || to == StatePacked
	case StatePacked:
		return to == StateStowed
	}
	return false
}

// CanEquip checks the equip-slot constraints for equipping candidate given
// the current inventory. It returns false with a reason instead of an error:
// a rejected equip is a normal game answer, not a fault.
func CanEquip(items []Item, candidate Item) (bool, string) {
	if candidate.Type == TypeItem {
		return false, "general goods cannot be equipped"
	}
	var weapons, armors, shields int
	for _, it := range items {
		if it.ID == candidate.ID || it.State != StateEquipped {
			continue
		}
		switch it.Type {
		case TypeWeapon:
			weapons++
		case TypeArmor:
			armors++
		case TypeShield:
			shields++
		}
	}
	switch candidate.Type {
	case TypeWeapon:
		if weapons >= MaxEquippedWeapons {
			return false, fmt.Sprintf("cannot equip more than %d weapons", MaxEquippedWeapons)
		}
	case TypeArmor:
		if armors >= MaxEquippedArmor {
			return false, "unequip the current armor first"
		}
	case TypeShield:
		if shields >= MaxEquippedShields {
			return false, "unequip the current shield first"
		}
	}
	return true, ""
}

// TotalWeight sums carried weight: equipped items count fully, stowed items
// count minus the flat reduction (floored at zero), packed items not at all.
func TotalWeight(items []Item, stowedReduction int) int {
	var equipped, stowed int
	for _, it := range items {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		switch it.State {
		case StateEquipped:
			equipped += it.Weight * qty
		case StateStowed:
			stowed += it.Weight * qty
		}
	}
	stowed -= stowedReduction
	if stowed < 0 {
		stowed = 0
	}
	return equipped + stowed
}

package sheet

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/exceedrpg/exceedsheet/server/game/item"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

// AddItemFromData adds an item from the rules data by name. New items
// arrive stowed.
func (s *Sheet) AddItemFromData(res *resource.Loader, itemType, name string, quantity int) (*item.Item, error) {
	if quantity <= 0 {
		quantity = 1
	}
	it := item.Item{
		ID:       uuid.NewString(),
		Type:     itemType,
		State:    item.StateStowed,
		Quantity: quantity,
	}
	switch itemType {
	case item.TypeArmor:
		a := res.ArmorByName(name)
		if a == nil {
			return nil, fmt.Errorf("%w: armor %q", ErrNotFound, name)
		}
		it.Name, it.Weight, it.DataRef = a.Name, a.Weight, a.Name
	case item.TypeWeapon:
		w := res.WeaponByName(name)
		if w == nil {
			return nil, fmt.Errorf("%w: weapon %q", ErrNotFound, name)
		}
		it.Name, it.Weight, it.DataRef = w.Name, w.Weight, w.Name
	case item.TypeShield:
		sh := res.ShieldByName(name)
		if sh == nil {
			return nil, fmt.Errorf("%w: shield %q", ErrNotFound, name)
		}
		it.Name, it.Weight, it.DataRef = sh.Name, sh.Weight, sh.Name
	default:
		return nil, fmt.Errorf("%w: %q has no rules data, add it as a custom item", ErrInvalidState, itemType)
	}
	s.Inventory = append(s.Inventory, it)
	return &s.Inventory[len(s.Inventory)-1], nil
}

// AddCustomItem adds a homebrew item with caller-supplied stats. The stat
// snapshot matching the item type must be present for equipment.
func (s *Sheet) AddCustomItem(it item.Item) (*item.Item, error) {
	if it.Name == "" {
		return nil, fmt.Errorf("%w: item name required", ErrInvalidState)
	}
	switch it.Type {
	case item.TypeArmor:
		if it.CustomArmor == nil {
			return nil, fmt.Errorf("%w: custom armor needs armor stats", ErrInvalidState)
		}
	case item.TypeWeapon:
		if it.CustomWeapon == nil {
			return nil, fmt.Errorf("%w: custom weapon needs weapon stats", ErrInvalidState)
		}
	case item.TypeShield:
		if it.CustomShield == nil {
			return nil, fmt.Errorf("%w: custom shield needs shield stats", ErrInvalidState)
		}
	case item.TypeItem:
	default:
		return nil, fmt.Errorf("%w: unknown item type %q", ErrInvalidState, it.Type)
	}
	it.ID = uuid.NewString()
	it.State = item.StateStowed
	it.IsCustom = true
	it.DataRef = ""
	if it.Quantity <= 0 {
		it.Quantity = 1
	}
	s.Inventory = append(s.Inventory, it)
	return &s.Inventory[len(s.Inventory)-1], nil
}

// RemoveItem drops an item from the inventory.
func (s *Sheet) RemoveItem(id string) error {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			s.Inventory = append(s.Inventory[:i], s.Inventory[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: item %q", ErrNotFound, id)
}

// SetItemState moves an item between placements, enforcing both the
// placement transitions and the equip-slot limits.
func (s *Sheet) SetItemState(id string, to item.State) error {
	it := s.findItem(id)
	if it == nil {
		return fmt.Errorf("%w: item %q", ErrNotFound, id)
	}
	if !item.ValidTransition(it.State, to) {
		return fmt.Errorf("%w: cannot move %s item to %s", ErrInvalidState, it.State, to)
	}
	if to == item.StateEquipped {
		if ok, reason := item.CanEquip(s.Inventory, *it); !ok {
			return fmt.Errorf("%w: %s", ErrSlotConflict, reason)
		}
	}
	it.State = to
	return nil
}

// SetItemQuantity adjusts a stackable item's count.
func (s *Sheet) SetItemQuantity(id string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidState)
	}
	it := s.findItem(id)
	if it == nil {
		return fmt.Errorf("%w: item %q", ErrNotFound, id)
	}
	it.Quantity = quantity
	return nil
}

// ConvertToCustom detaches an item from its rules data, baking the current
// stats into the item so edits and data changes no longer touch it.
func (s *Sheet) ConvertToCustom(res *resource.Loader, id string) error {
	it := s.findItem(id)
	if it == nil {
		return fmt.Errorf("%w: item %q", ErrNotFound, id)
	}
	if it.IsCustom || it.DataRef == "" {
		return fmt.Errorf("%w: item is already custom", ErrInvalidState)
	}
	switch it.Type {
	case item.TypeArmor:
		a := res.ArmorByName(it.DataRef)
		if a == nil {
			return fmt.Errorf("%w: armor data %q", ErrNotFound, it.DataRef)
		}
		it.CustomArmor = &item.ArmorStats{
			Bonus: a.Bonus, MightReq: a.MightReq,
			Penalty: a.Penalty, PenaltyMet: a.PenaltyMet,
		}
		it.Weight = a.Weight
	case item.TypeWeapon:
		w := res.WeaponByName(it.DataRef)
		if w == nil {
			return fmt.Errorf("%w: weapon data %q", ErrNotFound, it.DataRef)
		}
		it.CustomWeapon = &item.WeaponStats{Damage: w.Damage, Finesse: w.Finesse, Bow: w.Bow}
		it.Weight = w.Weight
	case item.TypeShield:
		sh := res.ShieldByName(it.DataRef)
		if sh == nil {
			return fmt.Errorf("%w: shield data %q", ErrNotFound, it.DataRef)
		}
		it.CustomShield = &item.ShieldStats{Class: sh.Class, DefenseBonus: sh.DefenseBonus}
		it.Weight = sh.Weight
	}
	it.IsCustom = true
	it.DataRef = ""
	return nil
}

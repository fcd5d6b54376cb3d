package sheet

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/exceedrpg/exceedsheet/server/game/item"
)

// Document is the portable character file. It is the Sheet plus the slots
// older exports used before the unified inventory; importing folds those
// into Inventory once.
type Document struct {
	Sheet

	// Pre-inventory exports. Ignored when Inventory is populated.
	LegacyWeapon1 string `json:"equippedWeapon1,omitempty"`
	LegacyWeapon2 string `json:"equippedWeapon2,omitempty"`
	LegacyArmor   string `json:"armorType,omitempty"`
	LegacyShield  string `json:"equippedShield,omitempty"`
}

// Export serializes the sheet as an indented portable document.
func Export(s *Sheet) ([]byte, error) {
	return json.MarshalIndent(Document{Sheet: *s}, "", "  ")
}

// Import parses a portable document into a Sheet, applying defaults and
// the one-time legacy-equipment migration. The input is validated just
// enough to guarantee a usable sheet; game-rule consistency is the
// exporter's problem.
func Import(raw []byte) (*Sheet, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: malformed character file", ErrInvalidState)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("%w: character file has no name", ErrInvalidState)
	}
	s := doc.Sheet
	if s.MaxWounds < MinWounds {
		s.MaxWounds = MinWounds
	}
	if s.HPPerWound <= 0 {
		s.HPPerWound = DefaultHPPerWound
	}
	if s.Log == nil {
		s.Log = []LogEntry{}
	}
	if s.Skills == nil {
		s.Skills = []Skill{}
	}
	if s.Perks == nil {
		s.Perks = []Perk{}
	}
	if s.KnownSpells == nil {
		s.KnownSpells = []KnownSpell{}
	}
	if s.AttunedSpells == nil {
		s.AttunedSpells = []string{}
	}
	if len(s.Inventory) == 0 {
		s.Inventory = migrateLegacyEquipment(doc)
	}
	for i := range s.Inventory {
		if s.Inventory[i].ID == "" {
			s.Inventory[i].ID = uuid.NewString()
		}
		if s.Inventory[i].Quantity <= 0 {
			s.Inventory[i].Quantity = 1
		}
	}
	return &s, nil
}

// migrateLegacyEquipment folds the pre-inventory equipment slots into
// inventory items, all equipped since that is what the slots meant.
func migrateLegacyEquipment(doc Document) []item.Item {
	items := []item.Item{}
	add := func(name string, typ item.Type) {
		if name == "" || name == "None" {
			return
		}
		items = append(items, item.Item{
			ID:       uuid.NewString(),
			Name:     name,
			Type:     typ,
			State:    item.StateEquipped,
			Quantity: 1,
			DataRef:  name,
		})
	}
	add(doc.LegacyWeapon1, item.TypeWeapon)
	add(doc.LegacyWeapon2, item.TypeWeapon)
	add(doc.LegacyArmor, item.TypeArmor)
	add(doc.LegacyShield, item.TypeShield)
	return items
}

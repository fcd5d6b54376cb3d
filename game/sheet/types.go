package sheet

import (
	"github.com/exceedrpg/exceedsheet/server/game/item"
)

// EntryType tags a progression log entry.
type EntryType = string

const (
	EntrySkill      EntryType = "skill"
	EntryPerk       EntryType = "perk"
	EntryCombatPerk EntryType = "combatPerk"
	EntryMagicPerk  EntryType = "magicPerk"
	EntrySpell      EntryType = "spell"
	EntryExtraHP    EntryType = "extraHP"
	EntryExtraWound EntryType = "extraWound"
	EntryStagedPerk EntryType = "stagedPerk"
)

// XPType names which pool an entry drew from.
type XPType = string

const (
	XPCombat XPType = "combat"
	XPSocial XPType = "social"
)

// Progression domains.
const (
	DomainMartial    = "Martial"
	DomainSpellcraft = "Spellcraft"
)

// LogEntry is one spend in the append-only progression log. Cost is a
// signed XP delta; flaws carry a negative cost. RefID links spell entries
// to their KnownSpell so upgrades and deletes stay attached to the right
// record even when names repeat.
type LogEntry struct {
	Type      EntryType `json:"type"`
	Name      string    `json:"name"`
	Level     int       `json:"level,omitempty"`
	Attribute string    `json:"attribute,omitempty"`
	Cost      int       `json:"cost"`
	Domain    string    `json:"domain,omitempty"`
	XPType    XPType    `json:"xpType,omitempty"`
	RefID     string    `json:"refId,omitempty"`
}

// Skill is a learned skill. AttributeHistory records which attribute each
// purchased level was bound to, in purchase order.
type Skill struct {
	Name             string   `json:"name"`
	Attributes       []string `json:"attributes"`
	Description      string   `json:"description"`
	Level            int      `json:"level"`
	AttributeHistory []string `json:"attributeHistory"`
}

// PerkType classifies a perk and thereby the XP pool it spends.
type PerkType = string

const (
	PerkSkill  PerkType = "Skill"
	PerkCombat PerkType = "Combat"
	PerkMagic  PerkType = "Magic"
)

// Perk is an owned perk. A staged perk is a conditioning arc in progress
// (level 1..4); conditioning completion clears IsStaged and the perk
// becomes permanent.
type Perk struct {
	Name         string   `json:"name"`
	Type         PerkType `json:"type"`
	Cost         int      `json:"cost"`
	Attribute    string   `json:"attribute,omitempty"`
	Description  string   `json:"description,omitempty"`
	IsFlaw       bool     `json:"isFlaw,omitempty"`
	IsStaged     bool     `json:"isStaged,omitempty"`
	Conditioning bool     `json:"conditioning,omitempty"`
	Level        int      `json:"level,omitempty"`
}

// KnownSpell is a spell in the character's repertoire. The stat fields are
// a snapshot taken at learn time; DataRef records provenance and is cleared
// when the spell is upgraded or otherwise customized.
type KnownSpell struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tier      int    `json:"tier"`
	Type      string `json:"type"` // basic | advanced
	IsCustom  bool   `json:"isCustom"`
	DataRef   string `json:"dataRef,omitempty"`
	LimitCost int    `json:"limitCost"`
	XPCost    int    `json:"xpCost"` // total combat XP paid so far
}

// Game minimums.
const (
	MinWounds         = 2
	DefaultHPPerWound = 5
	MaxSkillLevel     = 5
	ConditioningMax   = 5
)

// Sheet is the character aggregate. Everything derivable (attributes,
// domains, combat stats, encumbrance, limit) is computed from the log and
// the inventory on read; nothing derived is stored here.
type Sheet struct {
	Name    string `json:"name"`
	Concept string `json:"concept"`

	CombatXP int `json:"combatXP"`
	SocialXP int `json:"socialXP"`
	Money    int `json:"money"`

	MaxWounds       int  `json:"maxWounds"`
	HPPerWound      int  `json:"hpPerWound"`
	ExtraHP         int  `json:"extraHP"`
	ExtraHPCount    int  `json:"extraHPCount"`
	ExtraWoundCount int  `json:"extraWoundCount"`
	MarkedWounds    int  `json:"markedWounds"`
	CurrentStamina  *int `json:"currentStamina"`
	CurrentHealth   *int `json:"currentHealth"`

	Log            []LogEntry   `json:"progressionLog"`
	Skills         []Skill      `json:"skills"`
	Perks          []Perk       `json:"perks"`
	KnownSpells    []KnownSpell `json:"knownSpells"`
	AttunedSpells  []string     `json:"attunedSpells"`
	Inventory      []item.Item  `json:"inventory"`
	ExtraHPHistory []int        `json:"extraHPHistory"`
}

// New creates an empty character sheet with the game's starting values.
func New(name, concept string) *Sheet {
	return &Sheet{
		Name:       name,
		Concept:    concept,
		MaxWounds:  MinWounds,
		HPPerWound: DefaultHPPerWound,
	}
}

// pool returns the XP pool for the given type.
func (s *Sheet) pool(t XPType) *int {
	if t == XPSocial {
		return &s.SocialXP
	}
	return &s.CombatXP
}

// spend deducts cost from the pool, rejecting overdrafts. Negative costs
// (flaws) credit the pool.
func (s *Sheet) spend(t XPType, cost int) error {
	p := s.pool(t)
	if *p-cost < 0 {
		return ErrNotEnoughXP
	}
	*p -= cost
	return nil
}

// refund reverses a spend. Reversing a flaw grant takes XP back and may
// itself be rejected to keep pools non-negative.
func (s *Sheet) refund(t XPType, cost int) error {
	p := s.pool(t)
	if *p+cost < 0 {
		return ErrNotEnoughXP
	}
	*p += cost
	return nil
}

// removeLogEntry removes the most recent log entry matching pred, returning
// it. Most-recent-first is the established rule for name collisions.
func (s *Sheet) removeLogEntry(pred func(LogEntry) bool) (LogEntry, bool) {
	for i := len(s.Log) - 1; i >= 0; i-- {
		if pred(s.Log[i]) {
			e := s.Log[i]
			s.Log = append(s.Log[:i], s.Log[i+1:]...)
			return e, true
		}
	}
	return LogEntry{}, false
}

// removeLogEntries removes every entry matching pred, returning the removed
// entries in log order.
func (s *Sheet) removeLogEntries(pred func(LogEntry) bool) []LogEntry {
	var removed []LogEntry
	kept := s.Log[:0]
	for _, e := range s.Log {
		if pred(e) {
			removed = append(removed, e)
		} else {
			kept = append(kept, e)
		}
	}
	s.Log = kept
	return removed
}

// HasMagePerk reports whether the character owns a Mage perk, the gate for
// tier 0 spells.
func (s *Sheet) HasMagePerk() bool {
	for _, p := range s.Perks {
		if p.Type == PerkMagic && p.Name == "Mage" && !p.IsStaged {
			return true
		}
	}
	return false
}

// findItem returns a pointer into Inventory, or nil.
func (s *Sheet) findItem(id string) *item.Item {
	for i := range s.Inventory {
		if s.Inventory[i].ID == id {
			return &s.Inventory[i]
		}
	}
	return nil
}

// findSpell returns a pointer into KnownSpells, or nil.
func (s *Sheet) findSpell(id string) *KnownSpell {
	for i := range s.KnownSpells {
		if s.KnownSpells[i].ID == id {
			return &s.KnownSpells[i]
		}
	}
	return nil
}

package sheet

import "strings"

// Canonical attribute names.
const (
	AttrMight      = "Might"
	AttrEndurance  = "Endurance"
	AttrAgility    = "Agility"
	AttrDexterity  = "Dexterity"
	AttrWits       = "Wits"
	AttrWill       = "Will"
	AttrPerception = "Perception"
	AttrCharisma   = "Charisma"
)

// attributeSynonyms maps abbreviations and legacy spellings onto canonical
// names. Lookups are case-insensitive.
var attributeSynonyms = map[string]string{
	"mg":         AttrMight,
	"might":      AttrMight,
	"en":         AttrEndurance,
	"endurance":  AttrEndurance,
	"ag":         AttrAgility,
	"agility":    AttrAgility,
	"dx":         AttrDexterity,
	"dex":        AttrDexterity,
	"dexterity":  AttrDexterity,
	"wt":         AttrWits,
	"wits":       AttrWits,
	"wit":        AttrWits,
	"wi":         AttrWill,
	"will":       AttrWill,
	"pr":         AttrPerception,
	"perception": AttrPerception,
	"ch":         AttrCharisma,
	"charisma":   AttrCharisma,
}

// NormalizeAttribute maps an abbreviation or synonym onto the canonical
// full attribute name, or "" when unrecognized.
func NormalizeAttribute(name string) string {
	return attributeSynonyms[strings.ToLower(strings.TrimSpace(name))]
}

// Attributes holds the eight derived attribute levels.
type Attributes struct {
	Might      int `json:"might"`
	Endurance  int `json:"endurance"`
	Agility    int `json:"agility"`
	Dexterity  int `json:"dexterity"`
	Wits       int `json:"wits"`
	Will       int `json:"will"`
	Perception int `json:"perception"`
	Charisma   int `json:"charisma"`
}

// Get returns a level by canonical attribute name.
func (a Attributes) Get(name string) int {
	switch name {
	case AttrMight:
		return a.Might
	case AttrEndurance:
		return a.Endurance
	case AttrAgility:
		return a.Agility
	case AttrDexterity:
		return a.Dexterity
	case AttrWits:
		return a.Wits
	case AttrWill:
		return a.Will
	case AttrPerception:
		return a.Perception
	case AttrCharisma:
		return a.Charisma
	}
	return 0
}

// Domains holds the derived progression-track levels.
type Domains struct {
	Martial    int `json:"martial"`
	Spellcraft int `json:"spellcraft"`
}

// cpThresholds maps cumulative CP onto levels: level = number of
// thresholds at or below the total.
var cpThresholds = [...]int{10, 30, 60, 100, 150}

// LevelForCP converts cumulative CP into a level 0..5. Negative totals
// (possible through flaws) clamp to level 0.
func LevelForCP(cp int) int {
	level := 0
	for _, th := range cpThresholds {
		if cp >= th {
			level++
		}
	}
	return level
}

// DeriveAttributes folds the progression log into the eight attribute
// levels. Pure and order-independent: only the per-attribute cost sums
// matter.
func DeriveAttributes(log []LogEntry) Attributes {
	cp := map[string]int{}
	for _, e := range log {
		attr := NormalizeAttribute(e.Attribute)
		if attr == "" {
			continue
		}
		cp[attr] += e.Cost
	}
	return Attributes{
		Might:      LevelForCP(cp[AttrMight]),
		Endurance:  LevelForCP(cp[AttrEndurance]),
		Agility:    LevelForCP(cp[AttrAgility]),
		Dexterity:  LevelForCP(cp[AttrDexterity]),
		Wits:       LevelForCP(cp[AttrWits]),
		Will:       LevelForCP(cp[AttrWill]),
		Perception: LevelForCP(cp[AttrPerception]),
		Charisma:   LevelForCP(cp[AttrCharisma]),
	}
}

// DeriveDomains folds the progression log into the Martial and Spellcraft
// levels. Domain CP accrues from entry types, independent of the attribute
// field: combat and staged perks feed Martial, spells and magic perks feed
// Spellcraft.
func DeriveDomains(log []LogEntry) Domains {
	var martial, spellcraft int
	for _, e := range log {
		switch e.Type {
		case EntryCombatPerk, EntryStagedPerk:
			martial += e.Cost
		case EntrySpell, EntryMagicPerk:
			spellcraft += e.Cost
		}
	}
	return Domains{
		Martial:    LevelForCP(martial),
		Spellcraft: LevelForCP(spellcraft),
	}
}

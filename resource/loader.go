package resource

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ---- EXCEED Data Structures ----

// Armor is a wearable armor definition.
type Armor struct {
	Name       string `json:"name"`
	Bonus      int    `json:"bonus"`      // added to EN for stamina per wound
	MightReq   int    `json:"mightReq"`   // Might needed to wear it comfortably
	Penalty    int    `json:"penalty"`    // speed/dodge penalty below the Might requirement
	PenaltyMet int    `json:"penaltyMet"` // penalty when the requirement is met
	Weight     int    `json:"weight"`
	Cost       int    `json:"cost"`
}

// Weapon is a weapon definition. Damage is either a dice expression
// ("d6+Might") or a fixed bow expression ("6+Might").
type Weapon struct {
	Name    string `json:"name"`
	Damage  string `json:"damage"`
	Finesse bool   `json:"finesse"` // may parry with DX instead of AG
	Bow     bool   `json:"bow"`     // fixed damage, cannot parry
	Weight  int    `json:"weight"`
	Cost    int    `json:"cost"`
}

// ShieldClass determines which attribute a shield blocks with.
type ShieldClass = string

const (
	ShieldLight  ShieldClass = "Light"
	ShieldMedium ShieldClass = "Medium"
	ShieldHeavy  ShieldClass = "Heavy"
)

// Shield is a shield definition.
type Shield struct {
	Name         string      `json:"name"`
	Class        ShieldClass `json:"class"`
	DefenseBonus int         `json:"defenseBonus"`
	Weight       int         `json:"weight"`
	Cost         int         `json:"cost"`
}

// SkillDef is a learnable skill. Attributes lists the attribute options a
// player may bind a level to; most skills offer exactly one.
type SkillDef struct {
	Name        string   `json:"name"`
	Attributes  []string `json:"attributes"`
	Description string   `json:"description"`
}

// SpellDef is a castable spell.
type SpellDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Tier        int    `json:"tier"` // 0..5
	Type        string `json:"type"` // basic | advanced
	LimitCost   int    `json:"limitCost"`
	Description string `json:"description"`
}

// PerkType classifies a perk and thereby the XP pool it spends.
type PerkType = string

const (
	PerkSkill  PerkType = "Skill"
	PerkCombat PerkType = "Combat"
	PerkMagic  PerkType = "Magic"
)

// PerkDef is a purchasable perk.
type PerkDef struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Type         PerkType `json:"type"`
	Cost         int      `json:"cost"` // negative for flaws (grants XP)
	Attributes   []string `json:"attributes"`
	IsFlaw       bool     `json:"isFlaw"`
	Conditioning bool     `json:"conditioning"`
	Description  string   `json:"description"`
}

// SpellUpgrade maps a basic spell to its advanced form and total price.
type SpellUpgrade struct {
	BasicName    string   `json:"basicName"`
	Advanced     SpellDef `json:"advanced"`
	AdvancedCost int      `json:"advancedCost"`
}

// ---- Loader ----

// Loader loads and indexes all EXCEED data tables from a directory.
// The slices are exported so tests can construct a Loader literally.
type Loader struct {
	dataPath string

	Armors   []*Armor
	Weapons  []*Weapon
	Shields  []*Shield
	Skills   []*SkillDef
	Spells   []*SpellDef
	Perks    []*PerkDef
	Upgrades []*SpellUpgrade
}

// NewLoader creates a Loader for the given data directory.
func NewLoader(dataPath string) *Loader {
	return &Loader{dataPath: dataPath}
}

// Load reads all data files. Missing files are collected into the returned
// error but do not abort the load; the server can run with partial tables.
func (l *Loader) Load() error {
	var missing []string
	load := func(name string, dst interface{}) {
		path := filepath.Join(l.dataPath, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			missing = append(missing, name)
			return
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			missing = append(missing, fmt.Sprintf("%s (%v)", name, err))
		}
	}

	load("armors.json", &l.Armors)
	load("weapons.json", &l.Weapons)
	load("shields.json", &l.Shields)
	load("skills.json", &l.Skills)
	load("spells.json", &l.Spells)
	load("perks.json", &l.Perks)
	load("spell_upgrades.json", &l.Upgrades)

	if len(missing) > 0 {
		return fmt.Errorf("resource: failed to load %s", strings.Join(missing, ", "))
	}
	return nil
}

// ---- Lookups (nil when not found) ----

func (l *Loader) ArmorByName(name string) *Armor {
	for _, a := range l.Armors {
		if a != nil && strings.EqualFold(a.Name, name) {
			return a
		}
	}
	return nil
}

func (l *Loader) WeaponByName(name string) *Weapon {
	for _, w := range l.Weapons {
		if w != nil && strings.EqualFold(w.Name, name) {
			return w
		}
	}
	return nil
}

func (l *Loader) ShieldByName(name string) *Shield {
	for _, s := range l.Shields {
		if s != nil && strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (l *Loader) SkillByName(name string) *SkillDef {
	for _, s := range l.Skills {
		if s != nil && strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (l *Loader) SpellByID(id string) *SpellDef {
	for _, s := range l.Spells {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}

func (l *Loader) SpellByName(name string) *SpellDef {
	for _, s := range l.Spells {
		if s != nil && strings.EqualFold(s.Name, name) {
			return s
		}
	}
	return nil
}

func (l *Loader) PerkByID(id string) *PerkDef {
	for _, p := range l.Perks {
		if p != nil && p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Loader) PerkByName(name string) *PerkDef {
	for _, p := range l.Perks {
		if p != nil && strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// UpgradeForSpell returns the upgrade entry for a basic spell name.
func (l *Loader) UpgradeForSpell(basicName string) *SpellUpgrade {
	for _, u := range l.Upgrades {
		if u != nil && strings.EqualFold(u.BasicName, basicName) {
			return u
		}
	}
	return nil
}

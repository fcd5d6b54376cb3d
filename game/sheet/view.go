package sheet

import (
	"github.com/exceedrpg/exceedsheet/server/game/combat"
	"github.com/exceedrpg/exceedsheet/server/game/item"
	"github.com/exceedrpg/exceedsheet/server/game/magic"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

// SpellView is a known spell with its derived casting numbers.
type SpellView struct {
	KnownSpell
	CastingDC int  `json:"castingDC"`
	Attuned   bool `json:"attuned"`
}

// MagicView is the derived magic block.
type MagicView struct {
	LimitCapacity int         `json:"limitCapacity"`
	LimitUsed     int         `json:"limitUsed"`
	Spells        []SpellView `json:"spells"`
}

// View is the fully derived character sheet, everything a client renders.
// It is computed fresh from the log and inventory on every read.
type View struct {
	Name    string `json:"name"`
	Concept string `json:"concept"`

	CombatXP int `json:"combatXP"`
	SocialXP int `json:"socialXP"`
	Money    int `json:"money"`

	Attributes Attributes `json:"attributes"`
	Domains    Domains    `json:"domains"`

	Skills []Skill `json:"skills"`
	Perks  []Perk  `json:"perks"`

	MaxWounds    int `json:"maxWounds"`
	MarkedWounds int `json:"markedWounds"`
	ExtraHP      int `json:"extraHP"`

	Combat      combat.Stats     `json:"combat"`
	Encumbrance item.Encumbrance `json:"encumbrance"`
	Inventory   []item.Item      `json:"inventory"`
	Magic       MagicView        `json:"magic"`
}

// equippedGear resolves the equipped items into the stat slices the combat
// calculator reads, preferring baked custom snapshots over rules data.
func equippedGear(s *Sheet, res *resource.Loader) (armor *combat.ArmorInfo, weapons []combat.WeaponInfo, shield *combat.ShieldInfo) {
	for _, it := range s.Inventory {
		if it.State != item.StateEquipped {
			continue
		}
		switch it.Type {
		case item.TypeArmor:
			if it.CustomArmor != nil {
				armor = &combat.ArmorInfo{
					Name: it.Name, Bonus: it.CustomArmor.Bonus,
					MightReq: it.CustomArmor.MightReq,
					Penalty:  it.CustomArmor.Penalty, PenaltyMet: it.CustomArmor.PenaltyMet,
				}
			} else if a := res.ArmorByName(it.DataRef); a != nil {
				armor = &combat.ArmorInfo{
					Name: a.Name, Bonus: a.Bonus, MightReq: a.MightReq,
					Penalty: a.Penalty, PenaltyMet: a.PenaltyMet,
				}
			}
		case item.TypeWeapon:
			if it.CustomWeapon != nil {
				weapons = append(weapons, combat.WeaponInfo{
					Name: it.Name, Damage: it.CustomWeapon.Damage,
					Finesse: it.CustomWeapon.Finesse, Bow: it.CustomWeapon.Bow,
				})
			} else if w := res.WeaponByName(it.DataRef); w != nil {
				weapons = append(weapons, combat.WeaponInfo{
					Name: w.Name, Damage: w.Damage, Finesse: w.Finesse, Bow: w.Bow,
				})
			}
		case item.TypeShield:
			if it.CustomShield != nil {
				shield = &combat.ShieldInfo{
					Name: it.Name, Class: it.CustomShield.Class,
					DefenseBonus: it.CustomShield.DefenseBonus,
				}
			} else if sh := res.ShieldByName(it.DataRef); sh != nil {
				shield = &combat.ShieldInfo{
					Name: sh.Name, Class: sh.Class, DefenseBonus: sh.DefenseBonus,
				}
			}
		}
	}
	return armor, weapons, shield
}

// BuildView derives the complete sheet. stowedReduction is the flat weight
// discount stowed items get, from server config.
func BuildView(s *Sheet, res *resource.Loader, stowedReduction int) *View {
	attrs := DeriveAttributes(s.Log)
	domains := DeriveDomains(s.Log)

	enc := item.ComputeEncumbrance(
		item.TotalWeight(s.Inventory, stowedReduction),
		item.Capacity(attrs.Endurance, attrs.Might),
	)

	armor, weapons, shield := equippedGear(s, res)
	stats := combat.Derive(combat.Input{
		MG: attrs.Might, EN: attrs.Endurance, AG: attrs.Agility,
		DX: attrs.Dexterity, WI: attrs.Will, PR: attrs.Perception,
		Martial:      domains.Martial,
		RunningSkill: s.SkillLevel("Running"),

		Armor:   armor,
		Weapons: weapons,
		Shield:  shield,

		MaxWounds:    s.MaxWounds,
		HPPerWound:   s.HPPerWound,
		ExtraHP:      s.ExtraHP,
		MarkedWounds: s.MarkedWounds,

		CurrentStamina: s.CurrentStamina,
		CurrentHealth:  s.CurrentHealth,

		EncSpeedPenalty: enc.SpeedPenalty,
		EncDodgePenalty: enc.DodgePenalty,
	})

	attuned := map[string]bool{}
	for _, id := range s.AttunedSpells {
		attuned[id] = true
	}
	mv := MagicView{
		LimitCapacity: magic.LimitCapacity(attrs.Will, domains.Spellcraft),
		LimitUsed:     s.AttunedLimit(),
		Spells:        make([]SpellView, 0, len(s.KnownSpells)),
	}
	for _, sp := range s.KnownSpells {
		mv.Spells = append(mv.Spells, SpellView{
			KnownSpell: sp,
			CastingDC:  magic.CastingDC(sp.Tier),
			Attuned:    attuned[sp.ID],
		})
	}

	return &View{
		Name:     s.Name,
		Concept:  s.Concept,
		CombatXP: s.CombatXP,
		SocialXP: s.SocialXP,
		Money:    s.Money,

		Attributes: attrs,
		Domains:    domains,

		Skills: s.Skills,
		Perks:  s.Perks,

		MaxWounds:    s.MaxWounds,
		MarkedWounds: s.MarkedWounds,
		ExtraHP:      s.ExtraHP,

		Combat:      stats,
		Encumbrance: enc,
		Inventory:   s.Inventory,
		Magic:       mv,
	}
}

package magic

import "fmt"

// MinTier and MaxTier bound spell tiers.
const (
	MinTier = 0
	MaxTier = 5
)

// LimitCapacity is how much Limit a caster can commit to attuned spells:
// 3 + Will + Spellcraft.
func LimitCapacity(will, spellcraft int) int {
	return 3 + will + spellcraft
}

// CastingDC is the roll target to cast a spell of the given tier.
func CastingDC(tier int) int {
	return 8 + tier*2
}

// SpellCost prices learning a spell: basic spells cost 2 + 2×tier combat XP,
// advanced versions four more.
func SpellCost(tier int, advanced bool) int {
	cost := 2 + 2*tier
	if advanced {
		cost += 4
	}
	return cost
}

// CanLearn checks spell-learning eligibility. Tier 0 cantrips additionally
// require the Mage perk; every tier requires Spellcraft at least equal to it.
func CanLearn(tier, spellcraft int, hasMagePerk bool) error {
	if tier < MinTier || tier > MaxTier {
		return fmt.Errorf("invalid spell tier %d", tier)
	}
	if tier == 0 && !hasMagePerk {
		return fmt.Errorf("tier 0 spells require the Mage perk")
	}
	if spellcraft < tier {
		return fmt.Errorf("requires Spellcraft %d, have %d", tier, spellcraft)
	}
	return nil
}

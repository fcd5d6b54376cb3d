package combat

import (
	"regexp"
	"strconv"
	"strings"
)

// ArmorInfo is the slice of an armor definition the calculator needs.
type ArmorInfo struct {
	Name       string
	Bonus      int
	MightReq   int
	Penalty    int
	PenaltyMet int
}

// WeaponInfo is the slice of a weapon definition the calculator needs.
type WeaponInfo struct {
	Name    string
	Damage  string
	Finesse bool
	Bow     bool
}

// ShieldInfo is the slice of a shield definition the calculator needs.
type ShieldInfo struct {
	Name         string
	Class        string // Light | Medium | Heavy
	DefenseBonus int
}

// Input gathers everything the combat calculator reads. All fields are
// plain values; Derive never touches anything else.
type Input struct {
	MG, EN, AG, DX, WI, PR int
	Martial                int
	RunningSkill           int

	Armor   *ArmorInfo
	Weapons []WeaponInfo
	Shield  *ShieldInfo

	MaxWounds    int
	HPPerWound   int
	ExtraHP      int
	MarkedWounds int

	// nil means "not yet damaged": derive from max.
	CurrentStamina *int
	CurrentHealth  *int

	EncSpeedPenalty int
	EncDodgePenalty int
}

// WeaponDamage describes one equipped weapon's damage roll.
type WeaponDamage struct {
	Weapon    string `json:"weapon"`
	DiceCount int    `json:"diceCount"`
	DiceSides int    `json:"diceSides"` // 1 = fixed value, no roll
	Bonus     int    `json:"bonus"`
}

// Stats is the full derived combat block.
type Stats struct {
	EffectiveMaxWounds int `json:"effectiveMaxWounds"`

	MaxStamina     int `json:"maxStamina"`
	MaxHealth      int `json:"maxHealth"`
	CurrentStamina int `json:"currentStamina"`
	CurrentHealth  int `json:"currentHealth"`

	MeetsMightReq bool `json:"meetsMightReq"`
	ArmorPenalty  int  `json:"armorPenalty"`

	Speed          int `json:"speed"`
	SpeedUnarmored int `json:"speedUnarmored"`
	Parry          int `json:"parry"`
	Block          int `json:"block"`
	Dodge          int `json:"dodge"`
	Endure         int `json:"endure"`

	Damage []WeaponDamage `json:"damage"`
}

// bowDamageRe matches fixed bow damage such as "4+Might".
var bowDamageRe = regexp.MustCompile(`^(\d+)\s*\+\s*[Mm]ight$`)

// diceDamageRe matches dice damage such as "d6+Might" or "d8+Might".
var diceDamageRe = regexp.MustCompile(`^[dD](\d+)\s*\+\s*[Mm]ight$`)

// DamageDiceCount scales with the Martial domain: one die up to level 2,
// two at 3-4, three from 5.
func DamageDiceCount(martial int) int {
	switch {
	case martial >= 5:
		return 3
	case martial >= 3:
		return 2
	default:
		return 1
	}
}

// damageFor resolves one weapon's damage expression. Bows never roll:
// "N+Might" yields N plus the Might bonus, a bare number yields that
// value alone, both through the sides=1 sentinel.
func damageFor(w WeaponInfo, martial, mg int) WeaponDamage {
	if m := bowDamageRe.FindStringSubmatch(w.Damage); m != nil {
		fixed, _ := strconv.Atoi(m[1])
		return WeaponDamage{Weapon: w.Name, DiceCount: fixed, DiceSides: 1, Bonus: mg}
	}
	if w.Bow {
		if fixed, err := strconv.Atoi(strings.TrimSpace(w.Damage)); err == nil {
			return WeaponDamage{Weapon: w.Name, DiceCount: fixed, DiceSides: 1}
		}
	}
	sides := 6
	if m := diceDamageRe.FindStringSubmatch(w.Damage); m != nil {
		sides, _ = strconv.Atoi(m[1])
	}
	return WeaponDamage{Weapon: w.Name, DiceCount: DamageDiceCount(martial), DiceSides: sides, Bonus: mg}
}

// Derive computes the full combat block. Pure: same input, same output.
func Derive(in Input) Stats {
	var out Stats

	out.EffectiveMaxWounds = in.MaxWounds - in.MarkedWounds
	if out.EffectiveMaxWounds < 0 {
		out.EffectiveMaxWounds = 0
	}

	armorBonus := 0
	out.MeetsMightReq = true
	if in.Armor != nil {
		armorBonus = in.Armor.Bonus
		out.MeetsMightReq = in.MG >= in.Armor.MightReq
		if out.MeetsMightReq {
			out.ArmorPenalty = in.Armor.PenaltyMet
		} else {
			out.ArmorPenalty = in.Armor.Penalty
		}
	}

	out.MaxStamina = (armorBonus + in.EN) * out.EffectiveMaxWounds
	out.MaxHealth = in.HPPerWound*out.EffectiveMaxWounds + in.ExtraHP

	stamina := out.MaxStamina
	if in.CurrentStamina != nil {
		stamina = *in.CurrentStamina
	}
	health := out.MaxHealth
	if in.CurrentHealth != nil {
		health = *in.CurrentHealth
	}
	out.CurrentStamina, out.CurrentHealth = RedistributeHP(
		stamina+health, out.MaxStamina, out.MaxHealth, in.MaxWounds, in.HPPerWound)

	out.SpeedUnarmored = 5 + in.AG + in.RunningSkill/2 + in.EncSpeedPenalty
	out.Speed = out.SpeedUnarmored + out.ArmorPenalty

	out.Parry = parry(in)
	out.Block = block(in)
	out.Dodge = in.AG + in.PR + out.ArmorPenalty + in.EncDodgePenalty
	out.Endure = in.EN + in.WI

	for _, w := range in.Weapons {
		out.Damage = append(out.Damage, damageFor(w, in.Martial, in.MG))
	}
	return out
}

// parry is the best parry among equipped non-bow weapons, or zero when no
// eligible weapon is held.
func parry(in Input) int {
	best := 0
	eligible := false
	for _, w := range in.Weapons {
		if w.Bow {
			continue
		}
		eligible = true
		attr := in.AG
		if w.Finesse && in.DX > in.AG {
			attr = in.DX
		}
		if v := attr + in.Martial; v > best {
			best = v
		}
	}
	if !eligible {
		return 0
	}
	return best
}

// block is zero without a shield worth blocking with.
func block(in Input) int {
	s := in.Shield
	if s == nil || s.DefenseBonus <= 0 {
		return 0
	}
	attr := in.AG
	switch strings.ToLower(s.Class) {
	case "medium":
		attr = in.EN
	case "heavy":
		attr = in.MG
	}
	return attr + in.Martial + s.DefenseBonus
}

// RedistributeHP splits a total HP value back into (stamina, health).
// Negative or zero totals sit entirely in health (the "below zero" state),
// clamped at -(maxWounds × hpPerWound). Totals up to maxHealth fill health
// first; the remainder spills into stamina, capped at maxStamina.
func RedistributeHP(total, maxStamina, maxHealth, maxWounds, hpPerWound int) (stamina, health int) {
	floor := -(maxWounds * hpPerWound)
	if total < floor {
		total = floor
	}
	switch {
	case total <= 0:
		return 0, total
	case total <= maxHealth:
		return 0, total
	default:
		health = maxHealth
		stamina = total - maxHealth
		if stamina > maxStamina {
			stamina = maxStamina
		}
		return stamina, health
	}
}

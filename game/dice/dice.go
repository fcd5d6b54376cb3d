package dice

import (
	"math/rand"
	"sort"
	"time"
)

// CheckSides is the die used for checks.
const CheckSides = 10

// Roller produces dice rolls. The random source is injectable so tests can
// seed it.
type Roller struct {
	rng *rand.Rand
}

// New creates a Roller seeded from the clock.
func New() *Roller {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource creates a Roller with a caller-provided source.
func NewWithSource(src rand.Source) *Roller {
	return &Roller{rng: rand.New(src)}
}

// CheckResult reports one skill/attribute check: three d10 draws combined
// three ways, each already including the modifier.
type CheckResult struct {
	Dice         [3]int `json:"dice"`
	Modifier     int    `json:"modifier"`
	Normal       int    `json:"normal"`       // first two dice
	Disadvantage int    `json:"disadvantage"` // two lowest
	Advantage    int    `json:"advantage"`    // two highest
}

// Check rolls three independent d10s and reports all three combinations.
func (r *Roller) Check(modifier int) CheckResult {
	var res CheckResult
	res.Modifier = modifier
	for i := range res.Dice {
		res.Dice[i] = r.rng.Intn(CheckSides) + 1
	}
	sorted := []int{res.Dice[0], res.Dice[1], res.Dice[2]}
	sort.Ints(sorted)

	res.Normal = res.Dice[0] + res.Dice[1] + modifier
	res.Disadvantage = sorted[0] + sorted[1] + modifier
	res.Advantage = sorted[1] + sorted[2] + modifier
	return res
}

// DamageResult reports one damage roll.
type DamageResult struct {
	Rolls []int `json:"rolls"`
	Bonus int   `json:"bonus"`
	Total int   `json:"total"`
	Fixed bool  `json:"fixed"`
}

// Damage rolls count dice of the given sides and adds bonus. Sides of 1 is
// the fixed-damage sentinel (bow weapons): no randomness, total is
// count + bonus.
func (r *Roller) Damage(count, sides, bonus int) DamageResult {
	res := DamageResult{Bonus: bonus}
	if count < 0 {
		count = 0
	}
	if sides <= 1 {
		res.Fixed = true
		res.Total = count + bonus
		return res
	}
	for i := 0; i < count; i++ {
		roll := r.rng.Intn(sides) + 1
		res.Rolls = append(res.Rolls, roll)
		res.Total += roll
	}
	res.Total += bonus
	return res
}

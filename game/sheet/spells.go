package sheet

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/exceedrpg/exceedsheet/server/game/magic"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

// SpellTypeAdvanced marks a spell's upgraded form.
const (
	SpellTypeBasic    = "basic"
	SpellTypeAdvanced = "advanced"
)

// LearnSpell adds a spell from the rules data to the repertoire, spending
// combat XP. Tier gating goes through the Spellcraft domain level and the
// Mage perk for cantrips.
func (s *Sheet) LearnSpell(def *resource.SpellDef) (*KnownSpell, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: spell", ErrNotFound)
	}
	spellcraft := DeriveDomains(s.Log).Spellcraft
	if err := magic.CanLearn(def.Tier, spellcraft, s.HasMagePerk()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	advanced := strings.EqualFold(def.Type, SpellTypeAdvanced)
	cost := magic.SpellCost(def.Tier, advanced)
	if err := s.spend(XPCombat, cost); err != nil {
		return nil, err
	}
	sp := KnownSpell{
		ID:        uuid.NewString(),
		Name:      def.Name,
		Tier:      def.Tier,
		Type:      strings.ToLower(def.Type),
		DataRef:   def.ID,
		LimitCost: def.LimitCost,
		XPCost:    cost,
	}
	if sp.Type == "" {
		sp.Type = SpellTypeBasic
	}
	s.Log = append(s.Log, LogEntry{
		Type: EntrySpell, Name: sp.Name, Cost: cost,
		Domain: DomainSpellcraft, XPType: XPCombat, RefID: sp.ID,
	})
	s.KnownSpells = append(s.KnownSpells, sp)
	return &s.KnownSpells[len(s.KnownSpells)-1], nil
}

// LearnCustomSpell adds a homebrew spell with caller-supplied stats. Costs
// and gating are the same as for rules spells.
func (s *Sheet) LearnCustomSpell(name string, tier, limitCost int, advanced bool) (*KnownSpell, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: spell name required", ErrInvalidState)
	}
	spellcraft := DeriveDomains(s.Log).Spellcraft
	if err := magic.CanLearn(tier, spellcraft, s.HasMagePerk()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	cost := magic.SpellCost(tier, advanced)
	if err := s.spend(XPCombat, cost); err != nil {
		return nil, err
	}
	typ := SpellTypeBasic
	if advanced {
		typ = SpellTypeAdvanced
	}
	sp := KnownSpell{
		ID:        uuid.NewString(),
		Name:      name,
		Tier:      tier,
		Type:      typ,
		IsCustom:  true,
		LimitCost: limitCost,
		XPCost:    cost,
	}
	s.Log = append(s.Log, LogEntry{
		Type: EntrySpell, Name: sp.Name, Cost: cost,
		Domain: DomainSpellcraft, XPType: XPCombat, RefID: sp.ID,
	})
	s.KnownSpells = append(s.KnownSpells, sp)
	return &s.KnownSpells[len(s.KnownSpells)-1], nil
}

// DeleteSpell forgets a spell, refunding everything paid for it (including
// any upgrade) and dropping its attunement.
func (s *Sheet) DeleteSpell(id string) error {
	sp := s.findSpell(id)
	if sp == nil {
		return fmt.Errorf("%w: spell %q", ErrNotFound, id)
	}
	refund := sp.XPCost
	s.removeLogEntries(func(e LogEntry) bool {
		return e.Type == EntrySpell && e.RefID == id
	})
	_ = s.refund(XPCombat, refund)
	for i := range s.KnownSpells {
		if s.KnownSpells[i].ID == id {
			s.KnownSpells = append(s.KnownSpells[:i], s.KnownSpells[i+1:]...)
			break
		}
	}
	s.unattune(id)
	return nil
}

// UpgradeSpell replaces a basic rules spell with its advanced form, paying
// the price difference. The result is a snapshot no longer tied to the
// rules data, so later data changes leave it alone.
func (s *Sheet) UpgradeSpell(id string, res *resource.Loader) error {
	sp := s.findSpell(id)
	if sp == nil {
		return fmt.Errorf("%w: spell %q", ErrNotFound, id)
	}
	if sp.IsCustom {
		return fmt.Errorf("%w: custom spells cannot be upgraded", ErrInvalidState)
	}
	if sp.Type == SpellTypeAdvanced {
		return fmt.Errorf("%w: spell is already advanced", ErrInvalidState)
	}
	up := res.UpgradeForSpell(sp.Name)
	if up == nil {
		return fmt.Errorf("%w: no advanced form for %q", ErrNotFound, sp.Name)
	}
	diff := up.AdvancedCost - sp.XPCost
	if diff < 0 {
		diff = 0
	}
	if err := s.spend(XPCombat, diff); err != nil {
		return err
	}
	sp.Name = up.Advanced.Name
	sp.Tier = up.Advanced.Tier
	sp.Type = SpellTypeAdvanced
	sp.LimitCost = up.Advanced.LimitCost
	sp.IsCustom = true
	sp.DataRef = ""
	sp.XPCost += diff
	s.Log = append(s.Log, LogEntry{
		Type: EntrySpell, Name: sp.Name, Cost: diff,
		Domain: DomainSpellcraft, XPType: XPCombat, RefID: sp.ID,
	})
	return nil
}

// ---- Attunement ----

// AttunedLimit is the total Limit committed to attuned spells.
func (s *Sheet) AttunedLimit() int {
	total := 0
	for _, id := range s.AttunedSpells {
		if sp := s.findSpell(id); sp != nil {
			total += sp.LimitCost
		}
	}
	return total
}

// AttuneSpell commits Limit to a known spell. Zero-limit spells are always
// ready and cannot be attuned; over-committing the Limit pool fails.
func (s *Sheet) AttuneSpell(id string, will int) error {
	sp := s.findSpell(id)
	if sp == nil {
		return fmt.Errorf("%w: spell %q", ErrNotFound, id)
	}
	if sp.LimitCost == 0 {
		return fmt.Errorf("%w: spell has no limit cost", ErrInvalidState)
	}
	for _, a := range s.AttunedSpells {
		if a == id {
			return fmt.Errorf("%w: spell already attuned", ErrInvalidState)
		}
	}
	capacity := magic.LimitCapacity(will, DeriveDomains(s.Log).Spellcraft)
	if s.AttunedLimit()+sp.LimitCost > capacity {
		return fmt.Errorf("%w: limit capacity %d exceeded", ErrInvalidState, capacity)
	}
	s.AttunedSpells = append(s.AttunedSpells, id)
	return nil
}

// UnattuneSpell releases the Limit committed to a spell.
func (s *Sheet) UnattuneSpell(id string) error {
	for _, a := range s.AttunedSpells {
		if a == id {
			s.unattune(id)
			return nil
		}
	}
	return fmt.Errorf("%w: spell not attuned", ErrNotFound)
}

func (s *Sheet) unattune(id string) {
	for i, a := range s.AttunedSpells {
		if a == id {
			s.AttunedSpells = append(s.AttunedSpells[:i], s.AttunedSpells[i+1:]...)
			return
		}
	}
}

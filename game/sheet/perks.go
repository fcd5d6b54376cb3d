package sheet

import (
	"fmt"

	"github.com/exceedrpg/exceedsheet/server/resource"
)

// perkEntryType maps a perk category onto its log entry type.
func perkEntryType(t PerkType) EntryType {
	switch t {
	case PerkCombat:
		return EntryCombatPerk
	case PerkMagic:
		return EntryMagicPerk
	default:
		return EntryPerk
	}
}

// perkXPType maps a perk category onto the pool it spends: skill perks are
// social purchases, combat and magic perks draw from combat XP.
func perkXPType(t PerkType) XPType {
	if t == PerkSkill {
		return XPSocial
	}
	return XPCombat
}

// perkDomain names the domain a perk's CP feeds, if any.
func perkDomain(t PerkType) string {
	switch t {
	case PerkCombat:
		return DomainMartial
	case PerkMagic:
		return DomainSpellcraft
	default:
		return ""
	}
}

// BuyPerk purchases a perk. Flaws carry a negative cost and credit the
// pool. Conditioning perks go through StartConditioning instead.
func (s *Sheet) BuyPerk(def *resource.PerkDef, attribute string) error {
	if def == nil {
		return fmt.Errorf("%w: perk", ErrNotFound)
	}
	if def.Conditioning {
		return fmt.Errorf("%w: conditioning perks are trained in stages", ErrInvalidState)
	}
	if s.perk(def.Name) != nil {
		return fmt.Errorf("%w: perk already owned", ErrInvalidState)
	}
	attr, err := chooseAttribute(def.Attributes, attribute)
	if err != nil {
		return err
	}
	xp := perkXPType(def.Type)
	if err := s.spend(xp, def.Cost); err != nil {
		return err
	}
	s.Log = append(s.Log, LogEntry{
		Type: perkEntryType(def.Type), Name: def.Name,
		Attribute: attr, Cost: def.Cost,
		Domain: perkDomain(def.Type), XPType: xp,
	})
	s.Perks = append(s.Perks, Perk{
		Name:        def.Name,
		Type:        def.Type,
		Cost:        def.Cost,
		Attribute:   attr,
		Description: def.Description,
		IsFlaw:      def.IsFlaw,
	})
	return nil
}

// RemovePerk deletes an owned perk and reverses its XP effect: refunds what
// it cost, or takes back what a flaw granted. A completed conditioning perk
// additionally loses its wound (never below the game minimum).
func (s *Sheet) RemovePerk(name string) error {
	idx := -1
	for i := len(s.Perks) - 1; i >= 0; i-- {
		if s.Perks[i].Name == name && !s.Perks[i].IsStaged {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: perk %q", ErrNotFound, name)
	}
	p := s.Perks[idx]

	if p.Conditioning {
		return s.removeCompletedConditioning(idx)
	}

	// Peek before mutating: reversing a flaw may be unaffordable.
	entryType := perkEntryType(p.Type)
	xp := perkXPType(p.Type)
	found := false
	for i := len(s.Log) - 1; i >= 0; i-- {
		if s.Log[i].Type == entryType && s.Log[i].Name == name {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: no log entry for perk %q", ErrNotFound, name)
	}
	if *s.pool(xp)+p.Cost < 0 {
		return ErrNotEnoughXP
	}
	entry, _ := s.removeLogEntry(func(e LogEntry) bool {
		return e.Type == entryType && e.Name == name
	})
	_ = s.refund(xp, entry.Cost)
	s.Perks = append(s.Perks[:idx], s.Perks[idx+1:]...)
	return nil
}

// ---- Conditioning ----

// stagedPerk returns the conditioning arc in progress, or nil.
func (s *Sheet) stagedPerk() *Perk {
	for i := range s.Perks {
		if s.Perks[i].IsStaged {
			return &s.Perks[i]
		}
	}
	return nil
}

// StartConditioning begins a conditioning arc at level 1. Each level costs
// the character's current maxWounds in combat XP; only one arc may be in
// progress at a time.
func (s *Sheet) StartConditioning(def *resource.PerkDef) error {
	if def == nil || !def.Conditioning {
		return fmt.Errorf("%w: not a conditioning perk", ErrInvalidState)
	}
	if s.stagedPerk() != nil {
		return fmt.Errorf("%w: a conditioning perk is already in progress", ErrInvalidState)
	}
	if s.perk(def.Name) != nil {
		return fmt.Errorf("%w: perk already owned", ErrInvalidState)
	}
	cost := s.MaxWounds
	if err := s.spend(XPCombat, cost); err != nil {
		return err
	}
	s.Log = append(s.Log, LogEntry{
		Type: EntryStagedPerk, Name: def.Name, Level: 1,
		Cost: cost, Domain: DomainMartial, XPType: XPCombat,
	})
	s.Perks = append(s.Perks, Perk{
		Name:         def.Name,
		Type:         PerkCombat,
		Cost:         cost,
		Description:  def.Description,
		IsStaged:     true,
		Conditioning: true,
		Level:        1,
	})
	return nil
}

// AdvanceConditioning buys the next conditioning level. Reaching level 5
// completes the arc: the perk becomes permanent, maxWounds rises by one,
// and any accumulated extra HP folds into the new wound.
func (s *Sheet) AdvanceConditioning() error {
	p := s.stagedPerk()
	if p == nil {
		return fmt.Errorf("%w: no conditioning in progress", ErrNotFound)
	}
	cost := s.MaxWounds
	if err := s.spend(XPCombat, cost); err != nil {
		return err
	}
	p.Level++
	p.Cost += cost
	s.Log = append(s.Log, LogEntry{
		Type: EntryStagedPerk, Name: p.Name, Level: p.Level,
		Cost: cost, Domain: DomainMartial, XPType: XPCombat,
	})
	if p.Level >= ConditioningMax {
		p.IsStaged = false
		s.MaxWounds++
		s.ExtraHP = 0
	}
	return nil
}

// AbandonConditioning cancels an incomplete arc, refunding every level paid
// and removing its staged entries.
func (s *Sheet) AbandonConditioning() error {
	p := s.stagedPerk()
	if p == nil {
		return fmt.Errorf("%w: no conditioning in progress", ErrNotFound)
	}
	name := p.Name
	removed := s.removeLogEntries(func(e LogEntry) bool {
		return e.Type == EntryStagedPerk && e.Name == name
	})
	total := 0
	for _, e := range removed {
		total += e.Cost
	}
	_ = s.refund(XPCombat, total)
	for i := range s.Perks {
		if s.Perks[i].Name == name && s.Perks[i].IsStaged {
			s.Perks = append(s.Perks[:i], s.Perks[i+1:]...)
			break
		}
	}
	return nil
}

// removeCompletedConditioning deletes a finished conditioning perk: all of
// its staged entries refund and the earned wound is lost, though never
// below the game minimum.
func (s *Sheet) removeCompletedConditioning(idx int) error {
	name := s.Perks[idx].Name
	removed := s.removeLogEntries(func(e LogEntry) bool {
		return e.Type == EntryStagedPerk && e.Name == name
	})
	total := 0
	for _, e := range removed {
		total += e.Cost
	}
	_ = s.refund(XPCombat, total)
	if s.MaxWounds > MinWounds {
		s.MaxWounds--
	}
	s.Perks = append(s.Perks[:idx], s.Perks[idx+1:]...)
	return nil
}

func (s *Sheet) perk(name string) *Perk {
	for i := range s.Perks {
		if s.Perks[i].Name == name {
			return &s.Perks[i]
		}
	}
	return nil
}

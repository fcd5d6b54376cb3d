package sheet

import (
	"fmt"

	"github.com/exceedrpg/exceedsheet/server/resource"
)

// LearnCost is what a new skill at level 1 costs.
const LearnCost = 2

// SkillLevelUpCost prices raising a skill to the next level.
func SkillLevelUpCost(currentLevel int) int {
	return (currentLevel + 1) * 2
}

// SkillLevelDownRefund is what lowering a skill from its current level
// gives back.
func SkillLevelDownRefund(currentLevel int) int {
	return currentLevel * 2
}

// chooseAttribute validates an attribute selection against the offered
// options. Skills and perks with a single option default to it; multiple
// options require an explicit choice.
func chooseAttribute(options []string, selected string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	if selected == "" {
		if len(options) == 1 {
			return NormalizeAttribute(options[0]), nil
		}
		return "", ErrSelectionRequired
	}
	want := NormalizeAttribute(selected)
	for _, opt := range options {
		if NormalizeAttribute(opt) == want {
			return want, nil
		}
	}
	return "", fmt.Errorf("%w: %q is not an option", ErrSelectionRequired, selected)
}

// LearnSkill adds def at level 1, spending social XP and binding the first
// level to the chosen attribute.
func (s *Sheet) LearnSkill(def *resource.SkillDef, attribute string) error {
	if def == nil {
		return fmt.Errorf("%w: skill", ErrNotFound)
	}
	if s.skill(def.Name) != nil {
		return fmt.Errorf("%w: skill already known", ErrInvalidState)
	}
	attr, err := chooseAttribute(def.Attributes, attribute)
	if err != nil {
		return err
	}
	if err := s.spend(XPSocial, LearnCost); err != nil {
		return err
	}
	s.Log = append(s.Log, LogEntry{
		Type: EntrySkill, Name: def.Name, Level: 1,
		Attribute: attr, Cost: LearnCost, XPType: XPSocial,
	})
	s.Skills = append(s.Skills, Skill{
		Name:             def.Name,
		Attributes:       def.Attributes,
		Description:      def.Description,
		Level:            1,
		AttributeHistory: []string{attr},
	})
	return nil
}

// LevelUpSkill raises a known skill one level, binding the new level to the
// chosen attribute.
func (s *Sheet) LevelUpSkill(name, attribute string) error {
	sk := s.skill(name)
	if sk == nil {
		return fmt.Errorf("%w: skill %q", ErrNotFound, name)
	}
	if sk.Level >= MaxSkillLevel {
		return fmt.Errorf("%w: skill already at level %d", ErrInvalidState, MaxSkillLevel)
	}
	attr, err := chooseAttribute(sk.Attributes, attribute)
	if err != nil {
		return err
	}
	cost := SkillLevelUpCost(sk.Level)
	if err := s.spend(XPSocial, cost); err != nil {
		return err
	}
	sk.Level++
	sk.AttributeHistory = append(sk.AttributeHistory, attr)
	s.Log = append(s.Log, LogEntry{
		Type: EntrySkill, Name: sk.Name, Level: sk.Level,
		Attribute: attr, Cost: cost, XPType: XPSocial,
	})
	return nil
}

// LevelDownSkill undoes the most recent level of a skill, refunding its
// cost. Level 1 cannot be lowered; remove the skill instead.
func (s *Sheet) LevelDownSkill(name string) error {
	sk := s.skill(name)
	if sk == nil {
		return fmt.Errorf("%w: skill %q", ErrNotFound, name)
	}
	if sk.Level <= 1 {
		return fmt.Errorf("%w: level 1 skills are removed, not lowered", ErrInvalidState)
	}
	level := sk.Level
	entry, ok := s.removeLogEntry(func(e LogEntry) bool {
		return e.Type == EntrySkill && e.Name == sk.Name && e.Level == level
	})
	if !ok {
		return fmt.Errorf("%w: no log entry for %s level %d", ErrNotFound, sk.Name, level)
	}
	if err := s.refund(XPSocial, entry.Cost); err != nil {
		return err
	}
	sk.Level--
	if n := len(sk.AttributeHistory); n > 0 {
		sk.AttributeHistory = sk.AttributeHistory[:n-1]
	}
	return nil
}

// RemoveSkill deletes a skill entirely, refunding every level it cost and
// stripping all of its log entries.
func (s *Sheet) RemoveSkill(name string) error {
	sk := s.skill(name)
	if sk == nil {
		return fmt.Errorf("%w: skill %q", ErrNotFound, name)
	}
	removed := s.removeLogEntries(func(e LogEntry) bool {
		return e.Type == EntrySkill && e.Name == sk.Name
	})
	total := 0
	for _, e := range removed {
		total += e.Cost
	}
	if err := s.refund(XPSocial, total); err != nil {
		return err
	}
	for i := range s.Skills {
		if s.Skills[i].Name == sk.Name {
			s.Skills = append(s.Skills[:i], s.Skills[i+1:]...)
			break
		}
	}
	return nil
}

// SkillLevel returns the level of a named skill, zero when unknown.
func (s *Sheet) SkillLevel(name string) int {
	if sk := s.skill(name); sk != nil {
		return sk.Level
	}
	return 0
}

func (s *Sheet) skill(name string) *Skill {
	for i := range s.Skills {
		if s.Skills[i].Name == name {
			return &s.Skills[i]
		}
	}
	return nil
}

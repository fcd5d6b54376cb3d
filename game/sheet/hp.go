package sheet

import (
	"fmt"

	"github.com/exceedrpg/exceedsheet/server/game/combat"
)

// ExtraHPCost is the combat XP price of one purchased hit point.
const ExtraHPCost = 3

// BuyExtraHP purchases one extra hit point for combat XP. When the
// accumulated extra HP reaches a full wound's worth it consolidates into a
// permanent wound instead.
func (s *Sheet) BuyExtraHP() error {
	if err := s.spend(XPCombat, ExtraHPCost); err != nil {
		return err
	}
	s.ExtraHP++
	s.ExtraHPCount++
	s.ExtraHPHistory = append(s.ExtraHPHistory, ExtraHPCost)
	s.Log = append(s.Log, LogEntry{
		Type: EntryExtraHP, Name: "Extra HP", Cost: ExtraHPCost, XPType: XPCombat,
	})
	if s.ExtraHP >= s.HPPerWound {
		s.ExtraHP -= s.HPPerWound
		s.MaxWounds++
		s.ExtraWoundCount++
		s.Log = append(s.Log, LogEntry{
			Type: EntryExtraWound, Name: "Extra Wound", Cost: 0, XPType: XPCombat,
		})
	}
	return nil
}

// RemoveExtraHP refunds the most recent extra hit point. If the purchase
// had consolidated into a wound, the wound unwinds first.
func (s *Sheet) RemoveExtraHP() error {
	if s.ExtraHPCount <= 0 {
		return fmt.Errorf("%w: no extra HP purchased", ErrNotFound)
	}
	if s.ExtraHP <= 0 {
		if s.ExtraWoundCount <= 0 || s.MaxWounds <= MinWounds {
			return fmt.Errorf("%w: extra HP already consolidated", ErrInvalidState)
		}
		s.MaxWounds--
		s.ExtraWoundCount--
		s.ExtraHP = s.HPPerWound
		s.removeLogEntry(func(e LogEntry) bool { return e.Type == EntryExtraWound })
	}
	entry, ok := s.removeLogEntry(func(e LogEntry) bool { return e.Type == EntryExtraHP })
	if !ok {
		return fmt.Errorf("%w: no extra HP log entry", ErrNotFound)
	}
	_ = s.refund(XPCombat, entry.Cost)
	s.ExtraHP--
	s.ExtraHPCount--
	if n := len(s.ExtraHPHistory); n > 0 {
		s.ExtraHPHistory = s.ExtraHPHistory[:n-1]
	}
	return nil
}

// SetTotalHP sets the character's combined current HP. Stamina fills first,
// then health; totals below the death floor are clamped.
func (s *Sheet) SetTotalHP(total, maxStamina, maxHealth int) {
	stamina, health := combat.RedistributeHP(total, maxStamina, maxHealth, s.MaxWounds, s.HPPerWound)
	s.CurrentStamina = &stamina
	s.CurrentHealth = &health
}

// MarkWound marks one wound as taken.
func (s *Sheet) MarkWound() error {
	if s.MarkedWounds >= s.MaxWounds {
		return fmt.Errorf("%w: all wounds already marked", ErrInvalidState)
	}
	s.MarkedWounds++
	return nil
}

// UnmarkWound clears one marked wound.
func (s *Sheet) UnmarkWound() error {
	if s.MarkedWounds <= 0 {
		return fmt.Errorf("%w: no wounds marked", ErrInvalidState)
	}
	s.MarkedWounds--
	return nil
}

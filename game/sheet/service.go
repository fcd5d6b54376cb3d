package sheet

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/exceedrpg/exceedsheet/server/config"
	"github.com/exceedrpg/exceedsheet/server/model"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

// Service owns character persistence: loading rows into Sheet aggregates,
// running mutations transactionally, and saving the result back.
type Service struct {
	db     *gorm.DB
	res    *resource.Loader
	game   config.GameConfig
	logger *zap.Logger
}

// NewService creates a character Service.
func NewService(db *gorm.DB, res *resource.Loader, game config.GameConfig, logger *zap.Logger) *Service {
	return &Service{db: db, res: res, game: game, logger: logger}
}

// Loader exposes the rules data for handlers that need lookups.
func (svc *Service) Loader() *resource.Loader { return svc.res }

// StowedReduction is the configured stowed-weight discount.
func (svc *Service) StowedReduction() int { return svc.game.StowedWeightReduction }

// FromModel decodes a character row into its Sheet aggregate.
func FromModel(m *model.Character) (*Sheet, error) {
	s := &Sheet{
		Name:            m.Name,
		Concept:         m.Concept,
		CombatXP:        m.CombatXP,
		SocialXP:        m.SocialXP,
		Money:           m.Money,
		MaxWounds:       m.MaxWounds,
		HPPerWound:      m.HPPerWound,
		ExtraHP:         m.ExtraHP,
		ExtraHPCount:    m.ExtraHPCount,
		ExtraWoundCount: m.ExtraWoundCount,
		MarkedWounds:    m.MarkedWounds,
		CurrentStamina:  m.CurrentStamina,
		CurrentHealth:   m.CurrentHealth,
	}
	if s.MaxWounds < MinWounds {
		s.MaxWounds = MinWounds
	}
	if s.HPPerWound <= 0 {
		s.HPPerWound = DefaultHPPerWound
	}
	for _, col := range []struct {
		raw datatypes.JSON
		dst interface{}
	}{
		{m.ProgressionLog, &s.Log},
		{m.Skills, &s.Skills},
		{m.Perks, &s.Perks},
		{m.KnownSpells, &s.KnownSpells},
		{m.AttunedSpells, &s.AttunedSpells},
		{m.Inventory, &s.Inventory},
		{m.ExtraHPHistory, &s.ExtraHPHistory},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("character %d: corrupt column: %w", m.ID, err)
		}
	}
	return s, nil
}

// ApplyToModel encodes a Sheet back onto its character row.
func ApplyToModel(s *Sheet, m *model.Character) error {
	m.Name = s.Name
	m.Concept = s.Concept
	m.CombatXP = s.CombatXP
	m.SocialXP = s.SocialXP
	m.Money = s.Money
	m.MaxWounds = s.MaxWounds
	m.HPPerWound = s.HPPerWound
	m.ExtraHP = s.ExtraHP
	m.ExtraHPCount = s.ExtraHPCount
	m.ExtraWoundCount = s.ExtraWoundCount
	m.MarkedWounds = s.MarkedWounds
	m.CurrentStamina = s.CurrentStamina
	m.CurrentHealth = s.CurrentHealth

	for _, col := range []struct {
		src interface{}
		dst *datatypes.JSON
	}{
		{s.Log, &m.ProgressionLog},
		{s.Skills, &m.Skills},
		{s.Perks, &m.Perks},
		{s.KnownSpells, &m.KnownSpells},
		{s.AttunedSpells, &m.AttunedSpells},
		{s.Inventory, &m.Inventory},
		{s.ExtraHPHistory, &m.ExtraHPHistory},
	} {
		raw, err := json.Marshal(col.src)
		if err != nil {
			return err
		}
		*col.dst = datatypes.JSON(raw)
	}
	return nil
}

// Create makes a new character for the account with the configured
// starting pools, enforcing the per-account cap.
func (svc *Service) Create(accountID int64, name, concept string) (*model.Character, error) {
	var existing []model.Character
	if err := svc.db.Select("id").Where("account_id = ?", accountID).Find(&existing).Error; err != nil {
		return nil, err
	}
	if svc.game.MaxCharacters > 0 && len(existing) >= svc.game.MaxCharacters {
		return nil, fmt.Errorf("%w: character limit reached", ErrInvalidState)
	}
	m := &model.Character{
		AccountID:  accountID,
		Name:       name,
		Concept:    concept,
		CombatXP:   svc.game.StartingCombatXP,
		SocialXP:   svc.game.StartingSocialXP,
		Money:      svc.game.StartingMoney,
		MaxWounds:  MinWounds,
		HPPerWound: DefaultHPPerWound,
	}
	if err := svc.db.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the account's characters.
func (svc *Service) List(accountID int64) ([]model.Character, error) {
	var chars []model.Character
	err := svc.db.Where("account_id = ?", accountID).Find(&chars).Error
	return chars, err
}

// Get loads one character, checking ownership.
func (svc *Service) Get(accountID, charID int64) (*model.Character, error) {
	var m model.Character
	err := svc.db.Where("id = ? AND account_id = ?", charID, accountID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: character %d", ErrNotFound, charID)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Delete removes a character, checking ownership.
func (svc *Service) Delete(accountID, charID int64) error {
	result := svc.db.Where("id = ? AND account_id = ?", charID, accountID).Delete(&model.Character{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: character %d", ErrNotFound, charID)
	}
	return nil
}

// Mutate runs one progression mutation inside a transaction: load the row
// with ownership checked, decode, apply, encode, save. Any error rolls the
// whole thing back, so a failed mutation never half-applies.
func (svc *Service) Mutate(accountID, charID int64, fn func(*Sheet) error) (*model.Character, error) {
	var out *model.Character
	err := svc.db.Transaction(func(tx *gorm.DB) error {
		var m model.Character
		err := tx.Where("id = ? AND account_id = ?", charID, accountID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: character %d", ErrNotFound, charID)
		}
		if err != nil {
			return err
		}
		s, err := FromModel(&m)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		if err := ApplyToModel(s, &m); err != nil {
			return err
		}
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// View loads a character and derives its full sheet.
func (svc *Service) View(accountID, charID int64) (*View, error) {
	m, err := svc.Get(accountID, charID)
	if err != nil {
		return nil, err
	}
	s, err := FromModel(m)
	if err != nil {
		return nil, err
	}
	return BuildView(s, svc.res, svc.game.StowedWeightReduction), nil
}

// Export loads a character and serializes it as a portable document.
func (svc *Service) Export(accountID, charID int64) ([]byte, error) {
	m, err := svc.Get(accountID, charID)
	if err != nil {
		return nil, err
	}
	s, err := FromModel(m)
	if err != nil {
		return nil, err
	}
	return Export(s)
}

// Import creates a new character from a portable document. Nothing is
// persisted when the document fails to parse.
func (svc *Service) Import(accountID int64, raw []byte) (*model.Character, error) {
	s, err := Import(raw)
	if err != nil {
		return nil, err
	}
	m, err := svc.Create(accountID, s.Name, s.Concept)
	if err != nil {
		return nil, err
	}
	if err := ApplyToModel(s, m); err != nil {
		return nil, err
	}
	if err := svc.db.Save(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Character is the persisted form of an EXCEED character sheet.
//
// Scalar columns hold identity, XP pools, and combat configuration.
// The collections (progression log, skills, perks, spells, inventory)
// are JSON documents: they are always read and written as a whole with
// the owning row, never queried field-by-field.
type Character struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID int64  `gorm:"index:idx_account;not null" json:"account_id"`
	Name      string `gorm:"size:64;not null" json:"name"`
	Concept   string `gorm:"size:256" json:"concept"`

	CombatXP int `gorm:"default:0" json:"combat_xp"`
	SocialXP int `gorm:"default:0" json:"social_xp"`
	Money    int `gorm:"default:0" json:"money"`

	MaxWounds       int  `gorm:"default:2" json:"max_wounds"`
	HPPerWound      int  `gorm:"default:5" json:"hp_per_wound"`
	ExtraHP         int  `gorm:"default:0" json:"extra_hp"`
	ExtraHPCount    int  `gorm:"default:0" json:"extra_hp_count"`
	ExtraWoundCount int  `gorm:"default:0" json:"extra_wound_count"`
	MarkedWounds    int  `gorm:"default:0" json:"marked_wounds"`
	CurrentStamina  *int `json:"current_stamina"` // nil = derive from max
	CurrentHealth   *int `json:"current_health"`  // nil = derive from max

	ProgressionLog datatypes.JSON `json:"progression_log"`
	Skills         datatypes.JSON `json:"skills"`
	Perks          datatypes.JSON `json:"perks"`
	KnownSpells    datatypes.JSON `json:"known_spells"`
	AttunedSpells  datatypes.JSON `json:"attuned_spells"`
	Inventory      datatypes.JSON `json:"inventory"`
	ExtraHPHistory datatypes.JSON `json:"extra_hp_history"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

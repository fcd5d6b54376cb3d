package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/exceedrpg/exceedsheet/server/cache"
	"github.com/exceedrpg/exceedsheet/server/config"
	dbadapter "github.com/exceedrpg/exceedsheet/server/db"
	"github.com/exceedrpg/exceedsheet/server/model"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

// SetupTestDB creates an in-memory database and runs AutoMigrate. It needs
// no external services and is safe in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(config.DatabaseConfig{Mode: dbadapter.ModeMemory})
	require.NoError(t, err, "SetupTestDB: Open")
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates a LocalCache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{})
	require.NoError(t, err, "SetupTestCache: New")
	return c
}

// TestLoader returns a rules loader stocked with a small playable data set
// covering every table.
func TestLoader() *resource.Loader {
	return &resource.Loader{
		Armors: []*resource.Armor{
			{Name: "Leather Armor", Bonus: 1, MightReq: 0, Penalty: 0, PenaltyMet: 0, Weight: 8, Cost: 10},
			{Name: "Chainmail", Bonus: 2, MightReq: 2, Penalty: -2, PenaltyMet: -1, Weight: 15, Cost: 50},
		},
		Weapons: []*resource.Weapon{
			{Name: "Longsword", Damage: "d8+Might", Weight: 4, Cost: 15},
			{Name: "Dagger", Damage: "d4+Might", Finesse: true, Weight: 1, Cost: 2},
			{Name: "Shortbow", Damage: "4+Might", Bow: true, Weight: 2, Cost: 25},
		},
		Shields: []*resource.Shield{
			{Name: "Buckler", Class: resource.ShieldLight, DefenseBonus: 1, Weight: 2, Cost: 5},
			{Name: "Kite Shield", Class: resource.ShieldMedium, DefenseBonus: 2, Weight: 6, Cost: 20},
		},
		Skills: []*resource.SkillDef{
			{Name: "Running", Attributes: []string{"Agility"}},
			{Name: "Athletics", Attributes: []string{"Might", "Agility"}},
			{Name: "Lockpicking", Attributes: []string{"Dexterity"}},
		},
		Spells: []*resource.SpellDef{
			{ID: "spell-spark", Name: "Spark", Tier: 0, Type: "basic", LimitCost: 0},
			{ID: "spell-firebolt", Name: "Firebolt", Tier: 1, Type: "basic", LimitCost: 1},
		},
		Perks: []*resource.PerkDef{
			{ID: "perk-mage", Name: "Mage", Type: resource.PerkMagic, Cost: 10},
			{ID: "perk-quick-draw", Name: "Quick Draw", Type: resource.PerkCombat, Cost: 6, Attributes: []string{"Dexterity"}},
			{ID: "perk-silver-tongue", Name: "Silver Tongue", Type: resource.PerkSkill, Cost: 4, Attributes: []string{"Charisma"}},
			{ID: "perk-one-eye", Name: "One Eye", Type: resource.PerkCombat, Cost: -4, IsFlaw: true},
			{ID: "perk-iron-hide", Name: "Iron Hide", Type: resource.PerkCombat, Conditioning: true},
		},
		Upgrades: []*resource.SpellUpgrade{
			{
				BasicName: "Firebolt",
				Advanced: resource.SpellDef{
					ID: "spell-firebolt-adv", Name: "Greater Firebolt",
					Tier: 1, Type: "advanced", LimitCost: 2,
				},
				AdvancedCost: 8,
			},
		},
	}
}

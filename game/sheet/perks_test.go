package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exceedrpg/exceedsheet/server/resource"
)

func quickDrawDef() *resource.PerkDef {
	return &resource.PerkDef{
		Name: "Quick Draw", Type: resource.PerkCombat, Cost: 6,
		Attributes: []string{"Dexterity"},
	}
}

func mageDef() *resource.PerkDef {
	return &resource.PerkDef{Name: "Mage", Type: resource.PerkMagic, Cost: 10}
}

func silverTongueDef() *resource.PerkDef {
	return &resource.PerkDef{
		Name: "Silver Tongue", Type: resource.PerkSkill, Cost: 4,
		Attributes: []string{"Charisma"},
	}
}

func oneEyeDef() *resource.PerkDef {
	return &resource.PerkDef{
		Name: "One Eye", Type: resource.PerkCombat, Cost: -4, IsFlaw: true,
	}
}

func ironHideDef() *resource.PerkDef {
	return &resource.PerkDef{
		Name: "Iron Hide", Type: resource.PerkCombat, Conditioning: true,
	}
}

func TestBuyPerk_PoolsByType(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	s.SocialXP = 20

	require.NoError(t, s.BuyPerk(quickDrawDef(), ""))
	assert.Equal(t, 14, s.CombatXP)
	assert.Equal(t, 20, s.SocialXP)

	require.NoError(t, s.BuyPerk(silverTongueDef(), ""))
	assert.Equal(t, 14, s.CombatXP)
	assert.Equal(t, 16, s.SocialXP)

	require.NoError(t, s.BuyPerk(mageDef(), ""))
	assert.Equal(t, 4, s.CombatXP)

	types := map[string]EntryType{}
	domains := map[string]string{}
	for _, e := range s.Log {
		types[e.Name] = e.Type
		domains[e.Name] = e.Domain
	}
	assert.Equal(t, EntryCombatPerk, types["Quick Draw"])
	assert.Equal(t, DomainMartial, domains["Quick Draw"])
	assert.Equal(t, EntryMagicPerk, types["Mage"])
	assert.Equal(t, DomainSpellcraft, domains["Mage"])
	assert.Equal(t, EntryPerk, types["Silver Tongue"])
	assert.Equal(t, "", domains["Silver Tongue"])

	assert.True(t, s.HasMagePerk())
}

func TestBuyPerk_Duplicate(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	require.NoError(t, s.BuyPerk(quickDrawDef(), ""))
	assert.ErrorIs(t, s.BuyPerk(quickDrawDef(), ""), ErrInvalidState)
}

func TestBuyPerk_FlawGrantsXP(t *testing.T) {
	s := New("Garruk", "")

	require.NoError(t, s.BuyPerk(oneEyeDef(), ""))
	assert.Equal(t, 4, s.CombatXP)
	require.Len(t, s.Perks, 1)
	assert.True(t, s.Perks[0].IsFlaw)
}

func TestRemovePerk_RoundTrip(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 10

	require.NoError(t, s.BuyPerk(quickDrawDef(), ""))
	require.NoError(t, s.RemovePerk("Quick Draw"))
	assert.Equal(t, 10, s.CombatXP)
	assert.Empty(t, s.Perks)
	assert.Empty(t, s.Log)
}

func TestRemovePerk_FlawTakesXPBack(t *testing.T) {
	s := New("Garruk", "")
	require.NoError(t, s.BuyPerk(oneEyeDef(), ""))
	require.Equal(t, 4, s.CombatXP)

	// Spend the granted XP; the flaw can no longer be bought off.
	s.CombatXP = 2
	assert.ErrorIs(t, s.RemovePerk("One Eye"), ErrNotEnoughXP)
	assert.Len(t, s.Perks, 1)
	assert.Len(t, s.Log, 1)

	s.CombatXP = 4
	require.NoError(t, s.RemovePerk("One Eye"))
	assert.Equal(t, 0, s.CombatXP)
	assert.Empty(t, s.Perks)
}

// ---- Conditioning ----

func TestConditioning_FullArc(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	require.Equal(t, 2, s.MaxWounds)

	require.NoError(t, s.StartConditioning(ironHideDef()))
	assert.Equal(t, 18, s.CombatXP)
	require.NotNil(t, s.stagedPerk())

	// Levels 2..5 each cost the current maxWounds (still 2 until done).
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AdvanceConditioning())
	}
	assert.Equal(t, 10, s.CombatXP)
	assert.Equal(t, 3, s.MaxWounds)
	assert.Nil(t, s.stagedPerk())

	p := s.perk("Iron Hide")
	require.NotNil(t, p)
	assert.False(t, p.IsStaged)
	assert.Equal(t, ConditioningMax, p.Level)
	assert.Equal(t, 10, p.Cost)

	staged := 0
	for _, e := range s.Log {
		if e.Type == EntryStagedPerk {
			staged++
		}
	}
	assert.Equal(t, 5, staged)
}

func TestConditioning_CompletionFoldsExtraHP(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	s.ExtraHP = 3

	require.NoError(t, s.StartConditioning(ironHideDef()))
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AdvanceConditioning())
	}
	assert.Equal(t, 0, s.ExtraHP)
	assert.Equal(t, 3, s.MaxWounds)
}

func TestConditioning_OnlyOneInProgress(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	require.NoError(t, s.StartConditioning(ironHideDef()))

	other := &resource.PerkDef{Name: "Stone Skin", Type: resource.PerkCombat, Conditioning: true}
	assert.ErrorIs(t, s.StartConditioning(other), ErrInvalidState)
}

func TestConditioning_BuyPerkRejectsConditioning(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	assert.ErrorIs(t, s.BuyPerk(ironHideDef(), ""), ErrInvalidState)
}

func TestAbandonConditioning_RefundsAllLevels(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20

	require.NoError(t, s.StartConditioning(ironHideDef()))
	require.NoError(t, s.AdvanceConditioning())
	require.NoError(t, s.AdvanceConditioning())
	require.Equal(t, 14, s.CombatXP)

	require.NoError(t, s.AbandonConditioning())
	assert.Equal(t, 20, s.CombatXP)
	assert.Empty(t, s.Perks)
	assert.Empty(t, s.Log)
	assert.Equal(t, 2, s.MaxWounds)
}

func TestRemovePerk_CompletedConditioningLosesWound(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20

	require.NoError(t, s.StartConditioning(ironHideDef()))
	for i := 0; i < 4; i++ {
		require.NoError(t, s.AdvanceConditioning())
	}
	require.Equal(t, 3, s.MaxWounds)
	require.Equal(t, 10, s.CombatXP)

	require.NoError(t, s.RemovePerk("Iron Hide"))
	assert.Equal(t, 20, s.CombatXP)
	assert.Equal(t, 2, s.MaxWounds)
	assert.Empty(t, s.Perks)
	assert.Empty(t, s.Log)
}

func TestRemovePerk_StagedNotRemovable(t *testing.T) {
	s := New("Garruk", "")
	s.CombatXP = 20
	require.NoError(t, s.StartConditioning(ironHideDef()))

	assert.ErrorIs(t, s.RemovePerk("Iron Hide"), ErrNotFound)
}

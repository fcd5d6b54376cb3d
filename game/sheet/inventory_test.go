package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exceedrpg/exceedsheet/server/game/item"
	"github.com/exceedrpg/exceedsheet/server/resource"
)

func armoryLoader() *resource.Loader {
	return &resource.Loader{
		Armors: []*resource.Armor{
			{Name: "Chainmail", Bonus: 2, MightReq: 2, Penalty: -2, PenaltyMet: -1, Weight: 15},
		},
		Weapons: []*resource.Weapon{
			{Name: "Longsword", Damage: "d8+Might", Weight: 4},
			{Name: "Dagger", Damage: "d4+Might", Finesse: true, Weight: 1},
			{Name: "Shortbow", Damage: "4+Might", Bow: true, Weight: 2},
		},
		Shields: []*resource.Shield{
			{Name: "Kite Shield", Class: resource.ShieldMedium, DefenseBonus: 2, Weight: 6},
		},
	}
}

func TestAddItemFromData(t *testing.T) {
	s := New("Dorn", "")
	res := armoryLoader()

	it, err := s.AddItemFromData(res, item.TypeWeapon, "Longsword", 1)
	require.NoError(t, err)
	assert.Equal(t, item.StateStowed, it.State)
	assert.Equal(t, 4, it.Weight)
	assert.Equal(t, "Longsword", it.DataRef)
	assert.NotEmpty(t, it.ID)

	_, err = s.AddItemFromData(res, item.TypeWeapon, "Halberd", 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddCustomItem(t *testing.T) {
	s := New("Dorn", "")

	it, err := s.AddCustomItem(item.Item{
		Name: "Rope", Type: item.TypeItem, Weight: 2, Quantity: 3,
	})
	require.NoError(t, err)
	assert.True(t, it.IsCustom)
	assert.Equal(t, 3, it.Quantity)

	_, err = s.AddCustomItem(item.Item{Name: "Bent Sword", Type: item.TypeWeapon})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.AddCustomItem(item.Item{
		Name: "Bent Sword", Type: item.TypeWeapon,
		CustomWeapon: &item.WeaponStats{Damage: "d6+Might"},
	})
	assert.NoError(t, err)
}

func TestSetItemState_Transitions(t *testing.T) {
	s := New("Dorn", "")
	res := armoryLoader()
	it, err := s.AddItemFromData(res, item.TypeWeapon, "Longsword", 1)
	require.NoError(t, err)
	id := it.ID

	require.NoError(t, s.SetItemState(id, item.StateEquipped))
	require.NoError(t, s.SetItemState(id, item.StatePacked))

	// Packed gear cannot be equipped directly.
	assert.ErrorIs(t, s.SetItemState(id, item.StateEquipped), ErrInvalidState)
	require.NoError(t, s.SetItemState(id, item.StateStowed))
	require.NoError(t, s.SetItemState(id, item.StateEquipped))

	// No self transition.
	assert.ErrorIs(t, s.SetItemState(id, item.StateEquipped), ErrInvalidState)
}

func TestSetItemState_SlotLimits(t *testing.T) {
	s := New("Dorn", "")
	res := armoryLoader()

	sword, _ := s.AddItemFromData(res, item.TypeWeapon, "Longsword", 1)
	dagger, _ := s.AddItemFromData(res, item.TypeWeapon, "Dagger", 1)
	bow, _ := s.AddItemFromData(res, item.TypeWeapon, "Shortbow", 1)
	swordID, daggerID, bowID := sword.ID, dagger.ID, bow.ID

	require.NoError(t, s.SetItemState(swordID, item.StateEquipped))
	require.NoError(t, s.SetItemState(daggerID, item.StateEquipped))
	assert.ErrorIs(t, s.SetItemState(bowID, item.StateEquipped), ErrSlotConflict)

	require.NoError(t, s.SetItemState(daggerID, item.StateStowed))
	require.NoError(t, s.SetItemState(bowID, item.StateEquipped))
}

func TestSetItemState_GeneralGoodsNeverEquip(t *testing.T) {
	s := New("Dorn", "")
	it, err := s.AddCustomItem(item.Item{Name: "Rope", Type: item.TypeItem, Weight: 2})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetItemState(it.ID, item.StateEquipped), ErrSlotConflict)
}

func TestConvertToCustom(t *testing.T) {
	s := New("Dorn", "")
	res := armoryLoader()
	it, err := s.AddItemFromData(res, item.TypeArmor, "Chainmail", 1)
	require.NoError(t, err)
	id := it.ID

	require.NoError(t, s.ConvertToCustom(res, id))
	got := s.findItem(id)
	assert.True(t, got.IsCustom)
	assert.Empty(t, got.DataRef)
	require.NotNil(t, got.CustomArmor)
	assert.Equal(t, 2, got.CustomArmor.Bonus)
	assert.Equal(t, 15, got.Weight)

	assert.ErrorIs(t, s.ConvertToCustom(res, id), ErrInvalidState)
}

func TestSetItemQuantity(t *testing.T) {
	s := New("Dorn", "")
	it, err := s.AddCustomItem(item.Item{Name: "Arrow", Type: item.TypeItem, Weight: 0})
	require.NoError(t, err)

	require.NoError(t, s.SetItemQuantity(it.ID, 20))
	assert.Equal(t, 20, s.findItem(it.ID).Quantity)
	assert.ErrorIs(t, s.SetItemQuantity(it.ID, 0), ErrInvalidState)
}

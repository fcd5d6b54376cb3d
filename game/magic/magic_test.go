package magic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitCapacity(t *testing.T) {
	assert.Equal(t, 3, LimitCapacity(0, 0))
	assert.Equal(t, 7, LimitCapacity(2, 2))
}

func TestCastingDC(t *testing.T) {
	assert.Equal(t, 8, CastingDC(0))
	assert.Equal(t, 12, CastingDC(2))
	assert.Equal(t, 18, CastingDC(5))
}

func TestSpellCost(t *testing.T) {
	assert.Equal(t, 2, SpellCost(0, false))
	assert.Equal(t, 12, SpellCost(5, false))
	assert.Equal(t, 6, SpellCost(0, true))
	assert.Equal(t, 10, SpellCost(2, true))
}

func TestCanLearn_TierZeroNeedsMagePerk(t *testing.T) {
	err := CanLearn(0, 0, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mage")

	assert.NoError(t, CanLearn(0, 0, true))
}

func TestCanLearn_SpellcraftGate(t *testing.T) {
	require.Error(t, CanLearn(3, 2, false))
	assert.NoError(t, CanLearn(3, 3, false))
	assert.NoError(t, CanLearn(1, 5, false))
}

func TestCanLearn_InvalidTier(t *testing.T) {
	assert.Error(t, CanLearn(-1, 5, true))
	assert.Error(t, CanLearn(6, 5, true))
}

package charstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateStartsWithSentinelIDAndSafeVitals(t *testing.T) {
	s := New()
	assert.True(t, s.IDUnknown())
	assert.Equal(t, uint32(1), s.HP().Max)
	assert.Equal(t, uint32(1), s.MP().Max)
	_, _, expToNext, _ := s.Progression()
	assert.Equal(t, uint64(1), expToNext)
}

func TestAdoptIDIsOneShot(t *testing.T) {
	s := New()
	s.AdoptID(0x0001)
	assert.Equal(t, uint16(0x0001), s.ID())
	assert.False(t, s.IDUnknown())

	s.AdoptID(0x0099)
	assert.Equal(t, uint16(0x0001), s.ID(), "second adoption must be a no-op")
}

func TestSetHPEnforcesMaxAtLeastOne(t *testing.T) {
	s := New()
	s.SetHP(50, 0, 10, 0)
	assert.Equal(t, uint32(1), s.HP().Max, "max HP of 0 must be clamped to 1")
	assert.Equal(t, uint32(1), s.SD().Max)
	assert.Equal(t, uint32(50), s.HP().Cur)
}

func TestZeroVitalsOnDeathPreservesMax(t *testing.T) {
	s := New()
	s.SetHP(100, 200, 30, 60)
	s.ZeroVitalsOnDeath()

	assert.Equal(t, uint32(0), s.HP().Cur)
	assert.Equal(t, uint32(200), s.HP().Max)
	assert.Equal(t, uint32(0), s.SD().Cur)
}

func TestSetProgressionRejectsZeroExpToNext(t *testing.T) {
	s := New()
	err := s.SetProgression(10, 1000, 0, 5)
	assert.Error(t, err)

	err = s.SetProgression(10, 1000, 5000, 5)
	require.NoError(t, err)
	level, exp, expToNext, points := s.Progression()
	assert.Equal(t, uint16(10), level)
	assert.Equal(t, uint64(1000), exp)
	assert.Equal(t, uint64(5000), expToNext)
	assert.Equal(t, uint16(5), points)
}

func TestInventoryDurabilityBoundsCheck(t *testing.T) {
	s := New()
	s.SetInventorySlot(3, []byte{0x01})
	err := s.UpdateDurability(3, 50)
	assert.Error(t, err, "item data shorter than 3 bytes must be rejected")

	s.SetInventorySlot(3, []byte{0x01, 0x02, 0x03})
	require.NoError(t, s.UpdateDurability(3, 77))
	data, ok := s.InventorySlot(3)
	require.True(t, ok)
	assert.Equal(t, byte(77), data[2])

	err = s.UpdateDurability(9, 1)
	assert.Error(t, err, "missing slot must be rejected")
}

func TestInventorySlotReturnsIndependentCopy(t *testing.T) {
	s := New()
	original := []byte{1, 2, 3}
	s.SetInventorySlot(1, original)

	data, ok := s.InventorySlot(1)
	require.True(t, ok)
	data[0] = 0xFF

	data2, _ := s.InventorySlot(1)
	assert.Equal(t, byte(1), data2[0], "mutating a returned copy must not affect stored state")
}

func TestRemoveInventorySlotReportsExistence(t *testing.T) {
	s := New()
	s.SetInventorySlot(5, []byte{1, 2, 3})
	assert.True(t, s.RemoveInventorySlot(5))
	assert.False(t, s.RemoveInventorySlot(5))
}

func TestSkillsSnapshotIsIndependent(t *testing.T) {
	s := New()
	s.SetSkill(100, SkillEntry{Level: 5})

	snap := s.Skills()
	snap[100] = SkillEntry{Level: 99}

	entry, ok := s.Skill(100)
	require.True(t, ok)
	assert.Equal(t, uint8(5), entry.Level, "mutating the snapshot must not affect stored state")
}

package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskAliasesHighBit(t *testing.T) {
	assert.Equal(t, uint16(0x0001), Mask(0x8001))
	assert.Equal(t, uint16(0x0001), Mask(0x0001))
}

func TestScopeMasking(t *testing.T) {
	// Scenario 3 (spec §8): server sends AddCharacter with raw id 0x8001.
	m := NewManager()
	m.AddOrUpdate(Object{Kind: KindPlayer, RawID: 0x8001, X: 100, Y: 120, Name: "Self"})

	assert.Equal(t, 1, m.Len())
	obj, ok := m.Get(0x0001)
	require.True(t, ok)
	assert.Equal(t, uint16(0x8001), obj.RawID)
	assert.Equal(t, uint8(100), obj.X)
	assert.Equal(t, uint8(120), obj.Y)

	// A subsequent ObjectMoved with raw id 0x0001 updates the same entry.
	assert.True(t, m.UpdatePositionByRawID(0x0001, 10, 20))
	obj, ok = m.Get(0x0001)
	require.True(t, ok)
	assert.Equal(t, uint8(10), obj.X)
	assert.Equal(t, uint8(20), obj.Y)
}

func TestMoneyVsItemClassification(t *testing.T) {
	moneyData := []byte{15, 0, 0, 0, 250, 0xE0, 0, 0, 0, 0, 0, 0}
	assert.True(t, IsMoneyDrop(moneyData))
	assert.Equal(t, uint32(250), MoneyAmount(moneyData))

	itemData := []byte{15, 0, 0, 0, 250, 0x20, 0, 0, 0, 0, 0, 0}
	assert.False(t, IsMoneyDrop(itemData))
}

func TestMapChangeClearsScopeExceptSelf(t *testing.T) {
	// Scenario 6 (spec §8): scope with self + three others; MapChanged
	// leaves at most the self entry; a later ObjectMoved for a removed id
	// is ignored.
	m := NewManager()
	m.AddOrUpdate(Object{Kind: KindPlayer, RawID: 0x0001, Name: "Self"})
	m.AddOrUpdate(Object{Kind: KindPlayer, RawID: 0x0002, Name: "Other1"})
	m.AddOrUpdate(Object{Kind: KindMonster, RawID: 0x0003})
	m.AddOrUpdate(Object{Kind: KindItem, RawID: 0x0004})
	require.Equal(t, 4, m.Len())

	m.ResetKeepingOnly(0x0001)

	assert.Equal(t, 1, m.Len())
	_, ok := m.Get(0x0001)
	assert.True(t, ok)

	assert.False(t, m.UpdatePositionByRawID(0x0002, 5, 5))
}

func TestRemoveReportsExistence(t *testing.T) {
	m := NewManager()
	m.AddOrUpdate(Object{Kind: KindItem, RawID: 0x0010})

	assert.True(t, m.Remove(Mask(0x0010)))
	assert.False(t, m.Remove(Mask(0x0010)))
}

func TestIterFiltersByKind(t *testing.T) {
	m := NewManager()
	m.AddOrUpdate(Object{Kind: KindPlayer, RawID: 1, Name: "A"})
	m.AddOrUpdate(Object{Kind: KindMonster, RawID: 2})
	m.AddOrUpdate(Object{Kind: KindMonster, RawID: 3})

	monsters := m.Iter(KindMonster)
	assert.Len(t, monsters, 2)

	all := m.Iter(-1)
	assert.Len(t, all, 3)
}

func TestFindNameResolvesPlayerAndNpc(t *testing.T) {
	m := NewManager()
	m.AddOrUpdate(Object{Kind: KindPlayer, RawID: 1, Name: "Hero"})
	m.AddOrUpdate(Object{Kind: KindNpc, RawID: 2, DisplayName: "Blacksmith"})

	name, ok := m.FindName(1)
	require.True(t, ok)
	assert.Equal(t, "Hero", name)

	name, ok = m.FindName(2)
	require.True(t, ok)
	assert.Equal(t, "Blacksmith", name)

	_, ok = m.FindName(99)
	assert.False(t, ok)
}

// Package scope holds the live set of world objects the server currently
// reports as visible to this client (spec §3 "ScopeObject", §4.6 "Scope").
//
// Grounded on the teacher's internal/world registry shape (a single mutex
// guarding a plain map, one writer at a time) rather than its sync.Map —
// this client's single-writer invariant (spec §5) means a plain map with
// an RWMutex is simpler and cheaper than la2go's multi-writer sync.Map.
package scope

import "sync"

// Kind discriminates the ScopeObject variants of spec §3.
type Kind int

const (
	KindPlayer Kind = iota
	KindNpc
	KindMonster
	KindItem
	KindMoney
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindNpc:
		return "npc"
	case KindMonster:
		return "monster"
	case KindItem:
		return "item"
	case KindMoney:
		return "money"
	default:
		return "unknown"
	}
}

// Object is the tagged-variant ScopeObject of spec §3: every kind carries
// masked_id/raw_id/x/y, plus kind-specific fields populated only for the
// matching Kind.
type Object struct {
	Kind     Kind
	MaskedID uint16
	RawID    uint16
	X, Y     uint8

	// Player
	Name string

	// Npc / Monster
	TypeNumber   uint16
	DisplayName  string

	// Item
	ItemData []byte

	// Money
	Amount uint32
}

// Mask returns the 15-bit masked object id for a raw wire id (spec §3,
// "the high bit is a transient newly-spawned marker").
func Mask(rawID uint16) uint16 {
	return rawID & 0x7FFF
}

// Manager is the concurrent, authoritative scope map: single writer (the
// receive loop), many concurrent readers (observers/CLI).
type Manager struct {
	mu      sync.RWMutex
	objects map[uint16]*Object
}

// NewManager returns an empty scope manager.
func NewManager() *Manager {
	return &Manager{objects: make(map[uint16]*Object)}
}

// AddOrUpdate upserts obj by its masked id, overwriting whichever entry
// (if any) was already keyed by that id.
func (m *Manager) AddOrUpdate(obj Object) {
	obj.MaskedID = Mask(obj.RawID)
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := obj
	m.objects[obj.MaskedID] = &cp
}

// Remove deletes the entry for masked_id, reporting whether one existed.
func (m *Manager) Remove(maskedID uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[maskedID]; !ok {
		return false
	}
	delete(m.objects, maskedID)
	return true
}

// RemoveByRawID masks rawID before removing, so callers never need to
// mask manually (spec §3, "lookups by raw id must consistently mask first").
func (m *Manager) RemoveByRawID(rawID uint16) bool {
	return m.Remove(Mask(rawID))
}

// UpdatePosition moves an existing entry, reporting whether it existed.
func (m *Manager) UpdatePosition(maskedID uint16, x, y uint8) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[maskedID]
	if !ok {
		return false
	}
	obj.X, obj.Y = x, y
	return true
}

// UpdatePositionByRawID masks rawID before updating.
func (m *Manager) UpdatePositionByRawID(rawID uint16, x, y uint8) bool {
	return m.UpdatePosition(Mask(rawID), x, y)
}

// FindName returns the display name for a raw id, if present. Players
// report Name; NPCs/Monsters report DisplayName.
func (m *Manager) FindName(rawID uint16) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[Mask(rawID)]
	if !ok {
		return "", false
	}
	switch obj.Kind {
	case KindPlayer:
		return obj.Name, true
	case KindNpc, KindMonster:
		return obj.DisplayName, true
	default:
		return "", false
	}
}

// Get returns a copy of the entry for masked_id, if present.
func (m *Manager) Get(maskedID uint16) (Object, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[maskedID]
	if !ok {
		return Object{}, false
	}
	return *obj, true
}

// Iter enumerates a snapshot of all objects matching kind. Passing a kind
// of -1 enumerates everything.
func (m *Manager) Iter(kind Kind) []Object {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Object, 0, len(m.objects))
	for _, obj := range m.objects {
		if kind >= 0 && obj.Kind != kind {
			continue
		}
		out = append(out, *obj)
	}
	return out
}

// Len reports the number of tracked objects.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}

// ResetKeepingOnly clears the scope map except for the single entry keyed
// by keepMaskedID, if present (spec §4.6 "MapChanged": "clears scope
// (except self if still present)").
func (m *Manager) ResetKeepingOnly(keepMaskedID uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept, ok := m.objects[keepMaskedID]
	m.objects = make(map[uint16]*Object)
	if ok {
		m.objects[keepMaskedID] = kept
	}
}

// IsMoneyDrop classifies an ItemsDropped record's item_data per spec §4.6:
// "a money drop is detected by the sentinel pattern item_data[0]==15 &&
// (item_data[5]>>4)==14". The open question (§9a) about this collision is
// intentionally preserved, not "fixed".
func IsMoneyDrop(itemData []byte) bool {
	if len(itemData) < 6 {
		return false
	}
	return itemData[0] == 15 && (itemData[5]>>4) == 14
}

// MoneyAmount extracts the 32-bit amount from a money-classified item_data
// blob: a big-endian uint32 at bytes [1:5] (scenario 4 of spec §8 encodes
// amount 250 with bytes 1-3 zero and byte 4 = 250, i.e. big-endian 250).
func MoneyAmount(itemData []byte) uint32 {
	if len(itemData) < 5 {
		return 0
	}
	return uint32(itemData[1])<<24 | uint32(itemData[2])<<16 | uint32(itemData[3])<<8 | uint32(itemData[4])
}

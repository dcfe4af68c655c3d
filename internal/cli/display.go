package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xulek/muonline-console-client/internal/client"
	"github.com/xulek/muonline-console-client/internal/scope"
)

// Scope handles "scope" — prints every object currently mirrored from the
// server (spec §3 "ScopeObject", §4.6 "Scope manager").
type Scope struct{}

func (Scope) Names() []string { return []string{"scope"} }
func (Scope) Usage() string   { return "scope" }

func (Scope) Run(c *client.Client, _ []string) (string, error) {
	objs := c.Scope().Iter(-1)
	if len(objs) == 0 {
		return "scope is empty", nil
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].MaskedID < objs[j].MaskedID })

	var b strings.Builder
	fmt.Fprintf(&b, "%d object(s) in scope:\n", len(objs))
	for _, o := range objs {
		switch o.Kind {
		case scope.KindPlayer:
			fmt.Fprintf(&b, "  [%04X] player %q at (%d,%d)\n", o.MaskedID, o.Name, o.X, o.Y)
		case scope.KindNpc, scope.KindMonster:
			fmt.Fprintf(&b, "  [%04X] %s %q (type %d) at (%d,%d)\n", o.MaskedID, o.Kind, o.DisplayName, o.TypeNumber, o.X, o.Y)
		case scope.KindItem:
			fmt.Fprintf(&b, "  [%04X] item (%d bytes) at (%d,%d)\n", o.MaskedID, len(o.ItemData), o.X, o.Y)
		case scope.KindMoney:
			fmt.Fprintf(&b, "  [%04X] money %d at (%d,%d)\n", o.MaskedID, o.Amount, o.X, o.Y)
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Stats handles "stats" — prints the authoritative self-state snapshot
// (spec §3 "CharacterState").
type Stats struct{}

func (Stats) Names() []string { return []string{"stats"} }
func (Stats) Usage() string   { return "stats" }

func (Stats) Run(c *client.Client, _ []string) (string, error) {
	st := c.State()
	level, exp, expToNext, levelPoints := st.Progression()
	hp, sd, mp, ag := st.HP(), st.SD(), st.MP(), st.AG()
	str, agi, vit, ene, lea := st.BaseStats()
	mapID, x, y := st.Location()

	var b strings.Builder
	fmt.Fprintf(&b, "name: %s (id=0x%04X)\n", st.Name(), st.ID())
	fmt.Fprintf(&b, "level %d  exp %d/%d  points %d\n", level, exp, expToNext, levelPoints)
	fmt.Fprintf(&b, "hp %d/%d  sd %d/%d  mp %d/%d  ag %d/%d\n", hp.Cur, hp.Max, sd.Cur, sd.Max, mp.Cur, mp.Max, ag.Cur, ag.Max)
	fmt.Fprintf(&b, "str %d  agi %d  vit %d  ene %d  lea %d\n", str, agi, vit, ene, lea)
	fmt.Fprintf(&b, "map %d  position (%d,%d)\n", mapID, x, y)
	fmt.Fprintf(&b, "zen %d", st.Zen())
	return b.String(), nil
}

// Inventory handles "inv" — prints occupied inventory slots (spec §3
// "Inventory: mapping slot -> item_data").
type Inventory struct{}

func (Inventory) Names() []string { return []string{"inv"} }
func (Inventory) Usage() string   { return "inv" }

func (Inventory) Run(c *client.Client, _ []string) (string, error) {
	slots := c.State().InventorySlots()
	if len(slots) == 0 {
		return "inventory is empty", nil
	}
	ids := make([]int, 0, len(slots))
	for slot := range slots {
		ids = append(ids, int(slot))
	}
	sort.Ints(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "%d occupied slot(s):\n", len(slots))
	for _, slot := range ids {
		data := slots[uint8(slot)]
		fmt.Fprintf(&b, "  slot %3d: %d byte(s)\n", slot, len(data))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Skills handles "skills" — prints the skill map (spec §3 "Skills").
type Skills struct{}

func (Skills) Names() []string { return []string{"skills"} }
func (Skills) Usage() string   { return "skills" }

func (Skills) Run(c *client.Client, _ []string) (string, error) {
	skills := c.State().Skills()
	if len(skills) == 0 {
		return "no skills known", nil
	}
	ids := make([]int, 0, len(skills))
	for id := range skills {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	var b strings.Builder
	fmt.Fprintf(&b, "%d skill(s):\n", len(skills))
	for _, id := range ids {
		entry := skills[uint16(id)]
		fmt.Fprintf(&b, "  skill 0x%04X: level %d", id, entry.Level)
		if entry.Display != nil {
			fmt.Fprintf(&b, "  display=%.2f", *entry.Display)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// Refresh handles "refresh" — re-prints the current phase/location/vitals
// summary without sending anything (spec §6 lists it alongside the other
// read-only inspection commands; there is no server request named
// "refresh" in §6's outbound table, so this is purely a local re-render).
type Refresh struct{}

func (Refresh) Names() []string { return []string{"refresh"} }
func (Refresh) Usage() string   { return "refresh" }

func (Refresh) Run(c *client.Client, _ []string) (string, error) {
	st := c.State()
	mapID, x, y := st.Location()
	return fmt.Sprintf("phase %s  map %d  position (%d,%d)  scope size %d", c.Phase(), mapID, x, y, c.Scope().Len()), nil
}

package cli

import (
	"fmt"
	"strconv"

	"github.com/xulek/muonline-console-client/internal/client"
	"github.com/xulek/muonline-console-client/internal/scope"
)

// Pickup handles "pickup near|<id>" (spec §6 "pickup near|<id>"): either an
// explicit raw object id, or "near" to pick up whichever item/money drop in
// scope is closest to the character's current position.
type Pickup struct{}

func (Pickup) Names() []string { return []string{"pickup"} }
func (Pickup) Usage() string   { return "pickup near|<id>" }

func (Pickup) Run(c *client.Client, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: %s", Pickup{}.Usage())
	}

	if args[1] == "near" {
		id, ok := nearestDrop(c)
		if !ok {
			return "no item or money drop in scope", nil
		}
		if err := c.Pickup(id); err != nil {
			return "", err
		}
		return fmt.Sprintf("pickup request sent: id=0x%04X", id), nil
	}

	id, err := strconv.ParseUint(args[1], 10, 16)
	if err != nil {
		return "", fmt.Errorf("invalid item id %q: %w", args[1], err)
	}
	if err := c.Pickup(uint16(id)); err != nil {
		return "", err
	}
	return fmt.Sprintf("pickup request sent: id=0x%04X", id), nil
}

// nearestDrop finds the item or money object in scope with the smallest
// Chebyshev distance to the character's current position.
func nearestDrop(c *client.Client) (uint16, bool) {
	_, x, y := c.State().Location()

	var (
		best    scope.Object
		bestSet bool
		bestD   int
	)
	candidates := append(c.Scope().Iter(scope.KindItem), c.Scope().Iter(scope.KindMoney)...)
	for _, obj := range candidates {
		d := chebyshev(x, y, obj.X, obj.Y)
		if !bestSet || d < bestD {
			best, bestD, bestSet = obj, d, true
		}
	}
	if !bestSet {
		return 0, false
	}
	return best.RawID, true
}

func chebyshev(x1, y1, x2, y2 uint8) int {
	dx := abs(int(x1) - int(x2))
	dy := abs(int(y1) - int(y2))
	if dx > dy {
		return dx
	}
	return dy
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

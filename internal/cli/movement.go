package cli

import (
	"fmt"
	"strconv"

	"github.com/xulek/muonline-console-client/internal/client"
)

func parseCoord(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return uint8(v), nil
}

// Move handles "move <x> <y>" — InstantMoveRequest (spec §6).
type Move struct{}

func (Move) Names() []string { return []string{"move"} }
func (Move) Usage() string   { return "move <x> <y>" }

func (Move) Run(c *client.Client, args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("usage: %s", Move{}.Usage())
	}
	x, err := parseCoord(args[1])
	if err != nil {
		return "", err
	}
	y, err := parseCoord(args[2])
	if err != nil {
		return "", err
	}
	if err := c.Move(x, y); err != nil {
		return "", err
	}
	return fmt.Sprintf("move request sent: (%d,%d)", x, y), nil
}

// compass is the logical direction order this CLI assigns steps in; the
// actual wire value is whatever cfg.DirectionMap permutes it to (spec §6
// "direction map (8-entry permutation")). Arbitrary but fixed, since
// nothing downstream depends on which logical index means which compass
// point — only that it's applied consistently.
const (
	dirN = iota
	dirNE
	dirE
	dirSE
	dirS
	dirSW
	dirW
	dirNW
)

// stepTowards returns the single logical direction (and the resulting
// position) that most directly closes the distance from (x,y) to
// (targetX,targetY), one tile at a time.
func stepTowards(x, y, targetX, targetY uint8) (dir uint8, nx, ny uint8) {
	dx, dy := sign(int(targetX)-int(x)), sign(int(targetY)-int(y))
	switch {
	case dx == 0 && dy < 0:
		dir = dirN
	case dx > 0 && dy < 0:
		dir = dirNE
	case dx > 0 && dy == 0:
		dir = dirE
	case dx > 0 && dy > 0:
		dir = dirSE
	case dx == 0 && dy > 0:
		dir = dirS
	case dx < 0 && dy > 0:
		dir = dirSW
	case dx < 0 && dy == 0:
		dir = dirW
	case dx < 0 && dy < 0:
		dir = dirNW
	default:
		return 0, x, y // already at target
	}
	return dir, uint8(int(x) + dx), uint8(int(y) + dy)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

// maxWalkSteps bounds a single WalkRequest's path length; the nibble-packed
// direction array has no protocol-named limit, but a generous cap avoids
// building pathological single packets for cross-map requests.
const maxWalkSteps = 15

// buildPath greedily steps from (srcX,srcY) towards (dstX,dstY), one tile
// per step, stopping at maxWalkSteps or on arrival.
func buildPath(srcX, srcY, dstX, dstY uint8) []uint8 {
	x, y := srcX, srcY
	var dirs []uint8
	for i := 0; i < maxWalkSteps && (x != dstX || y != dstY); i++ {
		dir, nx, ny := stepTowards(x, y, dstX, dstY)
		if nx == x && ny == y {
			break
		}
		dirs = append(dirs, dir)
		x, y = nx, ny
	}
	return dirs
}

// WalkTo handles "walkto <x> <y>" — computes a straight-line path from the
// character's current position and sends it as a WalkRequest (spec §6).
type WalkTo struct{}

func (WalkTo) Names() []string { return []string{"walkto"} }
func (WalkTo) Usage() string   { return "walkto <x> <y>" }

func (WalkTo) Run(c *client.Client, args []string) (string, error) {
	if len(args) != 3 {
		return "", fmt.Errorf("usage: %s", WalkTo{}.Usage())
	}
	dstX, err := parseCoord(args[1])
	if err != nil {
		return "", err
	}
	dstY, err := parseCoord(args[2])
	if err != nil {
		return "", err
	}

	_, srcX, srcY := c.State().Location()
	dirs := buildPath(srcX, srcY, dstX, dstY)
	if len(dirs) == 0 {
		return "already at target", nil
	}

	if err := c.WalkTo(srcX, srcY, dirs, dirs[len(dirs)-1]); err != nil {
		return "", err
	}
	return fmt.Sprintf("walk request sent: %d step(s) from (%d,%d) to (%d,%d)", len(dirs), srcX, srcY, dstX, dstY), nil
}

// Walk handles "walk <x> <y>" — the deprecated spelling of walkto (spec §6
// "walk X Y (deprecated)"), kept only so older command scripts keep
// working; it has identical behavior.
type Walk struct{}

func (Walk) Names() []string { return []string{"walk"} }
func (Walk) Usage() string   { return "walk <x> <y> (deprecated, use walkto)" }

func (w Walk) Run(c *client.Client, args []string) (string, error) {
	return WalkTo{}.Run(c, args)
}

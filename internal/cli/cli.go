// Package cli turns a line of human-facing input ("move 10 20") into an
// FSM-gated call on *client.Client (spec §6 "CLI surface: observer contract
// only... the core MUST accept these from the input pipe and dispatch them
// via FSM-gated methods"). The presentation layer itself — rendering,
// prompts — is explicitly out of scope (spec §1 Non-goals); this package is
// only the dispatch table the presentation layer drives.
//
// Grounded on the teacher's internal/gameserver/admin package: a
// name-lowercased map of Command implementations behind an RWMutex,
// registered once at startup and read-only thereafter. Collapsed from two
// tables (admin/user, access-level gated) to one, since every command here
// runs with the same "caller" and is gated by connection phase instead
// (client.Client's methods already enforce that through fsm.Machine.Check,
// per spec §8).
package cli

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xulek/muonline-console-client/internal/client"
)

// ErrExit is returned by the "exit" command to signal the input loop to
// stop reading further lines.
var ErrExit = errors.New("cli: exit requested")

// Command is one named console command.
type Command interface {
	// Names returns every name this command answers to (without prefix).
	Names() []string
	// Usage is a one-line "name <args>" summary shown on argument errors.
	Usage() string
	// Run executes the command against c with the full field list
	// (args[0] is the command name itself, matching the teacher's
	// admin.Command.Handle convention) and returns the text to print.
	Run(c *client.Client, args []string) (string, error)
}

// Dispatcher resolves a command line's leading word to a registered
// Command and runs it.
type Dispatcher struct {
	mu   sync.RWMutex
	cmds map[string]Command
}

// NewDispatcher returns an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{cmds: make(map[string]Command, 16)}
}

// Register installs cmd under every name it reports.
func (d *Dispatcher) Register(cmd Command) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, name := range cmd.Names() {
		d.cmds[strings.ToLower(name)] = cmd
	}
}

// Dispatch parses line's leading word as a command name and runs it
// against c. An empty line is a no-op.
func (d *Dispatcher) Dispatch(c *client.Client, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	name := strings.ToLower(fields[0])
	d.mu.RLock()
	cmd, ok := d.cmds[name]
	d.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown command: %s", name)
	}
	return cmd.Run(c, fields)
}

// RegisterDefaults installs the full CLI surface named in spec §6: move,
// walk (deprecated alias of walkto), walkto, pickup, select, scope, stats,
// inv, skills, refresh, exit.
func RegisterDefaults(d *Dispatcher) {
	d.Register(Move{})
	d.Register(WalkTo{})
	d.Register(Walk{})
	d.Register(Pickup{})
	d.Register(Select{})
	d.Register(Scope{})
	d.Register(Stats{})
	d.Register(Inventory{})
	d.Register(Skills{})
	d.Register(Refresh{})
	d.Register(Exit{})
}

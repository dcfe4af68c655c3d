package cli

import (
	"fmt"

	"github.com/xulek/muonline-console-client/internal/client"
)

// Select handles "select <name>" — SelectCharacter (spec §6).
type Select struct{}

func (Select) Names() []string { return []string{"select"} }
func (Select) Usage() string   { return "select <name>" }

func (Select) Run(c *client.Client, args []string) (string, error) {
	if len(args) != 2 {
		return "", fmt.Errorf("usage: %s", Select{}.Usage())
	}
	if err := c.SelectCharacter(args[1]); err != nil {
		return "", err
	}
	return fmt.Sprintf("select request sent: %s", args[1]), nil
}

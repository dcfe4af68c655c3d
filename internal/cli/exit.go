package cli

import "github.com/xulek/muonline-console-client/internal/client"

// Exit handles "exit" — signals the input loop to stop (spec §6).
type Exit struct{}

func (Exit) Names() []string { return []string{"exit", "quit"} }
func (Exit) Usage() string   { return "exit" }

func (Exit) Run(c *client.Client, _ []string) (string, error) {
	_ = c.Disconnect()
	return "", ErrExit
}

package module

import (
	"fmt"

	"github.com/hpungsan/tetra/internal/errors"
)

// Command is a named action installed by a module (menu entry, shortcut).
type Command struct {
	Name     string
	Title    string
	Shortcut string
	Run      func() error
}

// Commands is the host's command table.
type Commands struct {
	order  []string
	byName map[string]Command
}

func NewCommands() *Commands {
	return &Commands{byName: make(map[string]Command)}
}

// Register adds cmd. Names are unique.
func (c *Commands) Register(cmd Command) error {
	if cmd.Name == "" || cmd.Run == nil {
		return errors.NewInvalidRequest("command needs a name and a run function")
	}
	if _, exists := c.byName[cmd.Name]; exists {
		return errors.NewInvalidRequest(fmt.Sprintf("command %q already registered", cmd.Name))
	}
	c.byName[cmd.Name] = cmd
	c.order = append(c.order, cmd.Name)
	return nil
}

// Unregister removes the named command if present.
func (c *Commands) Unregister(name string) {
	if _, ok := c.byName[name]; !ok {
		return
	}
	delete(c.byName, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Commands) Lookup(name string) (Command, bool) {
	cmd, ok := c.byName[name]
	return cmd, ok
}

// All returns the commands in registration order.
func (c *Commands) All() []Command {
	out := make([]Command, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.byName[n])
	}
	return out
}

// Execute runs the named command.
func (c *Commands) Execute(name string) error {
	cmd, ok := c.byName[name]
	if !ok {
		return errors.NewNotFound("command", name)
	}
	return cmd.Run()
}

package engine

import (
	"fmt"
	"strings"
)

// Categories for organizing commands.
const (
	CategoryStory  = "story"
	CategorySystem = "system"
)

// Canonical command names.
const (
	CmdLook      = "look"
	CmdSail      = "sail"
	CmdBoard     = "board"
	CmdSearch    = "search"
	CmdFight     = "fight"
	CmdNegotiate = "negotiate"
	CmdUnlock    = "unlock"

	CmdHelp      = "help"
	CmdInventory = "inventory"
	CmdStatus    = "status"
	CmdHint      = "hint"
	CmdSave      = "save"
	CmdLoad      = "load"
	CmdQuit      = "quit"
)

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Help is the short help text displayed to players.
	Help string
	// Category is CategoryStory for commands scenes react to and
	// CategorySystem for commands that work everywhere.
	Category string
}

// BuiltinCommands returns every command in help-menu order.
func BuiltinCommands() []Command {
	return []Command{
		{Name: CmdLook, Aliases: []string{"l", "examine", "x", "look around"}, Help: "Observe your surroundings", Category: CategoryStory},
		{Name: CmdSail, Aliases: []string{"set sail"}, Help: "Set sail for a new destination", Category: CategoryStory},
		{Name: CmdBoard, Aliases: []string{"land", "enter"}, Help: "Board a ship or enter a location", Category: CategoryStory},
		{Name: CmdSearch, Aliases: []string{"read", "explore"}, Help: "Look for clues or treasure", Category: CategoryStory},
		{Name: CmdFight, Aliases: []string{"attack"}, Help: "Engage in battle", Category: CategoryStory},
		{Name: CmdNegotiate, Aliases: []string{"talk", "parley"}, Help: "Attempt to parley with others", Category: CategoryStory},
		{Name: CmdUnlock, Aliases: []string{"open"}, Help: "Try to open a locked object or passage", Category: CategoryStory},

		{Name: CmdInventory, Aliases: []string{"i", "inv"}, Help: "List what you carry", Category: CategorySystem},
		{Name: CmdStatus, Aliases: []string{"stats"}, Help: "Show health, reputation, skills and achievements", Category: CategorySystem},
		{Name: CmdHint, Aliases: nil, Help: "Ask for a nudge in the right direction", Category: CategorySystem},
		{Name: CmdSave, Aliases: nil, Help: "Save your progress", Category: CategorySystem},
		{Name: CmdLoad, Aliases: []string{"restore"}, Help: "Load your saved progress", Category: CategorySystem},
		{Name: CmdHelp, Aliases: []string{"h", "?"}, Help: "Show this help menu", Category: CategorySystem},
		{Name: CmdQuit, Aliases: []string{"exit", "q"}, Help: "Leave the adventure", Category: CategorySystem},
	}
}

// storyCommands indexes the story commands by name and alias.
var storyCommands = func() map[string]*Command {
	m := make(map[string]*Command)
	for _, c := range DefaultRegistry().Commands() {
		if c.Category != CategoryStory {
			continue
		}
		m[c.Name] = c
		for _, a := range c.Aliases {
			m[a] = c
		}
	}
	return m
}()

// Registry maps command names and aliases to Command definitions.
type Registry struct {
	ordered  []*Command
	commands map[string]*Command // canonical name → command
	aliases  map[string]string   // alias → canonical name
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a canonical name or alias.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{
		commands: make(map[string]*Command, len(cmds)),
		aliases:  make(map[string]string),
	}

	for i := range cmds {
		cmd := &cmds[i]
		if _, exists := r.commands[cmd.Name]; exists {
			return nil, fmt.Errorf("duplicate command name: %q", cmd.Name)
		}
		if _, exists := r.aliases[cmd.Name]; exists {
			return nil, fmt.Errorf("command name %q conflicts with an existing alias", cmd.Name)
		}
		r.commands[cmd.Name] = cmd
		r.ordered = append(r.ordered, cmd)

		for _, alias := range cmd.Aliases {
			if _, exists := r.commands[alias]; exists {
				return nil, fmt.Errorf("alias %q of %q conflicts with an existing command name", alias, cmd.Name)
			}
			if existing, exists := r.aliases[alias]; exists {
				return nil, fmt.Errorf("duplicate alias %q: used by %q and %q", alias, existing, cmd.Name)
			}
			r.aliases[alias] = cmd.Name
		}
	}

	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias.
func (r *Registry) Resolve(input string) (*Command, bool) {
	if cmd, ok := r.commands[input]; ok {
		return cmd, true
	}
	if canonical, ok := r.aliases[input]; ok {
		return r.commands[canonical], true
	}
	return nil, false
}

func (r *Registry) resolvesTo(input, name string) bool {
	cmd, ok := r.Resolve(input)
	return ok && cmd.Name == name
}

// Commands returns all registered commands in registration order.
func (r *Registry) Commands() []*Command {
	return r.ordered
}

// Normalize lowercases s, trims it and collapses runs of whitespace.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Canonical maps a line of player input to a canonical command name. The
// whole line is tried first so multi-word aliases like "set sail" resolve,
// then its first word, so "search the huts" means search. Unknown input is
// returned normalized.
func (r *Registry) Canonical(input string) string {
	line := Normalize(input)
	if cmd, ok := r.Resolve(line); ok {
		return cmd.Name
	}
	if word, _, found := strings.Cut(line, " "); found {
		if cmd, ok := r.Resolve(word); ok {
			return cmd.Name
		}
	}
	return line
}

// HelpText renders the help menu.
func (r *Registry) HelpText() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	for _, cmd := range r.ordered {
		name := cmd.Name
		if len(cmd.Aliases) > 0 {
			name += " (" + strings.Join(cmd.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "  %-32s - %s\n", name, cmd.Help)
	}
	return strings.TrimRight(b.String(), "\n")
}

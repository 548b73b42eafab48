package repl

import (
	"strings"

	"github.com/robojar/pumpd/internal/core/domain"
)

// Completer knows the commands pumpd recognizes.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			string(domain.CommandStartPump),
			string(domain.CommandStopPump),
		},
	}
}

// Commands returns the recognized commands.
func (c *Completer) Commands() []string {
	return append([]string(nil), c.commands...)
}

// Known reports whether line is a recognized command as typed.
func (c *Completer) Known(line string) bool {
	return domain.Command(line).Known()
}

// Complete returns recognized commands sharing a prefix with prefix, or
// containing it when nothing shares a prefix.
func (c *Completer) Complete(prefix string) []string {
	if prefix == "" {
		return nil
	}
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	if len(suggestions) > 0 {
		return suggestions
	}
	for _, cmd := range c.commands {
		if strings.Contains(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

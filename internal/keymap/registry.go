// Package keymap resolves key presses to commands per UI context.
package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// descriptions are the help labels shown in the footer.
var descriptions = map[string]string{
	"quit":         "quit",
	"toggle-theme": "theme",
	"submit":       "save note",
	"switch-focus": "switch pane",
	"cursor-up":    "up",
	"cursor-down":  "down",
	"cursor-left":  "left",
	"cursor-right": "right",
	"view":         "view",
	"copy":         "copy",
	"delete":       "delete",
	"close":        "close",
	"confirm":      "confirm",
	"cancel":       "cancel",
}

// Registry looks up commands by context and key.
type Registry struct {
	commands map[string]map[string]string // context -> key -> command
	order    map[string][]string          // context -> commands in declaration order
	keys     map[string]map[string][]string
}

// NewRegistry builds a registry from bindings.
func NewRegistry(bindings []Binding) *Registry {
	r := &Registry{
		commands: make(map[string]map[string]string),
		order:    make(map[string][]string),
		keys:     make(map[string]map[string][]string),
	}
	for _, b := range bindings {
		if r.commands[b.Context] == nil {
			r.commands[b.Context] = make(map[string]string)
			r.keys[b.Context] = make(map[string][]string)
		}
		r.commands[b.Context][b.Key] = b.Command
		if _, seen := r.keys[b.Context][b.Command]; !seen {
			r.order[b.Context] = append(r.order[b.Context], b.Command)
		}
		r.keys[b.Context][b.Command] = append(r.keys[b.Context][b.Command], b.Key)
	}
	return r
}

// Default returns a registry with DefaultBindings.
func Default() *Registry {
	return NewRegistry(DefaultBindings())
}

// Command returns the command bound to key in context, falling back to
// global bindings. Returns "" if nothing matches.
func (r *Registry) Command(context, key string) string {
	if cmd, ok := r.commands[context][key]; ok {
		return cmd
	}
	return r.commands[ContextGlobal][key]
}

// Help returns one help binding per command available in context,
// followed by the global ones.
func (r *Registry) Help(context string) []key.Binding {
	var out []key.Binding
	for _, ctx := range []string{context, ContextGlobal} {
		for _, cmd := range r.order[ctx] {
			keys := r.keys[ctx][cmd]
			out = append(out, key.NewBinding(
				key.WithKeys(keys...),
				key.WithHelp(strings.Join(keys, "/"), descriptions[cmd]),
			))
		}
		if context == ContextGlobal {
			break
		}
	}
	return out
}

package keymap

// Contexts in which bindings apply.
const (
	ContextGlobal = "global"
	ContextDraft  = "draft"
	ContextList   = "list"
	ContextView   = "view"
	ContextPrompt = "prompt"
)

// Binding maps a key to a command within a context.
type Binding struct {
	Key     string
	Command string
	Context string
}

// DefaultBindings returns the default key bindings.
func DefaultBindings() []Binding {
	return []Binding{
		// Global bindings
		{Key: "ctrl+c", Command: "quit", Context: ContextGlobal},

		// Draft editor
		{Key: "ctrl+s", Command: "submit", Context: ContextDraft},
		{Key: "tab", Command: "switch-focus", Context: ContextDraft},
		{Key: "esc", Command: "switch-focus", Context: ContextDraft},
		{Key: "ctrl+t", Command: "toggle-theme", Context: ContextDraft},

		// Note list
		{Key: "tab", Command: "switch-focus", Context: ContextList},
		{Key: "k", Command: "cursor-up", Context: ContextList},
		{Key: "up", Command: "cursor-up", Context: ContextList},
		{Key: "j", Command: "cursor-down", Context: ContextList},
		{Key: "down", Command: "cursor-down", Context: ContextList},
		{Key: "h", Command: "cursor-left", Context: ContextList},
		{Key: "left", Command: "cursor-left", Context: ContextList},
		{Key: "l", Command: "cursor-right", Context: ContextList},
		{Key: "right", Command: "cursor-right", Context: ContextList},
		{Key: "enter", Command: "view", Context: ContextList},
		{Key: "v", Command: "view", Context: ContextList},
		{Key: "c", Command: "copy", Context: ContextList},
		{Key: "y", Command: "copy", Context: ContextList},
		{Key: "d", Command: "delete", Context: ContextList},
		{Key: "t", Command: "toggle-theme", Context: ContextList},
		{Key: "q", Command: "quit", Context: ContextList},

		// Note view modal
		{Key: "esc", Command: "close", Context: ContextView},
		{Key: "q", Command: "close", Context: ContextView},
		{Key: "enter", Command: "close", Context: ContextView},
		{Key: "c", Command: "copy", Context: ContextView},
		{Key: "y", Command: "copy", Context: ContextView},
		{Key: "d", Command: "delete", Context: ContextView},
		{Key: "t", Command: "toggle-theme", Context: ContextView},

		// Delete secret prompt
		{Key: "enter", Command: "confirm", Context: ContextPrompt},
		{Key: "esc", Command: "cancel", Context: ContextPrompt},
	}
}

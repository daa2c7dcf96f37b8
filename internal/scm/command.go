package scm

import "context"

// RepoState is the repository-level state command predicates see.
type RepoState struct {
	Branch   string
	Upstream string
	Ahead    int
	Behind   int
	Clean    bool
	Merging  bool
	Rebasing bool
}

// CommandContext is the state a command's predicates and action are
// evaluated against: the current selection, the live groups, and the
// repository state.
type CommandContext struct {
	Selection *Resource
	Groups    []*ResourceGroup
	State     RepoState
}

// Command is one contributed action: a key-dispatched operation gated by
// Enabled/Visible predicates. A nil predicate means always.
type Command struct {
	ID      string
	Title   string
	Key     string
	Enabled func(CommandContext) bool
	Visible func(CommandContext) bool
	Run     func(context.Context, CommandContext) error
}

// IsEnabled evaluates the Enabled predicate.
func (c Command) IsEnabled(cc CommandContext) bool {
	return c.Enabled == nil || c.Enabled(cc)
}

// IsVisible evaluates the Visible predicate.
func (c Command) IsVisible(cc CommandContext) bool {
	return c.Visible == nil || c.Visible(cc)
}

// Registry holds contributed commands in registration order and
// dispatches them by key.
type Registry struct {
	order []Command
	byKey map[string]int
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]int)}
}

// Register adds a command. A later registration with the same key
// shadows the earlier one.
func (r *Registry) Register(cmd Command) {
	r.byKey[cmd.Key] = len(r.order)
	r.order = append(r.order, cmd)
}

// ByKey returns the command bound to key.
func (r *Registry) ByKey(key string) (Command, bool) {
	idx, ok := r.byKey[key]
	if !ok {
		return Command{}, false
	}
	return r.order[idx], true
}

// Visible returns the commands whose Visible predicate passes, in
// registration order. The panel's command bar renders this.
func (r *Registry) Visible(cc CommandContext) []Command {
	out := make([]Command, 0, len(r.order))
	for _, cmd := range r.order {
		if cmd.IsVisible(cc) {
			out = append(out, cmd)
		}
	}
	return out
}

// Dispatch runs the command bound to key against cc. It reports whether
// the key was bound at all; a bound but disabled or invisible command is
// a handled no-op.
func (r *Registry) Dispatch(ctx context.Context, key string, cc CommandContext) (bool, error) {
	cmd, ok := r.ByKey(key)
	if !ok {
		return false, nil
	}
	if !cmd.IsVisible(cc) || !cmd.IsEnabled(cc) {
		return true, nil
	}
	if cmd.Run == nil {
		return true, nil
	}
	return true, cmd.Run(ctx, cc)
}

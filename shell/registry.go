package shell

import (
	"fmt"
	"sync"
)

// RunFunc executes a command with the arguments following the verb.
type RunFunc func(sess *Session, args []string) error

// Command is a verb the dispatcher knows about.
type Command struct {
	Name    string
	Aliases []string
	Usage   string // e.g. "cp <src> <dst>"
	Summary string
	Run     RunFunc
}

// Registry maps verbs (names and aliases) to commands and keeps them in
// registration order.
type Registry struct {
	mu       sync.RWMutex
	commands []*Command
	byVerb   map[string]*Command
}

func NewRegistry() *Registry {
	return &Registry{
		byVerb: make(map[string]*Command),
	}
}

// Register adds cmd under its name and all of its aliases. Nothing is
// registered if any of those verbs is already taken.
func (r *Registry) Register(cmd *Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	verbs := append([]string{cmd.Name}, cmd.Aliases...)
	for _, v := range verbs {
		if _, exists := r.byVerb[v]; exists {
			return fmt.Errorf("%w: %q", ErrDuplicateCommand, v)
		}
	}
	for _, v := range verbs {
		r.byVerb[v] = cmd
	}
	r.commands = append(r.commands, cmd)
	return nil
}

// Lookup finds the command for an exact verb.
func (r *Registry) Lookup(verb string) (*Command, bool) {
	r.mu.RLock()
	cmd, ok := r.byVerb[verb]
	r.mu.RUnlock()
	return cmd, ok
}

// Commands returns the registered commands in registration order.
func (r *Registry) Commands() []*Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Command(nil), r.commands...)
}

// Verbs returns every accepted verb in registration order, each command's
// name followed by its aliases.
func (r *Registry) Verbs() []string {
	var verbs []string
	for _, c := range r.Commands() {
		verbs = append(verbs, c.Name)
		verbs = append(verbs, c.Aliases...)
	}
	return verbs
}

// Names returns the primary command names in registration order.
func (r *Registry) Names() []string {
	cmds := r.Commands()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name)
	}
	return names
}

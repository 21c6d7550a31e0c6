package shell

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/vfshell/internal/util"
)

// Dispatcher turns command lines into command invocations. Failures never
// escape as panics: they are written to the session output as a single line
// and returned.
type Dispatcher struct {
	registry *Registry
}

// NewDispatcher returns a dispatcher with all builtin commands registered.
func NewDispatcher() *Dispatcher {
	d := NewEmptyDispatcher()
	RegisterBuiltins(d.registry)
	return d
}

// NewEmptyDispatcher returns a dispatcher without any commands.
func NewEmptyDispatcher() *Dispatcher {
	return &Dispatcher{registry: NewRegistry()}
}

// Registry exposes the command registry, e.g. to add commands.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch runs line in sess. Blank lines are a no-op. The first
// whitespace delimited token selects the command by exact name or alias.
func (d *Dispatcher) Dispatch(sess *Session, line string) error {
	logger := util.GetLogger("Shell.Dispatch")

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := fields[0], fields[1:]
	logger.Debug().Str("session", sess.ID.String()).Str("verb", verb).Strs("args", args).Msg("Dispatching")

	cmd, ok := d.registry.Lookup(verb)
	if !ok {
		err := fmt.Errorf("%w: %s. Available: %s", ErrUnknownCommand, verb, strings.Join(d.registry.Verbs(), ", "))
		sess.Println(err.Error())
		return err
	}

	if err := run(cmd, sess, args); err != nil {
		cerr := &CommandError{Verb: verb, Err: err}
		logger.Debug().Err(err).Str("verb", verb).Msg("Command failed")
		sess.Println(cerr.Error())
		return cerr
	}
	return nil
}

func run(cmd *Command, sess *Session, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			util.GetLogger("Shell.run").Error().Interface("panic", r).Str("command", cmd.Name).Msg("Recovered from command panic")
			err = fmt.Errorf("internal error: %v", r)
		}
	}()
	return cmd.Run(sess, args)
}

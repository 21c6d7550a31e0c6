package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"slices"
	"time"

	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/google/uuid"
)

// Tree gives a session access to the loaded tree. Root returns nil while no
// tree is loaded.
type Tree interface {
	Root() *filesystem.Directory
	Source() string
}

// StaticTree is a [Tree] over a fixed root.
type StaticTree struct {
	Dir  *filesystem.Directory
	Path string
}

func (t StaticTree) Root() *filesystem.Directory { return t.Dir }
func (t StaticTree) Source() string              { return t.Path }

// Session is the state of one interactive or scripted shell. It is not safe
// for concurrent use.
type Session struct {
	ID      uuid.UUID
	User    string
	Host    string
	Started time.Time

	tree   Tree
	out    io.Writer
	cwd    []string
	now    func() time.Time
	ctx    context.Context
	cancel context.CancelFunc
}

// SessionOption customizes a new [Session].
type SessionOption func(*Session)

// WithIdentity overrides the user and host shown in the prompt.
func WithIdentity(user, host string) SessionOption {
	return func(s *Session) {
		s.User, s.Host = user, host
	}
}

// WithClock replaces the time source used for uptime reporting.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession starts a session at the root of tree writing its output to out.
// The session ends when ctx is cancelled or [Session.Terminate] is called.
func NewSession(ctx context.Context, tree Tree, out io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		ID:   uuid.New(),
		User: currentUser(),
		Host: currentHost(),
		tree: tree,
		out:  out,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Started = s.now()
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

// Root returns the loaded tree or nil.
func (s *Session) Root() *filesystem.Directory {
	if s.tree == nil {
		return nil
	}
	return s.tree.Root()
}

// Source returns where the tree was loaded from.
func (s *Session) Source() string {
	if s.tree == nil {
		return ""
	}
	return s.tree.Source()
}

// Cwd returns a copy of the current location's segments.
func (s *Session) Cwd() []string {
	return slices.Clone(s.cwd)
}

// Location returns the current location as an absolute path.
func (s *Session) Location() string {
	return filesystem.Join(s.cwd)
}

func (s *Session) setCwd(segs []string) {
	s.cwd = segs
}

// Prompt returns the prefix echoed in front of a command line.
func (s *Session) Prompt() string {
	return fmt.Sprintf("%s@%s:~$ ", s.User, s.Host)
}

// Echo writes line preceded by the prompt.
func (s *Session) Echo(line string) {
	s.Println(s.Prompt() + line)
}

// Println writes one line of output.
func (s *Session) Println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

// Printf writes formatted output followed by a newline.
func (s *Session) Printf(format string, a ...any) {
	fmt.Fprintf(s.out, format+"\n", a...)
}

// Context is cancelled once the session ends.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Done is closed once the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Terminate ends the session. Calling it again has no effect.
func (s *Session) Terminate() {
	s.cancel()
}

// Terminated reports whether the session has ended.
func (s *Session) Terminated() bool {
	return s.ctx.Err() != nil
}

// Uptime returns how long the session has been running.
func (s *Session) Uptime() time.Duration {
	return s.now().Sub(s.Started)
}

func currentUser() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	return "user"
}

func currentHost() string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return "localhost"
}

package server

import (
	"context"
	"io"

	"github.com/brettbedarf/vfshell/config"
	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/brettbedarf/vfshell/internal/fusefs"
	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/brettbedarf/vfshell/loader"
	"github.com/brettbedarf/vfshell/script"
	"github.com/brettbedarf/vfshell/shell"
	"github.com/google/uuid"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/hashicorp/go-multierror"
	"github.com/puzpuzpuz/xsync/v4"
)

const (
	Banner      = "Type exit to quit."
	noneValue   = "(none)"
	paramsOpen  = "=== startup parameters ==="
	paramsClose = "=========================="
)

// Engine owns the loaded tree and the sessions working on it. The tree
// itself is only touched from the goroutine driving a session.
type Engine struct {
	cfg        *config.Config
	root       *filesystem.Directory
	source     string
	dispatcher *shell.Dispatcher
	sequencer  *script.Sequencer
	sessions   *xsync.Map[uuid.UUID, *shell.Session]
	server     *fuse.Server
}

// New creates an Engine given your config. No tree is loaded yet.
func New(cfg *config.Config) *Engine {
	d := shell.NewDispatcher()
	return &Engine{
		cfg:        cfg,
		dispatcher: d,
		sequencer:  script.New(d, cfg.ScriptStartDelay, cfg.ScriptDelay),
		sessions:   xsync.NewMap[uuid.UUID, *shell.Session](),
	}
}

// Root returns the loaded tree or nil.
func (e *Engine) Root() *filesystem.Directory { return e.root }

// Source returns the path the tree was loaded from.
func (e *Engine) Source() string { return e.source }

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config { return e.cfg }

// Dispatcher returns the command dispatcher shared by all sessions.
func (e *Engine) Dispatcher() *shell.Dispatcher { return e.dispatcher }

// Sequencer returns the script sequencer.
func (e *Engine) Sequencer() *script.Sequencer { return e.sequencer }

// LoadTree replaces the tree with the description at p. On failure the
// engine is left without a tree.
func (e *Engine) LoadTree(p string) error {
	logger := util.GetLogger("Engine.LoadTree")

	root, err := loader.LoadFile(p)
	if err != nil {
		e.root, e.source = nil, ""
		logger.Warn().Err(err).Str("path", p).Msg("Failed to load tree description")
		return err
	}
	e.root, e.source = root, p
	logger.Info().Str("path", p).Msg("Tree description loaded")
	return nil
}

// SetRoot installs an already built tree.
func (e *Engine) SetRoot(root *filesystem.Directory, source string) {
	e.root, e.source = root, source
}

// NewSession registers a new session writing to out.
func (e *Engine) NewSession(ctx context.Context, out io.Writer, opts ...shell.SessionOption) *shell.Session {
	sess := shell.NewSession(ctx, e, out, opts...)
	e.sessions.Store(sess.ID, sess)
	util.GetLogger("Engine.NewSession").Debug().Str("session", sess.ID.String()).Msg("Session opened")
	return sess
}

// Session looks up an open session.
func (e *Engine) Session(id uuid.UUID) (*shell.Session, bool) {
	return e.sessions.Load(id)
}

// SessionCount returns the number of open sessions.
func (e *Engine) SessionCount() int {
	return e.sessions.Size()
}

// CloseSession ends sess and forgets it.
func (e *Engine) CloseSession(sess *shell.Session) {
	sess.Terminate()
	e.sessions.Delete(sess.ID)
	util.GetLogger("Engine.CloseSession").Debug().Str("session", sess.ID.String()).Msg("Session closed")
}

// Exec runs one command line in sess. Failures are already reported to the
// session output; the returned error is informational.
func (e *Engine) Exec(sess *shell.Session, line string) error {
	return e.dispatcher.Dispatch(sess, line)
}

// RunScript replays the script at p in sess. A script that cannot be read is
// reported to the session and returned.
func (e *Engine) RunScript(ctx context.Context, sess *shell.Session, p string) error {
	lines, err := script.ReadFile(p)
	if err != nil {
		sess.Println(err.Error())
		return err
	}
	return e.sequencer.Run(ctx, sess, lines)
}

// Boot loads the configured tree, prints the startup report and replays the
// configured script. Neither a load failure nor a script failure is fatal:
// they are reported to sess and the returned error only describes them.
func (e *Engine) Boot(ctx context.Context, sess *shell.Session) error {
	logger := util.GetLogger("Engine.Boot")

	var result *multierror.Error
	if p := e.cfg.TreePath; p != "" {
		if err := e.LoadTree(p); err != nil {
			sess.Printf("VFS load error: %v", err)
			result = multierror.Append(result, err)
		} else {
			sess.Printf("VFS loaded from: %s", p)
		}
	}

	sess.Println(paramsOpen)
	sess.Printf("VFS path: %s", orNone(e.cfg.TreePath))
	sess.Printf("Startup script: %s", orNone(e.cfg.ScriptPath))
	sess.Println(paramsClose)
	sess.Println(Banner)

	if e.cfg.ScriptPath != "" {
		logger.Debug().Str("script", e.cfg.ScriptPath).Msg("Replaying startup script")
		if err := e.RunScript(ctx, sess, e.cfg.ScriptPath); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Serve mounts a read-only snapshot of the tree at mountPoint.
func (e *Engine) Serve(mountPoint string) error {
	if e.root == nil {
		return filesystem.ErrNotLoaded
	}
	srv, err := fusefs.Mount(mountPoint, e.root, e.cfg.MountOptions, e.cfg.LogLvl)
	if err != nil {
		return err
	}
	e.server = srv
	return nil
}

// Wait blocks until the mounted filesystem is unmounted.
func (e *Engine) Wait() {
	if e.server != nil {
		e.server.Wait()
	}
}

// Unmount cleanly unmounts the filesystem.
func (e *Engine) Unmount() error {
	if e.server == nil {
		return nil
	}
	return e.server.Unmount()
}

func orNone(s string) string {
	if s == "" {
		return noneValue
	}
	return s
}

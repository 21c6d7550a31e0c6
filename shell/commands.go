package shell

import (
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/brettbedarf/vfshell/filesystem"
	"github.com/brettbedarf/vfshell/inspect"
)

const (
	emptyDirMarker = "(empty directory)"
	exitMessage    = "Exiting..."
	procUptime     = "/proc/uptime"
)

func usage(u string) error {
	return fmt.Errorf("%w: %s", ErrUsage, u)
}

// resolve looks p up from the session's location.
func resolve(sess *Session, op, p string) (filesystem.Node, error) {
	root := sess.Root()
	if root == nil {
		return nil, filesystem.ErrNotLoaded
	}
	node, err := filesystem.Resolve(root, sess.Cwd(), p)
	if err != nil {
		return nil, &filesystem.PathError{Op: op, Path: p, Err: err}
	}
	return node, nil
}

func cmdList(sess *Session, args []string) error {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	node, err := resolve(sess, "ls", target)
	if err != nil {
		return err
	}

	switch n := node.(type) {
	case *filesystem.Directory:
		if n.IsEmpty() {
			sess.Println(emptyDirMarker)
			return nil
		}
		names := make([]string, 0, n.Len())
		for _, child := range n.Children() {
			switch child.(type) {
			case *filesystem.Directory:
				names = append(names, child.Name()+filesystem.Separator)
			case *filesystem.File:
				names = append(names, child.Name())
			}
		}
		sess.Println(strings.Join(names, "  "))
	case *filesystem.File:
		sess.Println(n.Name())
	default:
		return filesystem.ErrUnknownNode
	}
	return nil
}

func cmdChangeLocation(sess *Session, args []string) error {
	target := filesystem.Separator
	if len(args) > 0 {
		target = args[0]
	}
	node, err := resolve(sess, "cd", target)
	if err != nil {
		return err
	}
	switch node.(type) {
	case *filesystem.Directory:
		sess.setCwd(filesystem.Normalize(sess.Cwd(), target))
		sess.Println(sess.Location())
		return nil
	case *filesystem.File:
		return &filesystem.PathError{Op: "cd", Path: target, Err: filesystem.ErrNotDir}
	default:
		return filesystem.ErrUnknownNode
	}
}

func cmdShowContent(sess *Session, args []string) error {
	if len(args) == 0 {
		return usage("cat <path>")
	}
	node, err := resolve(sess, "cat", args[0])
	if err != nil {
		return err
	}
	switch n := node.(type) {
	case *filesystem.File:
		for _, line := range inspect.Classify(n.Bytes()).Lines() {
			sess.Println(line)
		}
		return nil
	case *filesystem.Directory:
		return &filesystem.PathError{Op: "cat", Path: args[0], Err: filesystem.ErrIsDir}
	default:
		return filesystem.ErrUnknownNode
	}
}

func cmdTreeStats(sess *Session, _ []string) error {
	root := sess.Root()
	if root == nil {
		return filesystem.ErrNotLoaded
	}
	st := filesystem.CountTree(root)
	sess.Printf("VFS loaded from: %s", sess.Source())
	sess.Printf("Directories: %d, Files: %d, Max depth: %d", st.Dirs, st.Files, st.MaxDepth)
	return nil
}

func cmdCopy(sess *Session, args []string) error {
	if len(args) < 2 {
		return usage("cp <src> <dst>")
	}
	root := sess.Root()
	if root == nil {
		return filesystem.ErrNotLoaded
	}
	written, err := filesystem.CopyFile(root, sess.Cwd(), args[0], args[1])
	if err != nil {
		return err
	}
	sess.Printf("copied %s -> %s", args[0], written)
	return nil
}

func cmdRemoveDir(sess *Session, args []string) error {
	if len(args) == 0 {
		return usage("rmdir <path>")
	}
	root := sess.Root()
	if root == nil {
		return filesystem.ErrNotLoaded
	}
	if err := filesystem.RemoveDir(root, sess.Cwd(), args[0]); err != nil {
		return err
	}
	sess.Printf("removed %s", args[0])
	return nil
}

// cmdFind prints every path matching a glob. Relative patterns are anchored
// at the current location.
func cmdFind(sess *Session, args []string) error {
	if len(args) == 0 {
		return usage("find <pattern>")
	}
	root := sess.Root()
	if root == nil {
		return filesystem.ErrNotLoaded
	}
	pattern := args[0]
	if !filesystem.IsAbs(pattern) {
		pattern = path.Join(sess.Location(), pattern)
	}
	if !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("%w: %s", doublestar.ErrBadPattern, args[0])
	}

	for p, node := range filesystem.All(root) {
		if ok, _ := doublestar.Match(pattern, p); !ok {
			continue
		}
		if node.Kind() == filesystem.KindDirectory {
			p += filesystem.Separator
		}
		sess.Println(p)
	}
	return nil
}

func cmdFile(sess *Session, args []string) error {
	if len(args) == 0 {
		return usage("file <path>")
	}
	node, err := resolve(sess, "file", args[0])
	if err != nil {
		return err
	}
	switch n := node.(type) {
	case *filesystem.Directory:
		sess.Printf("%s: directory", args[0])
	case *filesystem.File:
		if n.Size() == 0 {
			sess.Printf("%s: empty", args[0])
			return nil
		}
		sess.Printf("%s: %s", args[0], inspect.MIME(n.Bytes()))
	default:
		return filesystem.ErrUnknownNode
	}
	return nil
}

func cmdUptime(sess *Session, _ []string) error {
	sess.Printf("Uptime (session): %s", FormatUptime(sess.Uptime()))
	if d, ok := systemUptime(); ok {
		sess.Printf("Uptime (system): %s", FormatUptime(d))
	}
	return nil
}

// FormatUptime renders d as "[Nd ]HH:MM:SS", truncated to whole seconds.
func FormatUptime(d time.Duration) string {
	secs := int64(d / time.Second)
	days, rem := secs/86400, secs%86400
	h, rem := rem/3600, rem%3600
	m, s := rem/60, rem%60
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if days > 0 {
		out = fmt.Sprintf("%dd %s", days, out)
	}
	return out
}

func systemUptime() (time.Duration, bool) {
	raw, err := os.ReadFile(procUptime)
	if err != nil {
		return 0, false
	}
	return parseProcUptime(string(raw))
}

func parseProcUptime(raw string) (time.Duration, bool) {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0, false
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

func cmdWhoami(sess *Session, _ []string) error {
	sess.Println(sess.User)
	return nil
}

func helpFor(r *Registry) RunFunc {
	return func(sess *Session, _ []string) error {
		for _, cmd := range r.Commands() {
			line := fmt.Sprintf("%-16s %s", cmd.Usage, cmd.Summary)
			if len(cmd.Aliases) > 0 {
				line += " (alias: " + strings.Join(cmd.Aliases, ", ") + ")"
			}
			sess.Println(line)
		}
		return nil
	}
}

func cmdExit(sess *Session, _ []string) error {
	sess.Println(exitMessage)
	sess.Terminate()
	return nil
}

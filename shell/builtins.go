package shell

import (
	"slices"

	"github.com/brettbedarf/vfshell/internal/util"
)

// builtins returns the builtin command set in the order help lists it. help
// describes the commands of r.
func builtins(r *Registry) []*Command {
	return []*Command{
		{Name: "ls", Aliases: []string{"list"}, Usage: "ls [path]", Summary: "list a directory", Run: cmdList},
		{Name: "cd", Aliases: []string{"change-location"}, Usage: "cd [path]", Summary: "change the current location", Run: cmdChangeLocation},
		{Name: "cat", Aliases: []string{"show-content"}, Usage: "cat <path>", Summary: "show file content", Run: cmdShowContent},
		{Name: "vfsinfo", Aliases: []string{"tree-stats"}, Usage: "vfsinfo", Summary: "show tree statistics", Run: cmdTreeStats},
		{Name: "cp", Aliases: []string{"copy"}, Usage: "cp <src> <dst>", Summary: "copy a file", Run: cmdCopy},
		{Name: "rmdir", Aliases: []string{"remove-dir"}, Usage: "rmdir <path>", Summary: "remove an empty directory", Run: cmdRemoveDir},
		{Name: "find", Usage: "find <pattern>", Summary: "list paths matching a glob", Run: cmdFind},
		{Name: "file", Usage: "file <path>", Summary: "show the content type", Run: cmdFile},
		{Name: "uptime", Usage: "uptime", Summary: "show session and system uptime", Run: cmdUptime},
		{Name: "whoami", Usage: "whoami", Summary: "print the user name", Run: cmdWhoami},
		{Name: "help", Usage: "help", Summary: "list commands", Run: helpFor(r)},
		{Name: "exit", Aliases: []string{"terminate"}, Usage: "exit", Summary: "end the session", Run: cmdExit},
	}
}

// RegisterBuiltins registers all builtin commands or only the named ones.
func RegisterBuiltins(r *Registry, names ...string) {
	logger := util.GetLogger("Shell.RegisterBuiltins")

	for _, cmd := range builtins(r) {
		if len(names) > 0 && !slices.Contains(names, cmd.Name) {
			continue
		}
		if err := r.Register(cmd); err != nil {
			logger.Warn().Err(err).Str("command", cmd.Name).Msg("Skipping builtin")
		}
	}
}


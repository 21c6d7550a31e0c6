package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/vfshell"
	"github.com/brettbedarf/vfshell/config"
	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/spf13/cobra"
)

// RootCommand starts an interactive shell over the loaded tree
type RootCommand struct {
	in  io.Reader
	out io.Writer
}

// NewRootCommand creates the root command reading commands from in and
// writing shell output to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	cmd := &RootCommand{in: in, out: out}

	rootCmd := &cobra.Command{
		Use:   "vfshell",
		Short: "Shell over an in-memory virtual filesystem",
		Long: `A command shell over an in-memory virtual filesystem loaded from an XML
tree description.

Changes made by cp and rmdir only live in memory. A startup script can be
replayed before the prompt is shown.`,
		Example: `  # Load a tree and replay a startup script
  vfshell --vfs vfs.xml --script start.txt

  # Use a config file and verbose logging
  vfshell --config vfshell.yaml -v 4`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         cmd.Run,
	}
	addConfigFlags(rootCmd)

	rootCmd.AddCommand(NewMountCommand())
	return rootCmd
}

// Run boots the engine, replays the startup script and then reads commands
// until exit, end of input or an interrupt.
func (c *RootCommand) Run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cobraCmd)
	if err != nil {
		return err
	}
	util.InitializeLogger(cfg.LogLvl, nil)
	logger := util.GetLogger("CLI.Run")

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := vfshell.New(cfg)
	sess := engine.NewSession(ctx, c.out)
	defer engine.CloseSession(sess)

	if err := engine.Boot(ctx, sess); err != nil {
		logger.Debug().Err(err).Msg("Startup finished with errors")
	}
	if sess.Terminated() {
		return nil
	}
	return runREPL(engine, sess, c.in, c.out)
}

func addConfigFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP("vfs", "t", "", "Path to the XML tree description")
	flags.StringP("script", "s", "", "Path to a startup script")
	flags.StringP("config", "c", "", "Path to a YAML or JSON config file")
	flags.IntP("verbose", "v", config.WarnVerbose, "Log verbosity level between 1 (error) and 5 (trace)")
	flags.Int("delay", int(config.DefaultScriptDelay.Milliseconds()), "Pause between script steps in milliseconds")
	flags.Int("start-delay", int(config.DefaultScriptStartDelay.Milliseconds()), "Pause before the first script step in milliseconds")
}

// loadConfig merges defaults, the optional config file and explicitly set
// flags, in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.NewDefaultConfig()
	if p, _ := flags.GetString("config"); p != "" {
		fileCfg, err := config.NewConfigFromFile(p)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", p, err)
		}
		cfg = fileCfg
	}

	var override config.ConfigOverride
	if flags.Changed("vfs") {
		v, _ := flags.GetString("vfs")
		override.TreePath = &v
	}
	if flags.Changed("script") {
		v, _ := flags.GetString("script")
		override.ScriptPath = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetInt("verbose")
		override.LogLvl = &v
	}
	if flags.Changed("delay") {
		v, _ := flags.GetInt("delay")
		override.ScriptDelayMs = &v
	}
	if flags.Changed("start-delay") {
		v, _ := flags.GetInt("start-delay")
		override.ScriptStartDelayMs = &v
	}
	cfg.Merge(&override)
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand(os.Stdin, os.Stdout)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

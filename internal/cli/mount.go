package cli

import (
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/brettbedarf/vfshell"
	"github.com/brettbedarf/vfshell/internal/util"
	"github.com/spf13/cobra"
)

// MountCommand serves a read-only snapshot of the tree over FUSE
type MountCommand struct{}

// NewMountCommand creates the mount command
func NewMountCommand() *cobra.Command {
	cmd := &MountCommand{}

	cobraCmd := &cobra.Command{
		Use:   "mount <mountpoint>",
		Short: "Mount the tree as a read-only filesystem",
		Long: `Loads the tree description and serves a read-only snapshot of it at the
mount point until interrupted.`,
		Example: `  vfshell mount --vfs vfs.xml /mnt/vfs
  vfshell mount -u --vfs vfs.xml /mnt/vfs`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}
	cobraCmd.Flags().BoolP("umount", "u", false,
		"Unmount the mount point first if needed. Useful for debuggers that don't exit properly.")
	return cobraCmd
}

func (c *MountCommand) Run(cobraCmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cobraCmd)
	if err != nil {
		return err
	}
	util.InitializeLogger(cfg.LogLvl, nil)
	logger := util.GetLogger("CLI.Mount")

	mnt := args[0]
	if cfg.TreePath == "" {
		return errors.New("mount requires a tree description (--vfs)")
	}
	if umount, _ := cobraCmd.Flags().GetBool("umount"); umount {
		// we ignore error here if not already mounted
		exec.Command("fusermount", "-u", mnt).Run() // nolint:errcheck
	}

	engine := vfshell.New(cfg)
	if err := engine.LoadTree(cfg.TreePath); err != nil {
		return err
	}
	if err := engine.Serve(mnt); err != nil {
		return err
	}

	// Setup signal handling for graceful shutdown
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(signalChan)

	logger.Info().Str("mountpoint", mnt).Msg("Filesystem mounted successfully")
	cobraCmd.Println(SubtleStyle.Render("Serving " + cfg.TreePath + " at " + mnt + ", press Ctrl+C to unmount"))

	sig := <-signalChan
	logger.Info().Str("signal", sig.String()).Msg("Received signal, unmounting filesystem")

	if err := engine.Unmount(); err != nil {
		logger.Error().Err(err).Msg("Failed to unmount filesystem")
		return err
	}
	logger.Info().Msg("Filesystem unmounted successfully")
	return nil
}

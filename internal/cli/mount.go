package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	svcsfuse "github.com/systemshift/svcs/internal/fuse"
)

func newMountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mount DIR",
		Short: "Mount the commit history read-only at DIR",
		Long: `Expose HEAD and every commit as a read-only FUSE filesystem:

  DIR/HEAD
  DIR/commits/<id>/message
  DIR/commits/<id>/commit.json
  DIR/commits/<id>/files/...

Runs until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mountpoint := args[0]
			r, err := a.open()
			if err != nil {
				return err
			}
			if err := os.MkdirAll(mountpoint, 0755); err != nil {
				return fmt.Errorf("create mountpoint: %w", err)
			}

			server, err := svcsfuse.MountFS(mountpoint, r, a.verbose)
			if err != nil {
				return err
			}

			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-done
				a.logger.Info("unmounting", "mountpoint", mountpoint)
				if err := server.Unmount(); err != nil {
					a.logger.Error("unmount failed", "error", err)
				}
			}()

			if err := a.printer.Mounted(mountpoint); err != nil {
				return err
			}
			a.logger.Debug("mounted", "mountpoint", mountpoint, "pid", os.Getpid())
			server.Wait()
			return nil
		},
	}
}

package cli

import "github.com/spf13/cobra"

func newRestoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore PATH",
		Short: "Replace the working tree with a snapshot archive",
		Long: `Delete everything in the working tree except .svcs and extract the
archive at PATH in its place. Archives with entries that would land
outside the tree are refused before anything is deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			res, err := r.Restore(args[0])
			if err != nil {
				return err
			}
			return a.printer.Restored(res)
		},
	}
}

package cli

import "github.com/spf13/cobra"

func newSnapshotCmd(a *app) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Archive the working tree into a zip file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			s, err := r.Snapshot(name)
			if err != nil {
				return err
			}
			return a.printer.Snapshot(s)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "archive name (default: snapshot_<unix time>)")
	return cmd
}

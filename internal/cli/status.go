package cli

import "github.com/spf13/cobra"

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show HEAD and the staged files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			s, err := r.Status()
			if err != nil {
				return err
			}
			return a.printer.Status(s, r.Store.Hasher())
		},
	}
}

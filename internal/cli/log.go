package cli

import "github.com/spf13/cobra"

func newLogCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			l, err := r.Log(limit)
			if err != nil {
				return err
			}
			return a.printer.Log(l, limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "show only the last N commits (0 for all)")
	return cmd
}

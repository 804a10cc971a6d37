package cli

import "github.com/spf13/cobra"

func newCommitCmd(a *app) *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record the staged files as a new commit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			c, err := r.Commit(message)
			if err != nil {
				return err
			}
			return a.printer.Committed(c)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "commit message (default: a timestamp)")
	return cmd
}

package cli

import "github.com/spf13/cobra"

func newRevertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "revert ID",
		Short: "Write a commit's files back into the working tree",
		Long: `Restore every file recorded in commit ID and point HEAD at it. Files
the commit does not mention are left alone; history is not changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCommitID(args[0])
			if err != nil {
				return err
			}
			r, err := a.open()
			if err != nil {
				return err
			}
			res, err := r.Revert(id)
			if err != nil {
				return err
			}
			return a.printer.Reverted(res)
		},
	}
}

package cli

import "github.com/spf13/cobra"

func newDiffCmd(a *app) *cobra.Command {
	var c1, c2 int
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Compare two commits",
		Long: `List files added, deleted and modified between two commits. With no
flags the last two commits are compared.

Examples:
  svcs diff
  svcs diff --c1 1 --c2 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			d, err := r.Diff(c1, c2)
			if err != nil {
				return err
			}
			return a.printer.Diff(d)
		},
	}
	cmd.Flags().IntVar(&c1, "c1", 0, "first commit id (default: second to last)")
	cmd.Flags().IntVar(&c2, "c2", 0, "second commit id (default: last)")
	return cmd
}

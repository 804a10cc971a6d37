package cli

import "github.com/spf13/cobra"

func newAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add FILE...",
		Short: "Stage files for the next commit",
		Long: `Store each file's content and stage it for the next commit. Relative
paths are resolved against the current directory. A file that cannot be
staged is reported and the rest are still added.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			staged, addErr := r.AddFiles(args...)
			if err := a.printer.Added(staged); err != nil {
				return err
			}
			return addErr
		},
	}
}

package cli

import "github.com/spf13/cobra"

func newVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check stored objects against their digests",
		Long: `Re-hash every stored object and check that every file named by the
staging area or a commit has one. Exits 1 when a problem is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			res, err := r.Verify()
			if err != nil {
				return err
			}
			if err := a.printer.Verified(res); err != nil {
				return err
			}
			if !res.Clean() {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
}

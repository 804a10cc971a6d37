package cli

import "github.com/spf13/cobra"

func newCompressCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "compress",
		Short: "Compress stored objects above the size threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.open()
			if err != nil {
				return err
			}
			res, err := r.Compact()
			if err != nil {
				return err
			}
			return a.printer.Compacted(res)
		},
	}
}

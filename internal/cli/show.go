package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/systemshift/svcs/internal/vcs"
)

// parseCommitID reads a positional commit id.
func parseCommitID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%q: %w", s, vcs.ErrInvalidCommit)
	}
	return id, nil
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one commit with its files and content IDs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCommitID(args[0])
			if err != nil {
				return err
			}
			r, err := a.open()
			if err != nil {
				return err
			}
			c, err := r.Show(id)
			if err != nil {
				return err
			}
			head, err := r.Head().Read()
			if err != nil {
				return err
			}
			return a.printer.Show(c, head, r.Store.Hasher())
		},
	}
}

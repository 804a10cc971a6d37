package cli

import (
	"github.com/spf13/cobra"
	"github.com/systemshift/svcs/internal/vcs"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		path string
		hash string
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a repository",
		Long: `Create a .svcs metadata directory at the repository root.

Examples:
  svcs init
  svcs init --path ~/notes --hash blake3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = a.repoPath
			}
			cfg := vcs.DefaultConfig()
			cfg.Hash = vcs.HashAlgorithm(hash)
			r, err := vcs.Init(path, vcs.Options{Logger: a.logger, Config: &cfg})
			if err != nil {
				return err
			}
			return a.printer.Initialized(r)
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "directory to initialize (default: --repo)")
	cmd.Flags().StringVar(&hash, "hash", string(vcs.HashSHA256), "content hash: sha256 or blake3")
	return cmd
}

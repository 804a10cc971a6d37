// Package cli implements the svcs command line on top of internal/vcs.
package cli

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/systemshift/svcs/internal/present"
	"github.com/systemshift/svcs/internal/vcs"
)

// app carries the global flags and the values PersistentPreRunE derives
// from them.
type app struct {
	repoPath string
	output   formatFlag
	verbose  bool

	stdout  io.Writer
	stderr  io.Writer
	logger  *slog.Logger
	printer *present.Printer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "svcs",
		Short: "A small local version control system",
		Long: `svcs tracks the files of a single working directory: stage them with
add, record them with commit, compare and restore earlier commits, and
bundle the whole tree into zip snapshots.

Repository state lives in a .svcs directory at the working-directory root.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.printer = present.New(a.stdout, a.stderr, present.Format(a.output))
			a.logger = newLogger(a.stderr, a.verbose)
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.repoPath, "repo", "C", envOr("SVCS_REPO", "."), "repository root (env SVCS_REPO)")
	a.output = formatFlag(present.FormatText)
	root.PersistentFlags().VarP(&a.output, "output", "o", "output format: text, json or yaml")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log operation details to stderr")

	root.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newCommitCmd(a),
		newDiffCmd(a),
		newLogCmd(a),
		newStatusCmd(a),
		newShowCmd(a),
		newRevertCmd(a),
		newSnapshotCmd(a),
		newRestoreCmd(a),
		newCompressCmd(a),
		newVerifyCmd(a),
		newMountCmd(a),
	)
	return root
}

// open binds to the repository named by --repo.
func (a *app) open() (*vcs.Repository, error) {
	return vcs.Open(a.repoPath, vcs.Options{Logger: a.logger})
}

// exitCode reports err to the user and maps it to a process exit status.
// Emptiness faults are warnings, not failures.
func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *ExitError
	if errors.As(err, &exit) {
		return exit.Code
	}
	p := a.printer
	if p == nil {
		p = present.New(a.stdout, a.stderr, present.FormatText)
	}
	if vcs.IsEmptiness(err) {
		if werr := p.Warning(err); werr != nil {
			return 1
		}
		return 0
	}
	p.Error(err)
	return 1
}

// Run executes the command line in args and returns the exit status.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return a.exitCode(root.Execute())
}

// Execute runs the root command against the process arguments.
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// formatFlag validates --output while flags are parsed.
type formatFlag present.Format

var _ pflag.Value = (*formatFlag)(nil)

func (f *formatFlag) String() string { return string(*f) }

func (f *formatFlag) Set(s string) error {
	format, err := present.ParseFormat(s)
	if err != nil {
		return err
	}
	*f = formatFlag(format)
	return nil
}

func (f *formatFlag) Type() string { return "format" }

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

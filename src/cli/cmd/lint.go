package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sofmeright/gitlint/src/git"
	"github.com/sofmeright/gitlint/src/input"
	"github.com/sofmeright/gitlint/src/lint"
)

func newLintCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Lints a git repository [default command]",
		Long: `Lints commit messages.

The message is read from --msg-filename, from data piped to stdin, or from
the commits selected by --commits in the target repository, in that order.
The exit code is the number of violations found, capped at 252.`,
		Args: cobra.NoArgs,
		RunE: a.runLint,
	}
}

func (a *app) runLint(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageErrorf("No such command '%s'.", args[0])
	}

	var msgFile io.Reader
	if a.opts.msgFilename != "" {
		f, err := os.Open(a.opts.msgFilename)
		if err != nil {
			return usageErrorf("Invalid value for '--msg-filename': Could not open file: %s", a.opts.msgFilename)
		}
		defer f.Close()
		msgFile = f
	}

	ctx := cmd.Context()
	backend := git.NewBackend(a.logger)
	a.logger.Debug("git backend", "name", backend.Name())

	gc, err := input.NewResolver(backend, a.stdin, a.logger).Resolve(ctx, a.cfg, msgFile, a.opts.commits)
	if err != nil {
		return err
	}

	code, err := lint.NewEngine(a.stderr, a.logger).Run(a.cfg, a.builder, gc)
	if err != nil {
		return err
	}
	a.exitCode = code
	return nil
}

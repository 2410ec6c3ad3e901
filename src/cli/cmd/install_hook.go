package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sofmeright/gitlint/src/hooks"
)

func newInstallHookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "install-hook",
		Short: "Install gitlint as a git commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hooks.InstallCommitMsgHook(a.cfg.Target())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Successfully installed gitlint commit-msg hook in %s\n", path)
			return nil
		},
	}
}

func newUninstallHookCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall-hook",
		Short: "Uninstall gitlint commit-msg hook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := hooks.UninstallCommitMsgHook(a.cfg.Target())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Successfully uninstalled gitlint commit-msg hook from %s\n", path)
			return nil
		},
	}
}

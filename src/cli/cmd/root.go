package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/sofmeright/gitlint/src/config"
	"github.com/sofmeright/gitlint/src/git"
	"github.com/sofmeright/gitlint/src/hooks"
	"github.com/sofmeright/gitlint/src/input"
	"github.com/sofmeright/gitlint/src/output"
	"github.com/sofmeright/gitlint/src/version"
)

// Exit codes. 1 through 252 carry the number of violations.
const (
	exitOK         = 0
	exitUsage      = 253
	exitGitContext = 254
	exitConfig     = 255
)

// usageError is a commandline problem detected by the CLI itself. Like
// flag parse errors it is printed to stderr.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) *usageError {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	target      string
	configPath  string
	overrides   []string
	commits     string
	extraPath   string
	ignore      string
	contrib     string
	msgFilename string
	ignoreStdin bool
	staged      bool
	verbose     int
	silent      bool
	debug       bool
}

// app carries the state of one invocation from the root command into its
// subcommands.
type app struct {
	opts   options
	stdin  input.Stdin
	stdout io.Writer
	stderr io.Writer

	logger   *slog.Logger
	cfg      *config.LintConfig
	builder  *config.Builder
	exitCode int
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "gitlint",
		Short: "Git lint tool, checks your git commit messages for styling issues",
		Long: `Git lint tool, checks your git commit messages for styling issues.

When no command is specified, gitlint defaults to 'gitlint lint'.`,
		Version:           version.Version,
		PersistentPreRunE: a.setup,
		RunE:              a.runLint,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("gitlint version {{.Version}}\n")
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{msg: err.Error()}
	})

	f := root.PersistentFlags()
	f.StringVar(&a.opts.target, "target", "", "path of the target git repository (default: current working directory)")
	f.StringVarP(&a.opts.configPath, "config", "C", "", "config file location (default: "+config.DefaultConfigFile+")")
	f.StringArrayVarP(&a.opts.overrides, "option", "c", nil, "config flags in format <rule>.<option>=<value> (e.g.: -c T1.line-length=80), repeatable")
	f.StringVar(&a.opts.commits, "commits", "", "the range of commits to lint (default: HEAD)")
	f.StringVarP(&a.opts.extraPath, "extra-path", "e", "", "path to a directory with extra user-defined rules")
	f.StringVar(&a.opts.ignore, "ignore", "", "ignore rules (comma-separated by id or name)")
	f.StringVar(&a.opts.contrib, "contrib", "", "contrib rules to enable (comma-separated by id or name)")
	f.StringVar(&a.opts.msgFilename, "msg-filename", "", "path to a file containing a commit-msg")
	f.BoolVar(&a.opts.ignoreStdin, "ignore-stdin", false, "ignore any stdin data, useful for running in CI")
	f.BoolVar(&a.opts.staged, "staged", false, "read staged commit meta-info from the local repository")
	f.CountVarP(&a.opts.verbose, "verbose", "v", "verbosity, more v's for more verbose output (e.g.: -v, -vv, -vvv) (default: -vvv)")
	f.BoolVarP(&a.opts.silent, "silent", "s", false, "silent mode (no output), takes precedence over -v, -vv, -vvv")
	f.BoolVarP(&a.opts.debug, "debug", "d", false, "enable debugging output")

	root.AddCommand(
		newLintCmd(a),
		newInstallHookCmd(a),
		newUninstallHookCmd(a),
		newGenerateConfigCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves the configuration every subcommand but version works with.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	switch cmd.Name() {
	case "version", "help":
		return nil
	}
	a.logger = output.NewLogger(a.stderr, a.opts.debug)

	if a.opts.target != "" {
		if info, err := os.Stat(a.opts.target); err != nil || !info.IsDir() {
			return usageErrorf("Invalid value for '--target': Directory '%s' does not exist.", a.opts.target)
		}
	}
	if a.opts.configPath != "" {
		if info, err := os.Stat(a.opts.configPath); err != nil || info.IsDir() {
			return usageErrorf("Invalid value for '-C' / '--config': File '%s' does not exist.", a.opts.configPath)
		}
	}
	if a.opts.extraPath != "" {
		if _, err := os.Stat(a.opts.extraPath); err != nil {
			return usageErrorf("Invalid value for '-e' / '--extra-path': Path '%s' does not exist.", a.opts.extraPath)
		}
	}

	a.logSystemInfo(cmd.Context())

	cfg, builder, err := config.Resolve(config.Flags{
		Target:      a.opts.target,
		ConfigPath:  a.opts.configPath,
		Overrides:   a.opts.overrides,
		ExtraPath:   a.opts.extraPath,
		Ignore:      a.opts.ignore,
		Contrib:     a.opts.contrib,
		IgnoreStdin: a.opts.ignoreStdin,
		Staged:      a.opts.staged,
		Verbosity:   a.opts.verbose,
		Silent:      a.opts.silent,
		Debug:       a.opts.debug,
	})
	if err != nil {
		return err
	}
	if cfg.Debug() && !a.opts.debug {
		a.logger = output.NewLogger(a.stderr, true)
	}
	a.logger.Debug("configuration", "config", cfg.String())

	a.cfg, a.builder = cfg, builder
	return nil
}

func (a *app) logSystemInfo(ctx context.Context) {
	if !a.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	gitVersion, err := git.Version(ctx)
	if err != nil {
		gitVersion = "[unavailable: " + err.Error() + "]"
	} else if warning := git.CheckVersion(gitVersion); warning != "" {
		a.logger.Warn("unsupported git version", "detail", warning)
	}
	shLib, ok := os.LookupEnv(git.UseShLibEnv)
	if !ok {
		shLib = "[NOT SET]"
	}

	a.logger.Debug("system info",
		"platform", runtime.GOOS+"/"+runtime.GOARCH,
		"go_version", runtime.Version(),
		"git_version", gitVersion,
		"gitlint_version", version.Version,
		git.UseShLibEnv, shLib,
	)
}

// exitCodeFor prints err the way its kind is reported and returns the
// matching exit code.
func (a *app) exitCodeFor(err error) int {
	if err == nil {
		return a.exitCode
	}

	var (
		cfgErr   *config.Error
		gitErr   *git.ContextError
		inputErr *input.UsageError
		hookErr  *hooks.InstallerError
		cliErr   *usageError
	)
	switch {
	case errors.As(err, &cfgErr):
		fmt.Fprintf(a.stdout, "Config Error: %s\n", cfgErr.Msg)
		return exitConfig
	case errors.As(err, &gitErr):
		fmt.Fprintln(a.stdout, gitErr.Error())
		return exitGitContext
	case errors.As(err, &inputErr):
		fmt.Fprintf(a.stdout, "Error: %s\n", inputErr.Msg)
		return exitUsage
	case errors.As(err, &hookErr):
		fmt.Fprintln(a.stderr, hookErr.Msg)
		return exitGitContext
	case errors.As(err, &cliErr):
		fmt.Fprintf(a.stderr, "Error: %s\n", cliErr.msg)
		return exitUsage
	default:
		// cobra reports unknown commands and bad arguments as plain errors
		fmt.Fprintf(a.stderr, "Error: %s\n", err)
		return exitUsage
	}
}

func run(args []string, stdin input.Stdin, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	root.SetArgs(args)
	return a.exitCodeFor(root.ExecuteContext(context.Background()))
}

// Execute runs gitlint with the process arguments and returns the exit code.
func Execute() int {
	return run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

package lint

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/sofmeright/gitlint/src/config"
	"github.com/sofmeright/gitlint/src/git"
	"github.com/sofmeright/gitlint/src/output"
)

// MaxViolationExitCode caps the exit code of a run with violations. Codes
// above it are reserved for usage, git context and configuration errors.
const MaxViolationExitCode = 252

// Engine lints a sequence of commits one at a time and prints their
// violations in commit order.
type Engine struct {
	Stderr io.Writer
	Logger *slog.Logger
}

// NewEngine creates a lint engine reporting violations to stderr.
func NewEngine(stderr io.Writer, logger *slog.Logger) *Engine {
	return &Engine{Stderr: stderr, Logger: logger}
}

// Run lints every commit of gc and returns the exit code: the total number of
// violations, capped at MaxViolationExitCode. Each commit gets its own
// configuration, built from a clone of builder plus the commit's directives
// on top of a copy of base, so directives never leak between commits.
// An empty context is not an error and returns 0 without output.
func (e *Engine) Run(base *config.LintConfig, builder *config.Builder, gc *git.Context) (int, error) {
	n := len(gc.Commits)
	if n == 0 {
		e.Logger.Debug("no commits in range")
		return 0, nil
	}
	e.Logger.Debug("linting commits", "count", n)

	total := 0
	firstReported := true
	for _, c := range gc.Commits {
		b := builder.Clone()
		b.SetConfigFromCommit(c)
		cfg, err := b.Build(base)
		if err != nil {
			return 0, err
		}

		violations := NewLinter(cfg, e.Logger).Lint(c)
		total += len(violations)
		if len(violations) == 0 {
			continue
		}

		display := output.NewDisplay(cfg.Verbosity(), e.Stderr)
		if n > 1 && c.SHA != "" {
			sep := "\n"
			if firstReported {
				sep = ""
			}
			display.DisplayHeader(fmt.Sprintf("%sCommit %s:", sep, c.ShortSHA()))
		}
		display.DisplayViolations(violations)
		firstReported = false
	}

	code := min(MaxViolationExitCode, total)
	e.Logger.Debug("lint finished", "violations", total, "exit_code", code)
	return code, nil
}

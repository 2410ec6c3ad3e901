// Package input decides where the commits to lint come from: an explicit
// message file, data piped to stdin, or the local repository.
package input

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/mattn/go-isatty"

	"github.com/sofmeright/gitlint/src/config"
	"github.com/sofmeright/gitlint/src/git"
)

// UsageError reports contradictory or missing commandline input.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// Stdin is the standard input stream as seen by the resolver.
type Stdin interface {
	io.Reader
	Stat() (fs.FileInfo, error)
}

// fder is implemented by *os.File.
type fder interface {
	Fd() uintptr
}

// Resolver builds the git context for one invocation.
type Resolver struct {
	Backend git.Backend
	Stdin   Stdin
	Logger  *slog.Logger
}

func NewResolver(backend git.Backend, stdin Stdin, logger *slog.Logger) *Resolver {
	return &Resolver{Backend: backend, Stdin: stdin, Logger: logger}
}

// Resolve returns the commits to lint. The first source with data wins:
//
//  1. msgFile, when non-nil
//  2. stdin, unless ignore-stdin is set, when it is a pipe or regular file
//     and reading it yields at least one byte
//  3. the repository at the configured target, over refspec
//
// With staged set, the message from 1 or 2 is decorated with staging-area
// metadata; staged without such a message is a UsageError.
func (r *Resolver) Resolve(ctx context.Context, cfg *config.LintConfig, msgFile io.Reader, refspec string) (*git.Context, error) {
	fromMessage := func(text string) (*git.Context, error) {
		return git.FromCommitMsg(text), nil
	}
	if cfg.Staged() {
		r.Logger.Debug("fetching staged commit metadata", "target", cfg.Target())
		fromMessage = func(text string) (*git.Context, error) {
			return git.FromStagedCommit(ctx, r.Backend, text, cfg.Target())
		}
	}

	if msgFile != nil {
		r.Logger.Debug("input source", "source", "msg-filename")
		data, err := io.ReadAll(msgFile)
		if err != nil {
			return nil, &UsageError{Msg: fmt.Sprintf("Could not read message file: %v", err)}
		}
		return fromMessage(string(data))
	}

	if !cfg.IgnoreStdin() {
		data, err := r.stdinData()
		if err != nil {
			return nil, err
		}
		if data != "" {
			r.Logger.Debug("input source", "source", "stdin", "data", data)
			return fromMessage(data)
		}
	}

	if cfg.Staged() {
		return nil, &UsageError{Msg: "The 'staged' option (--staged) can only be used when using '--msg-filename' or " +
			"when piping data to gitlint via stdin."}
	}

	r.Logger.Debug("input source", "source", "repository", "target", cfg.Target(), "refspec", refspec)
	return git.FromLocalRepository(ctx, r.Backend, cfg.Target(), refspec)
}

// stdinData returns what was sent to stdin, or "" when stdin is a terminal,
// some other kind of file, or an empty pipe or file. Reading blocks until
// the writer closes the pipe.
func (r *Resolver) stdinData() (string, error) {
	if r.Stdin == nil {
		return "", nil
	}
	if f, ok := r.Stdin.(fder); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return "", nil
	}
	info, err := r.Stdin.Stat()
	if err != nil {
		r.Logger.Debug("stat stdin", "error", err)
		return "", nil
	}
	mode := info.Mode()
	if mode&fs.ModeNamedPipe == 0 && !mode.IsRegular() {
		return "", nil
	}
	data, err := io.ReadAll(r.Stdin)
	if err != nil {
		return "", &UsageError{Msg: fmt.Sprintf("Could not read stdin: %v", err)}
	}
	return string(data), nil
}

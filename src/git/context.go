package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
)

// UseShLibEnv selects the git invocation strategy. Unset or any value other
// than "0" shells out to the git binary; "0" uses the in-process go-git library.
const UseShLibEnv = "GITLINT_USE_SH_LIB"

// minGitVersion is the oldest git release whose plumbing output the
// subprocess backend understands.
const minGitVersion = "2.13.0"

// ContextError reports a failure to read commit data from a repository.
type ContextError struct {
	Msg string
	Err error
}

func (e *ContextError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *ContextError) Unwrap() error { return e.Err }

func contextErrorf(err error, format string, args ...any) *ContextError {
	return &ContextError{Msg: fmt.Sprintf(format, args...), Err: err}
}

// StagedInfo is the metadata of a commit that has not been created yet.
type StagedInfo struct {
	AuthorName   string
	AuthorEmail  string
	Parents      []string
	Branch       string
	ChangedFiles []string
}

// Backend reads commits from a repository.
type Backend interface {
	Name() string
	// Commits returns the commits in refspec, or the HEAD commit alone when
	// refspec is empty.
	Commits(ctx context.Context, target, refspec string) ([]*Commit, error)
	// Staged returns metadata for the commit currently being prepared.
	Staged(ctx context.Context, target string) (*StagedInfo, error)
}

// NewBackend picks the backend according to GITLINT_USE_SH_LIB.
func NewBackend(logger *slog.Logger) Backend {
	if os.Getenv(UseShLibEnv) == "0" {
		return &libBackend{logger: logger}
	}
	return &shellBackend{logger: logger}
}

// FromCommitMsg builds a context holding a single commit parsed from text.
func FromCommitMsg(text string) *Context {
	return &Context{Commits: []*Commit{NewCommit(text)}}
}

// FromStagedCommit builds a single-commit context from text and decorates it
// with the author, parents, branch and changed files of the staging area.
func FromStagedCommit(ctx context.Context, b Backend, text, target string) (*Context, error) {
	info, err := b.Staged(ctx, target)
	if err != nil {
		return nil, err
	}
	c := NewCommit(text)
	c.Date = time.Now()
	c.AuthorName = info.AuthorName
	c.AuthorEmail = info.AuthorEmail
	c.Parents = info.Parents
	c.ChangedFiles = info.ChangedFiles
	if info.Branch != "" {
		c.Branches = []string{info.Branch}
	}
	return &Context{Commits: []*Commit{c}}, nil
}

// FromLocalRepository reads the commits in refspec from the repository at target.
func FromLocalRepository(ctx context.Context, b Backend, target, refspec string) (*Context, error) {
	commits, err := b.Commits(ctx, target, refspec)
	if err != nil {
		return nil, err
	}
	return &Context{Commits: commits}, nil
}

// Version returns the installed git version, e.g. "2.43.0".
func Version(ctx context.Context) (string, error) {
	out, err := gitCmd(ctx, "", "--version")
	if err != nil {
		return "", err
	}
	// "git version 2.43.0" or "git version 2.39.3 (Apple Git-146)"
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return "", contextErrorf(nil, "unexpected git --version output: %q", out)
	}
	return fields[2], nil
}

// CheckVersion returns a warning when version is older than the minimum
// supported git release, or when it cannot be parsed.
func CheckVersion(version string) string {
	v, err := semver.NewVersion(normalizeVersion(version))
	if err != nil {
		return fmt.Sprintf("could not parse git version %q: %v", version, err)
	}
	if v.LessThan(semver.MustParse(minGitVersion)) {
		return fmt.Sprintf("git %s is older than the minimum supported version %s", v, minGitVersion)
	}
	return ""
}

// normalizeVersion trims vendor suffixes like "2.39.3.windows.1" down to
// their first three dot segments.
func normalizeVersion(version string) string {
	parts := strings.Split(version, ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, ".")
}

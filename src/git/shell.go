package git

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"golang.org/x/sync/errgroup"
)

// shellBackend shells out to the git binary.
type shellBackend struct {
	logger *slog.Logger
}

func (b *shellBackend) Name() string { return "subprocess" }

// logFormat: author name, author email, ISO date, parents, then the raw body.
const logFormat = "--pretty=%aN%x00%aE%x00%aI%x00%P%x00%B"

func (b *shellBackend) Commits(ctx context.Context, target, refspec string) ([]*Commit, error) {
	args := []string{"rev-list"}
	if refspec == "" {
		args = append(args, "--max-count=1", "HEAD")
	} else {
		args = append(args, strings.Fields(refspec)...)
	}

	out, err := gitCmd(ctx, target, args...)
	if err != nil {
		return nil, err
	}
	shas := strings.Fields(out)
	b.logger.Debug("rev-list", "refspec", refspec, "commits", len(shas))

	commits := make([]*Commit, len(shas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, sha := range shas {
		g.Go(func() error {
			c, err := b.commit(gctx, target, sha)
			if err != nil {
				return err
			}
			commits[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return commits, nil
}

func (b *shellBackend) commit(ctx context.Context, target, sha string) (*Commit, error) {
	raw, err := gitCmdRaw(ctx, target, "log", "-1", logFormat, sha)
	if err != nil {
		return nil, err
	}
	fields := strings.SplitN(raw, "\x00", 5)
	if len(fields) < 5 {
		return nil, contextErrorf(nil, "unexpected git log output for commit %s", sha)
	}

	c := NewCommit(strings.TrimRight(fields[4], "\n"))
	c.SHA = sha
	c.AuthorName = fields[0]
	c.AuthorEmail = fields[1]
	c.Parents = strings.Fields(fields[3])
	if d, err := time.Parse(time.RFC3339, fields[2]); err == nil {
		c.Date = d
	}

	files, err := gitCmd(ctx, target, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", sha)
	if err != nil {
		return nil, err
	}
	c.ChangedFiles = strings.Fields(files)

	branches, err := gitCmd(ctx, target, "branch", "--contains", sha, "--format=%(refname:short)")
	if err != nil {
		return nil, err
	}
	c.Branches = strings.Fields(branches)
	return c, nil
}

func (b *shellBackend) Staged(ctx context.Context, target string) (*StagedInfo, error) {
	info := &StagedInfo{}

	// Missing user.name/user.email is not fatal: git exits 1 for unset keys.
	info.AuthorName, _ = gitCmd(ctx, target, "config", "user.name")
	info.AuthorEmail, _ = gitCmd(ctx, target, "config", "user.email")

	if head, err := gitCmd(ctx, target, "rev-parse", "--verify", "--quiet", "HEAD"); err == nil && head != "" {
		info.Parents = []string{head}
	}
	if branch, err := gitCmd(ctx, target, "rev-parse", "--abbrev-ref", "HEAD"); err == nil && branch != "HEAD" {
		info.Branch = branch
	}

	patch, err := gitCmdRaw(ctx, target, "diff", "--staged", "--no-color", "--no-ext-diff", "--binary")
	if err != nil {
		return nil, err
	}
	files, err := changedFilesFromPatch(patch)
	if err != nil {
		return nil, err
	}
	info.ChangedFiles = files
	return info, nil
}

// changedFilesFromPatch lists the paths touched by a unified diff.
func changedFilesFromPatch(patch string) ([]string, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(patch))
	if err != nil {
		return nil, contextErrorf(err, "parsing staged diff: %v", err)
	}
	files := make([]string, 0, len(parsed))
	for _, f := range parsed {
		name := f.NewName
		if f.IsDelete {
			name = f.OldName
		}
		files = append(files, name)
	}
	return files, nil
}

// gitCmd runs a git command and returns trimmed stdout.
func gitCmd(ctx context.Context, dir string, args ...string) (string, error) {
	out, err := gitCmdRaw(ctx, dir, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// gitCmdRaw runs a git command and returns stdout untouched.
func gitCmdRaw(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	if errors.Is(err, exec.ErrNotFound) {
		return "", contextErrorf(err, "'git' command not found. You need to install git to use gitlint on a local repository. "+
			"See https://git-scm.com/book/en/v2/Getting-Started-Installing-Git on how to install git.")
	}
	msg := strings.TrimSpace(stderr.String())
	if strings.Contains(msg, "not a git repository") {
		return "", contextErrorf(err, "%s is not a git repository.", dir)
	}
	return "", contextErrorf(err, "An error occurred while executing '%s': %s", "git "+strings.Join(args, " "), msg)
}

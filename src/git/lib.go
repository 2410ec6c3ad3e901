package git

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// libBackend reads repositories in-process with go-git.
type libBackend struct {
	logger *slog.Logger
}

func (b *libBackend) Name() string { return "go-git" }

// OpenRepository opens the repository containing target.
func OpenRepository(target string) (*git.Repository, error) {
	repo, err := git.PlainOpenWithOptions(target, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, contextErrorf(err, "%s is not a git repository.", target)
		}
		return nil, contextErrorf(err, "opening repository %s: %v", target, err)
	}
	return repo, nil
}

func (b *libBackend) Commits(ctx context.Context, target, refspec string) ([]*Commit, error) {
	repo, err := OpenRepository(target)
	if err != nil {
		return nil, err
	}

	if refspec == "" {
		head, err := repo.Head()
		if err != nil {
			return nil, contextErrorf(err, "Current branch has no commits. Gitlint requires at least one commit to function.")
		}
		c, err := repo.CommitObject(head.Hash())
		if err != nil {
			return nil, contextErrorf(err, "reading HEAD commit: %v", err)
		}
		gc, err := b.convert(ctx, repo, c)
		if err != nil {
			return nil, err
		}
		return []*Commit{gc}, nil
	}

	from, exclude, err := splitRange(refspec)
	if err != nil {
		return nil, err
	}

	excluded := map[plumbing.Hash]bool{}
	if exclude != "" {
		h, err := resolve(repo, exclude)
		if err != nil {
			return nil, err
		}
		if err := walk(repo, h, func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		}); err != nil {
			return nil, err
		}
	}

	start, err := resolve(repo, from)
	if err != nil {
		return nil, err
	}

	var commits []*Commit
	err = walk(repo, start, func(c *object.Commit) error {
		if excluded[c.Hash] {
			return nil
		}
		gc, err := b.convert(ctx, repo, c)
		if err != nil {
			return err
		}
		commits = append(commits, gc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.logger.Debug("log walk", "refspec", refspec, "commits", len(commits))
	return commits, nil
}

// splitRange splits "a..b" into (b, a). A bare revision walks all of its
// ancestors. Empty sides default to HEAD, like git.
func splitRange(refspec string) (from, exclude string, err error) {
	refspec = strings.TrimSpace(refspec)
	if strings.Contains(refspec, "...") || strings.ContainsAny(refspec, " \t") || strings.HasPrefix(refspec, "^") {
		return "", "", contextErrorf(nil, "unsupported revision range %q (use <rev> or <rev>..<rev>)", refspec)
	}
	left, right, ok := strings.Cut(refspec, "..")
	if !ok {
		return refspec, "", nil
	}
	if left == "" {
		left = "HEAD"
	}
	if right == "" {
		right = "HEAD"
	}
	return right, left, nil
}

func resolve(repo *git.Repository, rev string) (plumbing.Hash, error) {
	h, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, contextErrorf(err, "unknown revision or path not in the working tree: %s", rev)
	}
	return *h, nil
}

func walk(repo *git.Repository, from plumbing.Hash, fn func(*object.Commit) error) error {
	iter, err := repo.Log(&git.LogOptions{From: from, Order: git.LogOrderCommitterTime})
	if err != nil {
		return contextErrorf(err, "reading log from %s: %v", from, err)
	}
	defer iter.Close()
	err = iter.ForEach(fn)
	if err != nil && !errors.Is(err, storer.ErrStop) {
		var ce *ContextError
		if errors.As(err, &ce) {
			return ce
		}
		return contextErrorf(err, "walking history: %v", err)
	}
	return nil
}

func (b *libBackend) convert(ctx context.Context, repo *git.Repository, c *object.Commit) (*Commit, error) {
	gc := NewCommit(strings.TrimRight(c.Message, "\n"))
	gc.SHA = c.Hash.String()
	gc.AuthorName = c.Author.Name
	gc.AuthorEmail = c.Author.Email
	gc.Date = c.Author.When
	for _, p := range c.ParentHashes {
		gc.Parents = append(gc.Parents, p.String())
	}

	files, err := changedFiles(ctx, c)
	if err != nil {
		return nil, contextErrorf(err, "diffing commit %s: %v", c.Hash, err)
	}
	gc.ChangedFiles = files

	branches, err := containingBranches(repo, c)
	if err != nil {
		return nil, err
	}
	gc.Branches = branches
	return gc, nil
}

// changedFiles lists the paths touched by c relative to its first parent.
func changedFiles(ctx context.Context, c *object.Commit) ([]string, error) {
	to, err := c.Tree()
	if err != nil {
		return nil, err
	}
	var from *object.Tree
	if c.NumParents() > 0 {
		parent, err := c.Parent(0)
		if err != nil {
			return nil, err
		}
		if from, err = parent.Tree(); err != nil {
			return nil, err
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, from, to, &object.DiffTreeOptions{})
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(changes))
	for _, change := range changes {
		if name := changeName(change); name != "" {
			files = append(files, name)
		}
	}
	sort.Strings(files)
	return files, nil
}

// changeName extracts the file path from a tree change.
func changeName(change *object.Change) string {
	action, err := change.Action()
	if err != nil {
		return ""
	}
	switch action {
	case merkletrie.Insert, merkletrie.Modify:
		return change.To.Name
	case merkletrie.Delete:
		return change.From.Name
	}
	return ""
}

func containingBranches(repo *git.Repository, c *object.Commit) ([]string, error) {
	iter, err := repo.Branches()
	if err != nil {
		return nil, contextErrorf(err, "listing branches: %v", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		head, err := repo.CommitObject(ref.Hash())
		if err != nil {
			return nil
		}
		contains := head.Hash == c.Hash
		if !contains {
			if contains, err = c.IsAncestor(head); err != nil {
				return err
			}
		}
		if contains {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, contextErrorf(err, "listing branches: %v", err)
	}
	sort.Strings(names)
	return names, nil
}

func (b *libBackend) Staged(ctx context.Context, target string) (*StagedInfo, error) {
	repo, err := OpenRepository(target)
	if err != nil {
		return nil, err
	}
	info := &StagedInfo{}

	if cfg, err := repo.ConfigScoped(config.GlobalScope); err == nil {
		info.AuthorName = cfg.User.Name
		info.AuthorEmail = cfg.User.Email
	}

	if head, err := repo.Head(); err == nil {
		info.Parents = []string{head.Hash().String()}
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, contextErrorf(err, "opening worktree: %v", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, contextErrorf(err, "reading worktree status: %v", err)
	}
	for path, s := range status {
		if s.Staging == git.Unmodified || s.Staging == git.Untracked {
			continue
		}
		info.ChangedFiles = append(info.ChangedFiles, path)
	}
	sort.Strings(info.ChangedFiles)
	return info, nil
}

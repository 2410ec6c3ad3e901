// Package hooks installs and removes gitlint's commit-msg git hook.
package hooks

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

//go:embed commit-msg.sh
var hookScript []byte

// marker identifies hook files written by gitlint.
const marker = "### gitlint commit-msg hook start ###"

const hookName = "commit-msg"

// InstallerError reports a failure to install or uninstall the hook.
type InstallerError struct {
	Msg string
}

func (e *InstallerError) Error() string { return e.Msg }

func errorf(format string, args ...any) *InstallerError {
	return &InstallerError{Msg: fmt.Sprintf(format, args...)}
}

// CommitMsgHookPath returns where the commit-msg hook of the repository at
// target lives: core.hooksPath when configured, <git dir>/hooks otherwise.
func CommitMsgHookPath(target string) (string, error) {
	repo, err := git.PlainOpenWithOptions(target, &git.PlainOpenOptions{DetectDotGit: true, EnableDotGitCommonDir: true})
	if err != nil {
		return "", errorf("%s is not a git repository.", target)
	}

	cfg, err := repo.Config()
	if err != nil {
		return "", errorf("reading git config of %s: %v", target, err)
	}
	if hooksPath := cfg.Raw.Section("core").Option("hooksPath"); hooksPath != "" {
		if !filepath.IsAbs(hooksPath) {
			wt, err := repo.Worktree()
			if err != nil {
				return "", errorf("resolving core.hooksPath %s: %v", hooksPath, err)
			}
			hooksPath = filepath.Join(wt.Filesystem.Root(), hooksPath)
		}
		return filepath.Join(hooksPath, hookName), nil
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", errorf("%s is not a git repository.", target)
	}
	return filepath.Join(storage.Filesystem().Root(), "hooks", hookName), nil
}

// InstallCommitMsgHook writes the gitlint hook and returns its path. An
// existing commit-msg hook is never overwritten.
func InstallCommitMsgHook(target string) (string, error) {
	path, err := CommitMsgHookPath(target)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", errorf("There is already a commit-msg hook file present in %s.\n"+
			"gitlint currently does not support appending to an existing commit-msg file.", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errorf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, hookScript, 0o755); err != nil {
		return "", errorf("writing %s: %v", path, err)
	}
	return path, nil
}

// UninstallCommitMsgHook removes the hook if gitlint installed it and
// returns its path.
func UninstallCommitMsgHook(target string) (string, error) {
	path, err := CommitMsgHookPath(target)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", errorf("There is no commit-msg hook present in %s.", path)
	}
	if err != nil {
		return "", errorf("reading %s: %v", path, err)
	}
	if !bytes.Contains(data, []byte(marker)) {
		return "", errorf("The commit-msg hook in %s was not installed by gitlint (or it was modified).\n"+
			"Uninstallation of 3rd party or modified gitlint hooks is not supported.", path)
	}
	if err := os.Remove(path); err != nil {
		return "", errorf("removing %s: %v", path, err)
	}
	return path, nil
}

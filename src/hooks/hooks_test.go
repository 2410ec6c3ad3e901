package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return dir, repo
}

func TestInstallAndUninstall(t *testing.T) {
	dir, _ := initRepo(t)
	want := filepath.Join(dir, ".git", "hooks", "commit-msg")

	path, err := InstallCommitMsgHook(dir)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), marker)

	_, err = InstallCommitMsgHook(dir)
	var ierr *InstallerError
	require.ErrorAs(t, err, &ierr)
	assert.Contains(t, ierr.Msg, "There is already a commit-msg hook file present in "+want)

	path, err = UninstallCommitMsgHook(dir)
	require.NoError(t, err)
	assert.Equal(t, want, path)
	assert.NoFileExists(t, path)

	_, err = UninstallCommitMsgHook(dir)
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "There is no commit-msg hook present in "+want+".", ierr.Msg)
}

func TestInstallFromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t)
	sub := filepath.Join(dir, "src", "pkg")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	path, err := InstallCommitMsgHook(sub)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".git", "hooks", "commit-msg"), path)
}

func TestUninstallForeignHook(t *testing.T) {
	dir, _ := initRepo(t)
	path := filepath.Join(dir, ".git", "hooks", "commit-msg")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755))

	_, err := UninstallCommitMsgHook(dir)
	var ierr *InstallerError
	require.ErrorAs(t, err, &ierr)
	assert.Contains(t, ierr.Msg, "was not installed by gitlint")
	assert.FileExists(t, path)
}

func TestNotARepository(t *testing.T) {
	dir := t.TempDir()
	_, err := InstallCommitMsgHook(dir)
	var ierr *InstallerError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, dir+" is not a git repository.", ierr.Msg)
}

func TestCoreHooksPath(t *testing.T) {
	dir, repo := initRepo(t)
	cfg, err := repo.Config()
	require.NoError(t, err)
	cfg.Raw.Section("core").SetOption("hooksPath", ".githooks")
	require.NoError(t, repo.SetConfig(cfg))

	path, err := InstallCommitMsgHook(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".githooks", "commit-msg"), path)
	assert.FileExists(t, path)
}

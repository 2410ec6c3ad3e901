package input

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sofmeright/gitlint/src/config"
	"github.com/sofmeright/gitlint/src/git"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeBackend struct {
	commitsCalls int
	stagedCalls  int
	refspec      string
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Commits(_ context.Context, _, refspec string) ([]*git.Commit, error) {
	b.commitsCalls++
	b.refspec = refspec
	c := git.NewCommit("From repository")
	c.SHA = "0123456789abcdef"
	return []*git.Commit{c}, nil
}

func (b *fakeBackend) Staged(context.Context, string) (*git.StagedInfo, error) {
	b.stagedCalls++
	return &git.StagedInfo{AuthorName: "Jane", AuthorEmail: "jane@example.com", Branch: "main", ChangedFiles: []string{"a.go"}}, nil
}

type fakeInfo struct {
	fs.FileInfo
	mode fs.FileMode
}

func (i fakeInfo) Mode() fs.FileMode { return i.mode }

// fakeStdin fails the test when read while read is false.
type fakeStdin struct {
	t    *testing.T
	mode fs.FileMode
	r    io.Reader
	read bool
}

func (s *fakeStdin) Stat() (fs.FileInfo, error) { return fakeInfo{mode: s.mode}, nil }

func (s *fakeStdin) Read(p []byte) (int, error) {
	if !s.read {
		s.t.Fatalf("stdin with mode %v must not be read", s.mode)
	}
	return s.r.Read(p)
}

func pipe(t *testing.T, data string) *fakeStdin {
	return &fakeStdin{t: t, mode: fs.ModeNamedPipe, r: strings.NewReader(data), read: true}
}

func lintConfig(t *testing.T, opts ...string) *config.LintConfig {
	t.Helper()
	b := config.NewBuilder()
	for _, o := range opts {
		b.SetOption("general", o, "true")
	}
	cfg, err := b.Build(nil)
	require.NoError(t, err)
	return cfg
}

func resolve(t *testing.T, stdin Stdin, cfg *config.LintConfig, msgFile io.Reader) (*git.Context, *fakeBackend, error) {
	t.Helper()
	b := &fakeBackend{}
	gc, err := NewResolver(b, stdin, testLogger).Resolve(context.Background(), cfg, msgFile, "HEAD~2..HEAD")
	return gc, b, err
}

func TestMsgFileWins(t *testing.T) {
	gc, b, err := resolve(t, pipe(t, "From stdin"), lintConfig(t), strings.NewReader("From file\n\nBody"))
	require.NoError(t, err)
	require.Len(t, gc.Commits, 1)
	assert.Equal(t, "From file", gc.Commits[0].Message.Title)
	assert.Empty(t, gc.Commits[0].SHA)
	assert.Zero(t, b.commitsCalls)
}

func TestPipedStdin(t *testing.T) {
	gc, b, err := resolve(t, pipe(t, "From stdin"), lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "From stdin", gc.Commits[0].Message.Title)
	assert.Zero(t, b.commitsCalls)
}

func TestEmptyPipeFallsThroughToRepository(t *testing.T) {
	gc, b, err := resolve(t, pipe(t, ""), lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.commitsCalls)
	assert.Equal(t, "HEAD~2..HEAD", b.refspec)
	assert.Equal(t, "From repository", gc.Commits[0].Message.Title)
}

func TestTerminalStdinIsNeverRead(t *testing.T) {
	stdin := &fakeStdin{t: t, mode: fs.ModeDevice | fs.ModeCharDevice}
	_, b, err := resolve(t, stdin, lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.commitsCalls)
}

func TestSocketStdinIsNeverRead(t *testing.T) {
	stdin := &fakeStdin{t: t, mode: fs.ModeSocket}
	_, b, err := resolve(t, stdin, lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.commitsCalls)
}

func TestIgnoreStdin(t *testing.T) {
	stdin := &fakeStdin{t: t, mode: fs.ModeNamedPipe}
	_, b, err := resolve(t, stdin, lintConfig(t, "ignore-stdin"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.commitsCalls)
}

func TestRegularFileStdin(t *testing.T) {
	dir := t.TempDir()

	full := filepath.Join(dir, "msg")
	require.NoError(t, os.WriteFile(full, []byte("From redirected file"), 0o644))
	f, err := os.Open(full)
	require.NoError(t, err)
	defer f.Close()
	gc, b, err := resolve(t, f, lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "From redirected file", gc.Commits[0].Message.Title)
	assert.Zero(t, b.commitsCalls)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	f2, err := os.Open(empty)
	require.NoError(t, err)
	defer f2.Close()
	_, b, err = resolve(t, f2, lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.commitsCalls)
}

func TestSilentPipeBlocksUntilEOF(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_, _ = w.Write([]byte("Late message"))
		w.Close()
	}()

	gc, b, err := resolve(t, r, lintConfig(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "Late message", gc.Commits[0].Message.Title)
	assert.Zero(t, b.commitsCalls)
}

func TestStagedWithoutDataIsUsageError(t *testing.T) {
	_, b, err := resolve(t, pipe(t, ""), lintConfig(t, "staged"), nil)
	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Msg, "The 'staged' option (--staged) can only be used")
	assert.Zero(t, b.commitsCalls)
	assert.Zero(t, b.stagedCalls)
}

func TestStagedWithMessage(t *testing.T) {
	gc, b, err := resolve(t, pipe(t, "Staged title"), lintConfig(t, "staged"), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, b.stagedCalls)
	c := gc.Commits[0]
	assert.Equal(t, "Staged title", c.Message.Title)
	assert.Equal(t, "jane@example.com", c.AuthorEmail)
	assert.Equal(t, []string{"main"}, c.Branches)
	assert.Equal(t, []string{"a.go"}, c.ChangedFiles)
}

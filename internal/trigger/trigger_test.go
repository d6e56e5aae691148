package trigger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func TestValidKind(t *testing.T) {
	t.Parallel()

	require.True(t, ValidKind(KindPush))
	require.True(t, ValidKind(KindPullRequest))
	require.False(t, ValidKind("cron"))
	require.False(t, ValidKind(""))
}

func TestDescribeOutsideRepository(t *testing.T) {
	t.Parallel()

	meta := Describe(t.TempDir())
	require.Empty(t, meta.Branch)
	require.Empty(t, meta.Commit)
}

func TestDescribeEmptyRepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	meta := Describe(dir)
	require.Empty(t, meta.Commit)
}

func TestDescribeReadsHead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("gridrun\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	hash, err := wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	meta := Describe(dir)
	require.Equal(t, hash.String()[:8], meta.Commit)
	require.NotEmpty(t, meta.Branch)
}

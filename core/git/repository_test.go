package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"content-manager/core/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a repository with one initial commit.
func setupTestRepo(t *testing.T) (*Repository, string) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	ctx := context.Background()
	repo, err := Init(ctx, t.TempDir())
	require.NoError(t, err)

	writeFile(t, repo, "modified.txt", "v1")
	writeFile(t, repo, "renamed.txt", "a file long enough to be detected as a rename")
	writeFile(t, repo, "deleted.txt", "bye")
	require.NoError(t, repo.Add(ctx))
	hash, err := repo.Commit(ctx, "Initial commit")
	require.NoError(t, err)

	return repo, hash
}

func writeFile(t *testing.T, repo *Repository, name, data string) {
	t.Helper()
	path := filepath.Join(repo.Path(), name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestRepository_Diff(t *testing.T) {
	ctx := context.Background()
	repo, initial := setupTestRepo(t)

	writeFile(t, repo, "blog/added.txt", "new")
	writeFile(t, repo, "modified.txt", "v2")
	require.NoError(t, repo.Move(ctx, "renamed.txt", "moved/renamed.txt"))
	require.NoError(t, repo.Remove(ctx, "deleted.txt"))
	require.NoError(t, repo.Add(ctx))
	_, err := repo.Commit(ctx, "Second commit")
	require.NoError(t, err)

	t.Run("Between two commits", func(t *testing.T) {
		changes, err := repo.Diff(ctx, initial, "HEAD")
		require.NoError(t, err)

		assert.Equal(t, &content.ChangeSet{
			Added:    []string{"blog/added.txt"},
			Modified: []string{"modified.txt"},
			Renamed:  []content.Rename{{From: "renamed.txt", To: "moved/renamed.txt"}},
			Deleted:  []string{"deleted.txt"},
		}, changes)
	})

	t.Run("Until defaults to HEAD", func(t *testing.T) {
		changes, err := repo.Diff(ctx, "HEAD~1", "")
		require.NoError(t, err)
		assert.Equal(t, 4, changes.Len())
	})

	t.Run("From the empty tree", func(t *testing.T) {
		changes, err := repo.Diff(ctx, EmptyTree, "HEAD")
		require.NoError(t, err)
		assert.Equal(t, []string{"blog/added.txt", "modified.txt", "moved/renamed.txt"}, changes.Added)
		assert.Empty(t, changes.Deleted)
	})

	t.Run("No changes", func(t *testing.T) {
		changes, err := repo.Diff(ctx, "HEAD", "HEAD")
		require.NoError(t, err)
		assert.Equal(t, 0, changes.Len())
	})

	t.Run("Unknown revision", func(t *testing.T) {
		_, err := repo.Diff(ctx, "0123456789abcdef0123456789abcdef01234567", "HEAD")
		assert.ErrorIs(t, err, ErrUnknownRevision)

		_, err = repo.Diff(ctx, initial, "no-such-branch")
		assert.ErrorIs(t, err, ErrUnknownRevision)
	})
}

func TestOpen(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	_, err := Open(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestParseNameStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *content.ChangeSet
		wantErr bool
	}{
		{
			name:  "Empty",
			input: "",
			want:  &content.ChangeSet{},
		},
		{
			name:  "All statuses",
			input: "M\x00b.md\x00A\x00a.md\x00R087\x00old.md\x00new.md\x00D\x00gone.md\x00C100\x00a.md\x00copy.md\x00T\x00link\x00",
			want: &content.ChangeSet{
				Added:    []string{"a.md", "copy.md"},
				Modified: []string{"b.md", "link"},
				Renamed:  []content.Rename{{From: "old.md", To: "new.md"}},
				Deleted:  []string{"gone.md"},
			},
		},
		{
			name:    "Truncated rename",
			input:   "R100\x00old.md\x00",
			wantErr: true,
		},
		{
			name:    "Unsupported status",
			input:   "U\x00conflict.md\x00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseNameStatus([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"content-manager/core/content"
)

// EmptyTree is the hash of git's empty tree. Diffing from it lists every tracked file.
const EmptyTree = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

var (
	// ErrRepositoryNotFound is returned when a path is not inside a git working tree.
	ErrRepositoryNotFound = errors.New("git repository not found")

	// ErrUnknownRevision is returned when a revision cannot be resolved.
	ErrUnknownRevision = errors.New("unknown revision")
)

// Repository wraps the git command line for one working tree.
type Repository struct {
	path string
}

// Open returns the repository containing path.
func Open(ctx context.Context, path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	out, err := exec.CommandContext(ctx, "git", "-C", abs, "rev-parse", "--show-toplevel").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, abs)
	}
	return &Repository{path: strings.TrimSpace(string(out))}, nil
}

// Init creates a repository at path, creating the directory if needed.
func Init(ctx context.Context, path string) (*Repository, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := run(ctx, path, "init", "--quiet"); err != nil {
		return nil, err
	}
	return Open(ctx, path)
}

// Path returns the absolute path of the working tree root.
func (r *Repository) Path() string {
	return r.path
}

// Exec runs a git command in the working tree and returns its standard output.
func (r *Repository) Exec(ctx context.Context, args ...string) ([]byte, error) {
	return run(ctx, r.path, args...)
}

// RevParse resolves a revision to a full commit hash.
func (r *Repository) RevParse(ctx context.Context, rev string) (string, error) {
	if rev == EmptyTree {
		return rev, nil
	}
	out, err := r.Exec(ctx, "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownRevision, rev)
	}
	return strings.TrimSpace(string(out)), nil
}

// Diff returns the changes between two revisions. Until defaults to HEAD.
func (r *Repository) Diff(ctx context.Context, since, until string) (*content.ChangeSet, error) {
	if until == "" {
		until = "HEAD"
	}
	from, err := r.RevParse(ctx, since)
	if err != nil {
		return nil, err
	}
	to, err := r.RevParse(ctx, until)
	if err != nil {
		return nil, err
	}

	out, err := r.Exec(ctx, "diff", "--name-status", "-z", "-M", "--no-color", from, to)
	if err != nil {
		return nil, err
	}
	return parseNameStatus(out)
}

// Add stages paths. Without paths, every change of the working tree is staged.
func (r *Repository) Add(ctx context.Context, paths ...string) error {
	args := []string{"add"}
	if len(paths) == 0 {
		args = append(args, "--all")
	} else {
		args = append(args, "--")
		args = append(args, paths...)
	}
	_, err := r.Exec(ctx, args...)
	return err
}

// Commit records the staged changes and returns the new commit hash.
func (r *Repository) Commit(ctx context.Context, message string) (string, error) {
	if _, err := r.Exec(ctx, "commit", "--quiet", "--allow-empty", "-m", message); err != nil {
		return "", err
	}
	return r.RevParse(ctx, "HEAD")
}

// Move renames a tracked file.
func (r *Repository) Move(ctx context.Context, src, dst string) error {
	if dir := filepath.Dir(filepath.Join(r.path, dst)); dir != r.path {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	_, err := r.Exec(ctx, "mv", "--", src, dst)
	return err
}

// Remove deletes tracked files from the index and the working tree.
func (r *Repository) Remove(ctx context.Context, paths ...string) error {
	_, err := r.Exec(ctx, append([]string{"rm", "--quiet", "--"}, paths...)...)
	return err
}

func run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	// Identity for commits made by this tool when none is configured.
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=content-manager", "GIT_AUTHOR_EMAIL=content-manager@localhost",
		"GIT_COMMITTER_NAME=content-manager", "GIT_COMMITTER_EMAIL=content-manager@localhost",
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return out, fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, stderr.String())
	}
	return out, nil
}

// parseNameStatus parses the NUL separated output of git diff --name-status -z.
func parseNameStatus(out []byte) (*content.ChangeSet, error) {
	changes := &content.ChangeSet{}
	fields := strings.Split(strings.TrimSuffix(string(out), "\x00"), "\x00")
	if len(fields) == 1 && fields[0] == "" {
		return changes, nil
	}

	for i := 0; i < len(fields); {
		status := fields[i]
		if status == "" {
			return nil, fmt.Errorf("malformed diff output at field %d", i)
		}

		switch status[0] {
		case 'R', 'C':
			if i+2 >= len(fields) {
				return nil, fmt.Errorf("truncated diff entry %q", status)
			}
			from, to := fields[i+1], fields[i+2]
			if status[0] == 'R' {
				changes.Renamed = append(changes.Renamed, content.Rename{From: from, To: to})
			} else {
				changes.Added = append(changes.Added, to)
			}
			i += 3
			continue
		}

		if i+1 >= len(fields) {
			return nil, fmt.Errorf("truncated diff entry %q", status)
		}
		path := fields[i+1]
		switch status[0] {
		case 'A':
			changes.Added = append(changes.Added, path)
		case 'M', 'T':
			changes.Modified = append(changes.Modified, path)
		case 'D':
			changes.Deleted = append(changes.Deleted, path)
		default:
			return nil, fmt.Errorf("unsupported diff status %q for %s", status, path)
		}
		i += 2
	}

	sort.Strings(changes.Added)
	sort.Strings(changes.Modified)
	sort.Strings(changes.Deleted)
	sort.Slice(changes.Renamed, func(i, j int) bool {
		return changes.Renamed[i].From < changes.Renamed[j].From
	})
	return changes, nil
}

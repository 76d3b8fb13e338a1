// Package git wraps the git command line for the tracked content directory.
//
// Repository.Diff is the change detector of content updates: it resolves both
// revisions with rev-parse, then maps the name-status output of git diff to a
// content.ChangeSet (A and C to added, M and T to modified, R to renamed,
// D to deleted). Renames are detected with -M.
//
// # Usage
//
//	repo, err := git.Open(ctx, cfg.Content.Root)
//	changes, err := repo.Diff(ctx, "HEAD~1", "HEAD")
package git

package content

import (
	"context"

	"content-manager/core/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Rename is a (source, target) pair of repository-relative paths.
type Rename struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ChangeSet lists the source files changed between two revisions.
// Each list is sorted. A ChangeSet is never mutated after construction.
type ChangeSet struct {
	Added    []string `json:"added"`
	Modified []string `json:"modified"`
	Renamed  []Rename `json:"renamed"`
	Deleted  []string `json:"deleted"`
}

// Len returns the total number of changed paths.
func (c *ChangeSet) Len() int {
	return len(c.Added) + len(c.Modified) + len(c.Renamed) + len(c.Deleted)
}

// Differ produces the change set between two revisions of the tracked tree.
type Differ interface {
	Diff(ctx context.Context, since, until string) (*ChangeSet, error)
}

// Transaction is the single persistence transaction shared by a whole run.
type Transaction interface {
	// DB returns the transactional handle given to handlers.
	DB() *gorm.DB
	Commit() error
	Rollback() error
}

// BeginFunc opens a new transaction.
type BeginFunc func(ctx context.Context) (Transaction, error)

// Record is the document produced by an insert or update. It is opaque to the pipeline.
type Record any

// Handler translates one source file into persistence operations for a document type.
type Handler interface {
	// Kind identifies the handler type. Two handlers are interchangeable iff
	// their kinds are equal.
	Kind() string

	// Path returns the repository-relative source path.
	Path() string

	Insert(ctx context.Context) (Record, error)
	Update(ctx context.Context) (Record, error)

	// Rename moves the stored document to target without reprocessing it.
	Rename(ctx context.Context, target string) error

	Delete(ctx context.Context) error
}

// SameKind reports whether two handlers are of the same type.
func SameKind(a, b Handler) bool {
	return a.Kind() == b.Kind()
}

// Factory builds a handler bound to one path.
type Factory func(path string, s *Session) Handler

// Session carries the collaborators handlers need during one run.
type Session struct {
	// Root is the absolute path of the tracked directory.
	Root string
	// DB is the run's transaction.
	DB *gorm.DB
	// Reader reads source files relative to Root.
	Reader Reader
	// Storage receives binary assets. May be nil when no handler needs it.
	Storage storage.Client
	// Bucket is the storage bucket for assets.
	Bucket string
	// Logger is scoped to the run.
	Logger *zap.Logger
}

// Category names the four operation kinds of a run.
type Category string

const (
	Added    Category = "added"
	Modified Category = "modified"
	Renamed  Category = "renamed"
	Deleted  Category = "deleted"
)

// Categories lists the categories in execution order.
var Categories = []Category{Added, Modified, Renamed, Deleted}

package content

import (
	"context"
	"fmt"

	"content-manager/core/storage"

	"go.uber.org/zap"
)

// Locker is an exclusive, non-blocking inter-process lock.
type Locker interface {
	TryLock() (bool, error)
	Unlock() error
}

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Registry *Registry
	Differ   Differ
	Begin    BeginFunc
	Root     string
	Reader   Reader
	Storage  storage.Client
	Bucket   string
	Renderer *Renderer
	Locker   Locker
	Logger   *zap.Logger
}

// Manager is the entry point of content updates. It wires the registry,
// the differ and the database into runners and single-document operations.
type Manager struct {
	registry *Registry
	differ   Differ
	begin    BeginFunc
	root     string
	reader   Reader
	storage  storage.Client
	bucket   string
	renderer *Renderer
	locker   Locker
	logger   *zap.Logger
}

// NewManager creates a manager.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Renderer == nil {
		opts.Renderer = NewRenderer(false)
	}
	if opts.Reader == nil {
		opts.Reader = NewOSReader(opts.Root)
	}
	return &Manager{
		registry: opts.Registry,
		differ:   opts.Differ,
		begin:    opts.Begin,
		root:     opts.Root,
		reader:   opts.Reader,
		storage:  opts.Storage,
		bucket:   opts.Bucket,
		renderer: opts.Renderer,
		locker:   opts.Locker,
		logger:   opts.Logger,
	}
}

// Lock takes the run lock. The returned function releases it.
// Without a configured locker, Lock always succeeds.
func (m *Manager) Lock() (func(), error) {
	if m.locker == nil {
		return func() {}, nil
	}
	ok, err := m.locker.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return func() {
		if err := m.locker.Unlock(); err != nil {
			m.logger.Warn("Failed to release run lock", zap.Error(err))
		}
	}, nil
}

// LoadChanges opens a transaction and returns a runner over the changes
// between since and until. The runner owns the transaction from then on.
func (m *Manager) LoadChanges(ctx context.Context, since, until string) (*Runner, error) {
	tx, err := m.begin(ctx)
	if err != nil {
		return nil, DBError(err)
	}

	session := m.session(tx)
	planner := NewPlanner(NewResolver(m.registry, session))

	return NewRunner(RunnerOptions{
		Since:    since,
		Until:    until,
		Differ:   m.differ,
		Planner:  planner,
		Tx:       tx,
		Renderer: m.renderer,
		Logger:   session.Logger,
	}), nil
}

// Update locks, plans and runs the changes between since and until.
// The runner is returned even on failure, for reporting.
func (m *Manager) Update(ctx context.Context, since, until string) (*Runner, error) {
	unlock, err := m.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	runner, err := m.LoadChanges(ctx, since, until)
	if err != nil {
		return nil, err
	}
	_, err = runner.Execute(ctx)
	return runner, err
}

// Add inserts the document of a new source file.
func (m *Manager) Add(ctx context.Context, path string) (Record, error) {
	return m.single(ctx, func(r *Resolver) (Record, error) {
		h, err := r.Resolve(path)
		if err != nil {
			return nil, err
		}
		return h.Insert(ctx)
	})
}

// Modify updates the document of an existing source file.
func (m *Manager) Modify(ctx context.Context, path string) (Record, error) {
	return m.single(ctx, func(r *Resolver) (Record, error) {
		h, err := r.Resolve(path)
		if err != nil {
			return nil, err
		}
		return h.Update(ctx)
	})
}

// Rename moves a document to a new source path and refreshes it from there.
func (m *Manager) Rename(ctx context.Context, src, dst string) (Record, error) {
	return m.single(ctx, func(r *Resolver) (Record, error) {
		from, err := r.Resolve(src)
		if err != nil {
			return nil, err
		}
		to, err := r.Resolve(dst)
		if err != nil {
			return nil, err
		}
		if !SameKind(from, to) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrHandlerChangeForbidden, from.Path(), to.Path())
		}
		if err := from.Rename(ctx, to.Path()); err != nil {
			return nil, err
		}
		return to.Update(ctx)
	})
}

// Delete removes the document of a deleted source file.
func (m *Manager) Delete(ctx context.Context, path string) error {
	_, err := m.single(ctx, func(r *Resolver) (Record, error) {
		h, err := r.Resolve(path)
		if err != nil {
			return nil, err
		}
		return nil, h.Delete(ctx)
	})
	return err
}

// single runs one document operation in its own transaction.
func (m *Manager) single(ctx context.Context, op func(*Resolver) (Record, error)) (Record, error) {
	unlock, err := m.Lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	tx, err := m.begin(ctx)
	if err != nil {
		return nil, DBError(err)
	}

	record, err := op(NewResolver(m.registry, m.session(tx)))
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			m.logger.Warn("Rollback failed", zap.Error(rbErr))
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, DBError(err)
	}
	return record, nil
}

func (m *Manager) session(tx Transaction) *Session {
	return &Session{
		Root:    m.root,
		DB:      tx.DB(),
		Reader:  m.reader,
		Storage: m.storage,
		Bucket:  m.bucket,
		Logger:  m.logger,
	}
}

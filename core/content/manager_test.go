package content

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLocker struct {
	held     bool
	unlocked int
}

func (l *fakeLocker) TryLock() (bool, error) {
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLocker) Unlock() error {
	l.held = false
	l.unlocked++
	return nil
}

func newTestManager(calls *[]string, fail map[string]error, tx *mockTx, locker Locker) *Manager {
	registry := NewRegistry().
		MustRegister("dummy/*.txt", fakeFactory("text", calls, fail)).
		MustRegister("dummy/*.html", fakeFactory("html", calls, fail))
	return NewManager(ManagerOptions{
		Registry: registry,
		Differ:   &staticDiffer{changes: &ChangeSet{Added: []string{"dummy/a.txt"}}},
		Begin:    func(ctx context.Context) (Transaction, error) { return tx, nil },
		Root:     "/srv/content",
		Reader:   mapReader{},
		Locker:   locker,
	})
}

func TestManager_SingleDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Add", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Commit").Return(nil).Once()

		record, err := newTestManager(&calls, nil, tx, nil).Add(ctx, "dummy/add.txt")
		require.NoError(t, err)
		assert.Equal(t, "add.txt", record)
		tx.AssertExpectations(t)
	})

	t.Run("Modify with absolute path", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Commit").Return(nil).Once()

		record, err := newTestManager(&calls, nil, tx, nil).Modify(ctx, "/srv/content/dummy/modify.txt")
		require.NoError(t, err)
		assert.Equal(t, "modify.txt", record)
		assert.Equal(t, []string{"update dummy/modify.txt"}, calls)
	})

	t.Run("Rename", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Commit").Return(nil).Once()

		record, err := newTestManager(&calls, nil, tx, nil).Rename(ctx, "dummy/src.txt", "dummy/dst.txt")
		require.NoError(t, err)
		assert.Equal(t, "dst.txt", record)
		assert.Equal(t, []string{"rename dummy/src.txt", "update dummy/dst.txt"}, calls)
	})

	t.Run("Rename with different handler", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Rollback").Return(nil).Once()

		_, err := newTestManager(&calls, nil, tx, nil).Rename(ctx, "dummy/src.txt", "dummy/dst.html")
		assert.ErrorIs(t, err, ErrHandlerChangeForbidden)
		assert.Empty(t, calls)
		tx.AssertNotCalled(t, "Commit")
	})

	t.Run("Delete not versioned", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Rollback").Return(nil).Once()

		err := newTestManager(&calls, nil, tx, nil).Delete(ctx, "/tmp/delete.txt")
		assert.ErrorIs(t, err, ErrFileNotVersioned)
	})

	t.Run("Missing handler", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Rollback").Return(nil).Once()

		_, err := newTestManager(&calls, nil, tx, nil).Add(ctx, "missing/handler.txt")
		assert.ErrorIs(t, err, ErrHandlerNotFound)
	})

	t.Run("Handler failure rolls back", func(t *testing.T) {
		var calls []string
		fail := map[string]error{"insert dummy/bad.txt": DBError(errors.New("duplicate"))}
		tx := new(mockTx)
		tx.On("Rollback").Return(nil).Once()

		_, err := newTestManager(&calls, fail, tx, nil).Add(ctx, "dummy/bad.txt")
		assert.ErrorIs(t, err, ErrDatabase)
		tx.AssertExpectations(t)
	})
}

func TestManager_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Holds the lock for the run", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		tx.On("Commit").Return(nil).Once()
		locker := &fakeLocker{}

		runner, err := newTestManager(&calls, nil, tx, locker).Update(ctx, "HEAD~1", "HEAD")
		require.NoError(t, err)
		assert.Equal(t, StateCommitted, runner.State())
		assert.Equal(t, 1, locker.unlocked)
		assert.False(t, locker.held)
	})

	t.Run("Lock contention", func(t *testing.T) {
		var calls []string
		tx := new(mockTx)
		locker := &fakeLocker{held: true}

		_, err := newTestManager(&calls, nil, tx, locker).Update(ctx, "HEAD~1", "HEAD")
		assert.ErrorIs(t, err, ErrRunInProgress)
		assert.Empty(t, calls)
	})

	t.Run("Begin failure", func(t *testing.T) {
		m := NewManager(ManagerOptions{
			Registry: NewRegistry(),
			Begin: func(ctx context.Context) (Transaction, error) {
				return nil, errors.New("too many connections")
			},
			Reader: mapReader{},
		})
		_, err := m.LoadChanges(ctx, "HEAD~1", "HEAD")
		assert.ErrorIs(t, err, ErrDatabase)
	})
}

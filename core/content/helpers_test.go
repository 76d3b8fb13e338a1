package content

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// fakeHandler records every call it receives. Failures are configured by path.
type fakeHandler struct {
	kind  string
	path  string
	calls *[]string
	fail  map[string]error
}

func (h *fakeHandler) Kind() string { return h.kind }
func (h *fakeHandler) Path() string { return h.path }

func (h *fakeHandler) call(op string) error {
	*h.calls = append(*h.calls, op+" "+h.path)
	return h.fail[op+" "+h.path]
}

func (h *fakeHandler) Insert(ctx context.Context) (Record, error) {
	if err := h.call("insert"); err != nil {
		return nil, err
	}
	return path.Base(h.path), nil
}

func (h *fakeHandler) Update(ctx context.Context) (Record, error) {
	if err := h.call("update"); err != nil {
		return nil, err
	}
	return path.Base(h.path), nil
}

func (h *fakeHandler) Rename(ctx context.Context, target string) error {
	return h.call("rename")
}

func (h *fakeHandler) Delete(ctx context.Context) error {
	return h.call("delete")
}

// fakeFactory builds fakeHandlers of the given kind sharing one call log.
func fakeFactory(kind string, calls *[]string, fail map[string]error) Factory {
	return func(p string, s *Session) Handler {
		return &fakeHandler{kind: kind, path: p, calls: calls, fail: fail}
	}
}

type staticDiffer struct {
	changes *ChangeSet
	err     error
}

func (d *staticDiffer) Diff(ctx context.Context, since, until string) (*ChangeSet, error) {
	return d.changes, d.err
}

// mockTx is a testify mock of Transaction.
type mockTx struct {
	mock.Mock
}

func (m *mockTx) DB() *gorm.DB { return nil }

func (m *mockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *mockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// mapReader serves files from memory.
type mapReader map[string]string

func (r mapReader) Read(ctx context.Context, p string) ([]byte, error) {
	content, ok := r[p]
	if !ok {
		return nil, errors.New("no such file: " + p)
	}
	return []byte(content), nil
}

func testSession() *Session {
	return &Session{Root: "/srv/content"}
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

package content

import (
	"context"
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// Reader reads source files by repository-relative path.
type Reader interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// FSReader reads files from an afero filesystem rooted at the tracked directory.
type FSReader struct {
	fs afero.Fs
}

// NewFSReader wraps fs. Paths given to Read are relative to the root of fs.
func NewFSReader(fs afero.Fs) *FSReader {
	return &FSReader{fs: fs}
}

// NewOSReader returns a reader over the working tree at root.
func NewOSReader(root string) *FSReader {
	return NewFSReader(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// Read returns the content of path.
func (r *FSReader) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadFile(r.fs, filepath.FromSlash(path))
}

// DecodeText converts raw bytes to text, rejecting invalid UTF-8.
func DecodeText(raw []byte) (string, error) {
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: not valid UTF-8", ErrUndecodable)
	}
	return string(raw), nil
}

package content

import (
	"context"
	"fmt"
)

// Deserializer builds the structured form of a source from its raw bytes.
// It fails with ErrSourceMalformed when no usable structure can be produced.
type Deserializer[S any] func(raw []byte) (S, error)

// Processor is the capability set of a file processor.
type Processor[A any, S any] interface {
	// Load reads and deserializes the source file once.
	Load(ctx context.Context) (S, error)

	// Process returns the document attributes and every error collected
	// while deriving them.
	Process(ctx context.Context) (A, []error)
}

// FileProcessor is the base of every processor: it owns the path, the cached
// source and the error collector. Concrete processors embed it and declare
// their scan/process operations with Guard.
type FileProcessor[S any] struct {
	path        string
	reader      Reader
	deserialize Deserializer[S]

	source  S
	loadErr error
	loaded  bool

	collector Collector
}

// NewFileProcessor creates a processor base for a repository-relative path.
func NewFileProcessor[S any](path string, reader Reader, deserialize Deserializer[S]) *FileProcessor[S] {
	return &FileProcessor[S]{path: path, reader: reader, deserialize: deserialize}
}

// Path returns the repository-relative source path.
func (p *FileProcessor[S]) Path() string {
	return p.path
}

// Collector returns the processor's own collector, for use with Guard.
func (p *FileProcessor[S]) Collector() *Collector {
	return &p.collector
}

// CollectErrors runs fn inside an error-collection window.
func (p *FileProcessor[S]) CollectErrors(fn func() error) ([]error, error) {
	return p.collector.Collect(fn)
}

// Load reads the file and deserializes it. The file is read once: the
// source, or the failure, is cached for the lifetime of the processor.
func (p *FileProcessor[S]) Load(ctx context.Context) (S, error) {
	if !p.loaded {
		p.source, p.loadErr = p.load(ctx)
		p.loaded = true
	}
	return p.source, p.loadErr
}

func (p *FileProcessor[S]) load(ctx context.Context) (S, error) {
	var zero S
	raw, err := p.reader.Read(ctx, p.path)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrFileLoading, p.path, err)
	}

	source, err := p.deserialize(raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrFileLoading, p.path, err)
	}
	return source, nil
}

// SourceParser is the base of every parser. Concrete parsers embed it and
// declare their parse fields with GuardField.
type SourceParser struct {
	collector Collector
}

// Collector returns the parser's own collector, for use with GuardField.
func (p *SourceParser) Collector() *Collector {
	return &p.collector
}

// CollectErrors runs fn inside an error-collection window.
func (p *SourceParser) CollectErrors(fn func() error) ([]error, error) {
	return p.collector.Collect(fn)
}

package content

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// titleProcessor is a minimal processor exercising both guarded operation families.
type titleProcessor struct {
	*FileProcessor[string]

	Slug  Op[string]
	Title Op[string]
}

func newTitleProcessor(p string, reader Reader) *titleProcessor {
	base := NewFileProcessor(p, reader, DecodeText)
	tp := &titleProcessor{FileProcessor: base}
	tp.Slug = Guard(base.Collector(), ScanPolicy, tp.scanSlug)
	tp.Title = Guard(base.Collector(), ProcessPolicy, tp.processTitle)
	return tp
}

func (p *titleProcessor) scanSlug(ctx context.Context) (string, error) {
	if p.Path() == "bad" {
		return "", fmt.Errorf("%w: no slug in %s", ErrPathScanning, p.Path())
	}
	return p.Path(), nil
}

func (p *titleProcessor) processTitle(ctx context.Context) (string, error) {
	source, err := p.Load(ctx)
	if err != nil {
		return "", err
	}
	if source == "" {
		return "", fmt.Errorf("%w: empty title", ErrFileProcessing)
	}
	return source, nil
}

// countingReader records how often the file system is hit.
type countingReader struct {
	Reader
	reads int
}

func (r *countingReader) Read(ctx context.Context, p string) ([]byte, error) {
	r.reads++
	return r.Reader.Read(ctx, p)
}

func TestCollector_Window(t *testing.T) {
	ctx := context.Background()

	t.Run("Captures errors inside a window", func(t *testing.T) {
		p := newTitleProcessor("bad", mapReader{"bad": ""})

		errs, err := p.CollectErrors(func() error {
			slug, err := p.Slug(ctx)
			assert.NoError(t, err)
			assert.Empty(t, slug)

			title, err := p.Title(ctx)
			assert.NoError(t, err)
			assert.Empty(t, title)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, errs, 2)
		assert.ErrorIs(t, errs[0], ErrPathScanning)
		assert.ErrorIs(t, errs[1], ErrFileProcessing)
	})

	t.Run("Propagates errors outside a window", func(t *testing.T) {
		p := newTitleProcessor("bad", mapReader{"bad": ""})

		_, err := p.Slug(ctx)
		assert.ErrorIs(t, err, ErrPathScanning)
		assert.False(t, p.Collector().Open())
	})

	t.Run("Fresh window starts empty", func(t *testing.T) {
		p := newTitleProcessor("bad", mapReader{"bad": ""})

		first, _ := p.CollectErrors(func() error {
			_, _ = p.Slug(ctx)
			return nil
		})
		second, _ := p.CollectErrors(func() error { return nil })

		assert.Len(t, first, 1)
		assert.Empty(t, second)
	})

	t.Run("Does not capture kinds outside the policy", func(t *testing.T) {
		var c Collector
		boom := errors.New("boom")
		op := Guard(&c, ScanPolicy, func(ctx context.Context) (int, error) { return 0, boom })

		errs, err := c.Collect(func() error {
			_, err := op(ctx)
			return err
		})

		assert.Empty(t, errs)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("Nested window keeps the enclosing captures", func(t *testing.T) {
		p := newTitleProcessor("bad", mapReader{"bad": ""})

		var inner []error
		outer, err := p.CollectErrors(func() error {
			_, _ = p.Slug(ctx)
			inner, _ = p.CollectErrors(func() error {
				_, err := p.Title(ctx)
				return err
			})
			assert.True(t, p.Collector().Open())
			_, _ = p.Slug(ctx)
			return nil
		})

		require.NoError(t, err)
		require.Len(t, inner, 1)
		assert.ErrorIs(t, inner[0], ErrFileProcessing)
		require.Len(t, outer, 2)
		assert.ErrorIs(t, outer[0], ErrPathScanning)
		assert.ErrorIs(t, outer[1], ErrPathScanning)
		assert.False(t, p.Collector().Open())
	})

	t.Run("Collectors are not shared between instances", func(t *testing.T) {
		a := newTitleProcessor("bad", mapReader{})
		b := newTitleProcessor("bad", mapReader{})

		errs, _ := a.CollectErrors(func() error {
			_, err := b.Slug(ctx)
			assert.ErrorIs(t, err, ErrPathScanning)
			return nil
		})
		assert.Empty(t, errs)
	})
}

func TestFileProcessor_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("Caches the source", func(t *testing.T) {
		reader := mapReader{"a.txt": "hello"}
		p := NewFileProcessor("a.txt", reader, DecodeText)

		first, err := p.Load(ctx)
		require.NoError(t, err)
		delete(reader, "a.txt")
		second, err := p.Load(ctx)
		require.NoError(t, err)

		assert.Equal(t, "hello", first)
		assert.Equal(t, first, second)
	})

	t.Run("Missing file", func(t *testing.T) {
		p := NewFileProcessor("a.txt", mapReader{}, DecodeText)
		_, err := p.Load(ctx)
		assert.ErrorIs(t, err, ErrFileLoading)
	})

	t.Run("Undecodable content", func(t *testing.T) {
		p := NewFileProcessor("a.txt", mapReader{"a.txt": "\xff\xfe"}, DecodeText)
		_, err := p.Load(ctx)
		assert.ErrorIs(t, err, ErrFileLoading)
		assert.ErrorIs(t, err, ErrUndecodable)
	})

	t.Run("Malformed source", func(t *testing.T) {
		malformed := func(raw []byte) (int, error) { return 0, ErrSourceMalformed }
		p := NewFileProcessor("a.txt", mapReader{"a.txt": "x"}, malformed)
		_, err := p.Load(ctx)
		assert.ErrorIs(t, err, ErrFileLoading)
		assert.ErrorIs(t, err, ErrSourceMalformed)
	})

	t.Run("Failures are cached", func(t *testing.T) {
		reader := &countingReader{Reader: mapReader{}}
		p := NewFileProcessor("a.txt", reader, DecodeText)

		_, first := p.Load(ctx)
		_, second := p.Load(ctx)

		assert.ErrorIs(t, first, ErrFileLoading)
		assert.Equal(t, first, second)
		assert.Equal(t, 1, reader.reads)
	})

	t.Run("Loading errors are collected by process operations", func(t *testing.T) {
		p := newTitleProcessor("gone", mapReader{})
		errs, err := p.CollectErrors(func() error {
			_, err := p.Title(ctx)
			return err
		})
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrFileLoading)
	})
}

func TestSourceParser_GuardField(t *testing.T) {
	var parser SourceParser
	title := GuardField(parser.Collector(), ParsePolicy, func() (string, error) {
		return "", Fieldf("title", "missing")
	})
	date := GuardField(parser.Collector(), ParsePolicy, func() (string, error) {
		return "", Fieldf("date", "missing")
	})

	errs, err := parser.CollectErrors(func() error {
		_, _ = title()
		_, _ = date()
		return nil
	})

	require.NoError(t, err)
	require.Len(t, errs, 2)
	var fe *FieldError
	require.ErrorAs(t, errs[1], &fe)
	assert.Equal(t, "date", fe.Field)

	_, err = title()
	assert.ErrorIs(t, err, ErrSourceParsing)
}

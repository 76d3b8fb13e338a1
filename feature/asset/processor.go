package asset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"path"
	"strings"

	"content-manager/core/content"
)

// DefaultContentType is used when the extension is unknown.
const DefaultContentType = "application/octet-stream"

// MaxSize is the largest asset accepted.
const MaxSize = 64 << 20

func deserialize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty file", content.ErrSourceMalformed)
	}
	return raw, nil
}

// Processor derives the storage attributes of an asset.
type Processor struct {
	*content.FileProcessor[[]byte]
	prefix string
}

// NewProcessor creates a processor for a repository-relative path. Objects
// are named <prefix>/<path>.
func NewProcessor(path, prefix string, reader content.Reader) *Processor {
	return &Processor{
		FileProcessor: content.NewFileProcessor(path, reader, deserialize),
		prefix:        strings.Trim(prefix, "/"),
	}
}

// ObjectName is the storage key of the asset.
func (p *Processor) ObjectName(ctx context.Context) (string, error) {
	return content.Guard(p.Collector(), content.ScanPolicy, func(ctx context.Context) (string, error) {
		for _, segment := range strings.Split(p.Path(), "/") {
			if segment == "" || strings.HasPrefix(segment, ".") {
				return "", fmt.Errorf("%w: %s: hidden or empty path segment", content.ErrPathScanning, p.Path())
			}
		}
		return path.Join(p.prefix, p.Path()), nil
	})(ctx)
}

// ContentType is guessed from the extension.
func (p *Processor) ContentType(ctx context.Context) (string, error) {
	return content.Guard(p.Collector(), content.ScanPolicy, func(ctx context.Context) (string, error) {
		if t := mime.TypeByExtension(path.Ext(p.Path())); t != "" {
			return t, nil
		}
		return DefaultContentType, nil
	})(ctx)
}

// Checksum is the hex encoded SHA-256 of the content.
func (p *Processor) Checksum(ctx context.Context) (string, error) {
	return content.Guard(p.Collector(), content.ProcessPolicy, func(ctx context.Context) (string, error) {
		data, err := p.Load(ctx)
		if err != nil {
			return "", err
		}
		sum := sha256.Sum256(data)
		return hex.EncodeToString(sum[:]), nil
	})(ctx)
}

// Size is the content length, bounded by MaxSize.
func (p *Processor) Size(ctx context.Context) (int64, error) {
	return content.Guard(p.Collector(), content.ProcessPolicy, func(ctx context.Context) (int64, error) {
		data, err := p.Load(ctx)
		if err != nil {
			return 0, err
		}
		if len(data) > MaxSize {
			return 0, fmt.Errorf("%w: %s: %d bytes exceeds %d", content.ErrFileProcessing, p.Path(), len(data), MaxSize)
		}
		return int64(len(data)), nil
	})(ctx)
}

// Process derives every attribute, collecting the errors of each one.
func (p *Processor) Process(ctx context.Context) (Attributes, []error) {
	var attrs Attributes
	errs, err := p.CollectErrors(func() error {
		var err error
		if attrs.ObjectName, err = p.ObjectName(ctx); err != nil {
			return err
		}
		if attrs.ContentType, err = p.ContentType(ctx); err != nil {
			return err
		}

		data, err := content.Guard(p.Collector(), content.ProcessPolicy, p.Load)(ctx)
		if err != nil || data == nil {
			return err
		}
		attrs.Data = data
		if attrs.Checksum, err = p.Checksum(ctx); err != nil {
			return err
		}
		attrs.Size, err = p.Size(ctx)
		return err
	})
	if err != nil {
		errs = append(errs, err)
	}
	return attrs, errs
}

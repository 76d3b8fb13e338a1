package asset

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"content-manager/core/content"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Kind identifies asset handlers.
const Kind = "asset"

// ErrStorageNotConfigured is returned when no storage client is available.
var ErrStorageNotConfigured = errors.New("storage not configured")

// Handler mirrors an asset to object storage and records it.
//
// Object storage is not transactional, so a run only ever adds objects:
// renames and deletions leave the previous object in place until Prune
// removes every object no row refers to.
type Handler struct {
	path    string
	prefix  string
	session *content.Session
	docs    content.Documents[Asset]
}

// Factory returns the content.Factory of assets stored under prefix.
func Factory(prefix string) content.Factory {
	return func(path string, s *content.Session) content.Handler {
		return &Handler{path: path, prefix: prefix, session: s, docs: content.NewDocuments[Asset](s.DB)}
	}
}

// Kind implements content.Handler.
func (h *Handler) Kind() string {
	return Kind
}

// Path implements content.Handler.
func (h *Handler) Path() string {
	return h.path
}

// Insert uploads the asset and records it.
func (h *Handler) Insert(ctx context.Context) (content.Record, error) {
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}
	exists, err := h.docs.Exists(ctx, h.path)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", content.ErrDocumentExists, h.path)
	}

	if err := h.upload(ctx, attrs); err != nil {
		return nil, err
	}
	asset := &Asset{SourcePath: h.path}
	apply(asset, attrs)
	if err := h.docs.Create(ctx, h.path, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Update uploads the asset again when its content or object name changed.
func (h *Handler) Update(ctx context.Context) (content.Record, error) {
	asset, err := h.docs.Get(ctx, h.path)
	if err != nil {
		return nil, err
	}
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}

	if asset.Checksum == attrs.Checksum && asset.ObjectName == attrs.ObjectName {
		h.logger().Debug("Asset unchanged", zap.String("object", asset.ObjectName))
		return asset, nil
	}
	if err := h.upload(ctx, attrs); err != nil {
		return nil, err
	}
	apply(asset, attrs)
	if err := h.docs.Save(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Rename moves the row to target. The object follows on the next Update.
func (h *Handler) Rename(ctx context.Context, target string) error {
	return h.docs.Move(ctx, h.path, target)
}

// Delete removes the row. The object is left to Prune.
func (h *Handler) Delete(ctx context.Context) error {
	return h.docs.Remove(ctx, h.path)
}

func (h *Handler) process(ctx context.Context) (Attributes, error) {
	attrs, errs := NewProcessor(h.path, h.prefix, h.session.Reader).Process(ctx)
	if err := content.NewInvalidFile(h.path, errs); err != nil {
		return Attributes{}, err
	}
	return attrs, nil
}

func (h *Handler) upload(ctx context.Context, attrs Attributes) error {
	if h.session.Storage == nil {
		return ErrStorageNotConfigured
	}
	_, err := h.session.Storage.PutObject(ctx, h.session.Bucket, attrs.ObjectName,
		bytes.NewReader(attrs.Data), attrs.Size, minio.PutObjectOptions{
			ContentType:  attrs.ContentType,
			UserMetadata: map[string]string{"Checksum": attrs.Checksum},
		})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", attrs.ObjectName, err)
	}
	h.logger().Debug("Asset uploaded", zap.String("object", attrs.ObjectName), zap.Int64("size", attrs.Size))
	return nil
}

func (h *Handler) logger() *zap.Logger {
	if h.session.Logger == nil {
		return zap.NewNop()
	}
	return h.session.Logger.With(zap.String("handler", Kind), zap.String("path", h.path))
}

func apply(a *Asset, attrs Attributes) {
	a.ObjectName = attrs.ObjectName
	a.ContentType = attrs.ContentType
	a.Size = attrs.Size
	a.Checksum = attrs.Checksum
}

package page

import (
	"context"

	"content-manager/core/content"

	"go.uber.org/zap"
)

// Kind identifies page handlers.
const Kind = "page"

// Handler stores pages.
type Handler struct {
	path    string
	session *content.Session
	docs    content.Documents[Page]
}

// NewHandler is the content.Factory of pages.
func NewHandler(path string, s *content.Session) content.Handler {
	return &Handler{path: path, session: s, docs: content.NewDocuments[Page](s.DB)}
}

// Kind implements content.Handler.
func (h *Handler) Kind() string {
	return Kind
}

// Path implements content.Handler.
func (h *Handler) Path() string {
	return h.path
}

// Insert stores a new page. The source path must not be stored yet.
func (h *Handler) Insert(ctx context.Context) (content.Record, error) {
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}

	page := &Page{SourcePath: h.path}
	attrs.apply(page)
	if err := h.docs.Create(ctx, h.path, page); err != nil {
		return nil, err
	}
	h.logger().Debug("Page inserted", zap.String("uri", page.URI))
	return page, nil
}

// Update refreshes the stored page from its source.
func (h *Handler) Update(ctx context.Context) (content.Record, error) {
	page, err := h.docs.Get(ctx, h.path)
	if err != nil {
		return nil, err
	}
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}

	attrs.apply(page)
	if err := h.docs.Save(ctx, page); err != nil {
		return nil, err
	}
	h.logger().Debug("Page updated", zap.String("uri", page.URI))
	return page, nil
}

// Rename moves the stored page to target.
func (h *Handler) Rename(ctx context.Context, target string) error {
	return h.docs.Move(ctx, h.path, target)
}

// Delete removes the stored page.
func (h *Handler) Delete(ctx context.Context) error {
	return h.docs.Remove(ctx, h.path)
}

func (h *Handler) process(ctx context.Context) (Attributes, error) {
	attrs, errs := NewProcessor(h.path, h.session.Reader).Process(ctx)
	if err := content.NewInvalidFile(h.path, errs); err != nil {
		return Attributes{}, err
	}
	return attrs, nil
}

func (h *Handler) logger() *zap.Logger {
	if h.session.Logger == nil {
		return zap.NewNop()
	}
	return h.session.Logger.With(zap.String("handler", Kind), zap.String("path", h.path))
}

package article

import (
	"context"

	"content-manager/core/content"

	"go.uber.org/zap"
)

// Kind identifies article handlers.
const Kind = "article"

// Handler stores articles.
type Handler struct {
	path    string
	session *content.Session
	docs    content.Documents[Article]
}

// NewHandler is the content.Factory of articles.
func NewHandler(path string, s *content.Session) content.Handler {
	return &Handler{path: path, session: s, docs: content.NewDocuments[Article](s.DB)}
}

// Kind implements content.Handler.
func (h *Handler) Kind() string {
	return Kind
}

// Path implements content.Handler.
func (h *Handler) Path() string {
	return h.path
}

// Insert stores a new article. The source path must not be stored yet.
func (h *Handler) Insert(ctx context.Context) (content.Record, error) {
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}

	article := &Article{SourcePath: h.path}
	attrs.apply(article)
	if err := h.docs.Create(ctx, h.path, article); err != nil {
		return nil, err
	}
	h.logger().Debug("Article inserted", zap.String("uri", article.URI))
	return article, nil
}

// Update refreshes the stored article from its source.
func (h *Handler) Update(ctx context.Context) (content.Record, error) {
	article, err := h.docs.Get(ctx, h.path)
	if err != nil {
		return nil, err
	}
	attrs, err := h.process(ctx)
	if err != nil {
		return nil, err
	}

	attrs.apply(article)
	if err := h.docs.Save(ctx, article); err != nil {
		return nil, err
	}
	h.logger().Debug("Article updated", zap.String("uri", article.URI))
	return article, nil
}

// Rename moves the stored article to target.
func (h *Handler) Rename(ctx context.Context, target string) error {
	return h.docs.Move(ctx, h.path, target)
}

// Delete removes the stored article.
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

// Package catalog declares the document types of the content tree: the
// handler registry built from configuration and the models to migrate.
package catalog

import (
	"fmt"

	"content-manager/core/content"
	"content-manager/feature/article"
	"content-manager/feature/asset"
	"content-manager/feature/page"
)

// Models returns every document model, in migration order.
func Models() []any {
	return []any{&article.Article{}, &page.Page{}, &asset.Asset{}}
}

// Registry builds the handler registry. Patterns are registered in the order
// articles, pages, assets; empty patterns disable their document type.
func Registry(cfg content.Config) (*content.Registry, error) {
	registry := content.NewRegistry()
	entries := []struct {
		name    string
		pattern string
		factory content.Factory
	}{
		{"articles", cfg.Articles, article.NewHandler},
		{"pages", cfg.Pages, page.NewHandler},
		{"assets", cfg.Assets, asset.Factory(cfg.AssetPrefix)},
	}

	for _, e := range entries {
		if e.pattern == "" {
			continue
		}
		if err := registry.Register(e.pattern, e.factory); err != nil {
			return nil, fmt.Errorf("%s: %w", e.name, err)
		}
	}
	return registry, nil
}

// Package article stores blog articles written in Markdown.
//
// Sources live at <prefix>/<year>/<MM-DD>.<slug>.md. The path gives the
// publication date and the URI (/<prefix>/<year>/<slug>); the content is
// Markdown with optional YAML frontmatter:
//
//	---
//	title: Release notes
//	lead: What changed this month.
//	tags: [release, go]
//	language: en
//	---
//	# Release notes
//	...
//
// Without a frontmatter title, the first level 1 heading is used; without a
// lead, the first paragraph. The body is stored as HTML rendered by goldmark.
//
// # Components
//
//   - Parser: frontmatter and Markdown field extraction.
//   - Processor: path scanning and field processing, collecting every error.
//   - Handler: the content.Handler persisting Article rows.
package article

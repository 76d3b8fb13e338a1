// Package page stores standalone pages written in Markdown with TOML frontmatter.
//
//	+++
//	title = "About"
//	description = "Who we are"
//	order = 2
//	draft = false
//	+++
//	Body in Markdown.
//
// The URI is the path without its first directory and without the .md
// extension; index.md stands for its directory (pages/docs/index.md is /docs).
package page

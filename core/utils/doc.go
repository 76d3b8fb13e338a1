// Package utils provides value coercion helpers for loosely typed sources,
// such as the frontmatter maps decoded from YAML or TOML documents.
// Every helper reports values it cannot convert instead of guessing.
package utils

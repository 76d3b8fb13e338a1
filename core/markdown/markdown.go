// Package markdown splits frontmatter from Markdown sources and renders
// their body with goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

const (
	// YAMLDelimiter fences YAML frontmatter.
	YAMLDelimiter = "---"
	// TOMLDelimiter fences TOML frontmatter.
	TOMLDelimiter = "+++"
)

// SplitFrontmatter separates the frontmatter fenced by delim from the body.
// ok is false when the source does not start with a complete fence, in which
// case body is the whole content.
func SplitFrontmatter(content []byte, delim string) (frontmatter, body []byte, ok bool) {
	lines := bytes.Split(content, []byte("\n"))

	// Check if starts with the delimiter
	if len(lines) < 2 || !bytes.Equal(bytes.TrimSpace(lines[0]), []byte(delim)) {
		return nil, content, false
	}

	// Find closing delimiter
	for i := 1; i < len(lines); i++ {
		if bytes.Equal(bytes.TrimSpace(lines[i]), []byte(delim)) {
			frontmatter = bytes.Join(lines[1:i], []byte("\n"))
			body = bytes.Join(lines[i+1:], []byte("\n"))
			return frontmatter, body, true
		}
	}

	// No closing delimiter found
	return nil, content, false
}

// Document is a parsed Markdown body.
type Document struct {
	source []byte
	root   ast.Node
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM, extension.Footnote))

// Parse parses a Markdown body.
func Parse(source []byte) *Document {
	return &Document{source: source, root: md.Parser().Parse(text.NewReader(source))}
}

// HTML renders the document.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, d.source, d.root); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// Title returns the text of the first level 1 heading, or "".
func (d *Document) Title() string {
	return d.firstText(func(n ast.Node) bool {
		h, ok := n.(*ast.Heading)
		return ok && h.Level == 1
	})
}

// Lead returns the text of the first top-level paragraph, or "".
func (d *Document) Lead() string {
	return d.firstText(func(n ast.Node) bool {
		_, ok := n.(*ast.Paragraph)
		return ok && n.Parent() == d.root
	})
}

func (d *Document) firstText(match func(ast.Node) bool) string {
	var found string
	_ = ast.Walk(d.root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering || !match(n) {
			return ast.WalkContinue, nil
		}
		found = extractText(n, d.source)
		return ast.WalkStop, nil
	})
	return found
}

// extractText concatenates the text leaves below n.
func extractText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return string(bytes.TrimSpace(buf.Bytes()))
}

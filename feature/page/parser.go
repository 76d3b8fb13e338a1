package page

import (
	"fmt"
	"strings"

	"content-manager/core/content"
	"content-manager/core/markdown"
	"content-manager/core/utils"

	"github.com/BurntSushi/toml"
)

// Parser extracts the fields of a page from Markdown with TOML frontmatter.
type Parser struct {
	content.SourceParser

	meta map[string]any
	doc  *markdown.Document
}

// NewParser deserializes a page source. Pages require a frontmatter block.
func NewParser(raw []byte) (*Parser, error) {
	text, err := content.DecodeText(raw)
	if err != nil {
		return nil, err
	}

	front, body, ok := markdown.SplitFrontmatter([]byte(text), markdown.TOMLDelimiter)
	if !ok {
		return nil, fmt.Errorf("%w: missing +++ frontmatter", content.ErrSourceMalformed)
	}
	meta := map[string]any{}
	if _, err := toml.Decode(string(front), &meta); err != nil {
		return nil, fmt.Errorf("%w: frontmatter: %v", content.ErrSourceMalformed, err)
	}

	return &Parser{meta: meta, doc: markdown.Parse(body)}, nil
}

// Title is the frontmatter title, or else the first level 1 heading.
func (p *Parser) Title() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseTitle)()
}

// Description is the optional frontmatter description.
func (p *Parser) Description() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseDescription)()
}

// Body is the Markdown body rendered to HTML.
func (p *Parser) Body() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseBody)()
}

// Order is the position of the page in menus, 0 when unset.
func (p *Parser) Order() (int, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseOrder)()
}

// Draft reports whether the page is unpublished.
func (p *Parser) Draft() (bool, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseDraft)()
}

func (p *Parser) parseTitle() (string, error) {
	if v, ok := p.meta["title"]; ok {
		title, err := utils.ToString(v)
		if err != nil {
			return "", &content.FieldError{Field: "title", Err: err}
		}
		if title = strings.TrimSpace(title); title != "" {
			return title, nil
		}
	}
	if title := p.doc.Title(); title != "" {
		return title, nil
	}
	return "", content.Fieldf("title", "missing")
}

func (p *Parser) parseDescription() (string, error) {
	v, ok := p.meta["description"]
	if !ok {
		return "", nil
	}
	desc, err := utils.ToString(v)
	if err != nil {
		return "", &content.FieldError{Field: "description", Err: err}
	}
	if desc = strings.TrimSpace(desc); len(desc) > 512 {
		return "", content.Fieldf("description", "longer than 512 characters")
	}
	return desc, nil
}

func (p *Parser) parseBody() (string, error) {
	html, err := p.doc.HTML()
	if err != nil {
		return "", &content.FieldError{Field: "body", Err: err}
	}
	return html, nil
}

func (p *Parser) parseOrder() (int, error) {
	v, ok := p.meta["order"]
	if !ok {
		return 0, nil
	}
	order, err := utils.ToInt(v)
	if err != nil {
		return 0, &content.FieldError{Field: "order", Err: err}
	}
	if order < 0 {
		return 0, content.Fieldf("order", "%d is negative", order)
	}
	return order, nil
}

func (p *Parser) parseDraft() (bool, error) {
	v, ok := p.meta["draft"]
	if !ok {
		return false, nil
	}
	draft, err := utils.ToBool(v)
	if err != nil {
		return false, &content.FieldError{Field: "draft", Err: err}
	}
	return draft, nil
}

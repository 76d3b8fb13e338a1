package article

import (
	"fmt"
	"regexp"
	"strings"

	"content-manager/core/content"
	"content-manager/core/markdown"
	"content-manager/core/utils"

	"gopkg.in/yaml.v3"
)

// DefaultLanguage applies when the frontmatter does not set one.
const DefaultLanguage = "en"

var languagePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// Parser extracts the fields of an article from Markdown with YAML frontmatter.
type Parser struct {
	content.SourceParser

	meta map[string]any
	doc  *markdown.Document
}

// NewParser deserializes an article source. It fails with
// content.ErrSourceMalformed when the text or the frontmatter is unusable.
func NewParser(raw []byte) (*Parser, error) {
	text, err := content.DecodeText(raw)
	if err != nil {
		return nil, err
	}

	meta := map[string]any{}
	front, body, ok := markdown.SplitFrontmatter([]byte(text), markdown.YAMLDelimiter)
	if ok {
		if err := yaml.Unmarshal(front, &meta); err != nil {
			return nil, fmt.Errorf("%w: frontmatter: %v", content.ErrSourceMalformed, err)
		}
		if meta == nil {
			meta = map[string]any{}
		}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, fmt.Errorf("%w: empty body", content.ErrSourceMalformed)
	}

	return &Parser{meta: meta, doc: markdown.Parse(body)}, nil
}

// Title is the frontmatter title, or else the first level 1 heading.
func (p *Parser) Title() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseTitle)()
}

// Lead is the frontmatter lead, or else the first paragraph.
func (p *Parser) Lead() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseLead)()
}

// Body is the Markdown body rendered to HTML.
func (p *Parser) Body() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseBody)()
}

// Tags lists the frontmatter tags.
func (p *Parser) Tags() ([]string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseTags)()
}

// Language is the frontmatter language, DefaultLanguage when unset.
func (p *Parser) Language() (string, error) {
	return content.GuardField(p.Collector(), content.ParsePolicy, p.parseLanguage)()
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

func (p *Parser) parseLead() (string, error) {
	if v, ok := p.meta["lead"]; ok {
		lead, err := utils.ToString(v)
		if err != nil {
			return "", &content.FieldError{Field: "lead", Err: err}
		}
		return strings.TrimSpace(lead), nil
	}
	return p.doc.Lead(), nil
}

func (p *Parser) parseBody() (string, error) {
	html, err := p.doc.HTML()
	if err != nil {
		return "", &content.FieldError{Field: "body", Err: err}
	}
	return html, nil
}

func (p *Parser) parseTags() ([]string, error) {
	tags, err := utils.ToStrings(p.meta["tags"])
	if err != nil {
		return nil, &content.FieldError{Field: "tags", Err: err}
	}
	for i, tag := range tags {
		if strings.Contains(tag, ",") {
			return nil, content.Fieldf("tags", "tag %q contains a comma", tag)
		}
		tags[i] = strings.ToLower(tag)
	}
	return tags, nil
}

func (p *Parser) parseLanguage() (string, error) {
	v, ok := p.meta["language"]
	if !ok {
		return DefaultLanguage, nil
	}
	lang, err := utils.ToString(v)
	if err != nil {
		return "", &content.FieldError{Field: "language", Err: err}
	}
	if !languagePattern.MatchString(lang) {
		return "", content.Fieldf("language", "%q is not a language code", lang)
	}
	return lang, nil
}

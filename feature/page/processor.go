package page

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	"content-manager/core/content"
)

var segmentPattern = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)

// Processor derives page attributes. The first directory of the path is the
// pages root and is not part of the URI; index.md stands for its directory.
type Processor struct {
	*content.FileProcessor[*Parser]
}

// NewProcessor creates a processor for a repository-relative path.
func NewProcessor(path string, reader content.Reader) *Processor {
	return &Processor{FileProcessor: content.NewFileProcessor(path, reader, NewParser)}
}

// URI is the public location of the page.
func (p *Processor) URI(ctx context.Context) (string, error) {
	return content.Guard(p.Collector(), content.ScanPolicy, p.scanURI)(ctx)
}

// Title returns the parsed title.
func (p *Processor) Title(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Title)(ctx)
}

// Description returns the parsed description.
func (p *Processor) Description(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Description)(ctx)
}

// Body returns the rendered body.
func (p *Processor) Body(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Body)(ctx)
}

// Order returns the menu position.
func (p *Processor) Order(ctx context.Context) (int, error) {
	return parsed(p, (*Parser).Order)(ctx)
}

// Draft returns the draft flag.
func (p *Processor) Draft(ctx context.Context) (bool, error) {
	return parsed(p, (*Parser).Draft)(ctx)
}

// Process derives every attribute, collecting the errors of each one.
func (p *Processor) Process(ctx context.Context) (Attributes, []error) {
	var attrs Attributes
	errs, err := p.CollectErrors(func() error {
		var err error
		if attrs.URI, err = p.URI(ctx); err != nil {
			return err
		}

		parser, err := content.Guard(p.Collector(), content.ProcessPolicy, p.Load)(ctx)
		if err != nil || parser == nil {
			return err
		}
		if attrs.Title, err = p.Title(ctx); err != nil {
			return err
		}
		if attrs.Description, err = p.Description(ctx); err != nil {
			return err
		}
		if attrs.Body, err = p.Body(ctx); err != nil {
			return err
		}
		if attrs.Position, err = p.Order(ctx); err != nil {
			return err
		}
		attrs.Draft, err = p.Draft(ctx)
		return err
	})
	if err != nil {
		errs = append(errs, err)
	}
	return attrs, errs
}

func parsed[T any](p *Processor, field func(*Parser) (T, error)) content.Op[T] {
	return content.Guard(p.Collector(), content.ProcessPolicy, func(ctx context.Context) (T, error) {
		parser, err := p.Load(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return field(parser)
	})
}

func (p *Processor) scanURI(ctx context.Context) (string, error) {
	segments := strings.Split(strings.TrimSuffix(p.Path(), ".md"), "/")
	if len(segments) < 2 || path.Ext(p.Path()) != ".md" {
		return "", fmt.Errorf("%w: %s: expected <root>/<name>.md", content.ErrPathScanning, p.Path())
	}
	segments = segments[1:]
	if segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	}
	for _, s := range segments {
		if !segmentPattern.MatchString(s) {
			return "", fmt.Errorf("%w: %s: %q is not a valid URI segment", content.ErrPathScanning, p.Path(), s)
		}
	}
	return "/" + strings.Join(segments, "/"), nil
}

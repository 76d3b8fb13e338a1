package article

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"time"

	"content-manager/core/content"
)

// filenamePattern matches "<MM-DD>.<slug>.md".
var filenamePattern = regexp.MustCompile(`^(\d{2})-(\d{2})\.([a-z0-9]+(?:-[a-z0-9]+)*)\.md$`)

// Processor derives article attributes from a source path and its content.
// Sources live at <prefix>/<year>/<MM-DD>.<slug>.md.
type Processor struct {
	*content.FileProcessor[*Parser]
}

// NewProcessor creates a processor for a repository-relative path.
func NewProcessor(path string, reader content.Reader) *Processor {
	return &Processor{FileProcessor: content.NewFileProcessor(path, reader, NewParser)}
}

// Date is the publication date encoded in the path.
func (p *Processor) Date(ctx context.Context) (time.Time, error) {
	return content.Guard(p.Collector(), content.ScanPolicy, p.scanDate)(ctx)
}

// URI is the public location of the article, /<prefix>/<year>/<slug>.
func (p *Processor) URI(ctx context.Context) (string, error) {
	return content.Guard(p.Collector(), content.ScanPolicy, p.scanURI)(ctx)
}

// Title returns the parsed title.
func (p *Processor) Title(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Title)(ctx)
}

// Lead returns the parsed lead.
func (p *Processor) Lead(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Lead)(ctx)
}

// Body returns the rendered body.
func (p *Processor) Body(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Body)(ctx)
}

// Language returns the parsed language.
func (p *Processor) Language(ctx context.Context) (string, error) {
	return parsed(p, (*Parser).Language)(ctx)
}

// Tags returns the parsed tags.
func (p *Processor) Tags(ctx context.Context) ([]string, error) {
	return parsed(p, (*Parser).Tags)(ctx)
}

// Process derives every attribute, collecting the errors of each one.
// A file that cannot be loaded is reported once, not once per field.
func (p *Processor) Process(ctx context.Context) (Attributes, []error) {
	var attrs Attributes
	errs, err := p.CollectErrors(func() error {
		var err error
		if attrs.PublishedAt, err = p.Date(ctx); err != nil {
			return err
		}
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
		if attrs.Lead, err = p.Lead(ctx); err != nil {
			return err
		}
		if attrs.Body, err = p.Body(ctx); err != nil {
			return err
		}
		if attrs.Language, err = p.Language(ctx); err != nil {
			return err
		}
		attrs.Tags, err = p.Tags(ctx)
		return err
	})
	if err != nil {
		errs = append(errs, err)
	}
	return attrs, errs
}

// parsed declares a process operation reading one parser field.
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

func (p *Processor) scanDate(ctx context.Context) (time.Time, error) {
	year, month, day, _, err := p.splitPath()
	if err != nil {
		return time.Time{}, err
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %s: invalid date %04d-%02d-%02d", content.ErrPathScanning, p.Path(), year, month, day)
	}
	return date, nil
}

func (p *Processor) scanURI(ctx context.Context) (string, error) {
	_, _, _, slug, err := p.splitPath()
	if err != nil {
		return "", err
	}
	return "/" + path.Join(path.Dir(p.Path()), slug), nil
}

func (p *Processor) splitPath() (year, month, day int, slug string, err error) {
	dir, file := path.Split(p.Path())
	year, convErr := strconv.Atoi(path.Base(dir))
	if convErr != nil || dir == "" || year < 1000 || year > 9999 {
		return 0, 0, 0, "", fmt.Errorf("%w: %s: parent directory is not a year", content.ErrPathScanning, p.Path())
	}
	m := filenamePattern.FindStringSubmatch(file)
	if m == nil {
		return 0, 0, 0, "", fmt.Errorf("%w: %s: file name is not <MM-DD>.<slug>.md", content.ErrPathScanning, p.Path())
	}
	month, _ = strconv.Atoi(m[1])
	day, _ = strconv.Atoi(m[2])
	return year, month, day, m[3], nil
}

package content

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const previewTemplate = `{{range .Sections}}{{heading (printf "The following files have been %s:" .Action)}}
{{range .Lines}}- {{.}}
{{end}}{{end}}{{if .Errors}}{{failure "The following files cannot be processed:"}}
{{range $path, $err := .Errors}}- {{$path}}: {{$err}}
{{end}}{{end}}`

const reportTemplate = `{{range .Sections}}{{heading (printf "The following files have been %s:" .Action)}}
{{range .Lines}}- {{success .}}
{{end}}{{end}}{{if .Errors}}{{failure "The following errors occurred:"}}
{{range $path, $err := .Errors}}- {{$path}}: {{$err}}
{{end}}{{end}}`

type renderSection struct {
	Action string
	Lines  []string
}

type renderData struct {
	Sections []renderSection
	Errors   map[string]string
}

// Renderer produces the plain text preview and report of a run.
// Build one per process and share it.
type Renderer struct {
	preview *template.Template
	report  *template.Template
}

// NewRenderer compiles the templates. With colour enabled, headings and
// outcomes are highlighted with ANSI sequences.
func NewRenderer(colour bool) *Renderer {
	heading := color.New(color.Bold, color.FgCyan)
	success := color.New(color.FgGreen)
	failure := color.New(color.Bold, color.FgRed)
	for _, c := range []*color.Color{heading, success, failure} {
		if colour {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	funcs := template.FuncMap{
		"heading": heading.SprintFunc(),
		"success": success.SprintFunc(),
		"failure": failure.SprintFunc(),
	}
	return &Renderer{
		preview: template.Must(template.New("preview").Funcs(funcs).Parse(previewTemplate)),
		report:  template.Must(template.New("report").Funcs(funcs).Parse(reportTemplate)),
	}
}

// NewRendererFor enables colour when w is a terminal.
func NewRendererFor(w io.Writer) *Renderer {
	f, ok := w.(*os.File)
	return NewRenderer(ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())))
}

// Preview lists the planned paths of each category, renames as "old -> new".
func (r *Renderer) Preview(plan *Plan) (string, error) {
	data := renderData{Errors: errorStrings(plan.Errors, plan.Forbidden)}
	data.addSection(Added, itemPaths(plan.Added))
	data.addSection(Modified, itemPaths(plan.Modified))

	renames := make([]string, 0, len(plan.Renamed))
	for _, item := range plan.Renamed {
		renames = append(renames, item.Source.Path+" -> "+item.Target.Path)
	}
	data.addSection(Renamed, renames)
	data.addSection(Deleted, itemPaths(plan.Deleted))

	return execute(r.preview, data)
}

// Report lists the outcome of each category, then every failed path.
func (r *Renderer) Report(result *RunResult) (string, error) {
	data := renderData{Errors: errorStrings(result.Merged())}
	data.addSection(Added, recordLines(result.Result.Added))
	data.addSection(Modified, recordLines(result.Result.Modified))
	data.addSection(Renamed, recordLines(result.Result.Renamed))
	data.addSection(Deleted, result.Result.Deleted)

	return execute(r.report, data)
}

func (d *renderData) addSection(category Category, lines []string) {
	if len(lines) == 0 {
		return
	}
	d.Sections = append(d.Sections, renderSection{Action: string(category), Lines: lines})
}

func execute(t *template.Template, data renderData) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return sb.String(), nil
}

func itemPaths(items []Item) []string {
	paths := make([]string, len(items))
	for i, item := range items {
		paths[i] = item.Path
	}
	return paths
}

// recordLines renders "path" or "path: record" when the record describes itself.
func recordLines(records map[string]Record) []string {
	paths := make(PathErrors, len(records))
	for path := range records {
		paths[path] = nil
	}

	lines := make([]string, 0, len(records))
	for _, path := range paths.Paths() {
		if s, ok := records[path].(fmt.Stringer); ok {
			lines = append(lines, path+": "+s.String())
			continue
		}
		lines = append(lines, path)
	}
	return lines
}

func errorStrings(sets ...PathErrors) map[string]string {
	out := map[string]string{}
	for _, set := range sets {
		for path, err := range set {
			out[path] = err.Error()
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

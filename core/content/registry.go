package content

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

type registryEntry struct {
	pattern string
	match   *regexp.Regexp
	factory Factory
}

// Registry is an ordered list of (glob pattern, handler factory) pairs.
// The first pattern matching a path wins, so registration order defines precedence.
//
// Supported wildcards:
//   - "**" matches one or more characters, across directory separators
//   - "*" matches one or more characters inside a single path segment
type Registry struct {
	entries []registryEntry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a pattern. It returns an error if the pattern cannot be compiled.
func (r *Registry) Register(pattern string, factory Factory) error {
	re, err := compilePattern(pattern)
	if err != nil {
		return fmt.Errorf("invalid handler pattern %q: %w", pattern, err)
	}
	r.entries = append(r.entries, registryEntry{pattern: pattern, match: re, factory: factory})
	return nil
}

// MustRegister is like Register but panics on an invalid pattern.
func (r *Registry) MustRegister(pattern string, factory Factory) *Registry {
	if err := r.Register(pattern, factory); err != nil {
		panic(err)
	}
	return r
}

// Patterns returns the registered patterns in precedence order.
func (r *Registry) Patterns() []string {
	patterns := make([]string, len(r.entries))
	for i, e := range r.entries {
		patterns[i] = e.pattern
	}
	return patterns
}

// lookup returns the factory of the first pattern matching a relative path.
func (r *Registry) lookup(rel string) (Factory, bool) {
	for _, e := range r.entries {
		if e.match.MatchString(rel) {
			return e.factory, true
		}
	}
	return nil, false
}

// compilePattern translates a glob into an anchored regular expression:
// blog/**/*.md -> ^blog/.+/[^/]+\.md$
func compilePattern(pattern string) (*regexp.Regexp, error) {
	var sb strings.Builder
	sb.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		switch {
		case strings.HasPrefix(pattern[i:], "**"):
			sb.WriteString(".+")
			i++
		case pattern[i] == '*':
			sb.WriteString("[^/]+")
		default:
			sb.WriteString(regexp.QuoteMeta(pattern[i : i+1]))
		}
	}
	sb.WriteString("$")
	return regexp.Compile(sb.String())
}

// Resolver maps paths to handler instances bound to a session.
type Resolver struct {
	registry *Registry
	session  *Session
}

// NewResolver creates a resolver. The session root is the tracked directory.
func NewResolver(registry *Registry, session *Session) *Resolver {
	return &Resolver{registry: registry, session: session}
}

// Relative normalizes p to a slash-separated path relative to the tracked root.
func (r *Resolver) Relative(p string) (string, error) {
	if !filepath.IsAbs(p) {
		rel := filepath.ToSlash(filepath.Clean(p))
		if rel == ".." || strings.HasPrefix(rel, "../") {
			return "", fmt.Errorf("%w: %s", ErrFileNotVersioned, p)
		}
		return rel, nil
	}

	rel, err := filepath.Rel(r.session.Root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrFileNotVersioned, p)
	}
	return filepath.ToSlash(rel), nil
}

// Resolve returns a new handler for p.
func (r *Resolver) Resolve(p string) (Handler, error) {
	rel, err := r.Relative(p)
	if err != nil {
		return nil, err
	}

	factory, ok := r.registry.lookup(rel)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotFound, rel)
	}
	return factory(rel, r.session), nil
}

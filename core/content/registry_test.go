package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePattern(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		match   bool
	}{
		{"*.txt", "a.txt", true},
		{"*.txt", "dir/a.txt", false},
		{"*.txt", "a.txt.bak", false},
		{"*.txt", ".txt", false},
		{"blog/**/*.md", "blog/2019/01-31.first.md", true},
		{"blog/**/*.md", "blog/2019/12/a.md", true},
		{"blog/**/*.md", "blog/a.md", false},
		{"blog/**/*.md", "pages/2019/a.md", false},
		{"blog/**/*.md", "blog/2019/a.markdown", false},
		{"assets/**", "assets/img/logo.png", true},
		{"a+b/*.txt", "a+b/c.txt", true},
		{"a+b/*.txt", "aab/c.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			re, err := compilePattern(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.match, re.MatchString(tt.path))
		})
	}
}

func TestResolver_Resolve(t *testing.T) {
	var calls []string
	registry := NewRegistry().
		MustRegister("dummy/special.txt", fakeFactory("special", &calls, nil)).
		MustRegister("dummy/*.txt", fakeFactory("text", &calls, nil)).
		MustRegister("dummy/*.html", fakeFactory("html", &calls, nil))
	resolver := NewResolver(registry, testSession())

	t.Run("Relative path", func(t *testing.T) {
		h, err := resolver.Resolve("dummy/handler.txt")
		require.NoError(t, err)
		assert.Equal(t, "text", h.Kind())
		assert.Equal(t, "dummy/handler.txt", h.Path())
	})

	t.Run("Absolute path inside root", func(t *testing.T) {
		h, err := resolver.Resolve("/srv/content/dummy/handler.html")
		require.NoError(t, err)
		assert.Equal(t, "html", h.Kind())
		assert.Equal(t, "dummy/handler.html", h.Path())
	})

	t.Run("Absolute path outside root", func(t *testing.T) {
		_, err := resolver.Resolve("/tmp/handler.txt")
		assert.ErrorIs(t, err, ErrFileNotVersioned)
	})

	t.Run("Relative path leaving the root", func(t *testing.T) {
		_, err := resolver.Resolve("../outside/secret.txt")
		assert.ErrorIs(t, err, ErrFileNotVersioned)

		_, err = resolver.Resolve("dummy/../../dummy/handler.txt")
		assert.ErrorIs(t, err, ErrFileNotVersioned)

		h, err := resolver.Resolve("dummy/nested/../handler.txt")
		require.NoError(t, err)
		assert.Equal(t, "dummy/handler.txt", h.Path())
	})

	t.Run("Sibling directory sharing the root prefix", func(t *testing.T) {
		_, err := resolver.Resolve("/srv/content-old/dummy/handler.txt")
		assert.ErrorIs(t, err, ErrFileNotVersioned)
	})

	t.Run("No matching pattern", func(t *testing.T) {
		_, err := resolver.Resolve("missing/handler.txt")
		assert.ErrorIs(t, err, ErrHandlerNotFound)
	})

	t.Run("First registered pattern wins", func(t *testing.T) {
		h, err := resolver.Resolve("dummy/special.txt")
		require.NoError(t, err)
		assert.Equal(t, "special", h.Kind())
	})

	t.Run("Resolving twice gives the same kind", func(t *testing.T) {
		a, err := resolver.Resolve("dummy/again.txt")
		require.NoError(t, err)
		b, err := resolver.Resolve("dummy/again.txt")
		require.NoError(t, err)
		assert.True(t, SameKind(a, b))
		assert.NotSame(t, a, b)
	})

	assert.Empty(t, calls, "resolution must not call handler operations")
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("a/*.md", nil))
	require.NoError(t, r.Register("b/**", nil))
	assert.Equal(t, []string{"a/*.md", "b/**"}, r.Patterns())
}
